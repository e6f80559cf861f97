package extractors

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/convlint/convlint/core"
	"github.com/go-enry/go-enry/v2"
)

// PythonSourceExtractor extracts the structural facts the convention
// predicates need from a Python source file: signature annotations, import
// placement, class and test naming, and fixture/mock usage. It is a
// line-oriented reader, not a full parser; it only recognises the
// constructs the enumerated rules talk about.
type PythonSourceExtractor struct {
}

func NewPythonSourceExtractor() *PythonSourceExtractor {
	return &PythonSourceExtractor{}
}

var (
	defRegex    = regexp.MustCompile(`^(?:async\s+)?def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	classRegex  = regexp.MustCompile(`^class\s+([A-Za-z_][A-Za-z0-9_]*)\s*[(:]`)
	importRegex = regexp.MustCompile(`^(?:import\s+([A-Za-z0-9_.]+)|from\s+([A-Za-z0-9_.]+)\s+import\b)`)
	callRegex   = regexp.MustCompile(`\b([A-Z][A-Za-z0-9_]*)\s*\(`)
)

var mockConstructs = []string{
	"unittest.mock",
	"mock.patch",
	"Mock(",
	"MagicMock(",
	"AsyncMock(",
	"patch(",
	"mocker.",
	"create_autospec",
}

var fixtureConstructs = []string{
	"@pytest.fixture",
	"@fixture",
	"monkeypatch",
}

func (p *PythonSourceExtractor) Supports(filePath string) bool {
	if strings.Contains(filePath, ".git") {
		return false
	}
	return strings.EqualFold(filepath.Ext(filePath), ".py")
}

func (p *PythonSourceExtractor) Extract(path string, repoName string, content string) (core.FileFacts, error) {
	facts := core.FileFacts{
		Path:     path,
		RepoName: repoName,
		Language: enry.GetLanguage(path, []byte(content)),
		IsTest:   isTestFile(path),
	}

	for _, construct := range mockConstructs {
		if strings.Contains(content, construct) {
			facts.UsesMocking = true
			break
		}
	}
	for _, construct := range fixtureConstructs {
		if strings.Contains(content, construct) {
			facts.UsesFixtures = true
			break
		}
	}

	type classEntry struct {
		name   string
		indent int
	}
	var classStack []classEntry

	lines := strings.Split(content, "\n")
	seenTopLevelCode := false
	docstringDelim := ""

	for i := 0; i < len(lines); i++ {
		raw := lines[i]
		trimmed := strings.TrimSpace(raw)

		if docstringDelim != "" {
			if strings.Contains(trimmed, docstringDelim) {
				docstringDelim = ""
			}
			continue
		}

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, `'''`) {
			// Docstrings and bare string statements do not end the import
			// preamble.
			docstringDelim = docstringOpener(trimmed)
			continue
		}

		indent := len(raw) - len(strings.TrimLeft(raw, " \t"))

		for len(classStack) > 0 && classStack[len(classStack)-1].indent >= indent {
			classStack = classStack[:len(classStack)-1]
		}

		if m := importRegex.FindStringSubmatch(trimmed); m != nil {
			module := m[1]
			if module == "" {
				module = m[2]
			}
			facts.Imports = append(facts.Imports, core.ImportFact{
				Module: module,
				Line:   i + 1,
				AtTop:  indent == 0 && !seenTopLevelCode,
			})
			continue
		}

		if m := classRegex.FindStringSubmatch(trimmed); m != nil {
			facts.Classes = append(facts.Classes, core.ClassFact{Name: m[1], Line: i + 1})
			classStack = append(classStack, classEntry{name: m[1], indent: indent})
			if indent == 0 {
				seenTopLevelCode = true
			}
			continue
		}

		if m := defRegex.FindStringSubmatch(trimmed); m != nil {
			name := m[1]
			signature, sigEnd := collectSignature(lines, i)

			fact := core.FunctionFact{
				Name: name,
				Line: i + 1,
			}
			if len(classStack) > 0 && classStack[len(classStack)-1].indent < indent {
				fact.Class = classStack[len(classStack)-1].name
			}
			fact.IsTest = facts.IsTest && strings.HasPrefix(name, "test")
			fact.MissingAnnotations = missingAnnotations(name, signature)
			fact.Annotated = len(fact.MissingAnnotations) == 0
			fact.Collaborators = collectCollaborators(lines, sigEnd+1, indent)

			facts.Functions = append(facts.Functions, fact)

			if indent == 0 {
				seenTopLevelCode = true
			}
			i = sigEnd
			continue
		}

		// Decorators do not end the import preamble on their own.
		if indent == 0 && !strings.HasPrefix(trimmed, "@") {
			seenTopLevelCode = true
		}
	}

	return facts, nil
}

func isTestFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py") {
		return true
	}
	for _, segment := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if segment == "tests" || segment == "test" {
			return true
		}
	}
	return false
}

// docstringOpener reports the delimiter of a triple-quoted string that a
// line opens without closing, or "" when the line is ordinary code.
func docstringOpener(trimmed string) string {
	for _, delim := range []string{`"""`, `'''`} {
		if strings.HasPrefix(trimmed, delim) {
			if strings.Count(trimmed, delim) >= 2 {
				return "" // opened and closed on the same line
			}
			return delim
		}
	}
	return ""
}

// collectSignature joins the lines of a def statement until its parentheses
// balance, returning the joined signature and the index of its last line.
func collectSignature(lines []string, start int) (string, int) {
	var parts []string
	depth := 0
	opened := false
	for j := start; j < len(lines); j++ {
		parts = append(parts, strings.TrimSpace(lines[j]))
		for _, ch := range lines[j] {
			switch ch {
			case '(':
				depth++
				opened = true
			case ')':
				depth--
			}
		}
		if opened && depth <= 0 {
			return strings.Join(parts, " "), j
		}
	}
	return strings.Join(parts, " "), len(lines) - 1
}

// missingAnnotations inspects a joined def signature and returns the names
// of parameters without type annotations, plus "return" when the return
// annotation is absent. __init__ is exempt from the return annotation.
func missingAnnotations(name string, signature string) []string {
	open := strings.Index(signature, "(")
	if open < 0 {
		return nil
	}
	closeIdx := matchingParen(signature, open)
	if closeIdx < 0 {
		return nil
	}

	var missing []string
	for _, param := range splitParams(signature[open+1 : closeIdx]) {
		param = strings.TrimSpace(param)
		if param == "" || param == "*" || param == "/" {
			continue
		}
		param = strings.TrimLeft(param, "*")
		pname := param
		if idx := strings.IndexAny(param, ":="); idx >= 0 {
			pname = strings.TrimSpace(param[:idx])
		}
		if pname == "self" || pname == "cls" {
			continue
		}
		colon := strings.Index(param, ":")
		eq := strings.Index(param, "=")
		annotated := colon >= 0 && (eq < 0 || colon < eq)
		if !annotated {
			missing = append(missing, pname)
		}
	}

	if name != "__init__" && !strings.Contains(signature[closeIdx:], "->") {
		missing = append(missing, "return")
	}

	return missing
}

func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitParams splits a parameter list on commas that sit outside any
// brackets, so annotations like Dict[str, int] stay intact.
func splitParams(s string) []string {
	var params []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				params = append(params, s[start:i])
				start = i + 1
			}
		}
	}
	params = append(params, s[start:])
	return params
}

// collectCollaborators scans a function body for constructor-style calls
// made directly, skipping exception types and the mock library's own
// constructors.
func collectCollaborators(lines []string, start int, defIndent int) []string {
	var collaborators []string
	seen := make(map[string]struct{})

	for j := start; j < len(lines); j++ {
		raw := lines[j]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := len(raw) - len(strings.TrimLeft(raw, " \t"))
		if indent <= defIndent {
			break
		}
		for _, m := range callRegex.FindAllStringSubmatch(trimmed, -1) {
			name := m[1]
			if isExceptionName(name) || isMockName(name) {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			collaborators = append(collaborators, name)
		}
	}

	return collaborators
}

func isExceptionName(name string) bool {
	return strings.HasSuffix(name, "Error") ||
		strings.HasSuffix(name, "Exception") ||
		strings.HasSuffix(name, "Warning")
}

func isMockName(name string) bool {
	switch name {
	case "Mock", "MagicMock", "AsyncMock", "PropertyMock", "NonCallableMock":
		return true
	}
	return false
}
