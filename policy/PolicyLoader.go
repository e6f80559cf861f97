package policy

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"

	"github.com/convlint/convlint/core"
)

// ParseError indicates a malformed policy document. Loading is fatal on
// ParseError: nothing gets scanned when the document cannot be trusted.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("policy parse error at line %d: %s", e.Line, e.Msg)
}

var areaHeading = regexp.MustCompile(`^\[([A-Za-z0-9_\-]+)\]$`)

// Load parses a policy document into rules, binding each rule to a
// predicate via the embedded bindings table. Area headings are bracketed
// lines; every non-empty, non-comment line underneath is one rule. An area
// with no rules signals a malformed document.
func Load(document string) ([]core.Rule, error) {
	bindings, err := LoadBindings()
	if err != nil {
		return nil, err
	}
	return LoadWithBindings(document, bindings)
}

func LoadWithBindings(document string, bindings []PredicateBinding) ([]core.Rule, error) {
	var rules []core.Rule

	area := ""
	areaLine := 0
	areaRules := 0

	lineNo := 0
	scanner := bufio.NewScanner(strings.NewReader(document))
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if m := areaHeading.FindStringSubmatch(line); m != nil {
			if area != "" && areaRules == 0 {
				return nil, &ParseError{Line: areaLine, Msg: fmt.Sprintf("area '%s' contains no rules", area)}
			}
			area = m[1]
			areaLine = lineNo
			areaRules = 0
			continue
		}

		if area == "" {
			return nil, &ParseError{Line: lineNo, Msg: "rule text before any area heading"}
		}

		text := strings.TrimSpace(strings.TrimPrefix(line, "-"))
		rules = append(rules, core.Rule{
			Area:      area,
			Text:      text,
			Predicate: matchPredicate(text, bindings),
		})
		areaRules++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read policy document: %w", err)
	}

	if area == "" {
		return nil, &ParseError{Line: 1, Msg: "no area headings found"}
	}
	if areaRules == 0 {
		return nil, &ParseError{Line: areaLine, Msg: fmt.Sprintf("area '%s' contains no rules", area)}
	}

	return rules, nil
}
