package evaluator

import (
	"fmt"
	"regexp"

	"github.com/convlint/convlint/core"
)

var (
	testClassRegex  = regexp.MustCompile(`^Test[A-Z][A-Za-z0-9]*$`)
	testMethodRegex = regexp.MustCompile(`^test__[a-z0-9_]+__[a-z0-9_]+$`)
)

func init() {
	Register(Predicate{
		ID:      "test_class_naming",
		Summary: "test classes follow the Test{ClassName} convention",
		Applies: func(facts core.FileFacts) bool { return facts.IsTest && len(facts.Classes) > 0 },
		Eval:    evalTestClassNaming,
	})
	Register(Predicate{
		ID:      "test_method_naming",
		Summary: "test methods follow the test__{method}__{condition} convention",
		Applies: hasTestFunctions,
		Eval:    evalTestMethodNaming,
	})
}

func hasTestFunctions(facts core.FileFacts) bool {
	if !facts.IsTest {
		return false
	}
	for _, fn := range facts.Functions {
		if fn.IsTest {
			return true
		}
	}
	return false
}

func evalTestClassNaming(facts core.FileFacts) []core.Finding {
	var out []core.Finding
	for _, class := range facts.Classes {
		if testClassRegex.MatchString(class.Name) {
			continue
		}
		out = append(out, core.Finding{
			Status:  core.StatusFail,
			File:    facts.Path,
			Line:    class.Line,
			Message: fmt.Sprintf("class '%s' does not follow the Test{ClassName} convention", class.Name),
		})
	}
	return out
}

func evalTestMethodNaming(facts core.FileFacts) []core.Finding {
	var out []core.Finding
	for _, fn := range facts.Functions {
		if !fn.IsTest || testMethodRegex.MatchString(fn.Name) {
			continue
		}
		out = append(out, core.Finding{
			Status:  core.StatusFail,
			File:    facts.Path,
			Line:    fn.Line,
			Message: fmt.Sprintf("test '%s' does not follow the test__{method}__{condition} convention", fn.Name),
		})
	}
	return out
}
