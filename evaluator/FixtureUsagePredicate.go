package evaluator

import (
	"fmt"
	"strings"

	"github.com/convlint/convlint/core"
)

func init() {
	Register(Predicate{
		ID:      "fixture_usage",
		Summary: "tests that create dependencies use fixtures or mocking",
		Applies: hasTestFunctions,
		Eval:    evalFixtureUsage,
	})
}

func evalFixtureUsage(facts core.FileFacts) []core.Finding {
	if facts.UsesMocking || facts.UsesFixtures {
		return nil
	}

	var out []core.Finding
	for _, fn := range facts.Functions {
		if !fn.IsTest || len(fn.Collaborators) == 0 {
			continue
		}
		out = append(out, core.Finding{
			Status: core.StatusFail,
			File:   facts.Path,
			Line:   fn.Line,
			Message: fmt.Sprintf("test '%s' constructs %s directly without a fixture or mock",
				fn.Name, strings.Join(fn.Collaborators, ", ")),
		})
	}
	return out
}
