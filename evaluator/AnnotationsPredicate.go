package evaluator

import (
	"fmt"
	"strings"

	"github.com/convlint/convlint/core"
)

func init() {
	Register(Predicate{
		ID:      "type_annotations",
		Summary: "all function and method signatures are annotated",
		Applies: func(facts core.FileFacts) bool { return len(facts.Functions) > 0 },
		Eval:    evalTypeAnnotations,
	})
}

func evalTypeAnnotations(facts core.FileFacts) []core.Finding {
	var out []core.Finding
	for _, fn := range facts.Functions {
		if fn.Annotated {
			continue
		}
		out = append(out, core.Finding{
			Status:  core.StatusFail,
			File:    facts.Path,
			Line:    fn.Line,
			Message: fmt.Sprintf("'%s' is missing annotations: %s", qualifiedName(fn), strings.Join(fn.MissingAnnotations, ", ")),
		})
	}
	return out
}

func qualifiedName(fn core.FunctionFact) string {
	if fn.Class != "" {
		return fn.Class + "." + fn.Name
	}
	return fn.Name
}
