package evaluator

import (
	"fmt"

	"github.com/convlint/convlint/core"
)

func init() {
	Register(Predicate{
		ID:      "imports_at_top",
		Summary: "all imports sit at the top of the file",
		Applies: func(facts core.FileFacts) bool { return len(facts.Imports) > 0 },
		Eval:    evalImportsAtTop,
	})
}

func evalImportsAtTop(facts core.FileFacts) []core.Finding {
	var out []core.Finding
	for _, imp := range facts.Imports {
		if imp.AtTop {
			continue
		}
		out = append(out, core.Finding{
			Status:  core.StatusFail,
			File:    facts.Path,
			Line:    imp.Line,
			Message: fmt.Sprintf("import of '%s' is not at the top of the file", imp.Module),
		})
	}
	return out
}
