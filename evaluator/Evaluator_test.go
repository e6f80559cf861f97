package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/convlint/convlint/core"
)

func annotationRule() core.Rule {
	return core.Rule{
		Area:      "style_guide",
		Text:      "MUST use type annotations.",
		Predicate: "type_annotations",
	}
}

func unannotatedFileFacts(path string) core.FileFacts {
	return core.FileFacts{
		Path: path,
		Functions: []core.FunctionFact{
			{Name: "unannotated", Line: 3, Annotated: false, MissingAnnotations: []string{"x", "return"}},
		},
	}
}

func TestEvaluateProducesOneFailPerViolation(t *testing.T) {
	findings := Evaluate([]core.Rule{annotationRule()}, []core.FileFacts{unannotatedFileFacts("/repo/app.py")})

	assert.Len(t, findings, 1)
	assert.Equal(t, core.StatusFail, findings[0].Status)
	assert.Equal(t, "/repo/app.py", findings[0].File)
	assert.Equal(t, 3, findings[0].Line)
	assert.Equal(t, "style_guide", findings[0].Area)
}

func TestEvaluateProducesPassForCompliantFile(t *testing.T) {
	facts := core.FileFacts{
		Path: "/repo/app.py",
		Functions: []core.FunctionFact{
			{Name: "annotated", Line: 3, Annotated: true},
		},
	}

	findings := Evaluate([]core.Rule{annotationRule()}, []core.FileFacts{facts})

	assert.Len(t, findings, 1)
	assert.Equal(t, core.StatusPass, findings[0].Status)
}

func TestEvaluateSkipsIrrelevantFiles(t *testing.T) {
	facts := core.FileFacts{Path: "/repo/empty.py"}

	findings := Evaluate([]core.Rule{annotationRule()}, []core.FileFacts{facts})

	assert.Empty(t, findings)
}

func TestEvaluateReportsUnboundRulesAsInfo(t *testing.T) {
	rule := core.Rule{Area: "style_guide", Text: "SHOULD use small, focused classes."}

	findings := Evaluate([]core.Rule{rule}, []core.FileFacts{unannotatedFileFacts("/repo/app.py")})

	assert.Len(t, findings, 1)
	assert.Equal(t, core.StatusInfo, findings[0].Status)
	assert.Equal(t, "not mechanically checkable", findings[0].Message)
}

func TestEvaluateReportsUnknownPredicateAsError(t *testing.T) {
	rule := core.Rule{Area: "style_guide", Text: "MUST do something.", Predicate: "no_such_predicate"}

	findings := Evaluate([]core.Rule{rule}, nil)

	assert.Len(t, findings, 1)
	assert.Equal(t, core.StatusError, findings[0].Status)
	assert.Contains(t, findings[0].Message, "check failed")
}

func TestEvaluateRecoversFromPanickingPredicate(t *testing.T) {
	Register(Predicate{
		ID:      "panicking_check",
		Summary: "always panics",
		Applies: func(core.FileFacts) bool { return true },
		Eval:    func(core.FileFacts) []core.Finding { panic("boom") },
	})
	rule := core.Rule{Area: "style_guide", Text: "MUST not crash the run.", Predicate: "panicking_check"}

	findings := Evaluate([]core.Rule{rule}, []core.FileFacts{{Path: "/repo/app.py"}})

	assert.Len(t, findings, 1)
	assert.Equal(t, core.StatusError, findings[0].Status)
	assert.Contains(t, findings[0].Message, "boom")
}

func TestEvaluateIsDeterministic(t *testing.T) {
	rules := []core.Rule{
		annotationRule(),
		{Area: "testing", Text: "MUST name test methods test__{method}__{condition}.", Predicate: "test_method_naming"},
	}
	facts := []core.FileFacts{
		unannotatedFileFacts("/repo/b.py"),
		unannotatedFileFacts("/repo/a.py"),
	}

	first := Evaluate(rules, facts)
	second := Evaluate(rules, facts)

	assert.Equal(t, first, second)
}

func TestEvaluateSortsByAreaFileAndLine(t *testing.T) {
	rules := []core.Rule{annotationRule()}
	facts := []core.FileFacts{
		unannotatedFileFacts("/repo/b.py"),
		unannotatedFileFacts("/repo/a.py"),
	}

	findings := Evaluate(rules, facts)

	assert.Len(t, findings, 2)
	assert.Equal(t, "/repo/a.py", findings[0].File)
	assert.Equal(t, "/repo/b.py", findings[1].File)
}

func TestFailureCountIgnoresPassAndInfo(t *testing.T) {
	findings := []core.Finding{
		{Status: core.StatusPass},
		{Status: core.StatusInfo},
		{Status: core.StatusFail},
		{Status: core.StatusError},
	}

	assert.Equal(t, 2, FailureCount(findings))
}
