package evaluator

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/convlint/convlint/core"
)

// Evaluate applies every rule to the extracted facts. Rules without a
// bound predicate produce a single informational finding so coverage
// reporting stays complete. A predicate that panics marks the affected
// rule/file as "check failed" instead of aborting the run. Output is
// sorted for deterministic reports regardless of scan order.
func Evaluate(rules []core.Rule, facts []core.FileFacts) []core.Finding {
	var all []core.Finding

	for _, rule := range rules {
		if rule.Predicate == "" {
			all = append(all, core.Finding{
				Area:     rule.Area,
				RuleText: rule.Text,
				Status:   core.StatusInfo,
				Message:  "not mechanically checkable",
			})
			continue
		}

		pred, ok := Get(rule.Predicate)
		if !ok {
			all = append(all, core.Finding{
				Area:     rule.Area,
				RuleText: rule.Text,
				Status:   core.StatusError,
				Message:  fmt.Sprintf("check failed: no predicate registered for '%s'", rule.Predicate),
			})
			continue
		}

		for _, fileFacts := range facts {
			all = append(all, applyPredicate(pred, rule, fileFacts)...)
		}
	}

	core.SortFindings(all)
	return all
}

// applyPredicate runs one predicate against one file's facts. A relevant
// file with no violations yields a single PASS finding.
func applyPredicate(pred Predicate, rule core.Rule, facts core.FileFacts) (out []core.Finding) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Predicate '%s' failed on '%s': %v", pred.ID, facts.Path, r)
			out = []core.Finding{{
				Area:     rule.Area,
				RuleText: rule.Text,
				Status:   core.StatusError,
				File:     facts.Path,
				RepoName: facts.RepoName,
				Message:  fmt.Sprintf("check failed: %v", r),
			}}
		}
	}()

	if pred.Applies != nil && !pred.Applies(facts) {
		return nil
	}

	violations := pred.Eval(facts)
	if len(violations) == 0 {
		return []core.Finding{{
			Area:     rule.Area,
			RuleText: rule.Text,
			Status:   core.StatusPass,
			File:     facts.Path,
			RepoName: facts.RepoName,
			Message:  pred.Summary,
		}}
	}

	for i := range violations {
		violations[i].Area = rule.Area
		violations[i].RuleText = rule.Text
		if violations[i].Status == "" {
			violations[i].Status = core.StatusFail
		}
		if violations[i].File == "" {
			violations[i].File = facts.Path
		}
		if violations[i].RepoName == "" {
			violations[i].RepoName = facts.RepoName
		}
	}
	return violations
}

// FailureCount reports how many findings should fail the run.
func FailureCount(findings []core.Finding) int {
	count := 0
	for _, finding := range findings {
		if finding.Failed() {
			count++
		}
	}
	return count
}
