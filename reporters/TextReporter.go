package reporters

import (
	"fmt"
	"io"
	"os"

	"github.com/convlint/convlint/core"
)

// TextReporter writes one line per finding:
//
//	[area] PASS|FAIL file:line — message
//
// Findings are re-sorted before rendering, so building the same report
// twice yields byte-identical output.
type TextReporter struct {
	Out io.Writer
}

func NewTextReporter() TextReporter {
	return TextReporter{Out: os.Stdout}
}

func (t TextReporter) Report(repository core.FindingRepository) error {
	findings, err := CollectFindings(repository)
	if err != nil {
		return err
	}
	core.SortFindings(findings)

	for _, finding := range findings {
		if _, err := fmt.Fprintln(t.Out, FormatFinding(finding)); err != nil {
			return fmt.Errorf("failed to write report line: %w", err)
		}
	}

	return nil
}

// FormatFinding renders a single report line. Findings without a file
// reference (informational ones) omit the location.
func FormatFinding(f core.Finding) string {
	message := f.Message
	if message == "" {
		message = f.RuleText
	}
	if loc := f.Location(); loc != "" {
		return fmt.Sprintf("[%s] %s %s — %s", f.Area, f.Status, loc, message)
	}
	return fmt.Sprintf("[%s] %s — %s", f.Area, f.Status, message)
}

// CollectFindings drains a repository iterator into a single slice.
func CollectFindings(repository core.FindingRepository) ([]core.Finding, error) {
	var findings []core.Finding
	iterator := repository.NewIterator()
	for iterator.HasNext() {
		findingSet, err := iterator.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve next finding set: %w", err)
		}
		findings = append(findings, findingSet.Findings...)
	}
	return findings, nil
}
