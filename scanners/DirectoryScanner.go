package scanners

import (
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/convlint/convlint/core"
	"github.com/convlint/convlint/evaluator"
)

// DirectoryScanner runs the whole pipeline against a local source tree:
// extract facts per file, evaluate every rule, store the findings and
// render the report.
type DirectoryScanner struct {
	reporter    core.Reporter
	fileScanner FileScanner
	rules       []core.Rule
	repository  core.FindingRepository
}

func NewDirectoryScanner(reporter core.Reporter,
	fileScanner FileScanner,
	rules []core.Rule,
	repository core.FindingRepository) *DirectoryScanner {
	return &DirectoryScanner{
		reporter:    reporter,
		fileScanner: fileScanner,
		rules:       rules,
		repository:  repository,
	}
}

// Scan checks the tree rooted at directory and returns the number of
// failing findings.
func (ds *DirectoryScanner) Scan(directory string) (int, error) {
	repoName := filepath.Base(directory)

	facts, scanErrors, err := ds.fileScanner.TraverseAndExtract(directory, repoName)
	if err != nil {
		return 0, fmt.Errorf("failed to scan '%s': %w", directory, err)
	}
	log.Infof("Extracted facts from %d files in '%s'", len(facts), directory)

	findings := evaluator.Evaluate(ds.rules, facts)

	// Unreadable files are surfaced in the report rather than silently
	// dropped.
	for _, scanErr := range scanErrors {
		findings = append(findings, core.Finding{
			Area:     "scan",
			Status:   core.StatusError,
			File:     scanErr.Path,
			RepoName: repoName,
			Message:  fmt.Sprintf("unreadable file: %v", scanErr.Err),
		})
	}
	core.SortFindings(findings)

	if err := ds.repository.Store(findings); err != nil {
		return 0, fmt.Errorf("failed to store findings: %w", err)
	}

	if err := ds.reporter.Report(ds.repository); err != nil {
		return 0, fmt.Errorf("failed to generate report: %w", err)
	}

	return evaluator.FailureCount(findings), nil
}
