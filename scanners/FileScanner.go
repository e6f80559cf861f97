package scanners

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/gobwas/glob"
	log "github.com/sirupsen/logrus"

	"github.com/convlint/convlint/core"
	"github.com/convlint/convlint/utils"
)

// MaxFileWorkers sets the number of parallel workers that handle files.
var MaxFileWorkers = runtime.NumCPU()

// ScanError records a file that could not be scanned. Scan errors are
// recovered: the failing file is skipped and scanning continues.
type ScanError struct {
	Path string
	Err  error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("failed to scan '%s': %v", e.Path, e.Err)
}

// FileScanner walks a source tree and produces one FileFacts per readable
// source file, plus the scan errors for the unreadable ones.
type FileScanner interface {
	TraverseAndExtract(targetDir string, repoName string) ([]core.FileFacts, []ScanError, error)
}

// FsFileScanner is the filesystem implementation. Files fan out across a
// worker pool; arrival order is not deterministic here, the evaluator sort
// takes care of report determinism.
type FsFileScanner struct {
	Extractors []core.FactExtractor
	Excludes   []glob.Glob
	Progress   utils.ProgressReporter
}

func (fileScanner FsFileScanner) TraverseAndExtract(targetDir string, repoName string) ([]core.FileFacts, []ScanError, error) {
	info, err := os.Stat(targetDir)
	if os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("target directory '%s' does not exist", targetDir)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat '%s': %w", targetDir, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("'%s' is not a directory", targetDir)
	}

	paths, walkErrs := fileScanner.listSupportedFiles(targetDir)

	if fileScanner.Progress != nil {
		fileScanner.Progress.SetTotal(len(paths))
	}

	files := make(chan string, 100)
	extracted := make(chan core.FileFacts, 100)
	scanErrs := make(chan ScanError, 100)

	var wg sync.WaitGroup
	for i := 0; i < MaxFileWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range files {
				fileScanner.extractOne(path, repoName, extracted, scanErrs)
				if fileScanner.Progress != nil {
					fileScanner.Progress.Increment()
				}
			}
		}()
	}

	go func() {
		for _, path := range paths {
			files <- path
		}
		close(files)
	}()

	go func() {
		wg.Wait()
		close(extracted)
		close(scanErrs)
	}()

	var allFacts []core.FileFacts
	var collect sync.WaitGroup
	collect.Add(1)
	go func() {
		defer collect.Done()
		for facts := range extracted {
			allFacts = append(allFacts, facts)
		}
	}()

	scanErrors := walkErrs
	for scanErr := range scanErrs {
		log.Errorf("Scan error: %v", scanErr)
		scanErrors = append(scanErrors, scanErr)
	}
	collect.Wait()

	return allFacts, scanErrors, nil
}

func (fileScanner FsFileScanner) extractOne(path string, repoName string, extracted chan<- core.FileFacts, scanErrs chan<- ScanError) {
	content, err := os.ReadFile(path)
	if err != nil {
		scanErrs <- ScanError{Path: path, Err: err}
		return
	}
	for _, extractor := range fileScanner.Extractors {
		if !extractor.Supports(path) {
			continue
		}
		facts, extractErr := extractor.Extract(path, repoName, string(content))
		if extractErr != nil {
			scanErrs <- ScanError{Path: path, Err: extractErr}
			continue
		}
		extracted <- facts
	}
}

// listSupportedFiles walks the tree once, returning every regular file that
// some extractor supports and no exclude pattern matches. Walk failures are
// recorded as scan errors, not treated as fatal.
func (fileScanner FsFileScanner) listSupportedFiles(targetDir string) ([]string, []ScanError) {
	var paths []string
	var scanErrors []ScanError

	_ = filepath.WalkDir(targetDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			scanErrors = append(scanErrors, ScanError{Path: path, Err: walkErr})
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if fileScanner.excluded(path) {
			return nil
		}
		for _, extractor := range fileScanner.Extractors {
			if extractor.Supports(path) {
				paths = append(paths, path)
				break
			}
		}
		return nil
	})

	return paths, scanErrors
}

func (fileScanner FsFileScanner) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range fileScanner.Excludes {
		if pattern.Match(slashed) {
			return true
		}
	}
	return false
}
