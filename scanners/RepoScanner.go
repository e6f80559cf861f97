package scanners

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/convlint/convlint/utils"
)

// CloneBaseDir is where repositories get cloned to before checking.
var CloneBaseDir = filepath.Join(os.TempDir(), "convlint")

// RepoScanner clones a Git repository and runs the directory pipeline over
// the working copy.
type RepoScanner struct {
	directoryScanner *DirectoryScanner
}

func NewRepoScanner(directoryScanner *DirectoryScanner) *RepoScanner {
	return &RepoScanner{directoryScanner: directoryScanner}
}

func (repoScanner RepoScanner) Scan(repoURL string) (int, error) {
	if err := os.MkdirAll(CloneBaseDir, os.ModePerm); err != nil {
		return 0, fmt.Errorf("failed to create clone base directory '%s': %w", CloneBaseDir, err)
	}

	repoName, err := utils.ExtractRepoName(repoURL)
	if err != nil {
		return 0, fmt.Errorf("invalid repository URL '%s': %w", repoURL, err)
	}

	repoPath := filepath.Join(CloneBaseDir, utils.SanitizeRepoName(repoName))
	log.Infof("Cloning repository: %s", repoName)
	if err := utils.CloneRepository(repoURL, repoPath); err != nil {
		return 0, fmt.Errorf("failed to clone repository '%s': %w", repoName, err)
	}

	return repoScanner.directoryScanner.Scan(repoPath)
}
