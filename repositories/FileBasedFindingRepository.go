package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	log "github.com/sirupsen/logrus"

	"github.com/convlint/convlint/core"
	"github.com/convlint/convlint/utils"
)

// FileBasedFindingRepository stores each batch of findings as one JSON file
// in a spool directory.
type FileBasedFindingRepository struct {
	path  string
	files []string
}

func NewFileBasedFindingRepository() core.FindingRepository {
	return &FileBasedFindingRepository{
		path:  os.TempDir(),
		files: make([]string, 0),
	}
}

func (r *FileBasedFindingRepository) Store(findings []core.Finding) error {
	jsonData, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return err
	}

	filePath := path.Join(r.path, utils.GenerateRandomFilename("json"))
	r.files = append(r.files, filePath)
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return err
	}
	return nil
}

func (r *FileBasedFindingRepository) Clear() error {
	for _, filePath := range r.files {
		if err := os.Remove(filePath); err != nil {
			return err
		}
	}
	r.files = nil
	return nil
}

func (r *FileBasedFindingRepository) Close() error {
	return nil
}

// NewIterator creates a new FileBasedFindingIterator for the repository.
func (r *FileBasedFindingRepository) NewIterator() core.FindingIterator {
	return &FileBasedFindingIterator{
		repository:  r,
		currentFile: 0,
		findingSet:  core.FindingSet{Findings: nil},
	}
}

// FileBasedFindingIterator yields one FindingSet per stored file.
type FileBasedFindingIterator struct {
	repository  *FileBasedFindingRepository
	currentFile int
	findingSet  core.FindingSet
}

// HasNext advances to the next readable file, skipping corrupt ones.
func (it *FileBasedFindingIterator) HasNext() bool {
	for it.currentFile < len(it.repository.files) {
		if err := it.loadNextFile(); err != nil {
			log.Errorf("Error loading file %s: %v", it.repository.files[it.currentFile], err)
			it.currentFile++
			continue
		}
		return true
	}
	return false
}

func (it *FileBasedFindingIterator) Next() (core.FindingSet, error) {
	if it.findingSet.Findings == nil {
		return core.FindingSet{}, fmt.Errorf("no more finding sets available")
	}
	return it.findingSet, nil
}

func (it *FileBasedFindingIterator) Reset() error {
	it.currentFile = 0
	it.findingSet = core.FindingSet{}
	return nil
}

func (it *FileBasedFindingIterator) loadNextFile() error {
	if it.currentFile >= len(it.repository.files) {
		return fmt.Errorf("no more files to load")
	}

	filePath := it.repository.files[it.currentFile]
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	var findings []core.Finding
	if err := json.Unmarshal(data, &findings); err != nil {
		return fmt.Errorf("failed to parse JSON in file %s: %w", filePath, err)
	}
	if findings == nil {
		findings = []core.Finding{}
	}

	it.findingSet = core.FindingSet{Findings: findings}
	it.currentFile++

	return nil
}
