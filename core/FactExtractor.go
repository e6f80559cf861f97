package core

// FactExtractor is an interface that defines a generic per-file fact
// extractor. Extractors are selected by Supports and handed the full file
// content.
type FactExtractor interface {
	Supports(filePath string) bool

	Extract(path string, repoName string, content string) (FileFacts, error)
}
