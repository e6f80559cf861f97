package extractors

import (
	"github.com/convlint/convlint/core"
)

// InitializeExtractors creates and returns a slice of FactExtractor implementations.
func InitializeExtractors() []core.FactExtractor {
	var extractors []core.FactExtractor

	extractors = append(extractors, NewPythonSourceExtractor())

	return extractors
}
