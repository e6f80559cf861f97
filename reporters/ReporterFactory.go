package reporters

import (
	"fmt"

	"github.com/convlint/convlint/core"
)

func CreateReporter(reportFormat string, artifactPrefix string, baseUrl string) (core.Reporter, error) {
	switch reportFormat {
	case "", "text":
		return NewTextReporter(), nil
	case "json":
		return JsonReporter{ArtifactPrefix: artifactPrefix}, nil
	case "xlsx":
		return XlsxReporter{ArtifactPrefix: artifactPrefix}, nil
	case "http":
		return NewDefaultHttpReporter(baseUrl), nil
	}

	return nil, fmt.Errorf("unknown report format: %s", reportFormat)
}
