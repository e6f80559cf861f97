package reporters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/convlint/convlint/core"
)

type ReportIdGenerator interface {
	Generate() string
}

type UuidReportIdGenerator struct {
}

func (u UuidReportIdGenerator) Generate() string {
	return uuid.New().String()
}

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type DefaultHttpClient struct {
}

func (d DefaultHttpClient) Do(req *http.Request) (*http.Response, error) {
	return http.DefaultClient.Do(req)
}

func NewDefaultHttpReporter(baseUrl string) HttpReporter {
	return HttpReporter{
		BaseURL:           baseUrl,
		HTTPClient:        DefaultHttpClient{},
		ReportIdGenerator: UuidReportIdGenerator{},
	}
}

// HttpReporter posts each finding batch to a collection endpoint, then
// marks the report as completed.
type HttpReporter struct {
	BaseURL           string
	HTTPClient        HttpClient
	ReportIdGenerator ReportIdGenerator
}

func (h HttpReporter) Report(repository core.FindingRepository) error {
	reportId := h.ReportIdGenerator.Generate()
	log.Infof("Posting findings to %s as report %s", h.BaseURL, reportId)

	iterator := repository.NewIterator()
	for iterator.HasNext() {
		findingSet, err := iterator.Next()
		if err != nil {
			return fmt.Errorf("failed to retrieve next finding set: %w", err)
		}
		if err := h.postFindingSet(findingSet, reportId); err != nil {
			return fmt.Errorf("failed to post finding set: %w", err)
		}
	}

	if err := h.signalCompletion(reportId); err != nil {
		return fmt.Errorf("failed to signal completion: %w", err)
	}

	return nil
}

func (h HttpReporter) postFindingSet(findingSet core.FindingSet, reportId string) error {
	url := fmt.Sprintf("%s/reports/%s/results", h.BaseURL, reportId)

	payload, err := json.Marshal(findingSet)
	if err != nil {
		return fmt.Errorf("failed to marshal finding set: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response status: %d", resp.StatusCode)
	}

	return nil
}

func (h HttpReporter) signalCompletion(reportId string) error {
	url := fmt.Sprintf("%s/report/%s", h.BaseURL, reportId)

	req, err := http.NewRequest(http.MethodPatch, url, bytes.NewReader([]byte(`{
    "status": "completed"
}`)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected response status: %d", resp.StatusCode)
	}

	return nil
}
