package reporters

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/convlint/convlint/core"
)

type stubFindingRepository struct {
	findings []core.Finding
}

func (s stubFindingRepository) Store(findings []core.Finding) error { return nil }
func (s stubFindingRepository) Clear() error                        { return nil }
func (s stubFindingRepository) Close() error                        { return nil }

func (s stubFindingRepository) NewIterator() core.FindingIterator {
	return &stubFindingIterator{
		sets: []core.FindingSet{{Findings: s.findings}},
	}
}

type stubFindingIterator struct {
	position int
	sets     []core.FindingSet
}

func (s *stubFindingIterator) HasNext() bool {
	return s.position < len(s.sets)
}

func (s *stubFindingIterator) Next() (core.FindingSet, error) {
	set := s.sets[s.position]
	s.position++
	return set, nil
}

func (s *stubFindingIterator) Reset() error {
	s.position = 0
	return nil
}

func TestTextReportLineFormat(t *testing.T) {
	repository := stubFindingRepository{findings: []core.Finding{
		{
			Area:    "style_guide",
			Status:  core.StatusFail,
			File:    "app.py",
			Line:    7,
			Message: "'unannotated' is missing annotations: x, return",
		},
	}}

	var buf bytes.Buffer
	err := TextReporter{Out: &buf}.Report(repository)

	assert.Nil(t, err)
	assert.Equal(t,
		"[style_guide] FAIL app.py:7 — 'unannotated' is missing annotations: x, return\n",
		buf.String())
}

func TestTextReportOmitsLocationForInformationalFindings(t *testing.T) {
	repository := stubFindingRepository{findings: []core.Finding{
		{
			Area:     "style_guide",
			Status:   core.StatusInfo,
			RuleText: "SHOULD use small, focused classes.",
			Message:  "not mechanically checkable",
		},
	}}

	var buf bytes.Buffer
	err := TextReporter{Out: &buf}.Report(repository)

	assert.Nil(t, err)
	assert.Equal(t, "[style_guide] INFO — not mechanically checkable\n", buf.String())
}

func TestTextReportOmitsLineWhenUnknown(t *testing.T) {
	finding := core.Finding{
		Area:    "testing",
		Status:  core.StatusPass,
		File:    "tests/test_widget.py",
		Message: "all good",
	}

	assert.Equal(t, "[testing] PASS tests/test_widget.py — all good", FormatFinding(finding))
}

func TestTextReportIsByteIdentical(t *testing.T) {
	repository := stubFindingRepository{findings: []core.Finding{
		{Area: "testing", Status: core.StatusFail, File: "b.py", Line: 2, Message: "second"},
		{Area: "style_guide", Status: core.StatusPass, File: "a.py", Message: "first"},
	}}

	var first bytes.Buffer
	assert.Nil(t, TextReporter{Out: &first}.Report(repository))

	var second bytes.Buffer
	assert.Nil(t, TextReporter{Out: &second}.Report(repository))

	assert.Equal(t, first.String(), second.String())
	assert.True(t, len(first.String()) > 0)
}

func TestTextReportSortsFindings(t *testing.T) {
	repository := stubFindingRepository{findings: []core.Finding{
		{Area: "testing", Status: core.StatusFail, File: "b.py", Line: 2, Message: "later"},
		{Area: "style_guide", Status: core.StatusPass, File: "a.py", Message: "earlier"},
	}}

	var buf bytes.Buffer
	assert.Nil(t, TextReporter{Out: &buf}.Report(repository))

	output := buf.String()
	assert.True(t, len(output) > 0)
	assert.Less(t,
		bytes.Index(buf.Bytes(), []byte("style_guide")),
		bytes.Index(buf.Bytes(), []byte("testing")))
}

func TestTextReportOfEmptyRepositoryIsEmpty(t *testing.T) {
	repository := stubFindingRepository{findings: []core.Finding{}}

	var buf bytes.Buffer
	assert.Nil(t, TextReporter{Out: &buf}.Report(repository))

	assert.Equal(t, "", buf.String())
}
