package core

import (
	"fmt"
	"sort"
)

type FindingStatus string

const (
	StatusPass  FindingStatus = "PASS"
	StatusFail  FindingStatus = "FAIL"
	StatusInfo  FindingStatus = "INFO"
	StatusError FindingStatus = "ERROR"
)

// Finding is the result of checking one Rule against one file. Findings are
// never mutated after creation and are discarded once the report is emitted.
type Finding struct {
	Area     string        `json:"area,omitempty"`
	RuleText string        `json:"rule,omitempty"`
	Status   FindingStatus `json:"status,omitempty"`
	File     string        `json:"file,omitempty"`
	Line     int           `json:"line,omitempty"`
	Message  string        `json:"message,omitempty"`
	RepoName string        `json:"repo_name,omitempty"`
}

// Location renders the file reference of a finding, with the line number
// appended when one is known.
func (f Finding) Location() string {
	if f.File == "" {
		return ""
	}
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	}
	return f.File
}

// Failed reports whether this finding should fail the run. Informational
// findings never do; a check that itself failed does.
func (f Finding) Failed() bool {
	return f.Status == StatusFail || f.Status == StatusError
}

// SortFindings orders findings by area, then file, then line, then rule
// text, so that report output is deterministic regardless of scan order.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Area != b.Area {
			return a.Area < b.Area
		}
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.RuleText < b.RuleText
	})
}
