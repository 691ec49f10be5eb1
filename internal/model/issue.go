package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// IssueType identifies a class of data-quality defect.
type IssueType string

const (
	IssueMissingValues      IssueType = "missing_values"
	IssueDuplicates         IssueType = "duplicates"
	IssueTypeMismatch       IssueType = "type_mismatch"
	IssueWhitespace         IssueType = "whitespace"
	IssueMultiValue         IssueType = "multi_value"
	IssueInconsistentFormat IssueType = "inconsistent_format"
)

// Severity ranks issues for presentation. Higher sorts first.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	}
	return "low"
}

// MarshalJSON renders the severity name rather than its rank.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the severity name.
func (s *Severity) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	switch name {
	case "high":
		*s = SeverityHigh
	case "medium":
		*s = SeverityMedium
	case "low":
		*s = SeverityLow
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// Issue is one data-quality finding. Before aggregation there is one instance
// per (type, sheet, column) at chunk granularity; aggregation merges them.
type Issue struct {
	Type        IssueType `json:"type"`
	Severity    Severity  `json:"severity"`
	Sheet       string    `json:"sheet"`
	Column      string    `json:"column,omitempty"`
	Count       int       `json:"count"`
	Description string    `json:"description"`
	Examples    []string  `json:"examples,omitempty"`
}

// GroupKey identifies the aggregation bucket for an issue. Whole-grid issues
// (no column) group under "global".
func (i Issue) GroupKey() string {
	col := i.Column
	if col == "" {
		col = "global"
	}
	return string(i.Type) + "\x1f" + i.Sheet + "\x1f" + col
}

// SortIssues orders issues by severity descending, keeping discovery order
// within a severity band.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		return issues[a].Severity > issues[b].Severity
	})
}
