package quality

import (
	"strings"
	"testing"

	"github.com/gridmend/gridmend/internal/model"
)

func TestAggregateSumsCounts(t *testing.T) {
	a := []model.Issue{{
		Type: model.IssueMissingValues, Sheet: "S", Column: "C",
		Severity: model.SeverityLow, Count: 3, Description: "3 missing",
	}}
	b := []model.Issue{{
		Type: model.IssueMissingValues, Sheet: "S", Column: "C",
		Severity: model.SeverityMedium, Count: 5, Description: "5 missing",
	}}
	out := Aggregate(a, b)
	if len(out) != 1 {
		t.Fatalf("merged issues = %d, want 1", len(out))
	}
	if out[0].Count != 8 {
		t.Errorf("count = %d, want 8", out[0].Count)
	}
	if out[0].Severity != model.SeverityMedium {
		t.Errorf("severity = %v, want the highest contribution", out[0].Severity)
	}
	if !strings.Contains(out[0].Description, "aggregated") {
		t.Errorf("description not annotated: %q", out[0].Description)
	}
	if !strings.HasPrefix(out[0].Description, "3 missing") {
		t.Errorf("first description should win: %q", out[0].Description)
	}
}

func TestAggregateCapsExamples(t *testing.T) {
	mk := func(examples ...string) []model.Issue {
		return []model.Issue{{
			Type: model.IssueWhitespace, Sheet: "S", Column: "C",
			Severity: model.SeverityLow, Count: len(examples), Examples: examples,
		}}
	}
	out := Aggregate(mk("a", "b", "c"), mk("d", "e", "f"), mk("g"))
	if len(out) != 1 {
		t.Fatalf("merged issues = %d, want 1", len(out))
	}
	if len(out[0].Examples) != 5 {
		t.Errorf("examples = %d, want capped at 5", len(out[0].Examples))
	}
}

func TestAggregateKeepsDistinctGroupsApart(t *testing.T) {
	a := []model.Issue{
		{Type: model.IssueMissingValues, Sheet: "S", Column: "C1", Severity: model.SeverityLow, Count: 1},
		{Type: model.IssueDuplicates, Sheet: "S", Severity: model.SeverityHigh, Count: 2},
	}
	b := []model.Issue{
		{Type: model.IssueMissingValues, Sheet: "S", Column: "C2", Severity: model.SeverityLow, Count: 1},
	}
	out := Aggregate(a, b)
	if len(out) != 3 {
		t.Fatalf("merged issues = %d, want 3", len(out))
	}
	if out[0].Type != model.IssueDuplicates {
		t.Errorf("highest severity should sort first, got %v", out[0].Type)
	}
}
