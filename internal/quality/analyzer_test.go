package quality

import (
	"testing"

	"github.com/gridmend/gridmend/internal/model"
)

func grid(header []string, rows ...[]string) *model.Grid {
	g := &model.Grid{Header: header}
	for _, r := range rows {
		row := make([]model.Value, 0, len(header))
		for _, cell := range r {
			row = append(row, model.Infer(cell))
		}
		g.Rows = append(g.Rows, model.PadRow(row, len(header)))
	}
	return g
}

func findIssue(issues []model.Issue, typ model.IssueType, column string) (model.Issue, bool) {
	for _, is := range issues {
		if is.Type == typ && is.Column == column {
			return is, true
		}
	}
	return model.Issue{}, false
}

func TestAnalyzeSmallSheet(t *testing.T) {
	// 10 rows, 3 columns, 2 missing Age cells, 1 exact duplicate row.
	g := grid([]string{"Name", "Age", "Email"},
		[]string{"Ann", "31", "ann@example.com"},
		[]string{"Ben", "", "ben@example.com"},
		[]string{"Cid", "22", "cid@example.com"},
		[]string{"Dot", "45", "dot@example.com"},
		[]string{"Eve", "", "eve@example.com"},
		[]string{"Fay", "29", "fay@example.com"},
		[]string{"Gus", "33", "gus@example.com"},
		[]string{"Hal", "51", "hal@example.com"},
		[]string{"Ann", "31", "ann@example.com"},
		[]string{"Ivy", "27", "ivy@example.com"},
	)
	issues := Analyze("people", g)

	miss, ok := findIssue(issues, model.IssueMissingValues, "Age")
	if !ok {
		t.Fatal("missing_values issue not reported")
	}
	if miss.Count != 2 {
		t.Errorf("missing count = %d, want 2", miss.Count)
	}
	if miss.Severity != model.SeverityMedium {
		t.Errorf("missing severity = %v, want medium (20%%)", miss.Severity)
	}

	dup, ok := findIssue(issues, model.IssueDuplicates, "")
	if !ok {
		t.Fatal("duplicates issue not reported")
	}
	if dup.Count != 1 {
		t.Errorf("duplicate count = %d, want 1", dup.Count)
	}
	if dup.Severity != model.SeverityMedium {
		t.Errorf("duplicate severity = %v, want medium (10%% not exceeded)", dup.Severity)
	}
}

func TestMissingSeverityThresholds(t *testing.T) {
	cases := []struct {
		name    string
		missing int
		total   int
		want    model.Severity
	}{
		{"over 30 percent", 4, 10, model.SeverityHigh},
		{"over 10 percent", 2, 10, model.SeverityMedium},
		{"at most 10 percent", 1, 10, model.SeverityLow},
	}
	for _, c := range cases {
		if got := missingSeverity(c.missing, c.total); got != c.want {
			t.Errorf("%s: severity = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestTypeMismatchExamples(t *testing.T) {
	g := grid([]string{"Mixed"},
		[]string{"12"}, []string{"hello"}, []string{"true"}, []string{"13"})
	issues := Analyze("s", g)
	mm, ok := findIssue(issues, model.IssueTypeMismatch, "Mixed")
	if !ok {
		t.Fatal("type_mismatch not reported")
	}
	if len(mm.Examples) == 0 || len(mm.Examples) > 3 {
		t.Errorf("examples = %v, want 1..3 entries", mm.Examples)
	}
	if mm.Severity != model.SeverityMedium {
		t.Errorf("severity = %v, want medium", mm.Severity)
	}
}

func TestWhitespaceAndMultiValue(t *testing.T) {
	g := grid([]string{"Tags"},
		[]string{" padded "},
		[]string{"a, b, c"},
		[]string{"clean"})
	issues := Analyze("s", g)
	if _, ok := findIssue(issues, model.IssueWhitespace, "Tags"); !ok {
		t.Error("whitespace defect not reported")
	}
	mv, ok := findIssue(issues, model.IssueMultiValue, "Tags")
	if !ok {
		t.Fatal("multi_value not reported")
	}
	if mv.Count != 1 {
		t.Errorf("multi_value count = %d, want 1", mv.Count)
	}
}

func TestEmailFormatCheckIsColumnNameTriggered(t *testing.T) {
	g := grid([]string{"Contact Email", "Note"},
		[]string{"not-an-email", "not-an-email"},
		[]string{"ok@example.com", "whatever"})
	issues := Analyze("s", g)
	if _, ok := findIssue(issues, model.IssueInconsistentFormat, "Contact Email"); !ok {
		t.Error("bad email in an email column not reported")
	}
	if _, ok := findIssue(issues, model.IssueInconsistentFormat, "Note"); ok {
		t.Error("non-email column must not get the email check")
	}
}

func TestIssuesSortedBySeverity(t *testing.T) {
	g := grid([]string{"A", "B"},
		[]string{"", " x "},
		[]string{"", "y"},
		[]string{"", "z"},
	)
	issues := Analyze("s", g)
	for i := 1; i < len(issues); i++ {
		if issues[i].Severity > issues[i-1].Severity {
			t.Fatalf("issues not sorted by severity: %v before %v", issues[i-1].Severity, issues[i].Severity)
		}
	}
}
