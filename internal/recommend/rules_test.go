package recommend

import (
	"context"
	"testing"

	"github.com/gridmend/gridmend/internal/model"
)

func TestRuleBasedMapping(t *testing.T) {
	in := Input{
		Issues: []model.Issue{
			{Type: model.IssueMissingValues, Sheet: "S", Column: "Age", Count: 2},
			{Type: model.IssueDuplicates, Sheet: "S", Count: 1},
			{Type: model.IssueWhitespace, Sheet: "S", Column: "Name", Count: 3},
			{Type: model.IssueMultiValue, Sheet: "S", Column: "Tags", Count: 1},
			{Type: model.IssueInconsistentFormat, Sheet: "S", Column: "Email", Count: 1},
			{Type: model.IssueTypeMismatch, Sheet: "S", Column: "Price", Examples: []string{"12", "13.5", "x"}},
		},
		Samples: map[string][][]string{
			"S": {{"Name", "Age"}, {"Ann", "31"}, {"Ben", "22"}},
		},
		ChunkCount: map[string]int{"S": 1},
	}
	recs, err := RuleBased{}.Generate(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 6 {
		t.Fatalf("recs = %d, want 6", len(recs))
	}
	wantTypes := []string{
		"fill_missing", "remove_duplicates", "trim_whitespace",
		"split_multi_value", "standardize_format", "fix_data_types",
	}
	for i, want := range wantTypes {
		if got := recs[i].Transformation.Type(); got != want {
			t.Errorf("rec %d type = %q, want %q", i, got, want)
		}
		if recs[i].ID == "" {
			t.Errorf("rec %d has no id", i)
		}
	}
	// Numeric sample column gets a median fill.
	fill := recs[0].Transformation.(model.FillMissing)
	if fill.Method != model.FillMedian {
		t.Errorf("fill method = %q, want median", fill.Method)
	}
	// Mostly-numeric mismatch examples coerce toward number.
	fix := recs[5].Transformation.(model.FixDataTypes)
	if fix.TargetType != model.TypeNumber {
		t.Errorf("target type = %q, want number", fix.TargetType)
	}
}

func TestRuleBasedGlobalDedupWhenChunked(t *testing.T) {
	in := Input{
		Issues:     []model.Issue{{Type: model.IssueDuplicates, Sheet: "S", Count: 4}},
		ChunkCount: map[string]int{"S": 3},
	}
	recs, err := RuleBased{}.Generate(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if recs[0].Transformation.Type() != "remove_duplicates_global" {
		t.Errorf("type = %q, want remove_duplicates_global", recs[0].Transformation.Type())
	}
	if recs[0].CanProcessInParallel {
		t.Error("coordinated dedup must not be parallel")
	}
}

func TestRuleBasedModeFillForTextColumns(t *testing.T) {
	in := Input{
		Issues: []model.Issue{{Type: model.IssueMissingValues, Sheet: "S", Column: "City", Count: 1}},
		Samples: map[string][][]string{
			"S": {{"City"}, {"Osaka"}, {"Kyoto"}},
		},
	}
	recs, _ := RuleBased{}.Generate(context.Background(), in)
	fill := recs[0].Transformation.(model.FillMissing)
	if fill.Method != model.FillMode {
		t.Errorf("fill method = %q, want mode", fill.Method)
	}
}
