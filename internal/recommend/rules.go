package recommend

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gridmend/gridmend/internal/model"
)

// RuleBased is the final fallback tier: a deterministic issue-to-
// transformation table needing no external calls. It never fails.
type RuleBased struct{}

func (RuleBased) Name() string { return "rules" }

// Generate maps each issue to its obvious fix.
func (RuleBased) Generate(_ context.Context, in Input) ([]model.Recommendation, error) {
	var recs []model.Recommendation
	for _, is := range in.Issues {
		tr := ruleFor(is, in)
		if tr == nil {
			continue
		}
		recs = append(recs, model.Recommendation{
			ID:                   uuid.NewString(),
			Title:                titleFor(is),
			Rationale:            is.Description,
			Transformation:       tr,
			CanProcessInParallel: !tr.RequiresCoordination(),
		})
	}
	return recs, nil
}

func ruleFor(is model.Issue, in Input) model.Transformation {
	switch is.Type {
	case model.IssueMissingValues:
		method := model.FillMode
		if columnLooksNumeric(in.Samples[is.Sheet], is.Column) {
			method = model.FillMedian
		}
		return model.FillMissing{Sheet: is.Sheet, Column: is.Column, Method: method}
	case model.IssueDuplicates:
		if in.ChunkCount[is.Sheet] > 1 {
			return model.RemoveDuplicatesGlobal{Sheet: is.Sheet}
		}
		return model.RemoveDuplicates{Sheet: is.Sheet}
	case model.IssueWhitespace:
		return model.TrimWhitespace{Sheet: is.Sheet, Column: is.Column}
	case model.IssueMultiValue:
		return model.SplitMultiValue{Sheet: is.Sheet, Column: is.Column}
	case model.IssueInconsistentFormat:
		return model.StandardizeFormat{Sheet: is.Sheet, Column: is.Column, Format: model.FormatEmail}
	case model.IssueTypeMismatch:
		target := model.TypeString
		if examplesLookNumeric(is.Examples) {
			target = model.TypeNumber
		}
		return model.FixDataTypes{Sheet: is.Sheet, Column: is.Column, TargetType: target}
	}
	return nil
}

func titleFor(is model.Issue) string {
	switch is.Type {
	case model.IssueMissingValues:
		return fmt.Sprintf("Fill %d missing values in %q", is.Count, is.Column)
	case model.IssueDuplicates:
		return fmt.Sprintf("Remove %d duplicate rows from %q", is.Count, is.Sheet)
	case model.IssueWhitespace:
		return fmt.Sprintf("Trim whitespace in %q", is.Column)
	case model.IssueMultiValue:
		return fmt.Sprintf("Split multi-value entries in %q", is.Column)
	case model.IssueInconsistentFormat:
		return fmt.Sprintf("Standardize the format of %q", is.Column)
	case model.IssueTypeMismatch:
		return fmt.Sprintf("Unify value types in %q", is.Column)
	}
	return string(is.Type)
}

// columnLooksNumeric checks the sample preview: a column whose non-empty
// sample values all parse numerically gets a median fill, otherwise mode.
func columnLooksNumeric(sample [][]string, column string) bool {
	if len(sample) < 2 {
		return false
	}
	header := sample[0]
	col := -1
	for i, h := range header {
		if h == column {
			col = i
			break
		}
	}
	if col < 0 {
		return false
	}
	numeric := 0
	for _, row := range sample[1:] {
		if col >= len(row) || row[col] == "" {
			continue
		}
		if _, ok := model.ParseNumericMaybe(row[col]); !ok {
			return false
		}
		numeric++
	}
	return numeric > 0
}

func examplesLookNumeric(examples []string) bool {
	if len(examples) == 0 {
		return false
	}
	numeric := 0
	for _, ex := range examples {
		if _, ok := model.ParseNumericMaybe(ex); ok {
			numeric++
		}
	}
	return numeric*2 >= len(examples)
}
