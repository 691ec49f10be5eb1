// Package quality scans grids for data-quality defects. The analyzer is a
// pure function of its input grid, so it runs identically against a whole
// sheet or a single chunk payload.
package quality

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gridmend/gridmend/internal/model"
	"github.com/gridmend/gridmend/internal/transform"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const exampleCap = 3

// Analyze inspects one grid and returns its findings, sorted by severity
// descending with discovery order preserved within a band.
func Analyze(sheet string, g *model.Grid) []model.Issue {
	var issues []model.Issue
	total := len(g.Rows)
	if total == 0 || len(g.Header) == 0 {
		return nil
	}
	for col, name := range g.Header {
		issues = append(issues, analyzeColumn(sheet, name, col, g)...)
	}
	if dup := duplicateRows(sheet, g); dup != nil {
		issues = append(issues, *dup)
	}
	model.SortIssues(issues)
	return issues
}

func analyzeColumn(sheet, name string, col int, g *model.Grid) []model.Issue {
	total := len(g.Rows)
	missing := 0
	kinds := make(map[model.Kind]int)
	var mismatchExamples []string
	whitespace := 0
	var whitespaceExamples []string
	multi := 0
	var multiExamples []string
	badEmail := 0
	var emailExamples []string
	emailColumn := strings.Contains(strings.ToLower(name), "email")

	for _, row := range g.Rows {
		v := row[col]
		if v.IsEmpty() {
			missing++
			continue
		}
		kinds[v.Kind]++
		mismatchExamples = appendKindExample(mismatchExamples, kinds, v)
		if v.Kind == model.KindString {
			if v.Raw != transform.CollapseWhitespace(v.Raw) {
				whitespace++
				whitespaceExamples = capAppend(whitespaceExamples, fmt.Sprintf("%q", v.Raw))
			}
			if transform.IsMultiValue(v.Raw) {
				multi++
				multiExamples = capAppend(multiExamples, v.Raw)
			}
			if emailColumn && !emailPattern.MatchString(strings.TrimSpace(v.Raw)) {
				badEmail++
				emailExamples = capAppend(emailExamples, v.Raw)
			}
		}
	}

	var issues []model.Issue
	if missing > 0 {
		issues = append(issues, model.Issue{
			Type:        model.IssueMissingValues,
			Severity:    missingSeverity(missing, total),
			Sheet:       sheet,
			Column:      name,
			Count:       missing,
			Description: fmt.Sprintf("%d of %d rows have no value in %q", missing, total, name),
		})
	}
	if len(kinds) > 1 {
		issues = append(issues, model.Issue{
			Type:        model.IssueTypeMismatch,
			Severity:    model.SeverityMedium,
			Sheet:       sheet,
			Column:      name,
			Count:       total - missing,
			Description: fmt.Sprintf("column %q mixes %d value types", name, len(kinds)),
			Examples:    mismatchExamples,
		})
	}
	if whitespace > 0 {
		issues = append(issues, model.Issue{
			Type:        model.IssueWhitespace,
			Severity:    model.SeverityLow,
			Sheet:       sheet,
			Column:      name,
			Count:       whitespace,
			Description: fmt.Sprintf("%d values in %q carry stray whitespace", whitespace, name),
			Examples:    whitespaceExamples,
		})
	}
	if multi > 0 {
		issues = append(issues, model.Issue{
			Type:        model.IssueMultiValue,
			Severity:    model.SeverityMedium,
			Sheet:       sheet,
			Column:      name,
			Count:       multi,
			Description: fmt.Sprintf("%d values in %q hold multiple delimited entries", multi, name),
			Examples:    multiExamples,
		})
	}
	if badEmail > 0 {
		issues = append(issues, model.Issue{
			Type:        model.IssueInconsistentFormat,
			Severity:    model.SeverityMedium,
			Sheet:       sheet,
			Column:      name,
			Count:       badEmail,
			Description: fmt.Sprintf("%d values in %q are not valid email addresses", badEmail, name),
			Examples:    emailExamples,
		})
	}
	return issues
}

func missingSeverity(missing, total int) model.Severity {
	ratio := float64(missing) / float64(total)
	switch {
	case ratio > 0.30:
		return model.SeverityHigh
	case ratio > 0.10:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// duplicateRows reports rows structurally equal to an earlier row.
func duplicateRows(sheet string, g *model.Grid) *model.Issue {
	seen := make(map[string]bool, len(g.Rows))
	dups := 0
	var examples []string
	for _, row := range g.Rows {
		sig := model.RowSignature(row)
		if seen[sig] {
			dups++
			examples = capAppend(examples, previewRow(row))
			continue
		}
		seen[sig] = true
	}
	if dups == 0 {
		return nil
	}
	sev := model.SeverityMedium
	if float64(dups)/float64(len(g.Rows)) > 0.10 {
		sev = model.SeverityHigh
	}
	return &model.Issue{
		Type:        model.IssueDuplicates,
		Severity:    sev,
		Sheet:       sheet,
		Count:       dups,
		Description: fmt.Sprintf("%d duplicate rows in sheet %q", dups, sheet),
		Examples:    examples,
	}
}

func previewRow(row []model.Value) string {
	parts := make([]string, 0, len(row))
	for _, v := range row {
		parts = append(parts, v.Raw)
	}
	s := strings.Join(parts, ", ")
	if len(s) > 80 {
		s = s[:77] + "..."
	}
	return s
}

// appendKindExample records one example per distinct kind so a mismatch
// report shows the conflicting shapes, not three of the same.
func appendKindExample(examples []string, kinds map[model.Kind]int, v model.Value) []string {
	if kinds[v.Kind] == 1 {
		return capAppend(examples, v.Raw)
	}
	return examples
}

func capAppend(list []string, s string) []string {
	if len(list) >= exampleCap {
		return list
	}
	return append(list, s)
}
