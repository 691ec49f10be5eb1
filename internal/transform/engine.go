// Package transform applies transformation descriptors to grids in place.
// Mutations are deterministic and not transactional: a structural failure
// partway through a call leaves the grid partially mutated, and the caller
// decides whether to snapshot beforehand.
package transform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gridmend/gridmend/internal/model"
)

// multiValuePattern is the default delimiter class for multi-value cells.
var multiValuePattern = regexp.MustCompile(`[,;|]`)

// Apply mutates one grid according to the descriptor. Coordinated variants
// (global dedupe, lookup extraction) must go through the explicit-accumulator
// passes in this package instead; Apply rejects them.
func Apply(g *model.Grid, tr model.Transformation) error {
	switch t := tr.(type) {
	case model.FillMissing:
		return fillMissing(g, t)
	case model.RemoveDuplicates:
		dedupeLocal(g)
		return nil
	case model.StandardizeFormat:
		return standardizeFormat(g, t)
	case model.FixDataTypes:
		return fixDataTypes(g, t)
	case model.TrimWhitespace:
		return trimWhitespace(g, t)
	case model.SplitMultiValue:
		return splitMultiValue(g, t)
	case model.RemoveDuplicatesGlobal, model.ExtractLookup:
		return fmt.Errorf("transformation %q requires cross-chunk coordination", tr.Type())
	default:
		return fmt.Errorf("unknown transformation type %q", tr.Type())
	}
}

func columnIndex(g *model.Grid, name string) (int, error) {
	idx, ok := g.ColumnIndex(name)
	if !ok {
		return 0, fmt.Errorf("column %q not present in grid", name)
	}
	return idx, nil
}

func fillMissing(g *model.Grid, t model.FillMissing) error {
	col, err := columnIndex(g, t.Column)
	if err != nil {
		return err
	}
	fill, err := fillValue(g, col, t)
	if err != nil {
		return err
	}
	for _, row := range g.Rows {
		if row[col].IsEmpty() {
			row[col] = fill
		}
	}
	return nil
}

// fillValue computes the replacement cell. Median and mean consider only
// numeric-parseable non-empty values; with none present the fill is 0.
// Mode ties break toward the first-encountered value.
func fillValue(g *model.Grid, col int, t model.FillMissing) (model.Value, error) {
	switch t.Method {
	case model.FillFixed:
		return model.Infer(t.Fixed), nil
	case model.FillMedian, model.FillMean:
		var nums []float64
		for _, row := range g.Rows {
			v := row[col]
			if v.IsEmpty() {
				continue
			}
			if f, ok := model.ParseNumericMaybe(v.Raw); ok {
				nums = append(nums, f)
			}
		}
		if len(nums) == 0 {
			return model.Number(0), nil
		}
		if t.Method == model.FillMean {
			sum := 0.0
			for _, f := range nums {
				sum += f
			}
			return model.Number(sum / float64(len(nums))), nil
		}
		return model.Number(median(nums)), nil
	case model.FillMode:
		counts := make(map[string]int)
		first := make(map[string]int)
		order := 0
		bestKey := ""
		for _, row := range g.Rows {
			v := row[col]
			if v.IsEmpty() {
				continue
			}
			key := v.Raw
			counts[key]++
			if _, ok := first[key]; !ok {
				first[key] = order
				order++
			}
			if bestKey == "" || counts[key] > counts[bestKey] ||
				(counts[key] == counts[bestKey] && first[key] < first[bestKey]) {
				bestKey = key
			}
		}
		if bestKey == "" {
			return model.Number(0), nil
		}
		return model.Infer(bestKey), nil
	default:
		return model.Value{}, fmt.Errorf("fill_missing: unknown method %q", t.Method)
	}
}

func median(nums []float64) float64 {
	sorted := append([]float64(nil), nums...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// dedupeLocal keeps the first occurrence of each structurally-equal row.
func dedupeLocal(g *model.Grid) int {
	st := NewDedupeState()
	return st.Apply(g)
}

func standardizeFormat(g *model.Grid, t model.StandardizeFormat) error {
	col, err := columnIndex(g, t.Column)
	if err != nil {
		return err
	}
	for _, row := range g.Rows {
		v := row[col]
		if v.Kind != model.KindString {
			continue
		}
		row[col] = model.Str(formatString(v.Raw, t.Format))
	}
	return nil
}

func formatString(s, format string) string {
	switch format {
	case model.FormatLowercase:
		return strings.ToLower(s)
	case model.FormatUppercase:
		return strings.ToUpper(s)
	case model.FormatTitleCase:
		return titleCase(s)
	case model.FormatEmail:
		return strings.ToLower(strings.TrimSpace(s))
	case model.FormatPhone:
		return formatPhone(s)
	}
	return s
}

func titleCase(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	for i, f := range fields {
		fields[i] = strings.ToUpper(f[:1]) + f[1:]
	}
	return strings.Join(fields, " ")
}

// formatPhone reformats to (XXX) XXX-XXXX when exactly 10 digits remain
// after stripping, otherwise returns the input unchanged.
func formatPhone(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) != 10 {
		return s
	}
	return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
}

func fixDataTypes(g *model.Grid, t model.FixDataTypes) error {
	col, err := columnIndex(g, t.Column)
	if err != nil {
		return err
	}
	for _, row := range g.Rows {
		v := row[col]
		if v.IsEmpty() {
			continue
		}
		switch t.TargetType {
		case model.TypeNumber:
			if f, ok := model.ParseNumericMaybe(v.Raw); ok {
				row[col] = model.Number(f)
			}
		case model.TypeDate:
			if ts, ok := model.ParseTimeMaybe(strings.TrimSpace(v.Raw)); ok {
				row[col] = model.Value{Kind: model.KindDate, Raw: ts.Format("2006-01-02"), Time: ts}
			}
		case model.TypeString:
			row[col] = model.Str(v.Raw)
		}
	}
	return nil
}

func trimWhitespace(g *model.Grid, t model.TrimWhitespace) error {
	col, err := columnIndex(g, t.Column)
	if err != nil {
		return err
	}
	for _, row := range g.Rows {
		v := row[col]
		if v.Kind != model.KindString {
			continue
		}
		row[col] = model.Str(CollapseWhitespace(v.Raw))
	}
	return nil
}

// CollapseWhitespace trims and squeezes internal whitespace runs to one space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func splitMultiValue(g *model.Grid, t model.SplitMultiValue) error {
	col, err := columnIndex(g, t.Column)
	if err != nil {
		return err
	}
	pattern := multiValuePattern
	if t.Delimiter != "" {
		p, err := regexp.Compile(regexp.QuoteMeta(t.Delimiter))
		if err != nil {
			return fmt.Errorf("split_multi_value: bad delimiter: %w", err)
		}
		pattern = p
	}
	out := make([][]model.Value, 0, len(g.Rows))
	for _, row := range g.Rows {
		v := row[col]
		tokens := SplitTokens(v.Raw, pattern)
		if v.Kind != model.KindString || len(tokens) < 2 {
			out = append(out, row)
			continue
		}
		for _, tok := range tokens {
			dup := append([]model.Value(nil), row...)
			dup[col] = model.Str(tok)
			out = append(out, dup)
		}
	}
	g.Rows = out
	return nil
}

// SplitTokens splits on the pattern, trims tokens, and drops empty ones.
func SplitTokens(s string, pattern *regexp.Regexp) []string {
	parts := pattern.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsMultiValue reports whether a cell matches the default multi-value shape.
func IsMultiValue(s string) bool {
	return len(SplitTokens(s, multiValuePattern)) > 1
}
