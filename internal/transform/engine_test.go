package transform

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

func cellRaw(g *model.Grid, r, c int) string { return g.Rows[r][c].Raw }

func TestFillMissingMedian(t *testing.T) {
	g := grid([]string{"N"}, []string{""}, []string{"2"}, []string{"4"}, []string{"6"}, []string{""})
	err := Apply(g, model.FillMissing{Sheet: "S", Column: "N", Method: model.FillMedian})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []int{0, 4} {
		if g.Rows[r][0].Num != 4 {
			t.Errorf("row %d filled with %v, want 4", r, g.Rows[r][0].Num)
		}
	}
}

func TestFillMissingMethods(t *testing.T) {
	cases := []struct {
		name   string
		method string
		fixed  string
		vals   []string
		want   string
	}{
		{"mean", model.FillMean, "", []string{"", "2", "4"}, "3"},
		{"mode ties to first", model.FillMode, "", []string{"", "b", "a", "b", "a"}, "b"},
		{"fixed", model.FillFixed, "n/a", []string{"", "x"}, "n/a"},
		{"no numerics falls back to zero", model.FillMedian, "", []string{"", "abc"}, "0"},
	}
	for _, c := range cases {
		rows := make([][]string, len(c.vals))
		for i, v := range c.vals {
			rows[i] = []string{v}
		}
		g := grid([]string{"C"}, rows...)
		err := Apply(g, model.FillMissing{Sheet: "S", Column: "C", Method: c.method, Fixed: c.fixed})
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got := cellRaw(g, 0, 0); got != c.want {
			t.Errorf("%s: filled %q, want %q", c.name, got, c.want)
		}
	}
}

func TestRemoveDuplicatesKeepsFirstOccurrence(t *testing.T) {
	g := grid([]string{"V"}, []string{"A"}, []string{"B"}, []string{"A"}, []string{"C"}, []string{"A"})
	if err := Apply(g, model.RemoveDuplicates{Sheet: "S"}); err != nil {
		t.Fatal(err)
	}
	want := []string{"A", "B", "C"}
	if len(g.Rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(g.Rows), len(want))
	}
	for i, w := range want {
		if cellRaw(g, i, 0) != w {
			t.Errorf("row %d = %q, want %q", i, cellRaw(g, i, 0), w)
		}
	}
}

func TestStandardizeFormat(t *testing.T) {
	cases := []struct {
		format string
		in     string
		want   string
	}{
		{model.FormatLowercase, "HeLLo", "hello"},
		{model.FormatUppercase, "hey", "HEY"},
		{model.FormatTitleCase, "jane q doe", "Jane Q Doe"},
		{model.FormatEmail, " Bob@Example.COM ", "bob@example.com"},
		{model.FormatPhone, "555-123-4567", "(555) 123-4567"},
		{model.FormatPhone, "12345", "12345"}, // not 10 digits: unchanged
	}
	for _, c := range cases {
		g := grid([]string{"C"}, []string{c.in})
		err := Apply(g, model.StandardizeFormat{Sheet: "S", Column: "C", Format: c.format})
		if err != nil {
			t.Fatal(err)
		}
		if got := cellRaw(g, 0, 0); got != c.want {
			t.Errorf("%s(%q) = %q, want %q", c.format, c.in, got, c.want)
		}
	}
}

func TestStandardizeFormatSkipsNonStrings(t *testing.T) {
	g := grid([]string{"C"}, []string{"42"})
	if err := Apply(g, model.StandardizeFormat{Sheet: "S", Column: "C", Format: model.FormatUppercase}); err != nil {
		t.Fatal(err)
	}
	if g.Rows[0][0].Kind != model.KindNumber {
		t.Errorf("numeric cell was rewritten: %+v", g.Rows[0][0])
	}
}

func TestFixDataTypesTolerantCoercion(t *testing.T) {
	g := grid([]string{"C"}, []string{"1,000"}, []string{"oops"}, []string{""})
	err := Apply(g, model.FixDataTypes{Sheet: "S", Column: "C", TargetType: model.TypeNumber})
	if err != nil {
		t.Fatal(err)
	}
	if g.Rows[0][0].Kind != model.KindNumber || g.Rows[0][0].Num != 1000 {
		t.Errorf("coercion failed: %+v", g.Rows[0][0])
	}
	// Failed coercion leaves the original value, no error.
	if cellRaw(g, 1, 0) != "oops" {
		t.Errorf("failed coercion should not rewrite the cell, got %q", cellRaw(g, 1, 0))
	}
	if !g.Rows[2][0].IsEmpty() {
		t.Errorf("empty cell should stay empty")
	}
}

func TestTrimWhitespace(t *testing.T) {
	g := grid([]string{"C"}, []string{"  a   b  "})
	if err := Apply(g, model.TrimWhitespace{Sheet: "S", Column: "C"}); err != nil {
		t.Fatal(err)
	}
	if got := cellRaw(g, 0, 0); got != "a b" {
		t.Errorf("trimmed = %q, want %q", got, "a b")
	}
}

func TestSplitMultiValue(t *testing.T) {
	g := grid([]string{"Tags", "Who"}, []string{"red; blue;", "x"}, []string{"plain", "y"})
	if err := Apply(g, model.SplitMultiValue{Sheet: "S", Column: "Tags"}); err != nil {
		t.Fatal(err)
	}
	if len(g.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(g.Rows))
	}
	if cellRaw(g, 0, 0) != "red" || cellRaw(g, 1, 0) != "blue" {
		t.Errorf("split tokens = %q, %q", cellRaw(g, 0, 0), cellRaw(g, 1, 0))
	}
	// The rest of the row duplicates.
	if cellRaw(g, 0, 1) != "x" || cellRaw(g, 1, 1) != "x" {
		t.Errorf("row remainder not duplicated")
	}
	if cellRaw(g, 2, 0) != "plain" {
		t.Errorf("non-matching row should pass through, got %q", cellRaw(g, 2, 0))
	}
}

func TestApplyMissingColumnIsStructural(t *testing.T) {
	g := grid([]string{"A"}, []string{"1"})
	if err := Apply(g, model.TrimWhitespace{Sheet: "S", Column: "Nope"}); err == nil {
		t.Fatal("missing column must escalate")
	}
}

func TestApplyRejectsCoordinatedVariants(t *testing.T) {
	g := grid([]string{"A"}, []string{"1"})
	if err := Apply(g, model.RemoveDuplicatesGlobal{Sheet: "S"}); err == nil {
		t.Fatal("coordinated variant must be rejected by the per-grid path")
	}
}
