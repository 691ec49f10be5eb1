package model

import "fmt"

// Grid is one rectangular block of tabular data: a header row plus data rows
// aligned positionally to it. Every data row has exactly len(Header) cells;
// readers pad short rows.
type Grid struct {
	Header []string
	Rows   [][]Value
}

// ColumnIndex resolves a column name against the header. Duplicate header
// names are tolerated; the first match wins.
func (g *Grid) ColumnIndex(name string) (int, bool) {
	for i, h := range g.Header {
		if h == name {
			return i, true
		}
	}
	return 0, false
}

// Clone deep-copies the grid. Payload materialization hands out grids that
// the manager owns, so callers that need a private copy use this.
func (g *Grid) Clone() *Grid {
	out := &Grid{Header: append([]string(nil), g.Header...)}
	out.Rows = make([][]Value, len(g.Rows))
	for i, r := range g.Rows {
		out.Rows[i] = append([]Value(nil), r...)
	}
	return out
}

// Sheet is a named grid inside a workbook.
type Sheet struct {
	Name string
	Grid
}

// Workbook is an ordered set of uniquely named sheets.
type Workbook struct {
	Sheets []*Sheet
	byName map[string]*Sheet
}

// NewWorkbook returns an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{byName: make(map[string]*Sheet)}
}

// AddSheet appends a sheet, enforcing name uniqueness.
func (w *Workbook) AddSheet(s *Sheet) error {
	if w.byName == nil {
		w.byName = make(map[string]*Sheet)
	}
	if _, ok := w.byName[s.Name]; ok {
		return fmt.Errorf("duplicate sheet name %q", s.Name)
	}
	w.Sheets = append(w.Sheets, s)
	w.byName[s.Name] = s
	return nil
}

// Sheet looks a sheet up by name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	s, ok := w.byName[name]
	return s, ok
}

// PadRow extends row to width cells with empty values.
func PadRow(row []Value, width int) []Value {
	for len(row) < width {
		row = append(row, Empty())
	}
	return row
}
