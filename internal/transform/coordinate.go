package transform

import (
	"fmt"

	"github.com/gridmend/gridmend/internal/model"
)

// DedupeState is the explicit accumulator for cross-chunk deduplication.
// Thread one instance through every chunk of a sheet in row order; rows whose
// signature was already seen in an earlier chunk (or earlier in the same
// chunk) are dropped, keeping the first occurrence.
type DedupeState struct {
	seen map[string]struct{}
}

// NewDedupeState returns an empty accumulator.
func NewDedupeState() *DedupeState {
	return &DedupeState{seen: make(map[string]struct{})}
}

// Apply removes rows already seen and records the survivors. Returns the
// number of rows dropped from this grid.
func (st *DedupeState) Apply(g *model.Grid) int {
	kept := g.Rows[:0]
	removed := 0
	for _, row := range g.Rows {
		sig := model.RowSignature(row)
		if _, dup := st.seen[sig]; dup {
			removed++
			continue
		}
		st.seen[sig] = struct{}{}
		kept = append(kept, row)
	}
	g.Rows = kept
	return removed
}

// LookupBuilder is the explicit accumulator for lookup-table extraction and
// the normalization variants. One builder serves every chunk of a sheet, so
// synthesized ids come from a single monotonic counter and cannot collide
// across chunks.
type LookupBuilder struct {
	columns   []string
	tableName string
	refColumn string
	ids       map[string]int
	next      int
	table     *model.Sheet
}

// NewLookupBuilder prepares a builder for one ExtractLookup descriptor.
func NewLookupBuilder(t model.ExtractLookup) *LookupBuilder {
	header := append([]string{t.RefColumn}, t.Columns...)
	return &LookupBuilder{
		columns:   t.Columns,
		tableName: t.TableName,
		refColumn: t.RefColumn,
		ids:       make(map[string]int),
		next:      1,
		table:     &model.Sheet{Name: t.TableName, Grid: model.Grid{Header: header}},
	}
}

// Apply replaces the target columns of the grid with a single reference
// column, registering each distinct column-value combination in the lookup
// table. The grouping key is the concatenation of the target column values.
func (lb *LookupBuilder) Apply(g *model.Grid) error {
	idx := make([]int, len(lb.columns))
	for i, name := range lb.columns {
		j, ok := g.ColumnIndex(name)
		if !ok {
			return fmt.Errorf("column %q not present in grid", name)
		}
		idx[i] = j
	}

	drop := make(map[int]bool, len(idx))
	for _, j := range idx {
		drop[j] = true
	}
	insertAt := idx[0]

	// Rewrite header once per grid; every chunk of the sheet shares the same
	// header, so positions are stable across calls.
	newHeader := make([]string, 0, len(g.Header)-len(idx)+1)
	for j, h := range g.Header {
		if j == insertAt {
			newHeader = append(newHeader, lb.refColumn)
		}
		if drop[j] {
			continue
		}
		newHeader = append(newHeader, h)
	}

	newRows := make([][]model.Value, len(g.Rows))
	for r, row := range g.Rows {
		key := lookupKey(row, idx)
		id, ok := lb.ids[key]
		if !ok {
			id = lb.next
			lb.next++
			lb.ids[key] = id
			entry := make([]model.Value, 0, len(idx)+1)
			entry = append(entry, model.Number(float64(id)))
			for _, j := range idx {
				entry = append(entry, row[j])
			}
			lb.table.Rows = append(lb.table.Rows, entry)
		}
		newRow := make([]model.Value, 0, len(newHeader))
		for j := range row {
			if j == insertAt {
				newRow = append(newRow, model.Number(float64(id)))
			}
			if drop[j] {
				continue
			}
			newRow = append(newRow, row[j])
		}
		newRows[r] = newRow
	}
	g.Header = newHeader
	g.Rows = newRows
	return nil
}

// Table returns the synthesized lookup sheet accumulated so far.
func (lb *LookupBuilder) Table() *model.Sheet {
	return lb.table
}

func lookupKey(row []model.Value, idx []int) string {
	key := ""
	for n, j := range idx {
		if n > 0 {
			key += "\x1f"
		}
		key += row[j].Canonical()
	}
	return key
}
