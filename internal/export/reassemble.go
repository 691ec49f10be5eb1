// Package export rebuilds one output document from processed chunks and
// renders the applied/skipped action summary.
package export

import (
	"fmt"
	"sort"

	"github.com/gridmend/gridmend/internal/chunk"
	"github.com/gridmend/gridmend/internal/model"
)

// Reassemble walks every chunk of every sheet in start-row order and builds
// a single workbook, headers taken from chunk metadata and synthesized
// lookup sheets appended after the source sheets. Chunks whose payloads were
// evicted re-materialize from the source; chunking never reorders rows, so a
// reassembly with no transformations applied reproduces the original
// document row for row.
func Reassemble(source *model.Workbook, mgr *chunk.Manager) (*model.Workbook, error) {
	bySheet := make(map[string][]*chunk.Meta)
	for _, meta := range mgr.Metas() {
		bySheet[meta.Sheet] = append(bySheet[meta.Sheet], meta)
	}

	out := model.NewWorkbook()
	for _, src := range source.Sheets {
		metas := bySheet[src.Name]
		sheet := &model.Sheet{Name: src.Name}
		if len(metas) == 0 {
			// Unpartitioned sheet passes through as-is.
			sheet.Grid = *src.Grid.Clone()
			if err := out.AddSheet(sheet); err != nil {
				return nil, err
			}
			continue
		}
		sort.SliceStable(metas, func(i, j int) bool { return metas[i].StartRow < metas[j].StartRow })
		sheet.Header = append([]string(nil), metas[0].Header...)
		for _, meta := range metas {
			g, err := mgr.Materialize(meta.ID)
			if err != nil {
				return nil, fmt.Errorf("reassemble %q: %w", src.Name, err)
			}
			sheet.Rows = append(sheet.Rows, g.Rows...)
		}
		if err := out.AddSheet(sheet); err != nil {
			return nil, err
		}
	}
	for _, aux := range mgr.AuxSheets() {
		if err := out.AddSheet(aux); err != nil {
			return nil, fmt.Errorf("append lookup sheet: %w", err)
		}
	}
	return out, nil
}
