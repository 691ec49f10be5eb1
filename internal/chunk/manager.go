// Package chunk partitions sheets into row-range chunks, materializes and
// evicts chunk payloads, and routes transformations to the chunks they
// target. Chunks are disjoint row ranges, so concurrent operations against
// different chunks need no per-chunk locking; one mutex guards the shared
// payload table and audit log.
package chunk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gridmend/gridmend/internal/model"
	"github.com/gridmend/gridmend/internal/transform"
)

// DefaultBatchSize is how many chunks a parallel batch starts concurrently.
const DefaultBatchSize = 4

// Meta identifies a contiguous data-row range of one sheet. It carries its
// own header copy so a chunk is self-describing, and survives payload
// eviction untouched.
type Meta struct {
	ID        string
	Sheet     string
	StartRow  int // 1-based data row index, header excluded
	EndRow    int // inclusive
	Header    []string
	Processed bool
}

// LogEntry is one record of the append-only transformation audit log. The
// log records what was attempted; it is not a rollback journal.
type LogEntry struct {
	Time    time.Time
	ChunkID string
	Type    string
	Status  string // "applied" or "failed"
	Detail  string
}

// Progress is a point-in-time view of materialization across all chunks.
type Progress struct {
	TotalChunks     int     `json:"total_chunks"`
	ProcessedChunks int     `json:"processed_chunks"`
	Percentage      float64 `json:"percentage"`
}

// Manager owns chunk metadata, the chunk-id to payload table, and the audit
// log for one workbook.
type Manager struct {
	source    *model.Workbook
	batchSize int

	mu       sync.Mutex
	metas    []*Meta
	byID     map[string]*Meta
	payloads map[string]*model.Grid
	log      []LogEntry
	aux      []*model.Sheet
	seq      int
}

// NewManager wraps a source workbook. batchSize <= 0 selects the default.
func NewManager(source *model.Workbook, batchSize int) *Manager {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Manager{
		source:    source,
		batchSize: batchSize,
		byID:      make(map[string]*Meta),
		payloads:  make(map[string]*model.Grid),
	}
}

// Partition splits a sheet's data rows into ceil(rows/chunkSize) contiguous
// non-overlapping ranges in original row order; the last chunk may be
// smaller. Re-partitioning a sheet discards its previous chunk ids, so stale
// ids fail with ErrChunkNotFound afterwards.
func (m *Manager) Partition(sheetName string, chunkSize int) ([]*Meta, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", model.ErrInvalidInput, chunkSize)
	}
	sheet, ok := m.source.Sheet(sheetName)
	if !ok {
		return nil, fmt.Errorf("%w: sheet %q", model.ErrInvalidInput, sheetName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropSheetLocked(sheetName)

	total := len(sheet.Rows)
	var created []*Meta
	for start := 1; start <= total; start += chunkSize {
		end := start + chunkSize - 1
		if end > total {
			end = total
		}
		m.seq++
		meta := &Meta{
			ID:       fmt.Sprintf("%s#%d", sheetName, m.seq),
			Sheet:    sheetName,
			StartRow: start,
			EndRow:   end,
			Header:   append([]string(nil), sheet.Header...),
		}
		m.metas = append(m.metas, meta)
		m.byID[meta.ID] = meta
		created = append(created, meta)
	}
	return created, nil
}

// PartitionAll partitions every sheet of the workbook.
func (m *Manager) PartitionAll(chunkSize int) error {
	for _, sheet := range m.source.Sheets {
		if _, err := m.Partition(sheet.Name, chunkSize); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) dropSheetLocked(sheetName string) {
	kept := m.metas[:0]
	for _, meta := range m.metas {
		if meta.Sheet == sheetName {
			delete(m.byID, meta.ID)
			delete(m.payloads, meta.ID)
			continue
		}
		kept = append(kept, meta)
	}
	m.metas = kept
}

// Materialize loads the chunk's rows (plus header) into its payload and marks
// the chunk processed. Idempotent: a second call without an intervening
// Evict returns the same payload without re-reading the source.
func (m *Manager) Materialize(id string) (*model.Grid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.materializeLocked(id)
}

func (m *Manager) materializeLocked(id string) (*model.Grid, error) {
	if g, ok := m.payloads[id]; ok {
		return g, nil
	}
	meta, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrChunkNotFound, id)
	}
	sheet, ok := m.source.Sheet(meta.Sheet)
	if !ok {
		return nil, fmt.Errorf("%w: sheet %q", model.ErrSourceUnavailable, meta.Sheet)
	}
	g := &model.Grid{Header: append([]string(nil), meta.Header...)}
	for r := meta.StartRow; r <= meta.EndRow && r <= len(sheet.Rows); r++ {
		g.Rows = append(g.Rows, append([]model.Value(nil), sheet.Rows[r-1]...))
	}
	m.payloads[id] = g
	meta.Processed = true
	return g, nil
}

// Evict drops the payload entry only; metadata and the processed flag stay.
// No-op for unknown or unmaterialized chunks.
func (m *Manager) Evict(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payloads, id)
}

// Route returns, in chunk creation order, every chunk of the transformation's
// sheet whose header contains the target column (column-scoped
// transformations only).
func (m *Manager) Route(tr model.Transformation) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, meta := range m.metas {
		if meta.Sheet != tr.TargetSheet() {
			continue
		}
		if col := tr.TargetColumn(); col != "" && !contains(meta.Header, col) {
			continue
		}
		ids = append(ids, meta.ID)
	}
	return ids
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ApplyToChunk materializes the chunk, mutates its payload in place, and
// appends the attempt to the audit log.
func (m *Manager) ApplyToChunk(id string, tr model.Transformation) error {
	g, err := m.Materialize(id)
	if err != nil {
		return err
	}
	err = transform.Apply(g, tr)
	m.logAttempt(id, tr.Type(), err)
	if err != nil {
		return &TransformError{ChunkID: id, Type: tr.Type(), Err: err}
	}
	return nil
}

func (m *Manager) logAttempt(id, typ string, err error) {
	entry := LogEntry{Time: time.Now(), ChunkID: id, Type: typ, Status: "applied"}
	if err != nil {
		entry.Status = "failed"
		entry.Detail = err.Error()
	}
	m.mu.Lock()
	m.log = append(m.log, entry)
	m.mu.Unlock()
}

// BatchApply applies one transformation to a set of chunks. With parallel
// set, chunks run in fixed-size batches: all chunks of a batch start
// concurrently and the next batch waits for the whole batch. A failure stops
// further batches; chunks already mutated are not rolled back. Coordinated
// transformations are rejected here and must go through ApplyCoordinated.
func (m *Manager) BatchApply(ctx context.Context, ids []string, tr model.Transformation, parallel bool) error {
	if tr.RequiresCoordination() {
		return fmt.Errorf("transformation %q requires coordination; use ApplyCoordinated", tr.Type())
	}
	if !parallel {
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := m.ApplyToChunk(id, tr); err != nil {
				return err
			}
		}
		return nil
	}
	for start := 0; start < len(ids); start += m.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + m.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]
		errs := make([]error, len(batch))
		var wg sync.WaitGroup
		for i, id := range batch {
			wg.Add(1)
			go func(i int, id string) {
				defer wg.Done()
				errs[i] = m.ApplyToChunk(id, tr)
			}(i, id)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ApplyCoordinated runs a cross-chunk transformation as one sequential pass
// over every routed chunk, threading the accumulator chunk to chunk. All
// target chunks are materialized before the pass starts. Lookup variants
// return the synthesized auxiliary sheet, which the manager also retains for
// reassembly.
func (m *Manager) ApplyCoordinated(tr model.Transformation) (*model.Sheet, error) {
	if !tr.RequiresCoordination() {
		return nil, fmt.Errorf("transformation %q is not coordinated; use BatchApply", tr.Type())
	}
	ids := m.Route(tr)
	grids := make([]*model.Grid, len(ids))
	for i, id := range ids {
		g, err := m.Materialize(id)
		if err != nil {
			return nil, err
		}
		grids[i] = g
	}

	switch t := tr.(type) {
	case model.RemoveDuplicatesGlobal:
		st := transform.NewDedupeState()
		for i, g := range grids {
			st.Apply(g)
			m.logAttempt(ids[i], tr.Type(), nil)
		}
		return nil, nil
	case model.ExtractLookup:
		lb := transform.NewLookupBuilder(t)
		for i, g := range grids {
			if err := lb.Apply(g); err != nil {
				m.logAttempt(ids[i], tr.Type(), err)
				return nil, &TransformError{ChunkID: ids[i], Type: tr.Type(), Err: err}
			}
			m.logAttempt(ids[i], tr.Type(), nil)
		}
		m.refreshHeaders(ids)
		table := lb.Table()
		m.mu.Lock()
		m.aux = append(m.aux, table)
		m.mu.Unlock()
		return table, nil
	default:
		return nil, fmt.Errorf("unknown coordinated transformation %q", tr.Type())
	}
}

// refreshHeaders re-synchronizes chunk metadata headers with their payloads
// after a transformation changed the column layout, keeping routing correct
// for later transformations.
func (m *Manager) refreshHeaders(ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		if g, ok := m.payloads[id]; ok {
			if meta, ok := m.byID[id]; ok {
				meta.Header = append([]string(nil), g.Header...)
			}
		}
	}
}

// Metas returns chunk metadata in creation order.
func (m *Manager) Metas() []*Meta {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Meta(nil), m.metas...)
}

// AuxSheets returns sheets synthesized by lookup transformations, in the
// order they were created.
func (m *Manager) AuxSheets() []*model.Sheet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Sheet(nil), m.aux...)
}

// Log returns a copy of the audit log.
func (m *Manager) Log() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), m.log...)
}

// Progress reports how many chunks have been materialized at least once.
func (m *Manager) Progress() Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := Progress{TotalChunks: len(m.metas)}
	for _, meta := range m.metas {
		if meta.Processed {
			p.ProcessedChunks++
		}
	}
	if p.TotalChunks > 0 {
		p.Percentage = float64(p.ProcessedChunks) / float64(p.TotalChunks) * 100
	}
	return p
}

// BatchSize exposes the configured batch width for callers that schedule
// their own batch-aligned eviction.
func (m *Manager) BatchSize() int { return m.batchSize }
