// Package session orchestrates one cleaning session: load a document,
// partition it, analyze chunks with bounded memory, collect user decisions
// over recommendations, and export the cleaned result.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gridmend/gridmend/internal/chunk"
	"github.com/gridmend/gridmend/internal/document"
	"github.com/gridmend/gridmend/internal/export"
	"github.com/gridmend/gridmend/internal/model"
	"github.com/gridmend/gridmend/internal/quality"
	"github.com/gridmend/gridmend/internal/recommend"
)

const sampleRowCount = 5

// Options tune a pipeline. Zero values select defaults.
type Options struct {
	ChunkSize       int // rows per chunk, default 1000
	BatchSize       int // chunks started concurrently per batch
	EvictLagBatches int // batches kept materialized behind the current one
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = 1000
	}
	if o.BatchSize <= 0 {
		o.BatchSize = chunk.DefaultBatchSize
	}
	if o.EvictLagBatches <= 0 {
		o.EvictLagBatches = 2
	}
	return o
}

// generator is the slice of the recommend package a pipeline needs; both a
// single tier and a fallback chain satisfy it.
type generator interface {
	Generate(ctx context.Context, in recommend.Input) ([]model.Recommendation, error)
}

// Pipeline is one session over one document.
type Pipeline struct {
	ID       string
	Filename string

	opts    Options
	source  *model.Workbook
	mgr     *chunk.Manager
	issues  []model.Issue
	samples map[string][][]string

	mu      sync.Mutex
	applied []export.Action
	skipped []export.Action
	failed  []export.Action
}

// New parses the document buffer and partitions every sheet.
func New(data []byte, filename string, opts Options) (*Pipeline, error) {
	opts = opts.withDefaults()
	wb, err := document.Parse(data, filename)
	if err != nil {
		return nil, err
	}
	mgr := chunk.NewManager(wb, opts.BatchSize)
	if err := mgr.PartitionAll(opts.ChunkSize); err != nil {
		return nil, err
	}
	return &Pipeline{
		ID:       uuid.NewString(),
		Filename: filename,
		opts:     opts,
		source:   wb,
		mgr:      mgr,
		samples:  make(map[string][][]string),
	}, nil
}

// Analyze materializes and scans every chunk, batch by batch, evicting
// batches older than the configured lag so peak memory stays bounded by a
// few batches of payloads. Returns the aggregated, severity-ranked issues.
func (p *Pipeline) Analyze(ctx context.Context) ([]model.Issue, error) {
	p.collectSamples()
	metas := p.mgr.Metas()
	perChunk := make([][]model.Issue, len(metas))

	batch := p.opts.BatchSize
	for start := 0; start < len(metas); start += batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + batch
		if end > len(metas) {
			end = len(metas)
		}
		errs := make([]error, end-start)
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				g, err := p.mgr.Materialize(metas[i].ID)
				if err != nil {
					errs[i-start] = err
					return
				}
				perChunk[i] = quality.Analyze(metas[i].Sheet, g)
			}(i)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				return nil, fmt.Errorf("analyze: %w", err)
			}
		}
		// Evict everything older than the last EvictLagBatches batches.
		cutoff := start - p.opts.EvictLagBatches*batch
		for i := 0; i < cutoff && i < len(metas); i++ {
			p.mgr.Evict(metas[i].ID)
		}
	}
	p.issues = quality.Aggregate(perChunk...)
	return p.issues, nil
}

// collectSamples keeps a small preview (header plus first rows) of every
// sheet for the recommendation prompt.
func (p *Pipeline) collectSamples() {
	for _, sheet := range p.source.Sheets {
		preview := [][]string{append([]string(nil), sheet.Header...)}
		for r := 0; r < len(sheet.Rows) && r < sampleRowCount; r++ {
			row := make([]string, len(sheet.Rows[r]))
			for c, v := range sheet.Rows[r] {
				row[c] = v.Raw
			}
			preview = append(preview, row)
		}
		p.samples[sheet.Name] = preview
	}
}

// Issues returns the aggregated findings from the last Analyze call.
func (p *Pipeline) Issues() []model.Issue { return p.issues }

// Samples returns the per-sheet row previews.
func (p *Pipeline) Samples() map[string][][]string { return p.samples }

// Recommend feeds the analysis results to a generator (usually a fallback
// chain) and returns its proposals.
func (p *Pipeline) Recommend(ctx context.Context, gen generator) ([]model.Recommendation, error) {
	counts := make(map[string]int)
	for _, meta := range p.mgr.Metas() {
		counts[meta.Sheet]++
	}
	return gen.Generate(ctx, recommend.Input{
		Issues:     p.issues,
		Samples:    p.samples,
		ChunkCount: counts,
	})
}

// Apply executes one decision. Skips record without touching data. Accepted
// recommendations route to their affected chunks (or all chunks of the sheet
// when unspecified) and run coordinated or batched according to the
// transformation. Failures record the attempt and propagate; earlier batches
// stay applied.
func (p *Pipeline) Apply(ctx context.Context, rec model.Recommendation, accept bool) error {
	tr := rec.Transformation
	if tr == nil {
		return fmt.Errorf("%w: recommendation %s has no transformation", model.ErrInvalidInput, rec.ID)
	}
	action := export.Action{
		Title:  rec.Title,
		Type:   tr.Type(),
		Sheet:  tr.TargetSheet(),
		Column: tr.TargetColumn(),
	}
	if !accept {
		p.record(&p.skipped, action)
		return nil
	}

	var err error
	if tr.RequiresCoordination() {
		_, err = p.mgr.ApplyCoordinated(tr)
	} else {
		ids := rec.AffectedChunks
		if len(ids) == 0 {
			ids = p.mgr.Route(tr)
		}
		err = p.mgr.BatchApply(ctx, ids, tr, rec.CanProcessInParallel)
	}
	if err != nil {
		action.Error = err.Error()
		p.record(&p.failed, action)
		return err
	}
	p.record(&p.applied, action)
	return nil
}

func (p *Pipeline) record(list *[]export.Action, a export.Action) {
	p.mu.Lock()
	*list = append(*list, a)
	p.mu.Unlock()
}

// Progress reports chunk materialization at any point during processing.
func (p *Pipeline) Progress() chunk.Progress { return p.mgr.Progress() }

// Log returns the transformation audit log.
func (p *Pipeline) Log() []chunk.LogEntry { return p.mgr.Log() }

// Export reassembles all chunks plus synthesized sheets into one document
// buffer in the input's container format, alongside the session report.
func (p *Pipeline) Export() ([]byte, *export.Report, error) {
	wb, err := export.Reassemble(p.source, p.mgr)
	if err != nil {
		return nil, nil, err
	}
	data, err := document.Write(wb, p.Filename)
	if err != nil {
		return nil, nil, err
	}
	p.mu.Lock()
	report := &export.Report{
		Filename: p.Filename,
		Applied:  append([]export.Action(nil), p.applied...),
		Skipped:  append([]export.Action(nil), p.skipped...),
		Failed:   append([]export.Action(nil), p.failed...),
		Log:      p.mgr.Log(),
	}
	p.mu.Unlock()
	return data, report, nil
}
