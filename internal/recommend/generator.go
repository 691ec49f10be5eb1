// Package recommend turns aggregated data-quality issues into actionable
// cleaning recommendations. Generation is a fallible external concern, so it
// is modeled as a strategy interface with three swappable tiers: a primary
// AI generator, a simplified AI generator, and a deterministic rule-based
// generator that always succeeds.
package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridmend/gridmend/internal/model"
)

// Input is everything a generator may consult: the aggregated issue list,
// small per-sheet row previews, and how many chunks each sheet spans (which
// decides whether deduplication needs the coordinated global variant).
type Input struct {
	Issues     []model.Issue
	Samples    map[string][][]string
	ChunkCount map[string]int
}

// Generator proposes cleaning actions for a set of issues.
type Generator interface {
	Name() string
	Generate(ctx context.Context, in Input) ([]model.Recommendation, error)
}

// Chain walks its tiers in order and returns the first successful result.
// Errors from failed tiers are joined into the final error if every tier
// fails.
type Chain struct {
	tiers []Generator
}

// NewChain builds a fallback chain. Tier order is significant.
func NewChain(tiers ...Generator) *Chain {
	return &Chain{tiers: tiers}
}

// Generate tries each tier until one succeeds.
func (c *Chain) Generate(ctx context.Context, in Input) ([]model.Recommendation, error) {
	var errs []error
	for _, g := range c.tiers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		recs, err := g.Generate(ctx, in)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", g.Name(), err))
			continue
		}
		return recs, nil
	}
	if len(errs) == 0 {
		return nil, errors.New("no generators configured")
	}
	return nil, errors.Join(errs...)
}
