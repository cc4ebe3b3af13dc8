// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package miner turns a search term into a small, ranked selection of
// papers: search, fetch, normalize, gate, score and select.
package miner

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/lit-miner/internal/rubric"
	"github.com/pdiddy/lit-miner/pkg/types"
)

// Fetcher is the literature source consumed by a mining run.
type Fetcher interface {
	Search(ctx context.Context, term string, limit int) ([]string, error)
	FetchDetails(ctx context.Context, ids []string) ([]types.RawRecord, error)
	FetchCitationCounts(ctx context.Context, ids []string) (map[string]int, error)
}

// RunStats counts records at each stage of a mining run.
type RunStats struct {
	Found             int `json:"found"`
	Fetched           int `json:"fetched"`
	DroppedNoAbstract int `json:"dropped_no_abstract"`
	DroppedRetracted  int `json:"dropped_retracted"`
	DroppedInvalid    int `json:"dropped_invalid"`
	Scored            int `json:"scored"`
	Selected          int `json:"selected"`
}

// Miner runs the mining pipeline against a Fetcher.
type Miner struct {
	fetcher  Fetcher
	scorer   *Scorer
	selector *Selector
	log      *zap.Logger
}

// New creates a Miner. A nil rubric uses the built-in tables; a nil logger
// discards output.
func New(f Fetcher, r *rubric.Rubric, limits SelectionLimits, log *zap.Logger) *Miner {
	if r == nil {
		r = rubric.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	sel := NewSelector(r)
	sel.Limits = limits
	return &Miner{fetcher: f, scorer: NewScorer(r), selector: sel, log: log}
}

// SetClock fixes the current time used for recency scoring and selection.
func (m *Miner) SetClock(now func() time.Time) {
	m.scorer.Now = now
	m.selector.Now = now
}

// Mine searches for term and returns the selected papers. Fetcher failures
// never surface as errors: a failed search or detail fetch yields an empty
// selection and a failed citation lookup scores every paper with zero
// citations. Only context cancellation is returned.
func (m *Miner) Mine(ctx context.Context, term string, limit int) ([]types.ScoredPaper, RunStats, error) {
	var stats RunStats

	ids, err := m.fetcher.Search(ctx, term, limit)
	if err != nil {
		m.log.Warn("search failed", zap.String("term", term), zap.Error(err))
		return nil, stats, ctx.Err()
	}
	stats.Found = len(ids)
	if len(ids) == 0 {
		m.log.Info("no search results", zap.String("term", term))
		return nil, stats, nil
	}

	records, err := m.fetcher.FetchDetails(ctx, ids)
	if err != nil {
		m.log.Warn("fetch details failed", zap.Int("ids", len(ids)), zap.Error(err))
		return nil, stats, ctx.Err()
	}
	stats.Fetched = len(records)

	citations, err := m.fetcher.FetchCitationCounts(ctx, ids)
	if err != nil {
		m.log.Warn("citation lookup failed, continuing without counts", zap.Error(err))
		citations = map[string]int{}
	}

	scored := make([]types.ScoredPaper, 0, len(records))
	for _, rec := range records {
		c, err := Normalize(rec)
		switch {
		case errors.Is(err, ErrNoAbstract):
			stats.DroppedNoAbstract++
			continue
		case err != nil:
			stats.DroppedInvalid++
			m.log.Debug("skipping record", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		if c.Retracted {
			stats.DroppedRetracted++
			m.log.Info("dropping retracted paper", zap.String("id", c.ID))
			continue
		}
		scored = append(scored, m.scorer.Score(c, citations[c.ID]))
	}
	stats.Scored = len(scored)

	selected := m.selector.Select(scored)
	stats.Selected = len(selected)

	m.log.Info("mining complete",
		zap.String("term", term),
		zap.Int("found", stats.Found),
		zap.Int("scored", stats.Scored),
		zap.Int("selected", stats.Selected))
	return selected, stats, nil
}
