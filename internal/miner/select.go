// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package miner

import (
	"sort"
	"time"

	"github.com/pdiddy/lit-miner/internal/rubric"
	"github.com/pdiddy/lit-miner/pkg/types"
)

// SelectionLimits sets the size of each selection bucket.
type SelectionLimits struct {
	HighImpact int
	Recent     int
	DataRich   int
}

// DefaultLimits selects at most 2 reviews, 4 recent and 4 data-rich papers.
var DefaultLimits = SelectionLimits{HighImpact: 2, Recent: 4, DataRich: 4}

// LimitsFromConfig fills unset bucket sizes from DefaultLimits.
func LimitsFromConfig(cfg types.MiningConfig) SelectionLimits {
	l := DefaultLimits
	if cfg.HighImpact > 0 {
		l.HighImpact = cfg.HighImpact
	}
	if cfg.Recent > 0 {
		l.Recent = cfg.Recent
	}
	if cfg.DataRich > 0 {
		l.DataRich = cfg.DataRich
	}
	return l
}

// Total is the maximum number of papers a selection can return.
func (l SelectionLimits) Total() int { return l.HighImpact + l.Recent + l.DataRich }

// Selector picks a bounded, diverse set of papers from scored candidates.
type Selector struct {
	Rubric *rubric.Rubric
	Limits SelectionLimits

	// Now returns the current time; nil means time.Now.
	Now func() time.Time
}

// NewSelector returns a Selector with the default bucket sizes.
func NewSelector(r *rubric.Rubric) *Selector {
	if r == nil {
		r = rubric.Default()
	}
	return &Selector{Rubric: r, Limits: DefaultLimits}
}

// Select fills the high_impact, recent and data_rich buckets in that order.
// Each paper lands in at most one bucket. The input is not modified; the
// returned papers are copies carrying their Category.
func (s *Selector) Select(papers []types.ScoredPaper) []types.ScoredPaper {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	currentYear := now().Year()

	selected := make(map[string]bool)
	var out []types.ScoredPaper

	take := func(pool []types.ScoredPaper, limit int, cat types.Category) {
		for _, p := range pool {
			if limit <= 0 {
				return
			}
			if selected[p.ID] {
				continue
			}
			selected[p.ID] = true
			p.Category = cat
			p.Reasons = append([]string(nil), p.Reasons...)
			out = append(out, p)
			limit--
		}
	}

	reviews := filter(papers, func(p types.ScoredPaper) bool { return p.IsReview })
	byScore(reviews)
	take(reviews, s.Limits.HighImpact, types.CategoryHighImpact)

	recent := filter(papers, func(p types.ScoredPaper) bool {
		return !p.IsReview && !selected[p.ID] &&
			p.Year >= currentYear-1 && s.Rubric.InTopJournal(p.Journal)
	})
	sort.SliceStable(recent, func(i, j int) bool {
		if recent[i].Year != recent[j].Year {
			return recent[i].Year > recent[j].Year
		}
		return recent[i].Score > recent[j].Score
	})
	take(recent, s.Limits.Recent, types.CategoryRecent)

	rest := filter(papers, func(p types.ScoredPaper) bool { return !p.IsReview && !selected[p.ID] })
	byScore(rest)
	take(rest, s.Limits.DataRich, types.CategoryDataRich)

	return out
}

func filter(papers []types.ScoredPaper, keep func(types.ScoredPaper) bool) []types.ScoredPaper {
	var out []types.ScoredPaper
	for _, p := range papers {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func byScore(papers []types.ScoredPaper) {
	sort.SliceStable(papers, func(i, j int) bool { return papers[i].Score > papers[j].Score })
}
