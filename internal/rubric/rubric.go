// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rubric holds the scoring tables used to rank papers: journal
// weights, citation thresholds, recency and data-quality bonuses, and
// journal impact factors. A Rubric is immutable after construction and
// safe for concurrent use.
package rubric

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/lit-miner/pkg/types"
)

// Rubric answers scoring lookups against a RubricConfig.
type Rubric struct {
	cfg types.RubricConfig

	// lowercased keys, index-aligned with cfg tables
	journalKeys []string
	impactKeys  []string
}

// New validates cfg and returns a Rubric. Citation rules are sorted by
// descending threshold; negative bonuses are rejected.
func New(cfg types.RubricConfig) (*Rubric, error) {
	for _, j := range cfg.TopJournals {
		if strings.TrimSpace(j.Name) == "" {
			return nil, fmt.Errorf("top journal with empty name")
		}
		if j.Bonus < 0 {
			return nil, fmt.Errorf("journal %q: negative bonus %d", j.Name, j.Bonus)
		}
	}
	for _, r := range cfg.CitationRules {
		if r.Bonus < 0 || r.Threshold < 0 {
			return nil, fmt.Errorf("citation rule (%d, %d): negative value", r.Threshold, r.Bonus)
		}
	}
	if cfg.RecencyMaxScore < 0 || cfg.DataQualityBonus < 0 {
		return nil, fmt.Errorf("recency and data quality bonuses must be non-negative")
	}

	rules := make([]types.CitationRule, len(cfg.CitationRules))
	copy(rules, cfg.CitationRules)
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Threshold > rules[j].Threshold })
	cfg.CitationRules = rules

	r := &Rubric{cfg: cfg}
	for _, j := range cfg.TopJournals {
		r.journalKeys = append(r.journalKeys, strings.ToLower(j.Name))
	}
	for _, j := range cfg.ImpactFactors {
		r.impactKeys = append(r.impactKeys, strings.ToLower(j.Name))
	}
	return r, nil
}

// Default returns a Rubric built from the built-in tables.
func Default() *Rubric {
	r, err := New(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return r
}

// Config returns a copy of the underlying tables.
func (r *Rubric) Config() types.RubricConfig {
	cfg := r.cfg
	cfg.TopJournals = append([]types.JournalWeight(nil), r.cfg.TopJournals...)
	cfg.CitationRules = append([]types.CitationRule(nil), r.cfg.CitationRules...)
	cfg.ImpactFactors = append([]types.JournalImpact(nil), r.cfg.ImpactFactors...)
	return cfg
}

// JournalBonus returns the bonus of the first configured journal whose
// name occurs, case-insensitively, inside journal. Table order decides
// between overlapping names ("Nature" precedes "Nature Medicine" in the
// default table, so both receive the "Nature" weight).
func (r *Rubric) JournalBonus(journal string) (int, string) {
	j := strings.ToLower(journal)
	if j == "" {
		return 0, ""
	}
	for i, key := range r.journalKeys {
		if strings.Contains(j, key) {
			return r.cfg.TopJournals[i].Bonus, r.cfg.TopJournals[i].Name
		}
	}
	return 0, ""
}

// InTopJournal reports whether journal matches any top-journal entry.
func (r *Rubric) InTopJournal(journal string) bool {
	_, name := r.JournalBonus(journal)
	return name != ""
}

// CitationBonus returns the bonus of the highest threshold not exceeding
// count, or 0 when count is below every threshold.
func (r *Rubric) CitationBonus(count int) int {
	for _, rule := range r.cfg.CitationRules {
		if count >= rule.Threshold {
			return rule.Bonus
		}
	}
	return 0
}

// RecencyMaxScore is the recency bonus for a paper published this year.
func (r *Rubric) RecencyMaxScore() int { return r.cfg.RecencyMaxScore }

// DataQualityBonus is awarded once to abstracts reporting measurements.
func (r *Rubric) DataQualityBonus() int { return r.cfg.DataQualityBonus }

// ImpactFactor looks up the journal's impact factor: an exact
// case-insensitive match first, then the first entry where either name
// contains the other. Unknown journals return 0.
func (r *Rubric) ImpactFactor(journal string) float64 {
	j := strings.ToLower(strings.TrimSpace(journal))
	if j == "" {
		return 0
	}
	for i, key := range r.impactKeys {
		if key == j {
			return r.cfg.ImpactFactors[i].Factor
		}
	}
	for i, key := range r.impactKeys {
		if strings.Contains(j, key) || strings.Contains(key, j) {
			return r.cfg.ImpactFactors[i].Factor
		}
	}
	return 0
}

// ImpactFactorBonus converts an impact factor into score points.
func ImpactFactorBonus(f float64) int {
	switch {
	case f >= 50:
		return 5
	case f >= 20:
		return 4
	case f >= 10:
		return 3
	case f >= 5:
		return 2
	case f >= 2:
		return 1
	default:
		return 0
	}
}
