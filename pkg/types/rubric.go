// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// JournalWeight is one entry of the ordered top-journal table. Matching is
// a case-insensitive substring test of Name against the paper's journal.
type JournalWeight struct {
	Name  string `json:"name" yaml:"name"`
	Bonus int    `json:"bonus" yaml:"bonus"`
}

// CitationRule awards Bonus to papers with at least Threshold citations.
type CitationRule struct {
	Threshold int `json:"threshold" yaml:"threshold"`
	Bonus     int `json:"bonus" yaml:"bonus"`
}

// JournalImpact is one entry of the impact factor table.
type JournalImpact struct {
	Name   string  `json:"name" yaml:"name"`
	Factor float64 `json:"factor" yaml:"factor"`
}

// RubricConfig holds the scoring tables. Order of TopJournals and
// ImpactFactors is significant: the first matching entry wins.
type RubricConfig struct {
	TopJournals      []JournalWeight `json:"top_journals" yaml:"top_journals"`
	CitationRules    []CitationRule  `json:"citation_rules" yaml:"citation_rules"`
	RecencyMaxScore  int             `json:"recency_max_score" yaml:"recency_max_score"`
	DataQualityBonus int             `json:"data_quality_bonus" yaml:"data_quality_bonus"`
	ImpactFactors    []JournalImpact `json:"impact_factors" yaml:"impact_factors"`
}
