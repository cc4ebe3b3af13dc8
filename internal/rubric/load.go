// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rubric

import (
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lit-miner/pkg/types"
)

// rubricFile is the on-disk YAML shape. Journal tables are mappings whose
// key order is preserved; omitted sections keep the built-in values.
//
//	top_journals:
//	  Periodontology 2000: 10
//	citation_rules:
//	  - [200, 4]
//	recency_max_score: 5
//	impact_factors:
//	  Nature: 64.8
type rubricFile struct {
	TopJournals      journalTable `yaml:"top_journals"`
	CitationRules    [][]int      `yaml:"citation_rules"`
	RecencyMaxScore  *int         `yaml:"recency_max_score"`
	DataQualityBonus *int         `yaml:"data_quality_bonus"`
	ImpactFactors    impactTable  `yaml:"impact_factors"`
}

type journalTable []types.JournalWeight

func (t *journalTable) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: top_journals must be a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		var bonus int
		if err := n.Content[i+1].Decode(&bonus); err != nil {
			return fmt.Errorf("journal %q: %w", n.Content[i].Value, err)
		}
		*t = append(*t, types.JournalWeight{Name: n.Content[i].Value, Bonus: bonus})
	}
	return nil
}

type impactTable []types.JournalImpact

func (t *impactTable) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: impact_factors must be a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		var f float64
		if err := n.Content[i+1].Decode(&f); err != nil {
			return fmt.Errorf("impact factor %q: %w", n.Content[i].Value, err)
		}
		*t = append(*t, types.JournalImpact{Name: n.Content[i].Value, Factor: f})
	}
	return nil
}

// Load reads a rubric from a YAML file. An empty path or a missing file
// yields the built-in rubric.
func Load(path string) (*Rubric, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rubric %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Rubric from YAML, overlaying the sections present on the
// built-in tables.
func Parse(data []byte) (*Rubric, error) {
	var f rubricFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rubric: %w", err)
	}

	cfg := DefaultConfig()
	if len(f.TopJournals) > 0 {
		cfg.TopJournals = f.TopJournals
	}
	if len(f.CitationRules) > 0 {
		cfg.CitationRules = cfg.CitationRules[:0]
		for _, pair := range f.CitationRules {
			if len(pair) != 2 {
				return nil, fmt.Errorf("citation rule %v: want [threshold, bonus]", pair)
			}
			cfg.CitationRules = append(cfg.CitationRules, types.CitationRule{Threshold: pair[0], Bonus: pair[1]})
		}
	}
	if f.RecencyMaxScore != nil {
		cfg.RecencyMaxScore = *f.RecencyMaxScore
	}
	if f.DataQualityBonus != nil {
		cfg.DataQualityBonus = *f.DataQualityBonus
	}
	if len(f.ImpactFactors) > 0 {
		cfg.ImpactFactors = f.ImpactFactors
	}
	return New(cfg)
}
