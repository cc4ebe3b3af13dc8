// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// AbstractSegment is one labelled part of a structured abstract
// (e.g. "BACKGROUND", "METHODS"). Label is empty for unstructured abstracts.
type AbstractSegment struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Text  string `json:"text" yaml:"text"`
}

// Correction is an entry of the record's comments/corrections list.
// RefType values such as "RetractionIn" mark retracted articles.
type Correction struct {
	RefType string `json:"ref_type" yaml:"ref_type"`
	PMID    string `json:"pmid,omitempty" yaml:"pmid,omitempty"`
}

// RawRecord is a bibliographic record as returned by the literature source,
// before any normalization. Values are never modified after parsing.
type RawRecord struct {
	// ID is the source identifier (PMID).
	ID string `json:"id" yaml:"id"`

	Title string `json:"title" yaml:"title"`

	// Abstract holds the abstract segments in source order.
	Abstract []AbstractSegment `json:"abstract" yaml:"abstract"`

	// Journal is the full journal title.
	Journal string `json:"journal" yaml:"journal"`

	// Year is the structured publication year, 0 when the source only
	// carries a free-text MedlineDate.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// MedlineDate is the free-text date (e.g. "2019 Nov-Dec").
	MedlineDate string `json:"medline_date,omitempty" yaml:"medline_date,omitempty"`

	PublicationTypes []string     `json:"publication_types" yaml:"publication_types"`
	Corrections      []Correction `json:"corrections,omitempty" yaml:"corrections,omitempty"`
	DOI              string       `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// Candidate is a normalized record ready for scoring.
type Candidate struct {
	ID               string   `json:"id" yaml:"id"`
	Title            string   `json:"title" yaml:"title"`
	Abstract         string   `json:"abstract" yaml:"abstract"`
	Journal          string   `json:"journal" yaml:"journal"`
	Year             int      `json:"year" yaml:"year"`
	PublicationTypes []string `json:"publication_types" yaml:"publication_types"`
	DOI              string   `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Retracted is set by the quality gate; retracted candidates are
	// never scored.
	Retracted bool `json:"retracted" yaml:"retracted"`
}

// Category names the selection bucket a paper was placed in.
type Category string

const (
	CategoryNone       Category = ""
	CategoryHighImpact Category = "high_impact"
	CategoryRecent     Category = "recent"
	CategoryDataRich   Category = "data_rich"
)

// ScoredPaper is a candidate with its composite score and the
// human-readable reasons that produced it.
type ScoredPaper struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Abstract     string   `json:"abstract" yaml:"abstract"`
	Journal      string   `json:"journal" yaml:"journal"`
	Year         int      `json:"year" yaml:"year"`
	Score        int      `json:"score" yaml:"score"`
	IsReview     bool     `json:"is_review" yaml:"is_review"`
	IsPreprint   bool     `json:"is_preprint" yaml:"is_preprint"`
	ImpactFactor float64  `json:"impact_factor" yaml:"impact_factor"`
	Citations    int      `json:"citations" yaml:"citations"`
	DOI          string   `json:"doi,omitempty" yaml:"doi,omitempty"`
	Reasons      []string `json:"reasons" yaml:"reasons"`

	// Category is empty until the selector places the paper in a bucket.
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// ReasonString joins the scoring reasons for display.
func (p ScoredPaper) ReasonString() string {
	return strings.Join(p.Reasons, ", ")
}
