// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// EmbeddingRecord is one stored document: the paper abstract with its
// vector and the remaining paper fields as metadata.
type EmbeddingRecord struct {
	ID       string         `json:"id" yaml:"id"`
	Vector   []float32      `json:"-" yaml:"-"`
	Document string         `json:"document" yaml:"document"`
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}

// Evidence is the result of a nearest-neighbour query. The four slices are
// index-aligned and ordered by ascending distance.
type Evidence struct {
	IDs       []string         `json:"ids" yaml:"ids"`
	Distances []float64        `json:"distances" yaml:"distances"`
	Metadatas []map[string]any `json:"metadatas" yaml:"metadatas"`
	Documents []string         `json:"documents" yaml:"documents"`
}

// Len returns the number of results.
func (e Evidence) Len() int { return len(e.IDs) }
