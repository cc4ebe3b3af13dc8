// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lit-miner/pkg/types"
)

// Records returns every stored document with its vector and metadata.
func (s *Store) Records(ctx context.Context) ([]types.EmbeddingRecord, error) {
	all, err := s.coll.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.EmbeddingRecord, len(all))
	for i, r := range all {
		out[i] = types.EmbeddingRecord{ID: r.ID, Vector: r.Embedding, Document: r.Document, Metadata: r.Metadata}
	}
	return out, nil
}

// Export writes ids, documents and metadata (not vectors) to w as "yaml"
// or "json".
func (s *Store) Export(ctx context.Context, w io.Writer, format string) error {
	records, err := s.Records(ctx)
	if err != nil {
		return fmt.Errorf("reading collection for export: %w", err)
	}
	if records == nil {
		records = []types.EmbeddingRecord{}
	}

	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
