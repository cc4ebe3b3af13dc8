// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectordb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Record is one stored vector with its document and metadata.
type Record struct {
	ID        string
	Embedding []float32
	Document  string
	Metadata  map[string]any
}

// Match is a query result; Distance is 1 minus cosine similarity.
type Match struct {
	Record
	Distance float64
}

// Collection is a handle on a named collection.
type Collection struct {
	db   *DB
	name string
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Info returns the collection's stored description.
func (c *Collection) Info(ctx context.Context) (CollectionInfo, error) {
	info := CollectionInfo{Name: c.name}
	var meta string
	err := c.db.db.QueryRowContext(ctx, `
		SELECT metadata, dimension, (SELECT count(*) FROM records WHERE collection = ?)
		FROM collections WHERE name = ?`, c.name, c.name).Scan(&meta, &info.Dimension, &info.Count)
	if err == sql.ErrNoRows {
		return info, fmt.Errorf("%s: %w", c.name, ErrCollectionNotFound)
	}
	if err != nil {
		return info, fmt.Errorf("reading collection %s: %w", c.name, err)
	}
	if err := json.Unmarshal([]byte(meta), &info.Metadata); err != nil {
		return info, fmt.Errorf("decoding metadata of %s: %w", c.name, err)
	}
	return info, nil
}

// Dimension returns the vector length fixed by the first Add, or 0 for a
// collection that has never held a vector.
func (c *Collection) Dimension(ctx context.Context) (int, error) {
	info, err := c.Info(ctx)
	return info.Dimension, err
}

// Count returns the number of records in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.db.QueryRowContext(ctx, `SELECT count(*) FROM records WHERE collection = ?`, c.name).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", c.name, err)
	}
	return n, nil
}

// Add inserts records in one transaction. Every vector must match the
// collection's dimension (the first Add on an empty collection sets it).
// An id already present fails the whole batch with ErrDuplicateID.
func (c *Collection) Add(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := c.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var dim int
	err = tx.QueryRowContext(ctx, `SELECT dimension FROM collections WHERE name = ?`, c.name).Scan(&dim)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%s: %w", c.name, ErrCollectionNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading dimension of %s: %w", c.name, err)
	}
	if dim == 0 {
		dim = len(records[0].Embedding)
		if dim == 0 {
			return fmt.Errorf("record %s: empty embedding", records[0].ID)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE collections SET dimension = ? WHERE name = ?`, dim, c.name); err != nil {
			return fmt.Errorf("setting dimension of %s: %w", c.name, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (collection, id, embedding, document, metadata) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if len(r.Embedding) != dim {
			return fmt.Errorf("record %s: got %d, collection %s has %d: %w",
				r.ID, len(r.Embedding), c.name, dim, ErrDimensionMismatch)
		}
		emb, err := json.Marshal(r.Embedding)
		if err != nil {
			return fmt.Errorf("encoding embedding of %s: %w", r.ID, err)
		}
		meta := r.Metadata
		if meta == nil {
			meta = map[string]any{}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("encoding metadata of %s: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, c.name, r.ID, emb, r.Document, string(metaJSON)); err != nil {
			if isConstraint(err) {
				return fmt.Errorf("record %s: %w", r.ID, ErrDuplicateID)
			}
			return fmt.Errorf("inserting record %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// Get returns the records whose ids are stored, in the order of ids.
// Unknown ids are omitted.
func (c *Collection) Get(ctx context.Context, ids []string) ([]Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, c.name)
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	found, err := c.scan(ctx,
		`SELECT id, embedding, document, metadata FROM records WHERE collection = ? AND id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Record, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}
	var out []Record
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
			delete(byID, id)
		}
	}
	return out, nil
}

// GetAll returns every record in insertion order.
func (c *Collection) GetAll(ctx context.Context) ([]Record, error) {
	return c.scan(ctx,
		`SELECT id, embedding, document, metadata FROM records WHERE collection = ? ORDER BY seq`, c.name)
}

// Peek returns up to n records in insertion order.
func (c *Collection) Peek(ctx context.Context, n int) ([]Record, error) {
	return c.scan(ctx,
		`SELECT id, embedding, document, metadata FROM records WHERE collection = ? ORDER BY seq LIMIT ?`, c.name, n)
}

// Query returns the k records nearest to vector by cosine distance,
// closest first. Ties keep insertion order.
func (c *Collection) Query(ctx context.Context, vector []float32, k int) ([]Match, error) {
	dim, err := c.Dimension(ctx)
	if err != nil {
		return nil, err
	}
	if dim != 0 && len(vector) != dim {
		return nil, fmt.Errorf("query has %d, collection %s has %d: %w", len(vector), c.name, dim, ErrDimensionMismatch)
	}

	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, 0, len(all))
	for _, r := range all {
		matches = append(matches, Match{Record: r, Distance: 1 - cosineSimilarity(vector, r.Embedding)})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if k >= 0 && len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

func (c *Collection) scan(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := c.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", c.name, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var emb []byte
		var meta string
		if err := rows.Scan(&r.ID, &emb, &r.Document, &meta); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if err := json.Unmarshal(emb, &r.Embedding); err != nil {
			return nil, fmt.Errorf("decoding embedding of %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(meta), &r.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata of %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
