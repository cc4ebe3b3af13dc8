// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectordb persists named collections of embedding vectors with
// their documents and metadata in SQLite. Nearest-neighbour search is a
// brute-force cosine scan, which is adequate for per-topic collections of
// a few hundred papers.
package vectordb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
)

const dbFile = "vectors.db"

var (
	// ErrCollectionNotFound is returned when a named collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrDimensionMismatch is returned when a vector's length differs from
	// the collection's dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrDuplicateID is returned when Add is given an id already stored.
	ErrDuplicateID = errors.New("duplicate record id")
)

// DB is a SQLite-backed set of vector collections.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens or creates dir/vectors.db and its schema.
func Open(dir string) (*DB, error) {
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	d := &DB{db: db, path: path}
	if err := d.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return d, nil
}

// Path returns the database file path.
func (d *DB) Path() string { return d.path }

// Close releases the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			metadata TEXT NOT NULL DEFAULT '{}',
			dimension INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			collection TEXT NOT NULL REFERENCES collections(name) ON DELETE CASCADE ON UPDATE CASCADE,
			id TEXT NOT NULL,
			embedding BLOB NOT NULL,
			document TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			UNIQUE (collection, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection)`,
	}
	for _, stmt := range statements {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CollectionInfo describes a stored collection.
type CollectionInfo struct {
	Name      string            `json:"name" yaml:"name"`
	Metadata  map[string]string `json:"metadata" yaml:"metadata"`
	Dimension int               `json:"dimension" yaml:"dimension"`
	Count     int               `json:"count" yaml:"count"`
	CreatedAt time.Time         `json:"created_at" yaml:"created_at"`
}

// GetOrCreateCollection returns the named collection, creating it with
// metadata when absent. Metadata of an existing collection is left as is.
func (d *DB) GetOrCreateCollection(ctx context.Context, name string, metadata map[string]string) (*Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("collection name is empty")
	}
	meta, err := json.Marshal(nonNilStrings(metadata))
	if err != nil {
		return nil, fmt.Errorf("encoding collection metadata: %w", err)
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO collections (name, metadata, dimension, created_at) VALUES (?, ?, 0, ?)`,
		name, string(meta), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", name, err)
	}
	return &Collection{db: d, name: name}, nil
}

// GetCollection returns an existing collection or ErrCollectionNotFound.
func (d *DB) GetCollection(ctx context.Context, name string) (*Collection, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT count(*) FROM collections WHERE name = ?`, name).Scan(&n); err != nil {
		return nil, fmt.Errorf("looking up collection %s: %w", name, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrCollectionNotFound)
	}
	return &Collection{db: d, name: name}, nil
}

// DeleteCollection removes a collection and all of its records. Deleting
// a missing collection is not an error.
func (d *DB) DeleteCollection(ctx context.Context, name string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting collection %s: %w", name, err)
	}
	return nil
}

// ListCollections returns every collection ordered by name.
func (d *DB) ListCollections(ctx context.Context) ([]CollectionInfo, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT c.name, c.metadata, c.dimension, c.created_at,
			(SELECT count(*) FROM records r WHERE r.collection = c.name)
		FROM collections c ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var out []CollectionInfo
	for rows.Next() {
		var info CollectionInfo
		var meta, created string
		if err := rows.Scan(&info.Name, &meta, &info.Dimension, &created, &info.Count); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		if err := json.Unmarshal([]byte(meta), &info.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata of %s: %w", info.Name, err)
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, info)
	}
	return out, rows.Err()
}

// SwapCollections replaces target with shadow in a single transaction:
// target and its records are removed and shadow is renamed to target.
// Either both steps commit or neither does.
func (d *DB) SwapCollections(ctx context.Context, target, shadow string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM collections WHERE name = ?`, shadow).Scan(&n); err != nil {
		return fmt.Errorf("looking up collection %s: %w", shadow, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", shadow, ErrCollectionNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM collections WHERE name = ?`, target); err != nil {
		return fmt.Errorf("removing collection %s: %w", target, err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE collections SET name = ? WHERE name = ?`, target, shadow); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", shadow, target, err)
	}
	return tx.Commit()
}

func nonNilStrings(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func isConstraint(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
