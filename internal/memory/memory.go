// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package memory keeps a topic's papers in a vector collection for later
// retrieval. Papers are added at most once per id, and a collection built
// with a different embedding dimension is rebuilt with the current
// embedder before it is used.
//
// A Store assumes a single writer per collection; it does no locking.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/lit-miner/internal/embedding"
	"github.com/pdiddy/lit-miner/internal/vectordb"
	"github.com/pdiddy/lit-miner/pkg/types"
)

// ErrMigrationFailed wraps any failure while rebuilding a collection.
// The original collection is left unchanged when it is returned.
var ErrMigrationFailed = errors.New("collection migration failed")

const (
	metaQuery     = "query"
	metaEmbedding = "embedding"

	shadowSuffix = "__migrating"
)

// Store is the embedding store for one collection.
type Store struct {
	db   *vectordb.DB
	coll *vectordb.Collection
	name string
	meta map[string]string
	emb  embedding.Embedder
	log  *zap.Logger
}

// Open returns the store for the named collection, creating it when
// absent. A stored vector whose length differs from emb.Dimension()
// triggers an immediate migration.
func Open(ctx context.Context, db *vectordb.DB, name string, emb embedding.Embedder, log *zap.Logger) (*Store, error) {
	return open(ctx, db, name, nil, emb, log)
}

// OpenTopic opens the collection named after query and records the query
// in the collection metadata so ListTopics can find it again.
func OpenTopic(ctx context.Context, db *vectordb.DB, query string, emb embedding.Embedder, log *zap.Logger) (*Store, error) {
	return open(ctx, db, CollectionName(query), map[string]string{metaQuery: query}, emb, log)
}

func open(ctx context.Context, db *vectordb.DB, name string, meta map[string]string, emb embedding.Embedder, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := map[string]string{metaEmbedding: emb.Name()}
	for k, v := range meta {
		m[k] = v
	}

	coll, err := db.GetOrCreateCollection(ctx, name, m)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, coll: coll, name: name, emb: emb, log: log.With(zap.String("collection", name))}

	info, err := coll.Info(ctx)
	if err != nil {
		return nil, err
	}
	s.meta = info.Metadata

	need, err := s.NeedsMigration(ctx)
	if err != nil {
		return nil, err
	}
	if need {
		if err := s.Migrate(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Name returns the collection name.
func (s *Store) Name() string { return s.name }

// Count returns the number of stored papers.
func (s *Store) Count(ctx context.Context) (int, error) {
	return s.coll.Count(ctx)
}

// NeedsMigration peeks at one stored vector and reports whether its
// length differs from the embedder's dimension. An empty collection never
// needs migration.
func (s *Store) NeedsMigration(ctx context.Context) (bool, error) {
	peek, err := s.coll.Peek(ctx, 1)
	if err != nil {
		return false, err
	}
	if len(peek) == 0 {
		return false, nil
	}
	return len(peek[0].Embedding) != s.emb.Dimension(), nil
}

// Add stores papers whose ids are not yet in the collection and returns
// how many were added. The abstract is the embedded document; the other
// fields become metadata. Repeated ids, across calls or within papers,
// are stored once.
func (s *Store) Add(ctx context.Context, papers []types.ScoredPaper) (int, error) {
	if len(papers) == 0 {
		return 0, nil
	}

	seen := make(map[string]bool, len(papers))
	var ids []string
	var unique []types.ScoredPaper
	for _, p := range papers {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		ids = append(ids, p.ID)
		unique = append(unique, p)
	}

	existing, err := s.coll.Get(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("checking existing ids: %w", err)
	}
	stored := make(map[string]bool, len(existing))
	for _, r := range existing {
		stored[r.ID] = true
	}

	var fresh []types.ScoredPaper
	for _, p := range unique {
		if !stored[p.ID] {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) == 0 {
		s.log.Debug("all papers already stored", zap.Int("papers", len(unique)))
		return 0, nil
	}

	docs := make([]string, len(fresh))
	for i, p := range fresh {
		docs[i] = p.Abstract
	}
	vecs, err := s.emb.EmbedDocuments(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("embedding %d documents: %w", len(docs), err)
	}
	if len(vecs) != len(fresh) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d documents", len(vecs), len(fresh))
	}

	records := make([]vectordb.Record, len(fresh))
	for i, p := range fresh {
		records[i] = vectordb.Record{ID: p.ID, Embedding: vecs[i], Document: p.Abstract, Metadata: PaperMetadata(p)}
	}

	err = s.coll.Add(ctx, records)
	if errors.Is(err, vectordb.ErrDimensionMismatch) {
		s.log.Warn("dimension mismatch on add, migrating", zap.Error(err))
		if err := s.Migrate(ctx); err != nil {
			return 0, err
		}
		err = s.coll.Add(ctx, records)
	}
	if err != nil {
		return 0, fmt.Errorf("adding papers: %w", err)
	}

	s.log.Info("papers stored", zap.Int("added", len(fresh)), zap.Int("skipped", len(unique)-len(fresh)))
	return len(fresh), nil
}

// Query returns the n stored papers nearest to topic, closest first.
func (s *Store) Query(ctx context.Context, topic string, n int) (types.Evidence, error) {
	vec, err := s.emb.EmbedQuery(ctx, topic)
	if err != nil {
		return types.Evidence{}, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := s.coll.Query(ctx, vec, n)
	if errors.Is(err, vectordb.ErrDimensionMismatch) {
		s.log.Warn("dimension mismatch on query, migrating", zap.Error(err))
		if err := s.Migrate(ctx); err != nil {
			return types.Evidence{}, err
		}
		matches, err = s.coll.Query(ctx, vec, n)
	}
	if err != nil {
		return types.Evidence{}, fmt.Errorf("querying collection: %w", err)
	}

	ev := types.Evidence{
		IDs:       make([]string, len(matches)),
		Distances: make([]float64, len(matches)),
		Metadatas: make([]map[string]any, len(matches)),
		Documents: make([]string, len(matches)),
	}
	for i, m := range matches {
		ev.IDs[i] = m.ID
		ev.Distances[i] = m.Distance
		ev.Metadatas[i] = m.Metadata
		ev.Documents[i] = m.Document
	}
	return ev, nil
}

// Migrate re-embeds every stored document with the current embedder.
// The new vectors are written to a shadow collection that replaces the
// original in one transaction, so a failure at any step leaves the
// original collection as it was.
func (s *Store) Migrate(ctx context.Context) error {
	all, err := s.coll.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", ErrMigrationFailed, s.name, err)
	}
	s.log.Info("migrating collection", zap.Int("documents", len(all)), zap.String("embedder", s.emb.Name()))

	meta := make(map[string]string, len(s.meta)+1)
	for k, v := range s.meta {
		meta[k] = v
	}
	meta[metaEmbedding] = s.emb.Name()

	docs := make([]string, len(all))
	for i, r := range all {
		docs[i] = r.Document
	}
	var vecs [][]float32
	if len(docs) > 0 {
		vecs, err = s.emb.EmbedDocuments(ctx, docs)
		if err != nil {
			return fmt.Errorf("%w: re-embedding: %w", ErrMigrationFailed, err)
		}
		if len(vecs) != len(docs) {
			return fmt.Errorf("%w: embedder returned %d vectors for %d documents", ErrMigrationFailed, len(vecs), len(docs))
		}
	}

	shadowName := s.name + shadowSuffix
	if err := s.db.DeleteCollection(ctx, shadowName); err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}
	shadow, err := s.db.GetOrCreateCollection(ctx, shadowName, meta)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	records := make([]vectordb.Record, len(all))
	for i, r := range all {
		records[i] = vectordb.Record{ID: r.ID, Embedding: vecs[i], Document: r.Document, Metadata: r.Metadata}
	}
	if err := shadow.Add(ctx, records); err != nil {
		s.dropShadow(shadowName)
		return fmt.Errorf("%w: writing shadow collection: %w", ErrMigrationFailed, err)
	}

	if err := s.db.SwapCollections(ctx, s.name, shadowName); err != nil {
		s.dropShadow(shadowName)
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	coll, err := s.db.GetCollection(ctx, s.name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}
	s.coll = coll
	s.meta = meta
	s.log.Info("migration complete", zap.Int("documents", len(all)), zap.Int("dimension", s.emb.Dimension()))
	return nil
}

func (s *Store) dropShadow(name string) {
	if err := s.db.DeleteCollection(context.Background(), name); err != nil {
		s.log.Warn("could not remove shadow collection", zap.String("shadow", name), zap.Error(err))
	}
}

// PaperMetadata returns every field of p except the abstract.
func PaperMetadata(p types.ScoredPaper) map[string]any {
	return map[string]any{
		"id":            p.ID,
		"title":         p.Title,
		"journal":       p.Journal,
		"year":          p.Year,
		"score":         p.Score,
		"is_review":     p.IsReview,
		"is_preprint":   p.IsPreprint,
		"impact_factor": p.ImpactFactor,
		"citations":     p.Citations,
		"doi":           p.DOI,
		"reasons":       strings.Join(p.Reasons, ", "),
		"category":      string(p.Category),
	}
}
