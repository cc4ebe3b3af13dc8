// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes the mining and review steps into the two
// operations the CLI exposes: mine a topic into its collection, and write a
// review from a stored collection.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/lit-miner/internal/embedding"
	"github.com/pdiddy/lit-miner/internal/history"
	"github.com/pdiddy/lit-miner/internal/memory"
	"github.com/pdiddy/lit-miner/internal/miner"
	"github.com/pdiddy/lit-miner/internal/review"
	"github.com/pdiddy/lit-miner/internal/vectordb"
	"github.com/pdiddy/lit-miner/pkg/types"
)

// ErrEmptyQuery is returned for a blank topic.
var ErrEmptyQuery = errors.New("query is empty: provide a research topic")

// Expander produces the search expression for a topic.
type Expander interface {
	Expand(ctx context.Context, query string, useAI bool) string
}

// Miner runs a mining pass for a search expression.
type Miner interface {
	Mine(ctx context.Context, term string, limit int) ([]types.ScoredPaper, miner.RunStats, error)
}

// ReviewWriter writes a review from evidence.
type ReviewWriter interface {
	Generate(ctx context.Context, in review.Input) (review.Review, error)
}

// Pipeline holds the components shared by Mine and Review. History and
// Writer may be nil when the corresponding step is not used.
type Pipeline struct {
	Expander Expander
	Miner    Miner
	DB       *vectordb.DB
	Embedder embedding.Embedder
	History  *history.History
	Writer   ReviewWriter
	Mining   types.MiningConfig
	Log      *zap.Logger
}

// MineOptions tunes one Mine call.
type MineOptions struct {
	// Limit is the number of search hits requested; 0 uses the configured default.
	Limit int
	UseAI bool
	Tags  []string

	// NoStore skips writing the selection to the topic's collection.
	NoStore bool
}

// MineResult is the outcome of Mine.
type MineResult struct {
	Query      string              `json:"query"`
	Expanded   string              `json:"expanded"`
	Papers     []types.ScoredPaper `json:"papers"`
	Stats      miner.RunStats      `json:"stats"`
	Collection string              `json:"collection,omitempty"`
	Added      int                 `json:"added"`
}

func (p *Pipeline) log() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// Mine expands topic, mines it, stores the selected papers in the topic's
// collection and records the run in the history.
func (p *Pipeline) Mine(ctx context.Context, topic string, opts MineOptions) (MineResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return MineResult{}, ErrEmptyQuery
	}
	res := MineResult{Query: topic}

	res.Expanded = p.Expander.Expand(ctx, topic, opts.UseAI)

	papers, stats, err := p.Miner.Mine(ctx, res.Expanded, p.Mining.ClampLimit(opts.Limit))
	if err != nil {
		return res, fmt.Errorf("mining %q: %w", topic, err)
	}
	res.Papers, res.Stats = papers, stats

	if len(papers) > 0 && !opts.NoStore {
		store, err := memory.OpenTopic(ctx, p.DB, topic, p.Embedder, p.log())
		if err != nil {
			return res, fmt.Errorf("opening collection: %w", err)
		}
		res.Collection = store.Name()
		if res.Added, err = store.Add(ctx, papers); err != nil {
			return res, fmt.Errorf("storing papers: %w", err)
		}
	}

	if p.History != nil {
		if _, err := p.History.Add(topic, len(papers), opts.Tags); err != nil {
			p.log().Warn("recording history failed", zap.Error(err))
		}
	}
	return res, nil
}

// ReviewOptions tunes one Review call.
type ReviewOptions struct {
	// Topic overrides the review title and retrieval query.
	Topic string

	// N is the number of papers retrieved (default 10).
	N int
}

// Review retrieves the papers stored for query and writes a review.
func (p *Pipeline) Review(ctx context.Context, query string, opts ReviewOptions) (review.Review, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return review.Review{}, ErrEmptyQuery
	}
	if p.Writer == nil {
		return review.Review{}, errors.New("no review writer configured")
	}
	n := opts.N
	if n <= 0 {
		n = 10
	}

	ev, err := p.Evidence(ctx, query, opts.Topic, n)
	if err != nil {
		return review.Review{}, err
	}
	return p.Writer.Generate(ctx, review.Input{
		Topic:      opts.Topic,
		RawQuery:   query,
		SearchTerm: query,
		Evidence:   ev,
	})
}

// Evidence returns the n papers nearest to searchTopic (query when empty)
// from the collection stored for query.
func (p *Pipeline) Evidence(ctx context.Context, query, searchTopic string, n int) (types.Evidence, error) {
	name, err := memory.FindCollection(ctx, p.DB, query)
	if err != nil {
		return types.Evidence{}, err
	}
	store, err := memory.Open(ctx, p.DB, name, p.Embedder, p.log())
	if err != nil {
		return types.Evidence{}, fmt.Errorf("opening collection %s: %w", name, err)
	}
	if searchTopic == "" {
		searchTopic = query
	}
	return store.Query(ctx, searchTopic, n)
}
