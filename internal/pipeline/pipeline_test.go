// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lit-miner/internal/embedding"
	"github.com/pdiddy/lit-miner/internal/expand"
	"github.com/pdiddy/lit-miner/internal/history"
	"github.com/pdiddy/lit-miner/internal/llm"
	"github.com/pdiddy/lit-miner/internal/memory"
	"github.com/pdiddy/lit-miner/internal/miner"
	"github.com/pdiddy/lit-miner/internal/review"
	"github.com/pdiddy/lit-miner/internal/vectordb"
	"github.com/pdiddy/lit-miner/pkg/types"
)

type fakeMiner struct {
	papers []types.ScoredPaper
	terms  []string
	limits []int
}

func (f *fakeMiner) Mine(_ context.Context, term string, limit int) ([]types.ScoredPaper, miner.RunStats, error) {
	f.terms = append(f.terms, term)
	f.limits = append(f.limits, limit)
	return f.papers, miner.RunStats{Found: len(f.papers), Scored: len(f.papers), Selected: len(f.papers)}, nil
}

type stubLLM struct{ prompts []string }

func (s *stubLLM) Complete(_ context.Context, req llm.Request) (llm.Result, error) {
	s.prompts = append(s.prompts, req.Prompt)
	return llm.Result{Text: "Review body [1].", Provider: "stub", Attempts: 1}, nil
}

func newPipeline(t *testing.T, m Miner, c review.Completer) *Pipeline {
	t.Helper()
	dir := t.TempDir()
	db, err := vectordb.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Pipeline{
		Expander: expand.New(),
		Miner:    m,
		DB:       db,
		Embedder: embedding.NewHashing(64),
		History:  history.New(dir, nil),
		Writer:   review.NewWriter(c, nil, 0, 0, nil),
		Mining:   types.MiningConfig{DefaultLimit: 200, MaxLimit: 500},
	}
}

func papers() []types.ScoredPaper {
	return []types.ScoredPaper{
		{ID: "11", Title: "Periodontitis and diabetes", Abstract: "periodontitis severity correlates with glycemic control",
			Journal: "Journal of clinical periodontology", Year: 2025, Score: 15, Category: types.CategoryRecent},
		{ID: "12", Title: "Scaling outcomes", Abstract: "scaling and root planing reduced probing depth by 1.2 mm",
			Journal: "Journal of periodontology", Year: 2022, Score: 9, Category: types.CategoryDataRich},
	}
}

func TestMine_StoresAndRecords(t *testing.T) {
	ctx := context.Background()
	fm := &fakeMiner{papers: papers()}
	p := newPipeline(t, fm, &stubLLM{})

	res, err := p.Mine(ctx, " 牙周炎 ", MineOptions{Tags: []string{"perio"}})
	require.NoError(t, err)

	assert.Equal(t, "牙周炎", res.Query)
	assert.Contains(t, strings.ToLower(res.Expanded), "periodontitis")
	assert.Equal(t, []string{res.Expanded}, fm.terms)
	assert.Equal(t, []int{200}, fm.limits)
	assert.Equal(t, memory.CollectionName("牙周炎"), res.Collection)
	assert.Equal(t, 2, res.Added)
	assert.Len(t, res.Papers, 2)

	again, err := p.Mine(ctx, "牙周炎", MineOptions{Limit: 900})
	require.NoError(t, err)
	assert.Zero(t, again.Added)
	assert.Equal(t, 500, fm.limits[1])

	entries := p.History.List(0)
	require.Len(t, entries, 2)
	assert.Equal(t, "牙周炎", entries[1].Query)
	assert.Equal(t, []string{"perio"}, entries[1].Tags)
	assert.Equal(t, 2, entries[1].PapersCount)
}

func TestMine_EmptyTopic(t *testing.T) {
	fm := &fakeMiner{}
	_, err := newPipeline(t, fm, &stubLLM{}).Mine(context.Background(), "   ", MineOptions{})
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Empty(t, fm.terms)
}

func TestMine_NoPapersSkipsStorage(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, &fakeMiner{}, &stubLLM{})
	res, err := p.Mine(ctx, "rare topic", MineOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Collection)

	topics, err := memory.ListTopics(ctx, p.DB)
	require.NoError(t, err)
	assert.Empty(t, topics)
	require.Len(t, p.History.List(0), 1)
	assert.Zero(t, p.History.List(0)[0].PapersCount)
}

func TestMine_NoStore(t *testing.T) {
	p := newPipeline(t, &fakeMiner{papers: papers()}, &stubLLM{})
	res, err := p.Mine(context.Background(), "periodontitis", MineOptions{NoStore: true})
	require.NoError(t, err)
	assert.Empty(t, res.Collection)
	assert.Len(t, res.Papers, 2)
}

func TestReview(t *testing.T) {
	ctx := context.Background()
	stub := &stubLLM{}
	p := newPipeline(t, &fakeMiner{papers: papers()}, stub)
	_, err := p.Mine(ctx, "periodontitis therapy", MineOptions{})
	require.NoError(t, err)

	r, err := p.Review(ctx, "periodontitis therapy", ReviewOptions{Topic: "Periodontal Therapy", N: 5})
	require.NoError(t, err)
	assert.Equal(t, "Periodontal Therapy", r.Topic)
	assert.Equal(t, 2, r.Sources)
	assert.Contains(t, r.Markdown, "## References")
	assert.Contains(t, r.Markdown, "(PMID:11")
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "Original question: periodontitis therapy")
}

func TestReview_UnknownTopic(t *testing.T) {
	_, err := newPipeline(t, &fakeMiner{}, &stubLLM{}).Review(context.Background(), "never mined", ReviewOptions{})
	assert.ErrorIs(t, err, vectordb.ErrCollectionNotFound)
}

func TestEvidence_UsesSearchTopic(t *testing.T) {
	ctx := context.Background()
	p := newPipeline(t, &fakeMiner{papers: papers()}, &stubLLM{})
	_, err := p.Mine(ctx, "perio", MineOptions{})
	require.NoError(t, err)

	ev, err := p.Evidence(ctx, "perio", "scaling root planing probing depth", 1)
	require.NoError(t, err)
	require.Equal(t, 1, ev.Len())
	assert.Equal(t, "12", ev.IDs[0])
}
