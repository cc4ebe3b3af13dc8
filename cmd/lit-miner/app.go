// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/lit-miner/internal/embedding"
	"github.com/pdiddy/lit-miner/internal/expand"
	"github.com/pdiddy/lit-miner/internal/history"
	"github.com/pdiddy/lit-miner/internal/llm"
	"github.com/pdiddy/lit-miner/internal/miner"
	"github.com/pdiddy/lit-miner/internal/pipeline"
	"github.com/pdiddy/lit-miner/internal/prompts"
	"github.com/pdiddy/lit-miner/internal/pubmed"
	"github.com/pdiddy/lit-miner/internal/review"
	"github.com/pdiddy/lit-miner/internal/rubric"
	"github.com/pdiddy/lit-miner/internal/vectordb"
	"github.com/pdiddy/lit-miner/pkg/types"
)

// app holds the components one command invocation needs.
type app struct {
	cfg      types.Config
	db       *vectordb.DB
	embedder embedding.Embedder
	chain    *llm.Chain
	expander *expand.Expander
	pipeline *pipeline.Pipeline
}

func newApp() (*app, error) {
	cfg := loadConfig(viper.GetViper())
	l := log()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	rub := rubric.Default()
	if cfg.RubricFile != "" {
		r, err := rubric.Load(cfg.RubricFile)
		if err != nil {
			return nil, err
		}
		rub = r
	}

	set := prompts.Default()
	if cfg.Review.PromptsFile != "" {
		s, err := prompts.Load(cfg.Review.PromptsFile)
		if err != nil {
			return nil, err
		}
		set = s
	}

	chain, err := llm.FromConfig(cfg.LLM, l)
	if err != nil {
		return nil, err
	}

	emb, err := embedding.Select(cfg.Embedding, embedding.Keys{
		Gemini: cfg.LLM.Gemini.APIKey,
		OpenAI: viper.GetString("openai_api_key"),
	}, l)
	if err != nil {
		return nil, err
	}

	db, err := vectordb.Open(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	opts := []expand.Option{expand.WithLogger(l)}
	if chain.Len() > 0 {
		opts = append(opts, expand.WithAI(&expand.AI{Completer: chain, Prompts: set}))
	}
	if cfg.Expansion.Timeout > 0 {
		opts = append(opts, expand.WithTimeout(cfg.Expansion.Timeout))
	}
	exp := expand.New(opts...)

	a := &app{cfg: cfg, db: db, embedder: emb, chain: chain, expander: exp}
	a.pipeline = &pipeline.Pipeline{
		Expander: exp,
		Miner:    miner.New(pubmed.New(cfg.PubMed, l), rub, miner.LimitsFromConfig(cfg.Mining), l),
		DB:       db,
		Embedder: emb,
		History:  history.New(cfg.DataDir, l),
		Writer:   review.NewWriter(chain, set, cfg.LLM.Temperature, cfg.LLM.MaxTokens, l),
		Mining:   cfg.Mining,
		Log:      l,
	}
	l.Debug("app ready",
		zap.String("data_dir", cfg.DataDir),
		zap.String("embedding", emb.Name()),
		zap.Strings("llm", chain.Names()))
	return a, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
