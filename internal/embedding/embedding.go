// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embedding turns text into fixed-length vectors. Providers differ
// in vector length, and that length decides whether a stored collection
// must be migrated.
package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/lit-miner/pkg/types"
)

// Embedder produces vectors of a fixed Dimension.
type Embedder interface {
	// Name identifies provider and model, e.g. "gemini/text-embedding-004".
	Name() string
	Dimension() int
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Keys carries the API keys available to Select.
type Keys struct {
	Gemini string
	OpenAI string
}

// AutoPriority is the provider order tried by the "auto" setting.
var AutoPriority = []string{"gemini", "openai", "hashing"}

// Select returns the configured embedder. With provider "auto" (or empty)
// the first provider in AutoPriority that has a key wins; the local
// hashing embedder needs none, so auto always succeeds.
func Select(cfg types.EmbeddingConfig, keys Keys, log *zap.Logger) (Embedder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	client := &http.Client{Timeout: 120 * time.Second}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" || provider == "auto" {
		for _, name := range AutoPriority {
			if name == "gemini" && keyFor(cfg, keys.Gemini) == "" {
				continue
			}
			if name == "openai" && keyFor(cfg, keys.OpenAI) == "" {
				continue
			}
			e, err := build(name, cfg, keys, client)
			if err != nil {
				return nil, err
			}
			log.Debug("embedding provider selected", zap.String("provider", e.Name()), zap.Int("dimension", e.Dimension()))
			return e, nil
		}
	}
	e, err := build(provider, cfg, keys, client)
	if err != nil {
		return nil, err
	}
	log.Debug("embedding provider selected", zap.String("provider", e.Name()), zap.Int("dimension", e.Dimension()))
	return e, nil
}

func build(name string, cfg types.EmbeddingConfig, keys Keys, client *http.Client) (Embedder, error) {
	switch name {
	case "gemini":
		key := keyFor(cfg, keys.Gemini)
		if key == "" {
			return nil, fmt.Errorf("embedding provider gemini: no API key configured")
		}
		return NewGemini(key, cfg.Model, cfg.Dimension, client)
	case "openai":
		key := keyFor(cfg, keys.OpenAI)
		if key == "" {
			return nil, fmt.Errorf("embedding provider openai: no API key configured")
		}
		return NewOpenAI(key, cfg.Model, cfg.BaseURL, cfg.Dimension)
	case "hashing":
		return NewHashing(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", name)
	}
}

// keyFor prefers an explicit embedding key over the provider's shared key.
func keyFor(cfg types.EmbeddingConfig, shared string) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	return shared
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
