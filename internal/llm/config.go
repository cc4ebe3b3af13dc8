// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/lit-miner/pkg/types"
)

// DefaultPriority is the provider order used when none is configured.
var DefaultPriority = []string{"gemini", "deepseek", "claude"}

// FromConfig builds a Chain from the providers in cfg.Priority that have
// an API key. Providers without a key are skipped, so the chain may be
// empty; callers get ErrNoProvider on first use.
func FromConfig(cfg types.LLMConfig, log *zap.Logger) (*Chain, error) {
	if log == nil {
		log = zap.NewNop()
	}
	priority := cfg.Priority
	if len(priority) == 0 {
		priority = DefaultPriority
	}

	client := &http.Client{Timeout: 120 * time.Second}

	var providers []Provider
	for _, name := range priority {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "gemini":
			if cfg.Gemini.APIKey != "" {
				providers = append(providers, &Gemini{APIKey: cfg.Gemini.APIKey, Model: cfg.Gemini.Model, Client: client})
			}
		case "deepseek":
			if cfg.DeepSeek.APIKey != "" {
				providers = append(providers, NewDeepSeek(cfg.DeepSeek.APIKey, cfg.DeepSeek.Model, cfg.DeepSeek.BaseURL))
			}
		case "claude":
			if cfg.Claude.APIKey != "" {
				providers = append(providers, NewClaude(cfg.Claude.APIKey, cfg.Claude.Model, cfg.Claude.BaseURL))
			}
		default:
			return nil, fmt.Errorf("unknown llm provider %q", name)
		}
	}

	chain := NewChain(log, providers...)
	log.Debug("llm providers configured", zap.Strings("providers", chain.Names()))
	return chain, nil
}
