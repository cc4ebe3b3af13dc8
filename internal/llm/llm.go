// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm wraps the generative text providers (Gemini, DeepSeek,
// Claude) behind one Provider interface and tries them in a configured
// priority order.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrNoProvider is returned when no provider has credentials configured.
var ErrNoProvider = errors.New("no API keys provided: set GEMINI_API_KEY, DEEPSEEK_API_KEY or ANTHROPIC_API_KEY")

// Request is a single-turn completion request.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Provider completes a prompt with one backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// Result is the outcome of a Chain call.
type Result struct {
	Text     string
	Provider string

	// Attempts counts the providers tried, including the successful one.
	Attempts int
}

// Chain tries providers in order and returns the first non-empty answer.
type Chain struct {
	providers []Provider
	log       *zap.Logger
}

// NewChain returns a Chain over providers in the given order.
func NewChain(log *zap.Logger, providers ...Provider) *Chain {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chain{providers: providers, log: log}
}

// Len returns the number of configured providers.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.providers)
}

// Names lists the providers in priority order.
func (c *Chain) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Complete runs req against each provider until one succeeds. An empty
// chain fails with ErrNoProvider; when every provider fails the errors
// are joined.
func (c *Chain) Complete(ctx context.Context, req Request) (Result, error) {
	if c.Len() == 0 {
		return Result{}, ErrNoProvider
	}

	var errs []error
	for i, p := range c.providers {
		text, err := p.Complete(ctx, req)
		if err == nil && strings.TrimSpace(text) == "" {
			err = errors.New("empty completion")
		}
		if err != nil {
			c.log.Warn("provider failed", zap.String("provider", p.Name()), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		return Result{Text: strings.TrimSpace(text), Provider: p.Name(), Attempts: i + 1}, nil
	}
	return Result{Attempts: len(errs)}, errors.Join(errs...)
}
