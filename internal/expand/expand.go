// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expand turns a free-text topic, possibly in Chinese, into a
// PubMed boolean search expression. Strategies are tried in order (the
// generative strategy first when enabled, the deterministic table-based
// strategy last) and results are cached per raw query.
package expand

import (
	"context"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
)

// DefaultTimeout bounds the generative expansion call.
const DefaultTimeout = 10 * time.Second

// Result is the outcome of one strategy.
type Result struct {
	Query string
	OK    bool
	Err   error
}

// Strategy expands a trimmed, non-empty query. cjk reports whether the
// query contains Han ideographs.
type Strategy interface {
	Name() string
	Expand(ctx context.Context, query string, cjk bool) Result
}

// Expander runs the strategy chain with caching.
type Expander struct {
	cache   Cache
	ai      Strategy
	legacy  Strategy
	timeout time.Duration
	log     *zap.Logger
}

// Option configures an Expander.
type Option func(*Expander)

// WithCache replaces the default in-memory cache.
func WithCache(c Cache) Option { return func(e *Expander) { e.cache = c } }

// WithAI sets the generative strategy tried before the legacy tables.
func WithAI(s Strategy) Option { return func(e *Expander) { e.ai = s } }

// WithTimeout sets the latency budget for the generative strategy.
func WithTimeout(d time.Duration) Option { return func(e *Expander) { e.timeout = d } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(e *Expander) { e.log = l } }

// New returns an Expander. Without WithAI only the legacy strategy runs.
func New(opts ...Option) *Expander {
	e := &Expander{
		cache:   NewMemoryCache(),
		legacy:  Legacy{},
		timeout: DefaultTimeout,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Cache returns the expander's cache.
func (e *Expander) Cache() Cache { return e.cache }

// Strategies lists the strategies Expand would try, in order.
func (e *Expander) Strategies(useAI bool) []Strategy {
	var chain []Strategy
	if useAI && e.ai != nil {
		chain = append(chain, e.ai)
	}
	return append(chain, e.legacy)
}

// Expand returns the search expression for query. An empty or blank query
// yields "". Strategy failures never surface: the legacy strategy always
// produces a value.
func (e *Expander) Expand(ctx context.Context, query string, useAI bool) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return ""
	}

	if cached, ok := e.cache.Get(q); ok {
		e.log.Debug("expansion cache hit", zap.String("query", q))
		return cached
	}

	cjk := ContainsCJK(q)
	for _, s := range e.Strategies(useAI) {
		sctx, cancel := context.WithTimeout(ctx, e.timeout)
		res := s.Expand(sctx, q, cjk)
		cancel()

		if !res.OK {
			e.log.Warn("query expansion strategy failed, falling back",
				zap.String("strategy", s.Name()), zap.String("query", q), zap.Error(res.Err))
			continue
		}

		e.log.Info("query expanded", zap.String("strategy", s.Name()),
			zap.String("query", q), zap.String("expanded", res.Query))
		e.cache.Put(q, res.Query)
		return res.Query
	}

	return q
}

// ContainsCJK reports whether s contains a Han ideograph.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
