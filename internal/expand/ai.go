// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expand

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/lit-miner/internal/llm"
	"github.com/pdiddy/lit-miner/internal/prompts"
)

// maxExpansionLen bounds an acceptable generated query in characters, exclusive.
const maxExpansionLen = 1000

// Completer is the generative backend used by AI. *llm.Chain satisfies it.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (llm.Result, error)
}

// AI asks a generative model to write the search expression.
type AI struct {
	Completer Completer
	Prompts   *prompts.Set
}

// Name returns the strategy identifier.
func (a *AI) Name() string { return "ai" }

// Expand renders the direction-specific prompt, makes one completion
// call, and validates the cleaned answer.
func (a *AI) Expand(ctx context.Context, query string, cjk bool) Result {
	if a.Completer == nil {
		return Result{Err: errors.New("no completer configured")}
	}
	set := a.Prompts
	if set == nil {
		set = prompts.Default()
	}

	tmpl := set.EnglishOptimization
	if cjk {
		tmpl = set.CJKToPubMed
	}
	prompt, err := prompts.Render(tmpl, prompts.ExpansionData{Query: query})
	if err != nil {
		return Result{Err: err}
	}

	res, err := a.Completer.Complete(ctx, llm.Request{Prompt: prompt, Temperature: 0.3, MaxTokens: 300})
	if err != nil {
		return Result{Err: err}
	}

	out := Clean(res.Text)
	n := utf8.RuneCountInString(out)
	switch {
	case n == 0 || n >= maxExpansionLen:
		return Result{Err: fmt.Errorf("invalid expansion length %d", n)}
	case out == query:
		return Result{Err: errors.New("expansion identical to input")}
	}
	return Result{Query: out, OK: true}
}

// Clean strips markdown code fences, backticks, and one pair of quotes
// wrapping the whole answer. Quotes that belong to the query itself
// ("a"[MeSH] OR "b") are kept.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "()\"") {
			s = s[nl+1:] // language tag line
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	s = strings.Trim(strings.TrimSpace(s), "`")
	for _, q := range []string{`"`, "'"} {
		inner := strings.TrimSuffix(strings.TrimPrefix(s, q), q)
		if len(s) >= 2 && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && !strings.Contains(inner, q) {
			s = inner
		}
	}
	return strings.TrimSpace(s)
}
