// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/lit-miner/internal/httputil"
)

// geminiAPIBase is the Generative Language API root. Declared as a var so
// tests can substitute an httptest server.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini calls the Gemini generateContent endpoint.
type Gemini struct {
	APIKey string
	Model  string
	Client *http.Client
}

// Name returns the provider identifier.
func (g *Gemini) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent        `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// Complete sends req as a single user turn.
func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	model := g.Model
	if model == "" {
		model = defaultGeminiModel
	}

	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", geminiAPIBase, model)
	headers := map[string]string{"x-goog-api-key": g.APIKey}

	var resp geminiResponse
	if err := httputil.PostJSON(ctx, g.Client, url, headers, body, &resp); err != nil {
		return "", fmt.Errorf("gemini generateContent: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}
