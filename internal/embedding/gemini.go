// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pdiddy/lit-miner/internal/httputil"
)

// geminiAPIBase is declared as a var so tests can substitute an httptest server.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

const (
	defaultGeminiModel = "text-embedding-004"

	// geminiBatchSize is the request limit of batchEmbedContents.
	geminiBatchSize = 100

	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

// geminiDimensions holds the native vector length of known models.
var geminiDimensions = map[string]int{
	"text-embedding-004":         768,
	"embedding-001":              768,
	"gemini-embedding-001":       3072,
	"gemini-embedding-exp-03-07": 3072,
}

// Gemini calls the Generative Language embedding endpoints.
type Gemini struct {
	APIKey string
	Model  string

	// Dim requests a reduced output dimensionality; 0 keeps the model's
	// native size, which must then be known.
	Dim    int
	Client *http.Client
}

// NewGemini builds a Gemini embedder. dim may be 0 for models with a known
// native size; other models must state their dimension.
func NewGemini(apiKey, model string, dim int, client *http.Client) (*Gemini, error) {
	g := &Gemini{APIKey: apiKey, Model: model, Dim: dim, Client: client}
	if g.Dimension() == 0 {
		return nil, fmt.Errorf("embedding model %s: dimension must be configured", g.model())
	}
	return g, nil
}

func (g *Gemini) model() string {
	if g.Model == "" {
		return defaultGeminiModel
	}
	return g.Model
}

// Name returns "gemini/<model>".
func (g *Gemini) Name() string { return "gemini/" + g.model() }

// Dimension returns the vector length produced, 0 for an unknown model
// without Dim.
func (g *Gemini) Dimension() int {
	if g.Dim > 0 {
		return g.Dim
	}
	return geminiDimensions[g.model()]
}

// checkLen rejects a vector whose length differs from Dimension, so a
// stored collection never holds vectors of a size the embedder does not
// report.
func (g *Gemini) checkLen(v []float64) error {
	if want := g.Dimension(); len(v) != want {
		return fmt.Errorf("gemini %s returned %d values, want %d: set embedding.dimension", g.model(), len(v), want)
	}
	return nil
}

type geminiEmbedRequest struct {
	Model                string        `json:"model"`
	Content              geminiContent `json:"content"`
	TaskType             string        `json:"taskType"`
	OutputDimensionality int           `json:"outputDimensionality,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiValues struct {
	Values []float64 `json:"values"`
}

func (g *Gemini) request(text, task string) geminiEmbedRequest {
	return geminiEmbedRequest{
		Model:                "models/" + g.model(),
		Content:              geminiContent{Parts: []geminiPart{{Text: text}}},
		TaskType:             task,
		OutputDimensionality: g.Dim,
	}
}

func (g *Gemini) headers() map[string]string {
	return map[string]string{"x-goog-api-key": g.APIKey}
}

// EmbedDocuments embeds texts for storage, in batches of 100.
func (g *Gemini) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	url := fmt.Sprintf("%s/models/%s:batchEmbedContents", geminiAPIBase, g.model())

	for start := 0; start < len(texts); start += geminiBatchSize {
		end := min(start+geminiBatchSize, len(texts))
		var body struct {
			Requests []geminiEmbedRequest `json:"requests"`
		}
		for _, t := range texts[start:end] {
			body.Requests = append(body.Requests, g.request(t, taskDocument))
		}

		var resp struct {
			Embeddings []geminiValues `json:"embeddings"`
		}
		if err := httputil.PostJSON(ctx, g.Client, url, g.headers(), body, &resp); err != nil {
			return nil, fmt.Errorf("gemini batchEmbedContents: %w", err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", len(resp.Embeddings), end-start)
		}
		for _, e := range resp.Embeddings {
			if err := g.checkLen(e.Values); err != nil {
				return nil, err
			}
			out = append(out, toFloat32(e.Values))
		}
	}
	return out, nil
}

// EmbedQuery embeds a search query.
func (g *Gemini) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	url := fmt.Sprintf("%s/models/%s:embedContent", geminiAPIBase, g.model())
	var resp struct {
		Embedding geminiValues `json:"embedding"`
	}
	if err := httputil.PostJSON(ctx, g.Client, url, g.headers(), g.request(text, taskQuery), &resp); err != nil {
		return nil, fmt.Errorf("gemini embedContent: %w", err)
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, errors.New("gemini returned an empty embedding")
	}
	if err := g.checkLen(resp.Embedding.Values); err != nil {
		return nil, err
	}
	return toFloat32(resp.Embedding.Values), nil
}
