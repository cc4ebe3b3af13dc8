// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	defaultOpenAIModel = "text-embedding-3-small"
	openAIBatchSize    = 256
)

var openAIDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAI embeds through any OpenAI-compatible embeddings endpoint.
type OpenAI struct {
	client openai.Client
	model  string
	dim    int

	// reduced is set when a non-native dimension was requested.
	reduced bool
}

// NewOpenAI builds an OpenAI embedder. dim may be 0 for models with a
// known native size; other models must state their dimension.
func NewOpenAI(apiKey, model, baseURL string, dim int, opts ...option.RequestOption) (*OpenAI, error) {
	if model == "" {
		model = defaultOpenAIModel
	}
	native, known := openAIDimensions[model]
	reduced := dim > 0 && dim != native
	if dim <= 0 {
		if !known {
			return nil, fmt.Errorf("embedding model %s: dimension must be configured", model)
		}
		dim = native
	}

	all := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(2)}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	all = append(all, opts...)
	return &OpenAI{client: openai.NewClient(all...), model: model, dim: dim, reduced: reduced && known}, nil
}

// Name returns "openai/<model>".
func (o *OpenAI) Name() string { return "openai/" + o.model }

// Dimension returns the vector length produced.
func (o *OpenAI) Dimension() int { return o.dim }

// EmbedDocuments embeds texts in batches.
func (o *OpenAI) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += openAIBatchSize {
		end := min(start+openAIBatchSize, len(texts))
		vecs, err := o.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// EmbedQuery embeds a single query.
func (o *OpenAI) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := o.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (o *OpenAI) embed(ctx context.Context, texts []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(o.model),
	}
	if o.reduced {
		params.Dimensions = openai.Int(int64(o.dim))
	}

	resp, err := o.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, fmt.Errorf("openai returned embedding index %d out of range", d.Index)
		}
		out[d.Index] = toFloat32(d.Embedding)
	}
	return out, nil
}
