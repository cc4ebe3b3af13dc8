// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultHashingDimension is the vector length of the local embedder.
const DefaultHashingDimension = 384

// Hashing is a deterministic, offline embedder: lowercased word unigrams
// and bigrams are hashed into signed buckets and the result is
// L2-normalized. Texts sharing vocabulary land close together.
type Hashing struct {
	dim int
}

// NewHashing returns a hashing embedder; dim <= 0 selects the default.
func NewHashing(dim int) *Hashing {
	if dim <= 0 {
		dim = DefaultHashingDimension
	}
	return &Hashing{dim: dim}
}

// Name returns "hashing/<dim>".
func (h *Hashing) Name() string { return fmt.Sprintf("hashing/%d", h.dim) }

// Dimension returns the vector length.
func (h *Hashing) Dimension() int { return h.dim }

// EmbedDocuments embeds each text independently.
func (h *Hashing) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(t)
	}
	return out, nil
}

// EmbedQuery embeds a query the same way as a document.
func (h *Hashing) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.vector(text), nil
}

func (h *Hashing) vector(text string) []float32 {
	v := make([]float64, h.dim)
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, tok := range tokens {
		h.add(v, tok, 1)
		if i > 0 {
			h.add(v, tokens[i-1]+" "+tok, 0.5)
		}
	}

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	out := make([]float32, h.dim)
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, x := range v {
		out[i] = float32(x / norm)
	}
	return out
}

func (h *Hashing) add(v []float64, feature string, weight float64) {
	f := fnv.New64a()
	f.Write([]byte(feature))
	sum := f.Sum64()
	idx := int(sum % uint64(h.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	v[idx] += weight
}
