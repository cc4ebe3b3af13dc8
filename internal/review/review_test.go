// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/lit-miner/internal/llm"
	"github.com/pdiddy/lit-miner/pkg/types"
)

type stubLLM struct {
	replies []string
	err     error
	reqs    []llm.Request
}

func (s *stubLLM) Complete(_ context.Context, req llm.Request) (llm.Result, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return llm.Result{}, s.err
	}
	text := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return llm.Result{Text: text, Provider: "stub", Attempts: 1}, nil
}

func sampleEvidence() types.Evidence {
	return types.Evidence{
		IDs:       []string{"111", "222"},
		Distances: []float64{0.1, 0.3},
		Metadatas: []map[string]any{
			{"title": "Ridge preservation outcomes", "journal": "Journal of periodontology", "year": float64(2024), "citations": float64(12)},
			{"title": "Xenograft healing", "journal": "", "year": nil},
		},
		Documents: []string{strings.Repeat("a", 900), "short abstract"},
	}
}

func TestGenerate(t *testing.T) {
	stub := &stubLLM{replies: []string{"# Review\n\nGrafts help [1]. Healing varies [2, 5].\n"}}
	w := NewWriter(stub, nil, 0, 2000, nil)

	r, err := w.Generate(context.Background(), Input{Topic: "Socket grafting", RawQuery: "牙槽嵴保存", Evidence: sampleEvidence()})
	require.NoError(t, err)

	assert.Equal(t, "Socket grafting", r.Topic)
	assert.Equal(t, "stub", r.Provider)
	assert.Equal(t, 2, r.Sources)
	assert.Equal(t, []int{5}, r.InvalidCitations)
	assert.True(t, strings.HasPrefix(r.Markdown, "# Review\n\nGrafts help [1]."))
	assert.Contains(t, r.Markdown, "\n\n## References\n\n1. Ridge preservation outcomes. Journal of periodontology 2024. (PMID:111, cited: 12)\n")
	assert.Contains(t, r.Markdown, "2. Xenograft healing (PMID:222)\n")

	require.Len(t, stub.reqs, 1)
	prompt := stub.reqs[0].Prompt
	assert.Contains(t, prompt, "ONLY the 2 papers")
	assert.Contains(t, prompt, "Topic: Socket grafting")
	assert.Contains(t, prompt, "牙槽嵴保存")
	assert.Contains(t, prompt, "(not recorded)")
	assert.Contains(t, prompt, "[Source 1] (PMID:111)")
	assert.Contains(t, prompt, strings.Repeat("a", 800)+"\n")
	assert.NotContains(t, prompt, strings.Repeat("a", 801))
	assert.Equal(t, 0.7, stub.reqs[0].Temperature)
	assert.Equal(t, 2000, stub.reqs[0].MaxTokens)
}

func TestGenerate_NoEvidence(t *testing.T) {
	stub := &stubLLM{replies: []string{"x"}}
	_, err := NewWriter(stub, nil, 0, 0, nil).Generate(context.Background(), Input{Topic: "t"})
	assert.ErrorIs(t, err, ErrNoEvidence)
	assert.Empty(t, stub.reqs)
}

func TestGenerate_ProviderErrorIsTyped(t *testing.T) {
	stub := &stubLLM{err: llm.ErrNoProvider}
	_, err := NewWriter(stub, nil, 0, 0, nil).Generate(context.Background(), Input{Topic: "t", Evidence: sampleEvidence()})
	assert.ErrorIs(t, err, llm.ErrNoProvider)
}

func TestGenerate_GeneratesTopic(t *testing.T) {
	stub := &stubLLM{replies: []string{`"Alveolar Ridge Preservation"`, "body"}}
	r, err := NewWriter(stub, nil, 0, 0, nil).Generate(context.Background(), Input{Evidence: sampleEvidence()})
	require.NoError(t, err)
	assert.Equal(t, "Alveolar Ridge Preservation", r.Topic)
	require.Len(t, stub.reqs, 2)
	assert.Contains(t, stub.reqs[0].Prompt, "Ridge preservation outcomes\nXenograft healing")
	assert.Equal(t, 100, stub.reqs[0].MaxTokens)
}

func TestTopic_Fallbacks(t *testing.T) {
	w := NewWriter(&stubLLM{err: errors.New("down")}, nil, 0, 0, nil)
	assert.Equal(t, "ridge", w.Topic(context.Background(), sampleEvidence(), "ridge"))
	assert.Equal(t, DefaultTopic, w.Topic(context.Background(), sampleEvidence(), ""))
	assert.Equal(t, DefaultTopic, w.Topic(context.Background(), types.Evidence{}, " "))

	blank := NewWriter(&stubLLM{replies: []string{` "" `}}, nil, 0, 0, nil)
	assert.Equal(t, "q", blank.Topic(context.Background(), sampleEvidence(), "q"))
}

func TestTopic_UsesFirstFiveTitles(t *testing.T) {
	ev := types.Evidence{}
	for i := 1; i <= 7; i++ {
		ev.IDs = append(ev.IDs, fmt.Sprint(i))
		ev.Metadatas = append(ev.Metadatas, map[string]any{"title": fmt.Sprintf("T%d", i)})
	}
	stub := &stubLLM{replies: []string{"Topic"}}
	NewWriter(stub, nil, 0, 0, nil).Topic(context.Background(), ev, "")
	require.Len(t, stub.reqs, 1)
	assert.Contains(t, stub.reqs[0].Prompt, "T1\nT2\nT3\nT4\nT5")
	assert.NotContains(t, stub.reqs[0].Prompt, "T6")
}

func TestValidateCitations(t *testing.T) {
	tests := []struct {
		md   string
		n    int
		want []int
	}{
		{"All good [1] and [2].", 2, nil},
		{"Range [1-4] and list [2, 3; 9] and [9].", 3, []int{4, 9}},
		{"Zero [0] is invalid.", 5, []int{0}},
		{"Links [text](http://x) and [a1] are ignored.", 1, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateCitations(tt.md, tt.n), tt.md)
	}
}

func TestRenderHTML(t *testing.T) {
	page, err := RenderHTML("A <Title>", "# Heading\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~old~~\n")
	require.NoError(t, err)
	assert.Contains(t, page, "<title>A &lt;Title&gt;</title>")
	assert.Contains(t, page, "<h1>Heading</h1>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<del>old</del>")
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "Alveolar_Ridge_Preservation_A_Review", SafeFilename("Alveolar Ridge Preservation: A Review!"))
	assert.Equal(t, "牙周炎_治疗", SafeFilename("牙周炎 - 治疗？"))
	assert.Equal(t, "review", SafeFilename("?!"))
	assert.Len(t, []rune(SafeFilename(strings.Repeat("x", 150))), 100)
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reviews")
	paths, err := Save(dir, Review{Topic: "My Topic", Markdown: "# Hi\n"}, true)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "My_Topic.md"), paths[0])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "# Hi\n", string(data))

	html, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>Hi</h1>")
}

func TestDisplayError(t *testing.T) {
	assert.Empty(t, DisplayError(nil))
	assert.Equal(t, "❌ no papers found for review generation", DisplayError(fmt.Errorf("wrap: %w", ErrNoEvidence)))
	assert.True(t, strings.HasPrefix(DisplayError(llm.ErrNoProvider), "❌ No generative provider"))
	assert.Equal(t, "❌ boom", DisplayError(errors.New("boom")))
}
