// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review writes a cited literature review from retrieved evidence.
// The generative provider is a black box behind the Completer interface;
// this package owns prompt assembly, the reference list and citation
// checks.
package review

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/lit-miner/internal/llm"
	"github.com/pdiddy/lit-miner/internal/prompts"
	"github.com/pdiddy/lit-miner/pkg/types"
)

// ErrNoEvidence is returned when there are no papers to review.
var ErrNoEvidence = errors.New("no papers found for review generation")

// DefaultTopic is used when no topic can be derived.
const DefaultTopic = "Literature Review"

const (
	abstractLimit     = 800
	topicTitles       = 5
	defaultTemp       = 0.7
	topicMaxTokens    = 100
	missingRawQuery   = "(not provided)"
	missingSearchTerm = "(not recorded)"
)

// Completer is satisfied by *llm.Chain.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (llm.Result, error)
}

// Input is what a review is written from.
type Input struct {
	// Topic is the review title; empty asks the provider for one.
	Topic      string
	RawQuery   string
	SearchTerm string
	Evidence   types.Evidence
}

// Review is a generated review.
type Review struct {
	Topic    string `json:"topic" yaml:"topic"`
	Markdown string `json:"markdown" yaml:"markdown"`
	Provider string `json:"provider" yaml:"provider"`
	Sources  int    `json:"sources" yaml:"sources"`

	// InvalidCitations lists [n] markers that refer to no source.
	InvalidCitations []int `json:"invalid_citations,omitempty" yaml:"invalid_citations,omitempty"`
}

// Writer generates reviews.
type Writer struct {
	llm         Completer
	prompts     *prompts.Set
	temperature float64
	maxTokens   int
	log         *zap.Logger
}

// NewWriter returns a Writer. A nil prompt set uses the built-in prompts;
// temperature 0 selects 0.7.
func NewWriter(c Completer, p *prompts.Set, temperature float64, maxTokens int, log *zap.Logger) *Writer {
	if p == nil {
		p = prompts.Default()
	}
	if temperature == 0 {
		temperature = defaultTemp
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{llm: c, prompts: p, temperature: temperature, maxTokens: maxTokens, log: log}
}

// Generate writes a review of in.Evidence and appends a References section.
func (w *Writer) Generate(ctx context.Context, in Input) (Review, error) {
	ev := in.Evidence
	if ev.Len() == 0 {
		return Review{}, ErrNoEvidence
	}

	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		topic = w.Topic(ctx, ev, in.RawQuery)
	}

	data := prompts.ReviewData{
		RawQuery:   orDefault(in.RawQuery, missingRawQuery),
		SearchTerm: orDefault(in.SearchTerm, missingSearchTerm),
		Topic:      topic,
		NumDocs:    ev.Len(),
		Context:    BuildContext(ev),
	}
	prompt, err := prompts.Render(w.prompts.FullReview, data)
	if err != nil {
		return Review{}, err
	}

	w.log.Info("generating review", zap.String("topic", topic), zap.Int("sources", ev.Len()))
	res, err := w.llm.Complete(ctx, llm.Request{Prompt: prompt, Temperature: w.temperature, MaxTokens: w.maxTokens})
	if err != nil {
		return Review{}, fmt.Errorf("review generation failed: %w", err)
	}

	invalid := ValidateCitations(res.Text, ev.Len())
	if len(invalid) > 0 {
		w.log.Warn("review cites unknown sources", zap.Ints("citations", invalid))
	}

	return Review{
		Topic:            topic,
		Markdown:         strings.TrimRight(res.Text, "\n") + "\n\n" + References(ev),
		Provider:         res.Provider,
		Sources:          ev.Len(),
		InvalidCitations: invalid,
	}, nil
}

// Topic asks the provider for a short title summarizing the first five
// evidence titles. On failure it returns fallback, or DefaultTopic when
// fallback is empty.
func (w *Writer) Topic(ctx context.Context, ev types.Evidence, fallback string) string {
	if strings.TrimSpace(fallback) == "" {
		fallback = DefaultTopic
	}

	var titles []string
	for i := 0; i < len(ev.Metadatas) && len(titles) < topicTitles; i++ {
		if t := metaString(ev.Metadatas[i], "title"); t != "" {
			titles = append(titles, t)
		}
	}
	if len(titles) == 0 {
		return fallback
	}

	prompt, err := prompts.Render(w.prompts.TopicSummary, prompts.TopicData{Titles: strings.Join(titles, "\n")})
	if err != nil {
		w.log.Warn("topic prompt failed", zap.Error(err))
		return fallback
	}
	res, err := w.llm.Complete(ctx, llm.Request{Prompt: prompt, Temperature: w.temperature, MaxTokens: topicMaxTokens})
	if err != nil {
		w.log.Warn("topic generation failed, using fallback", zap.String("fallback", fallback), zap.Error(err))
		return fallback
	}
	topic := strings.TrimSpace(strings.Trim(strings.TrimSpace(res.Text), `"'`))
	if topic == "" {
		return fallback
	}
	return topic
}

// BuildContext renders each evidence item as a numbered source block with
// its abstract cut to 800 characters.
func BuildContext(ev types.Evidence) string {
	var b strings.Builder
	for i, id := range ev.IDs {
		meta := metaAt(ev, i)
		doc := ""
		if i < len(ev.Documents) {
			doc = truncateRunes(ev.Documents[i], abstractLimit)
		}
		fmt.Fprintf(&b, "[Source %d] (PMID:%s)\n", i+1, id)
		fmt.Fprintf(&b, "Title: %s\n", metaString(meta, "title"))
		fmt.Fprintf(&b, "Journal: %s (%s)\n", metaString(meta, "journal"), metaString(meta, "year"))
		fmt.Fprintf(&b, "Abstract: %s\n\n", doc)
	}
	return b.String()
}

// References renders the numbered reference list that closes a review.
func References(ev types.Evidence) string {
	var b strings.Builder
	b.WriteString("## References\n\n")
	for i, id := range ev.IDs {
		meta := metaAt(ev, i)
		title := metaString(meta, "title")
		if title == "" {
			title = "No Title"
		}
		fmt.Fprintf(&b, "%d. %s", i+1, title)

		journal, year := metaString(meta, "journal"), metaString(meta, "year")
		if journal != "" || year != "" {
			fmt.Fprintf(&b, ". %s.", strings.TrimSpace(journal+" "+year))
		}
		fmt.Fprintf(&b, " (PMID:%s", id)
		if c := metaString(meta, "citations"); c != "" {
			fmt.Fprintf(&b, ", cited: %s", c)
		}
		b.WriteString(")\n")
	}
	return b.String()
}

func metaAt(ev types.Evidence, i int) map[string]any {
	if i < len(ev.Metadatas) {
		return ev.Metadatas[i]
	}
	return nil
}

// metaString formats a metadata value; JSON numbers print without a
// trailing ".0".
func metaString(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func orDefault(s, d string) string {
	if strings.TrimSpace(s) == "" {
		return d
	}
	return s
}
