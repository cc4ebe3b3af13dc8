// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultClaudeModel = "claude-sonnet-4-5-20250929"

// Claude calls the Anthropic Messages API.
type Claude struct {
	client anthropic.Client
	model  string
}

// NewClaude builds a Claude provider. baseURL is optional.
func NewClaude(apiKey, model, baseURL string, opts ...option.RequestOption) *Claude {
	if model == "" {
		model = defaultClaudeModel
	}
	all := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(2),
	}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}
	all = append(all, opts...)
	return &Claude{client: anthropic.NewClient(all...), model: model}
}

// Name returns the provider identifier.
func (c *Claude) Name() string { return "claude" }

// Complete sends req as one user message and concatenates the text blocks
// of the reply.
func (c *Claude) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(maxTokens),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude messages: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errors.New("claude returned no text content")
	}
	return b.String(), nil
}
