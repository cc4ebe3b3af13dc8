// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	// DeepSeekBaseURL is the OpenAI-compatible DeepSeek endpoint.
	DeepSeekBaseURL      = "https://api.deepseek.com/v1"
	defaultDeepSeekModel = "deepseek-chat"
)

// DeepSeek calls an OpenAI-compatible chat completions endpoint. With the
// default base URL it talks to DeepSeek.
type DeepSeek struct {
	client openai.Client
	model  string
}

// NewDeepSeek builds a DeepSeek provider. An empty baseURL selects
// DeepSeekBaseURL.
func NewDeepSeek(apiKey, model, baseURL string, opts ...option.RequestOption) *DeepSeek {
	if baseURL == "" {
		baseURL = DeepSeekBaseURL
	}
	if model == "" {
		model = defaultDeepSeekModel
	}
	all := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(strings.TrimRight(baseURL, "/") + "/"),
		option.WithMaxRetries(2),
	}, opts...)
	return &DeepSeek{client: openai.NewClient(all...), model: model}
}

// Name returns the provider identifier.
func (d *DeepSeek) Name() string { return "deepseek" }

// Complete sends the system and user messages to the chat endpoint.
func (d *DeepSeek) Complete(ctx context.Context, req Request) (string, error) {
	var msgs []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	msgs = append(msgs, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(d.model),
		Messages:    msgs,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := d.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("deepseek chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("deepseek returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
