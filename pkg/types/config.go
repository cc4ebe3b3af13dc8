// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "lit-miner/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubMedConfig holds settings for the NCBI E-utilities client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is the contact address NCBI asks every client to send.
	Email string `json:"email" yaml:"email"`

	// Tool identifies the client application to NCBI (default "lit-miner").
	Tool string `json:"tool" yaml:"tool"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// MiningConfig holds settings for a mining run.
type MiningConfig struct {
	// DefaultLimit is the number of search hits requested when the caller
	// does not specify one (default 200).
	DefaultLimit int `json:"default_limit" yaml:"default_limit"`

	// MaxLimit caps any requested limit (default 500).
	MaxLimit int `json:"max_limit" yaml:"max_limit"`

	// HighImpact, Recent and DataRich are the selection bucket sizes
	// (defaults 2, 4, 4).
	HighImpact int `json:"high_impact" yaml:"high_impact"`
	Recent     int `json:"recent" yaml:"recent"`
	DataRich   int `json:"data_rich" yaml:"data_rich"`
}

// ClampLimit applies the default and maximum to a requested search limit.
func (c MiningConfig) ClampLimit(limit int) int {
	if limit <= 0 {
		limit = c.DefaultLimit
	}
	if limit <= 0 {
		limit = 200
	}
	if c.MaxLimit > 0 && limit > c.MaxLimit {
		limit = c.MaxLimit
	}
	return limit
}

// ExpansionConfig holds settings for query expansion.
type ExpansionConfig struct {
	// UseAI enables the generative expansion strategy.
	UseAI bool `json:"use_ai" yaml:"use_ai"`

	// Timeout bounds the generative expansion call (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// AIConfig holds shared settings for a generative or embedding provider.
type AIConfig struct {
	// Model is the model identifier (e.g. "deepseek-chat").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the provider API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	AIConfig `yaml:",inline"`

	// Provider is "auto", "gemini", "openai" or "hashing".
	Provider string `json:"provider" yaml:"provider"`

	// Dimension is the requested vector size for providers that support it.
	Dimension int `json:"dimension" yaml:"dimension"`
}

// LLMConfig configures the generative providers used for expansion,
// topic generation and review writing.
type LLMConfig struct {
	// Priority lists provider names in the order they are tried.
	Priority []string `json:"priority" yaml:"priority"`

	Gemini   AIConfig `json:"gemini" yaml:"gemini"`
	DeepSeek AIConfig `json:"deepseek" yaml:"deepseek"`
	Claude   AIConfig `json:"claude" yaml:"claude"`

	// Temperature and MaxTokens apply to review writing.
	Temperature float64 `json:"temperature" yaml:"temperature"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
}

// ReviewConfig holds settings for review synthesis.
type ReviewConfig struct {
	// OutputDir is where generated reviews are written (e.g. "data/reviews").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// PromptsFile optionally overrides the built-in prompt templates.
	PromptsFile string `json:"prompts_file,omitempty" yaml:"prompts_file,omitempty"`

	// EvidenceCount is the number of papers retrieved for a review (default 10).
	EvidenceCount int `json:"evidence_count" yaml:"evidence_count"`
}

// Config groups all component configurations.
type Config struct {
	DataDir    string          `json:"data_dir" yaml:"data_dir"`
	RubricFile string          `json:"rubric_file,omitempty" yaml:"rubric_file,omitempty"`
	PubMed     PubMedConfig    `json:"pubmed" yaml:"pubmed"`
	Mining     MiningConfig    `json:"mining" yaml:"mining"`
	Expansion  ExpansionConfig `json:"expansion" yaml:"expansion"`
	Embedding  EmbeddingConfig `json:"embedding" yaml:"embedding"`
	LLM        LLMConfig       `json:"llm" yaml:"llm"`
	Review     ReviewConfig    `json:"review" yaml:"review"`
}
