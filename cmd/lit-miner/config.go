// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/lit-miner/internal/llm"
	"github.com/pdiddy/lit-miner/pkg/types"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")

	v.SetDefault("pubmed.tool", "lit-miner")
	v.SetDefault("pubmed.timeout", 60*time.Second)
	v.SetDefault("pubmed.max_retries", 5)

	v.SetDefault("mining.default_limit", 200)
	v.SetDefault("mining.max_limit", 500)
	v.SetDefault("mining.high_impact", 2)
	v.SetDefault("mining.recent", 4)
	v.SetDefault("mining.data_rich", 4)

	v.SetDefault("expansion.use_ai", true)
	v.SetDefault("expansion.timeout", 10*time.Second)

	v.SetDefault("embedding.provider", "auto")

	v.SetDefault("llm.priority", llm.DefaultPriority)
	v.SetDefault("llm.gemini.model", "gemini-2.0-flash")
	v.SetDefault("llm.deepseek.model", "deepseek-chat")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 4000)

	v.SetDefault("review.evidence_count", 10)
}

// bindEnv maps the conventional provider variables onto config keys in
// addition to the LIT_MINER_ prefixed forms.
func bindEnv(v *viper.Viper) {
	for key, env := range map[string]string{
		"pubmed.email":         "PUBMED_EMAIL",
		"pubmed.api_key":       "NCBI_API_KEY",
		"llm.gemini.api_key":   "GEMINI_API_KEY",
		"llm.deepseek.api_key": "DEEPSEEK_API_KEY",
		"llm.claude.api_key":   "ANTHROPIC_API_KEY",
		"openai_api_key":       "OPENAI_API_KEY",
	} {
		prefixed := "LIT_MINER_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, env)
	}
}

// loadConfig assembles the stage configs from viper.
func loadConfig(v *viper.Viper) types.Config {
	dataDir := v.GetString("data_dir")
	cfg := types.Config{
		DataDir:    dataDir,
		RubricFile: v.GetString("rubric_file"),
		PubMed: types.PubMedConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("pubmed.timeout"),
				UserAgent: "lit-miner/" + version,
			},
			Email:      v.GetString("pubmed.email"),
			Tool:       v.GetString("pubmed.tool"),
			APIKey:     v.GetString("pubmed.api_key"),
			MaxRetries: v.GetInt("pubmed.max_retries"),
		},
		Mining: types.MiningConfig{
			DefaultLimit: v.GetInt("mining.default_limit"),
			MaxLimit:     v.GetInt("mining.max_limit"),
			HighImpact:   v.GetInt("mining.high_impact"),
			Recent:       v.GetInt("mining.recent"),
			DataRich:     v.GetInt("mining.data_rich"),
		},
		Expansion: types.ExpansionConfig{
			UseAI:   v.GetBool("expansion.use_ai"),
			Timeout: v.GetDuration("expansion.timeout"),
		},
		Embedding: types.EmbeddingConfig{
			AIConfig:  aiConfig(v, "embedding"),
			Provider:  v.GetString("embedding.provider"),
			Dimension: v.GetInt("embedding.dimension"),
		},
		LLM: types.LLMConfig{
			Priority:    v.GetStringSlice("llm.priority"),
			Gemini:      aiConfig(v, "llm.gemini"),
			DeepSeek:    aiConfig(v, "llm.deepseek"),
			Claude:      aiConfig(v, "llm.claude"),
			Temperature: v.GetFloat64("llm.temperature"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
		},
		Review: types.ReviewConfig{
			OutputDir:     v.GetString("review.output_dir"),
			PromptsFile:   v.GetString("review.prompts_file"),
			EvidenceCount: v.GetInt("review.evidence_count"),
		},
	}
	if cfg.Review.OutputDir == "" {
		cfg.Review.OutputDir = filepath.Join(dataDir, "reviews")
	}
	return cfg
}

func aiConfig(v *viper.Viper, prefix string) types.AIConfig {
	return types.AIConfig{
		Model:      v.GetString(prefix + ".model"),
		APIKey:     v.GetString(prefix + ".api_key"),
		BaseURL:    v.GetString(prefix + ".base_url"),
		MaxRetries: v.GetInt(prefix + ".max_retries"),
	}
}
