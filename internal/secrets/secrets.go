// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Known key files and the environment variables they stand in for.
const (
	GeminiAPIKey    = "gemini-api-key"
	DeepSeekAPIKey  = "deepseek-api-key"
	AnthropicAPIKey = "anthropic-api-key"
	OpenAIAPIKey    = "openai-api-key"
	PubMedEmail     = "pubmed-email"
	NCBIAPIKey      = "ncbi-api-key"
)

// EnvNames maps key file names to environment variable names.
var EnvNames = map[string]string{
	GeminiAPIKey:    "GEMINI_API_KEY",
	DeepSeekAPIKey:  "DEEPSEEK_API_KEY",
	AnthropicAPIKey: "ANTHROPIC_API_KEY",
	OpenAIAPIKey:    "OPENAI_API_KEY",
	PubMedEmail:     "PUBMED_EMAIL",
	NCBIAPIKey:      "NCBI_API_KEY",
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, log *zap.Logger) (map[string]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// ApplyEnv exports known secrets as environment variables. Variables that
// are already set win. It returns the sorted names of the variables it set.
func ApplyEnv(secrets map[string]string) ([]string, error) {
	var set []string
	for name, value := range secrets {
		env, ok := EnvNames[name]
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(env); exists {
			continue
		}
		if err := os.Setenv(env, value); err != nil {
			return set, fmt.Errorf("setting %s: %w", env, err)
		}
		set = append(set, env)
	}
	sort.Strings(set)
	return set, nil
}
