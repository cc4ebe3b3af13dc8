// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompts holds the text/template prompts sent to generative
// providers. Built-in templates can be overridden from a YAML file.
package prompts

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"text/template"

	"go.yaml.in/yaml/v3"
)

// Set is a parsed collection of prompt templates.
type Set struct {
	CJKToPubMed         *template.Template
	EnglishOptimization *template.Template
	FullReview          *template.Template
	TopicSummary        *template.Template
}

// ExpansionData is the input of the query expansion templates.
type ExpansionData struct {
	Query string
}

// ReviewData is the input of the review template.
type ReviewData struct {
	RawQuery   string
	SearchTerm string
	Topic      string
	NumDocs    int
	Context    string
}

// TopicData is the input of the topic summary template.
type TopicData struct {
	Titles string
}

// promptFile is the YAML layout of a prompt override file.
type promptFile struct {
	QueryExpansion struct {
		CJKToPubMed         string `yaml:"cjk_to_pubmed"`
		EnglishOptimization string `yaml:"english_optimization"`
	} `yaml:"query_expansion"`
	ReviewWriter struct {
		FullReview   string `yaml:"full_review"`
		TopicSummary string `yaml:"topic_summary"`
	} `yaml:"review_writer"`
}

var defaults = mustParse(defaultCJKToPubMed, defaultEnglishOptimization, defaultFullReview, defaultTopicSummary)

// Default returns the built-in prompt set.
func Default() *Set { return defaults }

// Load reads overrides from a YAML file. Templates missing from the file
// keep their built-in text; an empty path or missing file returns the
// defaults.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading prompts %s: %w", path, err)
	}

	var f promptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing prompts %s: %w", path, err)
	}

	return parse(
		or(f.QueryExpansion.CJKToPubMed, defaultCJKToPubMed),
		or(f.QueryExpansion.EnglishOptimization, defaultEnglishOptimization),
		or(f.ReviewWriter.FullReview, defaultFullReview),
		or(f.ReviewWriter.TopicSummary, defaultTopicSummary),
	)
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func parse(cjk, english, review, topic string) (*Set, error) {
	var s Set
	for _, t := range []struct {
		name string
		text string
		dst  **template.Template
	}{
		{"cjk_to_pubmed", cjk, &s.CJKToPubMed},
		{"english_optimization", english, &s.EnglishOptimization},
		{"full_review", review, &s.FullReview},
		{"topic_summary", topic, &s.TopicSummary},
	} {
		tmpl, err := template.New(t.name).Option("missingkey=error").Parse(t.text)
		if err != nil {
			return nil, fmt.Errorf("parsing prompt %s: %w", t.name, err)
		}
		*t.dst = tmpl
	}
	return &s, nil
}

func mustParse(cjk, english, review, topic string) *Set {
	s, err := parse(cjk, english, review, topic)
	if err != nil {
		panic(err)
	}
	return s
}

// Render executes tmpl with data.
func Render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
