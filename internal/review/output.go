// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"github.com/pdiddy/lit-miner/internal/llm"
)

const maxFilenameRunes = 100

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithXHTML(),
	),
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>{{.Title}}</title>
<style>body{max-width:50rem;margin:2rem auto;padding:0 1rem;font-family:Georgia,serif;line-height:1.6}</style>
</head>
<body>
<article>
{{.Body}}
</article>
</body>
</html>
`))

// RenderHTML converts review Markdown into a standalone HTML page.
func RenderHTML(title, markdown string) (string, error) {
	var body bytes.Buffer
	if err := markdownEngine.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	var page bytes.Buffer
	err := pageTemplate.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body.String())})
	if err != nil {
		return "", fmt.Errorf("rendering page: %w", err)
	}
	return page.String(), nil
}

var separators = regexp.MustCompile(`[-\s]+`)

// SafeFilename turns a topic into a file name stem: punctuation is
// removed, runs of spaces and hyphens become "_", and the result is capped
// at 100 characters. Letters outside ASCII are kept.
func SafeFilename(topic string) string {
	var b strings.Builder
	for _, r := range topic {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := separators.ReplaceAllString(strings.TrimSpace(b.String()), "_")
	s = strings.Trim(s, "_")
	if r := []rune(s); len(r) > maxFilenameRunes {
		s = string(r[:maxFilenameRunes])
	}
	if s == "" {
		s = "review"
	}
	return s
}

// Save writes the review to dir as <SafeFilename>.md, plus a .html page
// when html is set, and returns the written paths.
func Save(dir string, r Review, html bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	stem := filepath.Join(dir, SafeFilename(r.Topic))

	mdPath := stem + ".md"
	if err := os.WriteFile(mdPath, []byte(r.Markdown), 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", mdPath, err)
	}
	paths := []string{mdPath}

	if html {
		page, err := RenderHTML(r.Topic, r.Markdown)
		if err != nil {
			return paths, err
		}
		htmlPath := stem + ".html"
		if err := os.WriteFile(htmlPath, []byte(page), 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", htmlPath, err)
		}
		paths = append(paths, htmlPath)
	}
	return paths, nil
}

// DisplayError formats err for a person reading terminal output. Typed
// errors stay typed until this point.
func DisplayError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoEvidence):
		return "❌ " + ErrNoEvidence.Error()
	case errors.Is(err, llm.ErrNoProvider):
		return "❌ No generative provider configured: set GEMINI_API_KEY, DEEPSEEK_API_KEY or ANTHROPIC_API_KEY"
	default:
		return "❌ " + err.Error()
	}
}
