// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trend implements trend discovery: it maps a topic selection to a
// canonical subtopic title, a keyword set and the trusted sources for the
// category, and asks the completion backend for a short narrative framing.
package trend

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/healthpulse/internal/catalog"
	"github.com/pdiddy/healthpulse/internal/completion"
	"github.com/pdiddy/healthpulse/internal/textutil"
	"github.com/pdiddy/healthpulse/pkg/types"
)

const (
	maxSecondary = 6
	minSecondary = 4
)

// Discoverer runs the trend discovery stage.
type Discoverer struct {
	Catalog *catalog.Catalog
	Backend completion.Backend
}

// New returns a Discoverer over cat using backend for the narrative framing.
func New(cat *catalog.Catalog, backend completion.Backend) *Discoverer {
	return &Discoverer{Catalog: cat, Backend: backend}
}

// Name returns the stage name.
func (d *Discoverer) Name() types.StageName { return types.StageTrendDiscovery }

// Run produces the trend artifact for sel. The title, keywords and sources
// come from the catalog; only the description and trending reason depend
// on the backend.
func (d *Discoverer) Run(ctx context.Context, sel types.TopicSelection) (types.TrendArtifact, error) {
	cat := d.Catalog
	if cat == nil {
		cat = catalog.Default()
	}

	title := cat.Title(sel)
	primary, secondary := DeriveKeywords(cat, sel, title)
	art := types.TrendArtifact{
		TopicTitle:        title,
		PrimaryKeyword:    primary,
		SecondaryKeywords: secondary,
		Sources:           cat.Sources(sel.MainCategory),
	}

	prompt, err := renderFramingPrompt(sel, art)
	if err != nil {
		return types.TrendArtifact{}, fmt.Errorf("rendering prompt: %w", err)
	}
	resp, err := d.Backend.Complete(ctx, completion.Request{
		Task:   completion.TaskTrendFraming,
		System: framingSystemPrompt,
		User:   prompt,
		Brief:  completion.BriefFor(sel, art),
	})
	if err != nil {
		return types.TrendArtifact{}, &types.GenerationError{
			Stage:  types.StageTrendDiscovery,
			Detail: "trend framing request failed",
			Err:    err,
		}
	}
	art.TrendingReason, art.Description = parseFraming(resp)
	return art, nil
}

// DeriveKeywords tokenises the canonical title and then the category names,
// drops stop words and one-letter tokens, and deduplicates ignoring case in
// first-seen order. The first token is the primary keyword; up to six of the
// following tokens are secondary keywords. Fewer than four secondaries are
// padded from the curated category keywords and then the filler list.
func DeriveKeywords(cat *catalog.Catalog, sel types.TopicSelection, title string) (string, []string) {
	seen := make(map[string]bool)
	var tokens []string
	add := func(tok string) {
		key := strings.ToLower(tok)
		if seen[key] {
			return
		}
		seen[key] = true
		tokens = append(tokens, tok)
	}

	sources := []string{title}
	if sel.MainCategory != types.AllTopics {
		// Main categories are upper-case labels; keep their words as plain words.
		sources = append(sources, strings.ToLower(sel.MainCategory))
	}
	if sel.SubCategory != types.AllTopics {
		sources = append(sources, sel.SubCategory)
	}
	sources = append(sources, sel.Specific())

	for _, src := range sources {
		for _, tok := range textutil.Tokenize(src) {
			if keepToken(cat, tok) {
				add(tok)
			}
		}
	}

	var primary string
	var secondary []string
	if len(tokens) > 0 {
		primary = tokens[0]
		rest := tokens[1:]
		if len(rest) > maxSecondary {
			rest = rest[:maxSecondary]
		}
		secondary = append(secondary, rest...)
	}

	padding := append(cat.Keywords(sel.MainCategory, sel.SubCategory), cat.FillerKeywords...)
	for _, kw := range padding {
		if primary == "" {
			primary = kw
			seen[strings.ToLower(kw)] = true
			continue
		}
		if len(secondary) >= minSecondary {
			break
		}
		if key := strings.ToLower(kw); !seen[key] {
			seen[key] = true
			secondary = append(secondary, kw)
		}
	}
	return primary, secondary
}

func keepToken(cat *catalog.Catalog, tok string) bool {
	if !textutil.HasLetter(tok) {
		return false
	}
	if textutil.IsAcronym(tok) {
		return true
	}
	return len([]rune(tok)) > 1 && !cat.IsStopWord(tok)
}

const framingSystemPrompt = "You are a US healthcare trend analyst. You explain why a health insurance topic matters to consumers right now, citing only trusted US healthcare sources."

var framingPromptTmpl = template.Must(template.New("framing").Parse(`Topic area: {{.Path}}
Article title: {{.Title}}
Primary keyword: {{.Primary}}
Secondary keywords: {{.Secondary}}
Trusted sources: {{.Sources}}

Explain in one sentence why this topic is trending for US healthcare consumers in 2025, then summarise in two sentences what an article on it should cover.

Respond with exactly these two lines and nothing else:
TRENDING REASON: <one sentence>
BRIEF DESCRIPTION: <two sentences>
`))

func renderFramingPrompt(sel types.TopicSelection, art types.TrendArtifact) (string, error) {
	var buf bytes.Buffer
	err := framingPromptTmpl.Execute(&buf, struct {
		Path, Title, Primary, Secondary, Sources string
	}{
		Path:      sel.Path(),
		Title:     art.TopicTitle,
		Primary:   art.PrimaryKeyword,
		Secondary: strings.Join(art.SecondaryKeywords, ", "),
		Sources:   strings.Join(art.Sources, "; "),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

const maxFallbackDescription = 300

// parseFraming reads the TRENDING REASON and BRIEF DESCRIPTION lines. A
// response without either line is used, trimmed, as the description.
func parseFraming(resp string) (reason, description string) {
	for _, line := range strings.Split(resp, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*-# "))
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "TRENDING REASON:"):
			reason = strings.TrimSpace(strings.TrimLeft(line[len("TRENDING REASON:"):], "* "))
		case strings.HasPrefix(upper, "BRIEF DESCRIPTION:"):
			description = strings.TrimSpace(strings.TrimLeft(line[len("BRIEF DESCRIPTION:"):], "* "))
		}
	}
	if reason == "" && description == "" {
		description = textutil.TruncateWords(strings.Join(strings.Fields(resp), " "), maxFallbackDescription)
	}
	return reason, description
}
