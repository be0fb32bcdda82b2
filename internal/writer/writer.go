// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package writer implements the content writer stage: it requests a
// markdown article from the completion backend, parses it into a
// structured draft with exactly one H1, and derives the meta description
// and image suggestions.
package writer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/healthpulse/internal/completion"
	"github.com/pdiddy/healthpulse/pkg/types"
)

// MinWords is the body length below which a response is treated as
// degenerate.
const MinWords = 300

// Input is what the writer may read: the trend artifact and the caller's
// selection.
type Input struct {
	Topic types.TopicSelection
	Trend types.TrendArtifact
}

// Writer runs the content writer stage.
type Writer struct {
	Backend completion.Backend
}

// New returns a Writer using backend.
func New(backend completion.Backend) *Writer {
	return &Writer{Backend: backend}
}

// Name returns the stage name.
func (w *Writer) Name() types.StageName { return types.StageContentWriter }

// Run drafts the article for in.Trend. It fails only when the backend fails
// or the parsed body has fewer than MinWords words; long articles are kept.
func (w *Writer) Run(ctx context.Context, in Input) (types.ArticleDraft, error) {
	prompt, err := renderArticlePrompt(in.Trend)
	if err != nil {
		return types.ArticleDraft{}, fmt.Errorf("rendering prompt: %w", err)
	}

	resp, err := w.Backend.Complete(ctx, completion.Request{
		Task:   completion.TaskArticle,
		System: articleSystemPrompt,
		User:   prompt,
		Brief:  completion.BriefFor(in.Topic, in.Trend),
	})
	if err != nil {
		return types.ArticleDraft{}, &types.GenerationError{
			Stage:  types.StageContentWriter,
			Detail: "article request failed",
			Err:    err,
		}
	}

	draft := Parse(resp, in.Trend.TopicTitle)
	if n := draft.WordCount(); n < MinWords {
		return types.ArticleDraft{}, &types.GenerationError{
			Stage:  types.StageContentWriter,
			Detail: fmt.Sprintf("degenerate response: %d words, need at least %d", n, MinWords),
		}
	}
	draft.MetaDescription = MetaDescription(draft.Paragraphs, in.Trend.PrimaryKeyword, draft.Title)
	draft.ImageSuggestions = ImageSuggestions(draft.Title, in.Trend.PrimaryKeyword)
	return draft, nil
}

// ImageSuggestions returns three illustrations an editor could add.
func ImageSuggestions(title, primary string) []types.ImageSuggestion {
	focus := completion.Focus(title, primary)
	return []types.ImageSuggestion{
		{
			Description: "Infographic summarising " + focus + " coverage, costs and key dates",
			AltText:     focus + " coverage and costs infographic",
		},
		{
			Description: "Step-by-step enrollment checklist for " + focus,
			AltText:     "How to enroll in " + focus + " checklist",
		},
		{
			Description: "Photo of a consumer reviewing " + focus + " plan documents with a benefits counselor",
			AltText:     "Reviewing " + focus + " plan options with a counselor",
		},
	}
}

const articleSystemPrompt = "You are an expert US healthcare content writer and SEO specialist. You write accurate, people-first articles that cite trusted US healthcare sources and follow the requested structure exactly."

var articlePromptTmpl = template.Must(template.New("article").Parse(`Write a comprehensive, SEO-optimized article.

Title: {{.Title}}
Primary keyword: {{.Primary}}
Secondary keywords: {{.Secondary}}
{{- if .Description}}
Summary: {{.Description}}
{{- end}}
{{- if .Reason}}
Why it matters now: {{.Reason}}
{{- end}}
Trusted sources to reference: {{.Sources}}

Requirements:
- Output markdown only, with no commentary before or after it.
- Start with exactly one level-1 heading containing the title. Use no other level-1 headings.
- Use at least five level-2 sections, including a "What Is ..." section, a "How to ..." section with numbered steps, a Frequently Asked Questions section and a conclusion with a clear call to action.
- Use the primary keyword in the first paragraph and in at least two section headings.
- Mention every secondary keyword at least once.
- Write between 1500 and 3000 words. Keep sentences under 25 words and paragraphs under 150 words.
`))

func renderArticlePrompt(art types.TrendArtifact) (string, error) {
	var buf bytes.Buffer
	err := articlePromptTmpl.Execute(&buf, struct {
		Title, Primary, Secondary, Description, Reason, Sources string
	}{
		Title:       art.TopicTitle,
		Primary:     art.PrimaryKeyword,
		Secondary:   strings.Join(art.SecondaryKeywords, ", "),
		Description: art.Description,
		Reason:      art.TrendingReason,
		Sources:     strings.Join(art.Sources, "; "),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
