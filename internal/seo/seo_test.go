// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package seo

import (
	"context"
	"strings"
	"testing"

	"github.com/pdiddy/healthpulse/internal/catalog"
	"github.com/pdiddy/healthpulse/internal/completion"
	"github.com/pdiddy/healthpulse/internal/trend"
	"github.com/pdiddy/healthpulse/internal/writer"
	"github.com/pdiddy/healthpulse/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var partD = types.TopicSelection{MainCategory: "GOVERNMENT PLANS", SubCategory: "Medicare", SpecificTopic: "Part D"}

func demoInput(t *testing.T, sel types.TopicSelection) Input {
	t.Helper()
	art, err := trend.New(catalog.Default(), completion.Demo{}).Run(context.Background(), sel)
	require.NoError(t, err)
	d, err := writer.New(completion.Demo{}).Run(context.Background(), writer.Input{Topic: sel, Trend: art})
	require.NoError(t, err)
	return Input{Draft: d, Trend: art}
}

// filler returns paragraphs totalling n words, in sentences of ten words and
// paragraphs of at most 100.
func filler(n int) []string {
	var paras []string
	for n > 0 {
		size := min(n, 100)
		var b strings.Builder
		for i := 0; i < size; i++ {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString("word")
			if i%10 == 9 || i == size-1 {
				b.WriteString(".")
			}
		}
		paras = append(paras, b.String())
		n -= size
	}
	return paras
}

func findingFor(t *testing.T, res types.ValidationResult, c types.Criterion) types.SeoFinding {
	t.Helper()
	f, ok := res.Finding(c)
	require.True(t, ok, "no finding for %s", c)
	return f
}

func TestScore_DemoArticleScoresFull(t *testing.T) {
	in := demoInput(t, partD)
	res := Score(catalog.Default(), in.Draft, in.Trend)

	for _, f := range res.Findings {
		assert.Equal(t, f.PointsPossible, f.PointsEarned, "%s: %s", f.Criterion, f.Detail)
		assert.True(t, f.Passed, f.Criterion)
	}
	assert.Equal(t, 100, res.TotalScore)
	assert.True(t, res.Passed)
	assert.Empty(t, res.Recommendations)
}

func TestScore_EverySelectionPassesInDemo(t *testing.T) {
	for _, sel := range catalog.Default().Selections() {
		in := demoInput(t, sel)
		res := Score(nil, in.Draft, in.Trend)
		assert.True(t, res.Passed, "%s scored %d", sel.Path(), res.TotalScore)
	}
}

func TestScore_Deterministic(t *testing.T) {
	in := demoInput(t, partD)
	in.Draft.Paragraphs = in.Draft.Paragraphs[:10]
	a := Score(nil, in.Draft, in.Trend)
	b := Score(nil, in.Draft.Clone(), in.Trend.Clone())
	assert.Equal(t, a, b)
}

func TestScore_FindingsInOrderAndPossibleSumsTo100(t *testing.T) {
	res := Score(nil, types.ArticleDraft{}, types.TrendArtifact{})
	require.Len(t, res.Findings, len(types.Criteria))
	sum := 0
	for i, f := range res.Findings {
		assert.Equal(t, types.Criteria[i], f.Criterion)
		sum += f.PointsPossible
	}
	assert.Equal(t, 100, sum)
}

func TestScore_EmptyDraft(t *testing.T) {
	res := Score(nil, types.ArticleDraft{}, types.TrendArtifact{PrimaryKeyword: "Medicare"})
	assert.False(t, res.Passed)
	assert.GreaterOrEqual(t, res.TotalScore, 0)
	assert.Len(t, res.Recommendations, len(types.Criteria))
	assert.Equal(t, 0, findingFor(t, res, types.CriterionReadability).PointsEarned)
	assert.Equal(t, "no body text", findingFor(t, res, types.CriterionReadability).Detail)
}

func TestContentLength(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{749, 0},
		{750, 0},
		{1125, 7},
		{1499, 14},
		{1500, 15},
		{2200, 15},
		{3000, 15},
		{3001, 14},
		{3750, 7},
		{4500, 0},
		{5000, 0},
	}
	for _, tc := range tests {
		d := types.ArticleDraft{Paragraphs: filler(tc.words)}
		require.Equal(t, tc.words, d.WordCount())
		got, detail := contentLength(d, types.TrendArtifact{})
		assert.Equal(t, tc.want, got, "%d words: %s", tc.words, detail)
	}
}

func TestScore_1500WordBoundary(t *testing.T) {
	paras := filler(1500)
	paras[0] = strings.Replace(paras[0], "word", "Medicare", 1)
	d := types.ArticleDraft{
		Title:      "Medicare Basics",
		Headings:   []types.Heading{{Level: types.H1, Text: "Medicare Basics"}},
		Paragraphs: paras,
	}
	require.Equal(t, 1500, d.WordCount())

	res := Score(nil, d, types.TrendArtifact{PrimaryKeyword: "Medicare"})
	assert.Equal(t, 15, findingFor(t, res, types.CriterionContentLength).PointsEarned)
	assert.Equal(t, 14, findingFor(t, res, types.CriterionKeywordUsage).PointsEarned)
	assert.Equal(t, 15, findingFor(t, res, types.CriterionReadability).PointsEarned)
}

func TestKeywordUsage(t *testing.T) {
	heads := func(texts ...string) []types.Heading {
		hs := []types.Heading{{Level: types.H1, Text: "Title"}}
		for _, s := range texts {
			hs = append(hs, types.Heading{Level: types.H2, Text: s})
		}
		return hs
	}
	tests := []struct {
		name  string
		draft types.ArticleDraft
		want  int
	}{
		{"absent everywhere", types.ArticleDraft{Title: "Plans", Paragraphs: []string{"Nothing here."}}, 0},
		{"body only", types.ArticleDraft{Title: "Plans", Paragraphs: []string{"Intro.", "About Medicare."}}, 0},
		{"title only", types.ArticleDraft{Title: "Medicare Plans", Paragraphs: []string{"Intro."}}, 8},
		{"title and first paragraph", types.ArticleDraft{Title: "Medicare Plans", Paragraphs: []string{"Medicare intro."}}, 14},
		{
			"everything",
			types.ArticleDraft{Title: "Medicare Plans", Headings: heads("What Is Medicare?", "Medicare Costs"), Paragraphs: []string{"Medicare intro."}},
			20,
		},
		{
			"one heading is not enough",
			types.ArticleDraft{Title: "Medicare Plans", Headings: heads("What Is Medicare?", "Costs"), Paragraphs: []string{"Medicare intro."}},
			14,
		},
		{"substring does not count", types.ArticleDraft{Title: "Medicareplus", Paragraphs: []string{"Medicareplus."}}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, detail := keywordUsage(tc.draft, types.TrendArtifact{PrimaryKeyword: "Medicare"})
			assert.Equal(t, tc.want, got, detail)
		})
	}
}

func TestHeadingStructure(t *testing.T) {
	mk := func(h1, h2 int) types.ArticleDraft {
		var d types.ArticleDraft
		for i := 0; i < h1; i++ {
			d.Headings = append(d.Headings, types.Heading{Level: types.H1, Text: "T"})
		}
		for i := 0; i < h2; i++ {
			d.Headings = append(d.Headings, types.Heading{Level: types.H2, Text: "S"})
		}
		return d
	}
	tests := []struct {
		h1, h2, want int
	}{
		{1, 5, 15},
		{1, 9, 15},
		{1, 4, 12},
		{1, 0, 0},
		{0, 5, 12},
		{2, 5, 12},
		{3, 2, 0},
	}
	for _, tc := range tests {
		got, detail := headingStructure(mk(tc.h1, tc.h2), types.TrendArtifact{})
		assert.Equal(t, tc.want, got, "h1=%d h2=%d: %s", tc.h1, tc.h2, detail)
	}
}

func TestScore_ZeroH2Headings(t *testing.T) {
	in := demoInput(t, partD)
	var kept []types.Heading
	for _, h := range in.Draft.Headings {
		if h.Level != types.H2 {
			kept = append(kept, h)
		}
	}
	in.Draft.Headings = kept

	res := Score(nil, in.Draft, in.Trend)
	f := findingFor(t, res, types.CriterionHeadingStructure)
	assert.Equal(t, 0, f.PointsEarned)
	assert.False(t, f.Passed)
	assert.Contains(t, f.Detail, "0 H2")
	assert.Contains(t, strings.Join(res.Recommendations, "\n"), "H2")
}

func TestReadability(t *testing.T) {
	long := strings.Repeat("word ", 39) + "word."
	tests := []struct {
		name  string
		paras []string
		want  int
	}{
		{"short sentences and paragraphs", filler(300), 15},
		{"forty-word sentences", []string{long, long}, 7},
		{"one huge paragraph", []string{strings.Join(filler(300), " ")}, 8},
		{"numbered markers are not sentences", []string{"1. Gather documents now.", "2. Apply online today."}, 15},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, detail := readability(types.ArticleDraft{Paragraphs: tc.paras}, types.TrendArtifact{})
			assert.Equal(t, tc.want, got, detail)
		})
	}
}

func TestTopicRelevance(t *testing.T) {
	d := types.ArticleDraft{Paragraphs: []string{"Coverage and costs matter.", "Enrollment opens in the fall."}}
	tests := []struct {
		name      string
		secondary []string
		want      int
	}{
		{"none", nil, 0},
		{"all found", []string{"coverage", "costs", "enrollment"}, 15},
		{"sixty percent is full marks", []string{"coverage", "costs", "enrollment", "premiums", "networks"}, 15},
		{"half found", []string{"coverage", "costs", "premiums", "networks"}, 12},
		{"none found", []string{"premiums", "networks"}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, detail := topicRelevance(d, types.TrendArtifact{SecondaryKeywords: tc.secondary})
			assert.Equal(t, tc.want, got, detail)
		})
	}
}

func TestSearchIntent(t *testing.T) {
	full := types.ArticleDraft{
		Headings: []types.Heading{
			{Level: types.H1, Text: "Guide"},
			{Level: types.H2, Text: "How to Enroll"},
			{Level: types.H2, Text: "Frequently Asked Questions"},
		},
		Paragraphs: []string{"1. Apply online.", "Contact a counselor today."},
	}
	got, _ := searchIntent(full, types.TrendArtifact{})
	assert.Equal(t, 10, got)

	stepsOnly := types.ArticleDraft{Paragraphs: []string{"1. Gather documents."}}
	got, detail := searchIntent(stepsOnly, types.TrendArtifact{})
	assert.Equal(t, 4, got)
	assert.Contains(t, detail, "missing: question heading, FAQ section, call to action")

	got, _ = searchIntent(types.ArticleDraft{}, types.TrendArtifact{})
	assert.Equal(t, 0, got)
}

func TestMetaElements(t *testing.T) {
	withKeyword140 := "Medicare " + strings.Repeat("x", 131)
	require.Equal(t, 140, len(withKeyword140))
	inWindow := "Medicare " + strings.Repeat("y", 146)

	tests := []struct {
		name string
		meta string
		want int
	}{
		{"in window with keyword", inWindow, 10},
		{"140 characters with keyword", withKeyword140, 5},
		{"in window without keyword", strings.Repeat("z", 155), 5},
		{"empty", "", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, detail := metaElements(types.ArticleDraft{MetaDescription: tc.meta}, types.TrendArtifact{PrimaryKeyword: "Medicare"})
			assert.Equal(t, tc.want, got, detail)
		})
	}
}

func TestScore_ShortMetaLosesFivePoints(t *testing.T) {
	in := demoInput(t, partD)
	in.Draft.MetaDescription = "Medicare Part D " + strings.Repeat("a", 124)
	require.Equal(t, 140, len(in.Draft.MetaDescription))

	res := Score(nil, in.Draft, in.Trend)
	f := findingFor(t, res, types.CriterionMetaElements)
	assert.Equal(t, 5, f.PointsEarned)
	assert.Equal(t, 95, res.TotalScore)
	assert.True(t, res.Passed)
}

func TestScore_ScalesCustomWeights(t *testing.T) {
	cat := *catalog.Default()
	cat.Weights = map[types.Criterion]int{
		types.CriterionKeywordUsage:     30,
		types.CriterionHeadingStructure: 15,
		types.CriterionContentLength:    10,
		types.CriterionReadability:      15,
		types.CriterionTopicRelevance:   10,
		types.CriterionSearchIntent:     10,
		types.CriterionMetaElements:     10,
	}

	in := demoInput(t, partD)
	res := Score(&cat, in.Draft, in.Trend)
	assert.Equal(t, 100, res.TotalScore)
	assert.Equal(t, 30, findingFor(t, res, types.CriterionKeywordUsage).PointsPossible)

	in.Draft.Title = "Drug Plans"
	res = Score(&cat, in.Draft, in.Trend)
	// 12 of 20 base points scale to 18 of 30.
	assert.Equal(t, 18, findingFor(t, res, types.CriterionKeywordUsage).PointsEarned)
}

func TestExaminer_Run(t *testing.T) {
	in := demoInput(t, partD)
	e := New(catalog.Default())
	assert.Equal(t, types.StageSeoExaminer, e.Name())
	res, err := e.Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, Score(catalog.Default(), in.Draft, in.Trend), res)
}
