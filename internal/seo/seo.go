// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package seo implements the SEO examiner: a deterministic scoring engine
// that grades an article draft against seven weighted criteria. Scoring is a
// pure function of the draft, the trend artifact and the catalog weights.
package seo

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/healthpulse/internal/catalog"
	"github.com/pdiddy/healthpulse/pkg/types"
)

// baseWeights are the maxima the scoring rules are written against. A
// catalog with different weights scales each rule's points proportionally.
var baseWeights = map[types.Criterion]int{
	types.CriterionKeywordUsage:     20,
	types.CriterionHeadingStructure: 15,
	types.CriterionContentLength:    15,
	types.CriterionReadability:      15,
	types.CriterionTopicRelevance:   15,
	types.CriterionSearchIntent:     10,
	types.CriterionMetaElements:     10,
}

// findingPassPercent is the share of possible points a finding must earn to
// pass.
const findingPassPercent = 70

// Input is what the examiner may read.
type Input struct {
	Draft types.ArticleDraft
	Trend types.TrendArtifact
}

// Examiner runs the SEO validation stage.
type Examiner struct {
	Catalog *catalog.Catalog
}

// New returns an Examiner scoring with cat's weights.
func New(cat *catalog.Catalog) *Examiner {
	return &Examiner{Catalog: cat}
}

// Name returns the stage name.
func (e *Examiner) Name() types.StageName { return types.StageSeoExaminer }

// Run scores in.Draft. It never fails.
func (e *Examiner) Run(_ context.Context, in Input) (types.ValidationResult, error) {
	return Score(e.Catalog, in.Draft, in.Trend), nil
}

// rule scores one criterion against its base weight and explains lost
// points.
type rule func(d types.ArticleDraft, t types.TrendArtifact) (earned int, detail string)

var rules = map[types.Criterion]rule{
	types.CriterionKeywordUsage:     keywordUsage,
	types.CriterionHeadingStructure: headingStructure,
	types.CriterionContentLength:    contentLength,
	types.CriterionReadability:      readability,
	types.CriterionTopicRelevance:   topicRelevance,
	types.CriterionSearchIntent:     searchIntent,
	types.CriterionMetaElements:     metaElements,
}

// Score grades d against the seven criteria in fixed order. A nil catalog
// uses the embedded default weights.
func Score(cat *catalog.Catalog, d types.ArticleDraft, t types.TrendArtifact) types.ValidationResult {
	if cat == nil {
		cat = catalog.Default()
	}

	var res types.ValidationResult
	total := 0
	for _, crit := range types.Criteria {
		earned, detail := rules[crit](d, t)
		base := baseWeights[crit]
		possible := cat.Weight(crit)
		if possible != base {
			earned = earned * possible / base
		}
		f := types.SeoFinding{
			Criterion:      crit,
			PointsEarned:   earned,
			PointsPossible: possible,
			Passed:         earned*100 >= possible*findingPassPercent,
			Detail:         detail,
		}
		res.Findings = append(res.Findings, f)
		total += earned
		if !f.Passed {
			res.Recommendations = append(res.Recommendations, recommend(crit, d, t))
		}
	}

	res.TotalScore = clamp(total, 0, 100)
	res.Passed = res.TotalScore >= types.PassThreshold
	return res
}

func recommend(crit types.Criterion, d types.ArticleDraft, t types.TrendArtifact) string {
	switch crit {
	case types.CriterionKeywordUsage:
		return fmt.Sprintf("Use the primary keyword %q in the title, the opening paragraph and at least two section headings.", t.PrimaryKeyword)
	case types.CriterionHeadingStructure:
		return fmt.Sprintf("Use exactly one H1 title and at least %d H2 section headings.", minH2)
	case types.CriterionContentLength:
		return fmt.Sprintf("Adjust the article to between %d and %d words (currently %d).", idealMinWords, idealMaxWords, d.WordCount())
	case types.CriterionReadability:
		return fmt.Sprintf("Keep sentences to %d words or fewer on average and paragraphs under %d words.", targetSentenceWords, targetParagraphWords)
	case types.CriterionTopicRelevance:
		_, missing := secondaryCoverage(d, t)
		if len(missing) == 0 {
			return "Add secondary keywords to the trend artifact so topic coverage can be measured."
		}
		return "Work the missing secondary keywords into the body: " + strings.Join(missing, ", ") + "."
	case types.CriterionSearchIntent:
		return "Add actionable elements: numbered steps, a question-style heading, an FAQ section and a clear call to action."
	case types.CriterionMetaElements:
		return fmt.Sprintf("Write a %d-%d character meta description that includes %q.", metaMin, metaMax, t.PrimaryKeyword)
	}
	return ""
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
