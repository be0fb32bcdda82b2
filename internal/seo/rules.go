// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package seo

import (
	"fmt"
	"math"
	"strings"

	"github.com/pdiddy/healthpulse/internal/textutil"
	"github.com/pdiddy/healthpulse/pkg/types"
)

const (
	minH2 = 5

	idealMinWords = 1500
	idealMaxWords = 3000
	minWords      = 750
	maxWords      = 4500

	targetSentenceWords  = 25
	maxSentenceWords     = 40
	targetParagraphWords = 150
	maxParagraphWords    = 300

	metaMin = 150
	metaMax = 160
)

// keywordUsage: title 8, opening paragraph 6, two or more section headings 6.
func keywordUsage(d types.ArticleDraft, t types.TrendArtifact) (int, string) {
	primary := strings.TrimSpace(t.PrimaryKeyword)
	if primary == "" {
		return 0, "no primary keyword to check"
	}

	inTitle := textutil.ContainsPhrase(d.Title, primary)
	inFirst := len(d.Paragraphs) > 0 && textutil.ContainsPhrase(d.Paragraphs[0], primary)
	headings, hits := 0, 0
	for _, h := range d.Headings {
		if h.Level == types.H1 {
			continue
		}
		headings++
		if textutil.ContainsPhrase(h.Text, primary) {
			hits++
		}
	}
	inBody := false
	for _, p := range d.Paragraphs {
		if textutil.ContainsPhrase(p, primary) {
			inBody = true
			break
		}
	}
	if !inTitle && !inFirst && hits == 0 && !inBody {
		return 0, fmt.Sprintf("primary keyword %q not found anywhere in the article", primary)
	}

	pts := 0
	var lost []string
	if inTitle {
		pts += 8
	} else {
		lost = append(lost, "missing from title (-8)")
	}
	if inFirst {
		pts += 6
	} else {
		lost = append(lost, "missing from opening paragraph (-6)")
	}
	if hits >= 2 {
		pts += 6
	} else {
		lost = append(lost, fmt.Sprintf("in %d section heading(s), need 2 (-6)", hits))
	}

	detail := fmt.Sprintf("primary keyword %q in %d of %d section headings", primary, hits, headings)
	if len(lost) > 0 {
		detail += "; " + strings.Join(lost, "; ")
	}
	return pts, detail
}

// headingStructure: 15 minus 3 per missing H2 below five and 3 per H1 away
// from exactly one.
func headingStructure(d types.ArticleDraft, _ types.TrendArtifact) (int, string) {
	h1 := d.HeadingCount(types.H1)
	h2 := d.HeadingCount(types.H2)
	missing := max(0, minH2-h2)
	h1Off := h1 - 1
	if h1Off < 0 {
		h1Off = -h1Off
	}

	pts := max(0, 15-3*missing-3*h1Off)
	detail := fmt.Sprintf("%d H1, %d H2, %d H3", h1, h2, d.HeadingCount(types.H3))
	if missing > 0 {
		detail += fmt.Sprintf("; %d H2 short of %d (-%d)", missing, minH2, 3*missing)
	}
	if h1Off > 0 {
		detail += fmt.Sprintf("; %d H1 headings, want 1 (-%d)", h1, 3*h1Off)
	}
	return pts, detail
}

// contentLength: full marks for 1500-3000 words, linear down to zero at 750
// and 4500.
func contentLength(d types.ArticleDraft, _ types.TrendArtifact) (int, string) {
	wc := d.WordCount()
	var pts int
	switch {
	case wc >= idealMinWords && wc <= idealMaxWords:
		pts = 15
	case wc >= minWords && wc < idealMinWords:
		pts = 15 * (wc - minWords) / (idealMinWords - minWords)
	case wc > idealMaxWords && wc <= maxWords:
		pts = 15 * (maxWords - wc) / (maxWords - idealMaxWords)
	}

	detail := fmt.Sprintf("%d words (target %d-%d)", wc, idealMinWords, idealMaxWords)
	switch {
	case wc < idealMinWords:
		detail += fmt.Sprintf("; %d words short", idealMinWords-wc)
	case wc > idealMaxWords:
		detail += fmt.Sprintf("; %d words over", wc-idealMaxWords)
	}
	return pts, detail
}

// readability: 8 points for average sentence length and 7 for average
// paragraph length, each falling linearly past its target.
func readability(d types.ArticleDraft, _ types.TrendArtifact) (int, string) {
	sentences, sentenceWords := 0, 0
	for _, p := range d.Paragraphs {
		if textutil.IsNumbered(p) {
			p = p[strings.Index(p, ". ")+2:]
		}
		for _, s := range textutil.Sentences(p) {
			if n := types.CountWords(s); n > 0 {
				sentences++
				sentenceWords += n
			}
		}
	}
	if sentences == 0 {
		return 0, "no body text"
	}

	avgSentence := float64(sentenceWords) / float64(sentences)
	avgParagraph := float64(d.WordCount()) / float64(len(d.Paragraphs))
	pts := band(avgSentence, targetSentenceWords, maxSentenceWords, 8) +
		band(avgParagraph, targetParagraphWords, maxParagraphWords, 7)

	detail := fmt.Sprintf("average sentence %.1f words (target %d), average paragraph %.1f words (target %d)",
		avgSentence, targetSentenceWords, avgParagraph, targetParagraphWords)
	return pts, detail
}

// band awards full points up to target, then falls linearly to zero at limit.
func band(v float64, target, limit, full int) int {
	switch {
	case v <= float64(target):
		return full
	case v >= float64(limit):
		return 0
	}
	return int(math.Floor(float64(full) * (float64(limit) - v) / float64(limit-target)))
}

// topicRelevance: 25 points per full coverage of the secondary keywords,
// capped at 15, so 60% coverage earns full marks.
func topicRelevance(d types.ArticleDraft, t types.TrendArtifact) (int, string) {
	total := len(t.SecondaryKeywords)
	if total == 0 {
		return 0, "no secondary keywords to check"
	}
	found, missing := secondaryCoverage(d, t)
	pts := min(15, 25*found/total)

	detail := fmt.Sprintf("%d of %d secondary keywords found", found, total)
	if len(missing) > 0 {
		detail += "; missing: " + strings.Join(missing, ", ")
	}
	return pts, detail
}

func secondaryCoverage(d types.ArticleDraft, t types.TrendArtifact) (int, []string) {
	body := strings.Join(d.Paragraphs, "\n")
	found := 0
	var missing []string
	for _, kw := range t.SecondaryKeywords {
		if textutil.ContainsPhrase(body, kw) {
			found++
		} else {
			missing = append(missing, kw)
		}
	}
	return found, missing
}

var questionPrefixes = []string{"how to ", "how do ", "how does ", "what is ", "what are ", "why ", "when ", "who ", "where ", "which ", "can ", "do ", "does ", "is ", "are "}

var ctaPhrases = []string{"contact", "visit", "call", "apply", "sign up", "get started", "enroll today", "compare plans", "learn more", "speak with", "talk to"}

// searchIntent: numbered steps 4, a question or how-to heading 3, an FAQ
// section 3 and a call to action 3, capped at 10.
func searchIntent(d types.ArticleDraft, _ types.TrendArtifact) (int, string) {
	steps, question, faq, cta := false, false, false, false
	for _, p := range d.Paragraphs {
		if textutil.IsNumbered(p) {
			steps = true
		}
		for _, c := range ctaPhrases {
			if textutil.ContainsPhrase(p, c) {
				cta = true
				break
			}
		}
	}
	for _, h := range d.Headings {
		if h.Level == types.H1 {
			continue
		}
		text := strings.ToLower(strings.TrimSpace(h.Text))
		if strings.HasSuffix(text, "?") || hasAnyPrefix(text, questionPrefixes) || strings.Contains(text, "how to ") {
			question = true
		}
		if textutil.ContainsPhrase(text, "faq") || textutil.ContainsPhrase(text, "faqs") || strings.Contains(text, "frequently asked") {
			faq = true
		}
	}

	pts := 0
	var present, absent []string
	mark := func(ok bool, points int, name string) {
		if ok {
			pts += points
			present = append(present, name)
		} else {
			absent = append(absent, name)
		}
	}
	mark(steps, 4, "numbered steps")
	mark(question, 3, "question heading")
	mark(faq, 3, "FAQ section")
	mark(cta, 3, "call to action")
	pts = min(pts, 10)

	detail := "found: " + joinOrNone(present)
	if len(absent) > 0 {
		detail += "; missing: " + strings.Join(absent, ", ")
	}
	return pts, detail
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func joinOrNone(s []string) string {
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, ", ")
}

// metaElements: 10 when the description is 150-160 characters and contains
// the primary keyword, 5 when only one holds.
func metaElements(d types.ArticleDraft, t types.TrendArtifact) (int, string) {
	n := textutil.Len(d.MetaDescription)
	lengthOK := n >= metaMin && n <= metaMax
	keywordOK := textutil.ContainsPhrase(d.MetaDescription, t.PrimaryKeyword)

	pts := 0
	if lengthOK {
		pts += 5
	}
	if keywordOK {
		pts += 5
	}

	detail := fmt.Sprintf("meta description %d characters (target %d-%d)", n, metaMin, metaMax)
	if !lengthOK {
		detail += " (-5)"
	}
	if keywordOK {
		detail += "; contains primary keyword"
	} else {
		detail += "; missing primary keyword (-5)"
	}
	return pts, detail
}
