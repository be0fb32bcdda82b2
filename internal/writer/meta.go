package writer

import (
	"strings"

	"github.com/pdiddy/healthpulse/internal/textutil"
)

// Meta description window, in characters.
const (
	MetaMin = 150
	MetaMax = 160
)

// metaFiller pads short descriptions one word at a time. No word is longer
// than MetaMax-MetaMin characters, so a single step never overshoots.
var metaFiller = strings.Fields("Learn about coverage, costs, who qualifies and how to enroll, with trusted guidance for 2025 from official US healthcare sources.")

// MetaDescription derives a 150-160 character description from the first
// sentence of the first prose paragraph. The primary keyword is prefixed when
// the sentence does not contain it.
func MetaDescription(paragraphs []string, primary, title string) string {
	summary := summarySentence(paragraphs)
	if summary == "" {
		summary = title
	}

	desc := fitMeta(summary)
	if primary != "" && !textutil.ContainsPhrase(desc, primary) {
		desc = fitMeta(primary + ": " + summary)
	}
	return desc
}

func summarySentence(paragraphs []string) string {
	for _, p := range paragraphs {
		if textutil.IsNumbered(p) {
			continue
		}
		if s := textutil.Sentences(p); len(s) > 0 {
			return s[0]
		}
	}
	return ""
}

func fitMeta(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if textutil.Len(s) > MetaMax {
		s = textutil.TruncateWords(s, MetaMax)
	}
	for i := 0; textutil.Len(s) < MetaMin; i++ {
		if s == "" {
			s = metaFiller[i%len(metaFiller)]
			continue
		}
		s += " " + metaFiller[i%len(metaFiller)]
	}
	return s
}
