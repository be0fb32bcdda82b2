// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"strings"
	"unicode"
)

// HeadingLevel is a markdown heading depth. Only 1, 2 and 3 are produced.
type HeadingLevel int

const (
	H1 HeadingLevel = 1
	H2 HeadingLevel = 2
	H3 HeadingLevel = 3
)

// Heading is one heading of an article.
type Heading struct {
	// Level is 1 for the title, 2 for sections, 3 for subsections.
	Level HeadingLevel `json:"level" yaml:"level"`

	// Text is the heading text without markdown markers.
	Text string `json:"text" yaml:"text"`

	// ParagraphIndex is the index of the first paragraph that follows the
	// heading. Renderers place the heading before that paragraph.
	ParagraphIndex int `json:"paragraph_index" yaml:"paragraph_index"`
}

// ImageSuggestion describes an image an editor could add to the article.
type ImageSuggestion struct {
	Description string `json:"description" yaml:"description"`
	AltText     string `json:"alt_text" yaml:"alt_text"`
}

// ArticleDraft is the structured article produced by the content writer.
type ArticleDraft struct {
	// Title is the H1 text.
	Title string `json:"title" yaml:"title"`

	// MetaDescription is the search-result snippet (150-160 characters).
	MetaDescription string `json:"meta_description" yaml:"meta_description"`

	// Headings lists every heading in document order. The first entry is
	// the single H1.
	Headings []Heading `json:"headings" yaml:"headings"`

	// Paragraphs is the body text in document order. Numbered steps keep
	// their "N. " prefix.
	Paragraphs []string `json:"paragraphs" yaml:"paragraphs"`

	// ImageSuggestions lists optional illustrations for the article.
	ImageSuggestions []ImageSuggestion `json:"image_suggestions,omitempty" yaml:"image_suggestions,omitempty"`
}

// WordCount returns the number of words in the body paragraphs. It is
// computed on every call.
func (d ArticleDraft) WordCount() int {
	n := 0
	for _, p := range d.Paragraphs {
		n += CountWords(p)
	}
	return n
}

// HeadingCount returns how many headings have the given level.
func (d ArticleDraft) HeadingCount(level HeadingLevel) int {
	n := 0
	for _, h := range d.Headings {
		if h.Level == level {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the draft.
func (d ArticleDraft) Clone() ArticleDraft {
	out := d
	out.Headings = append([]Heading(nil), d.Headings...)
	out.Paragraphs = append([]string(nil), d.Paragraphs...)
	out.ImageSuggestions = append([]ImageSuggestion(nil), d.ImageSuggestions...)
	return out
}

// Markdown renders the draft as markdown, placing each heading before the
// paragraph it anchors.
func (d ArticleDraft) Markdown() string {
	var b strings.Builder
	hi := 0
	writeHeadings := func(upTo int) {
		for hi < len(d.Headings) && d.Headings[hi].ParagraphIndex <= upTo {
			h := d.Headings[hi]
			b.WriteString(strings.Repeat("#", int(h.Level)))
			b.WriteString(" ")
			b.WriteString(h.Text)
			b.WriteString("\n\n")
			hi++
		}
	}
	for i, p := range d.Paragraphs {
		writeHeadings(i)
		b.WriteString(p)
		b.WriteString("\n\n")
	}
	writeHeadings(len(d.Paragraphs))
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// CountWords counts whitespace-separated tokens that contain at least one
// letter or digit, so stray punctuation such as "-" is not a word.
func CountWords(s string) int {
	n := 0
	for _, f := range strings.Fields(s) {
		if strings.IndexFunc(f, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) >= 0 {
			n++
		}
	}
	return n
}
