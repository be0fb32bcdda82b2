// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package writer

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/healthpulse/pkg/types"
)

var mdParser = goldmark.New().Parser()

// Parse converts markdown into an article draft: headings (levels deeper
// than 3 become H3), body paragraphs, and list items as paragraphs with
// ordered items prefixed "N. ". The heading structure is then repaired so
// the draft has exactly one H1; fallbackTitle is used when the markdown has
// none. The meta description is left empty.
func Parse(markdown, fallbackTitle string) types.ArticleDraft {
	src := []byte(stripFence(markdown))
	doc := mdParser.Parse(text.NewReader(src))

	var d types.ArticleDraft
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		collectBlock(&d, n, src)
	}
	repairTitle(&d, fallbackTitle)
	return d
}

func collectBlock(d *types.ArticleDraft, n ast.Node, src []byte) {
	switch b := n.(type) {
	case *ast.Heading:
		level := types.HeadingLevel(b.Level)
		if level > types.H3 {
			level = types.H3
		}
		if t := inlineText(b, src); t != "" {
			d.Headings = append(d.Headings, types.Heading{Level: level, Text: t, ParagraphIndex: len(d.Paragraphs)})
		}
	case *ast.Paragraph, *ast.TextBlock:
		if t := inlineText(b, src); t != "" {
			d.Paragraphs = append(d.Paragraphs, t)
		}
	case *ast.List:
		collectList(d, b, src)
	case *ast.Blockquote:
		for c := b.FirstChild(); c != nil; c = c.NextSibling() {
			collectBlock(d, c, src)
		}
	}
	// Code blocks, HTML blocks and thematic breaks carry no article text.
}

func collectList(d *types.ArticleDraft, l *ast.List, src []byte) {
	num := l.Start
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		var parts []string
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, sub)
				continue
			}
			if t := inlineText(c, src); t != "" {
				parts = append(parts, t)
			}
		}
		if len(parts) > 0 {
			p := strings.Join(parts, " ")
			if l.IsOrdered() {
				p = fmt.Sprintf("%d. %s", num, p)
			}
			d.Paragraphs = append(d.Paragraphs, p)
		}
		num++
		for _, sub := range nested {
			collectList(d, sub, src)
		}
	}
}

// inlineText flattens the inline content of n into a single line.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// stripFence removes a code fence wrapped around the whole response, as in
// "```markdown\n# Title\n...\n```".
func stripFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return s
	}
	nl := strings.IndexByte(t, '\n')
	if nl < 0 {
		return ""
	}
	t = strings.TrimSpace(t[nl+1:])
	t = strings.TrimSuffix(t, "```")
	return t
}

// repairTitle enforces exactly one H1 at the front of the heading list. The
// first H1 is the title; later H1s become H2s. Without an H1 the fallback
// title is inserted.
func repairTitle(d *types.ArticleDraft, fallbackTitle string) {
	titleIdx := -1
	for i := range d.Headings {
		if d.Headings[i].Level != types.H1 {
			continue
		}
		if titleIdx < 0 {
			titleIdx = i
			continue
		}
		d.Headings[i].Level = types.H2
	}

	if titleIdx < 0 {
		d.Title = strings.TrimSpace(fallbackTitle)
		d.Headings = append([]types.Heading{{Level: types.H1, Text: d.Title}}, d.Headings...)
		return
	}

	title := d.Headings[titleIdx]
	d.Title = title.Text
	if titleIdx > 0 {
		rest := append([]types.Heading(nil), d.Headings[:titleIdx]...)
		rest = append(rest, d.Headings[titleIdx+1:]...)
		title.ParagraphIndex = 0
		d.Headings = append([]types.Heading{title}, rest...)
	}
}
