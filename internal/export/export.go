// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders a final content package as plain documents:
// Markdown with front matter, HTML, plain text, YAML and JSON.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/healthpulse/internal/consolidate"
	"github.com/pdiddy/healthpulse/pkg/types"
)

// DefaultDir is used when no output directory is configured.
const DefaultDir = "output/articles"

// Format is an export document format.
type Format string

const (
	Markdown Format = "markdown"
	HTML     Format = "html"
	Text     Format = "txt"
	YAML     Format = "yaml"
	JSON     Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{Markdown, HTML, Text, YAML, JSON}

// ParseFormat accepts a format name or a common alias such as "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return Markdown, nil
	case "html", "htm":
		return HTML, nil
	case "txt", "text":
		return Text, nil
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ParseFormats parses a list of names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Ext returns the file extension for f, without the dot.
func (f Format) Ext() string {
	if f == Markdown {
		return "md"
	}
	return string(f)
}

var (
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

const maxTitleRunes = 50

// Filename returns "HealthPulse_<title>_<YYYYMMDD>.<ext>". The title keeps
// letters, digits, underscores and hyphens, with spaces turned into
// underscores and a limit of 50 characters.
func Filename(title string, f Format, at time.Time) string {
	clean := unsafeChars.ReplaceAllString(title, "")
	clean = spaceRuns.ReplaceAllString(strings.TrimSpace(clean), "_")
	if r := []rune(clean); len(r) > maxTitleRunes {
		clean = string(r[:maxTitleRunes])
	}
	return fmt.Sprintf("HealthPulse_%s_%s.%s", clean, at.Format("20060102"), f.Ext())
}

// Render returns pkg encoded as f.
func Render(pkg *types.FinalPackage, f Format) ([]byte, error) {
	switch f {
	case Markdown:
		return renderMarkdown(pkg)
	case HTML:
		return renderHTML(pkg)
	case Text:
		return []byte(renderText(pkg)), nil
	case YAML:
		data, err := yaml.Marshal(pkg)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	case JSON:
		data, err := json.MarshalIndent(pkg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// Write renders pkg in each format into dir and returns the written paths.
func Write(dir string, pkg *types.FinalPackage, formats []Format) ([]string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	var paths []string
	for _, f := range formats {
		data, err := Render(pkg, f)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, Filename(pkg.Draft.Title, f, pkg.GeneratedAt))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// FrontMatter is the YAML header of the Markdown export.
type FrontMatter struct {
	Title             string   `yaml:"title"`
	Description       string   `yaml:"description"`
	PrimaryKeyword    string   `yaml:"primary_keyword"`
	SecondaryKeywords []string `yaml:"secondary_keywords,flow"`
	Category          string   `yaml:"category"`
	SeoScore          int      `yaml:"seo_score"`
	Status            string   `yaml:"status"`
	Generated         string   `yaml:"generated"`
}

// SplitFrontMatter separates a leading YAML front matter block from a
// markdown document. A document without one yields a zero FrontMatter and
// the document unchanged.
func SplitFrontMatter(doc string) (FrontMatter, string, error) {
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	rest, ok := strings.CutPrefix(doc, "---\n")
	if !ok {
		return FrontMatter{}, doc, nil
	}
	header, body, ok := strings.Cut(rest, "\n---\n")
	if !ok {
		return FrontMatter{}, doc, nil
	}
	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return FrontMatter{}, "", fmt.Errorf("parsing front matter: %w", err)
	}
	return fm, strings.TrimLeft(body, "\n"), nil
}

func renderMarkdown(pkg *types.FinalPackage) ([]byte, error) {
	fm, err := yaml.Marshal(FrontMatter{
		Title:             pkg.Draft.Title,
		Description:       pkg.Draft.MetaDescription,
		PrimaryKeyword:    pkg.Trend.PrimaryKeyword,
		SecondaryKeywords: pkg.Trend.SecondaryKeywords,
		Category:          pkg.Metadata.CategoryPath,
		SeoScore:          pkg.Validation.TotalScore,
		Status:            string(pkg.Metadata.Status),
		Generated:         pkg.GeneratedAt.Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling front matter: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(pkg.Draft.Markdown())
	if len(pkg.Draft.ImageSuggestions) > 0 {
		b.WriteString("\n<!-- image suggestions\n")
		for _, img := range pkg.Draft.ImageSuggestions {
			fmt.Fprintf(&b, "- %s (alt: %s)\n", img.Description, img.AltText)
		}
		b.WriteString("-->\n")
	}
	return b.Bytes(), nil
}

func renderHTML(pkg *types.FinalPackage) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(pkg.Draft.Markdown()), &body); err != nil {
		return nil, fmt.Errorf("rendering HTML: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(pkg.Draft.Title))
	fmt.Fprintf(&b, "<meta name=\"description\" content=\"%s\">\n", html.EscapeString(pkg.Draft.MetaDescription))
	keywords := append([]string{pkg.Trend.PrimaryKeyword}, pkg.Trend.SecondaryKeywords...)
	fmt.Fprintf(&b, "<meta name=\"keywords\" content=\"%s\">\n", html.EscapeString(strings.Join(keywords, ", ")))
	b.WriteString("</head>\n<body>\n<article>\n")
	b.Write(body.Bytes())
	b.WriteString("</article>\n</body>\n</html>\n")
	return b.Bytes(), nil
}

var rule = strings.Repeat("=", 70)

func renderText(pkg *types.FinalPackage) string {
	var b strings.Builder
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "  %s\n", pkg.Draft.Title)
	b.WriteString(rule + "\n\n")

	fmt.Fprintf(&b, "Generated: %s\n", pkg.GeneratedAt.Format("January 2, 2006"))
	fmt.Fprintf(&b, "SEO Score: %d/100\n", pkg.Validation.TotalScore)
	keywords := append([]string{pkg.Trend.PrimaryKeyword}, pkg.Trend.SecondaryKeywords...)
	fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(keywords, ", "))
	b.WriteString("\n" + strings.Repeat("-", 70) + "\n\n")

	if pkg.Draft.MetaDescription != "" {
		b.WriteString("META DESCRIPTION:\n")
		b.WriteString(pkg.Draft.MetaDescription + "\n\n")
		b.WriteString(strings.Repeat("-", 70) + "\n\n")
	}

	hi := 0
	for i, p := range pkg.Draft.Paragraphs {
		for hi < len(pkg.Draft.Headings) && pkg.Draft.Headings[hi].ParagraphIndex <= i {
			h := pkg.Draft.Headings[hi]
			if h.Level == types.H2 {
				b.WriteString(strings.ToUpper(h.Text) + "\n\n")
			} else {
				b.WriteString(h.Text + "\n\n")
			}
			hi++
		}
		b.WriteString(p + "\n\n")
	}

	b.WriteString(strings.Repeat("-", 70) + "\n\n")
	b.WriteString(consolidate.Summary(pkg))
	b.WriteString("\n" + rule + "\n")
	b.WriteString("Generated by HealthPulse USA - Multi-Agent Healthcare Content System\n")
	b.WriteString(rule + "\n")
	return b.String()
}
