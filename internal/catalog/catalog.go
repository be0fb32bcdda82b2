// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog holds the static topic tables: the category hierarchy,
// canonical titles, curated keywords, trusted sources, stop words and the
// SEO scoring weights. A Catalog is built once at start-up and never
// modified afterwards, so it can be shared by concurrent runs without locks.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/healthpulse/pkg/types"
	"go.yaml.in/yaml/v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// Topic is a specific topic below a subcategory.
type Topic struct {
	Name    string   `yaml:"name"`
	Details []string `yaml:"details,omitempty"`
}

// Subcategory is a known subcategory with its canonical titles.
type Subcategory struct {
	Name string `yaml:"name"`

	// Title is the canonical title when no specific topic is selected.
	Title string `yaml:"title"`

	// SpecificTitle is the canonical title template for a specific topic.
	// The placeholder {specific} is replaced with the topic name.
	SpecificTitle string `yaml:"specific_title"`

	// Keywords are curated search keywords for the subcategory.
	Keywords []string `yaml:"keywords"`

	Topics []Topic `yaml:"topics"`
}

// Category is a main category of the hierarchy.
type Category struct {
	Name string `yaml:"name"`

	// Title is the canonical title for the whole category (subcategory ALL).
	Title string `yaml:"title"`

	// Sources are keys into Catalog.TrustedSources.
	Sources []string `yaml:"sources"`

	Keywords      []string      `yaml:"keywords"`
	Subcategories []Subcategory `yaml:"subcategories"`
}

// Catalog is the complete static configuration consumed by the pipeline.
type Catalog struct {
	Weights        map[types.Criterion]int `yaml:"weights"`
	FallbackTitle  string                  `yaml:"fallback_title"`
	TrustedSources map[string]string       `yaml:"trusted_sources"`
	DefaultSources []string                `yaml:"default_sources"`
	FillerKeywords []string                `yaml:"filler_keywords"`
	StopWords      []string                `yaml:"stop_words"`
	Categories     []Category              `yaml:"categories"`

	stop map[string]bool
}

var defaultCatalog = mustParse(defaultCatalogYAML)

// Default returns the embedded catalog. Callers must not modify it.
func Default() *Catalog {
	return defaultCatalog
}

func mustParse(data []byte) *Catalog {
	c, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.stop = make(map[string]bool, len(c.StopWords))
	for _, w := range c.StopWords {
		c.stop[strings.ToLower(w)] = true
	}
	return &c, nil
}

// Validate checks that the seven weights are present, positive and sum to
// 100, and that every source key resolves.
func (c *Catalog) Validate() error {
	sum := 0
	for _, crit := range types.Criteria {
		w, ok := c.Weights[crit]
		if !ok {
			return fmt.Errorf("missing weight for %s", crit)
		}
		if w <= 0 {
			return fmt.Errorf("weight for %s must be positive, got %d", crit, w)
		}
		sum += w
	}
	if len(c.Weights) != len(types.Criteria) {
		return fmt.Errorf("expected %d weights, got %d", len(types.Criteria), len(c.Weights))
	}
	if sum != 100 {
		return fmt.Errorf("weights sum to %d, want 100", sum)
	}
	if !strings.Contains(c.FallbackTitle, "{subject}") {
		return fmt.Errorf("fallback_title must contain {subject}")
	}
	if len(c.DefaultSources) == 0 {
		return fmt.Errorf("default_sources must not be empty")
	}
	for _, key := range c.DefaultSources {
		if _, ok := c.TrustedSources[key]; !ok {
			return fmt.Errorf("default source %q is not a trusted source", key)
		}
	}
	seen := make(map[string]bool)
	for _, cat := range c.Categories {
		if cat.Name == "" || cat.Title == "" {
			return fmt.Errorf("category %q needs a name and a title", cat.Name)
		}
		if seen[cat.Name] {
			return fmt.Errorf("duplicate category %q", cat.Name)
		}
		seen[cat.Name] = true
		if len(cat.Sources) == 0 {
			return fmt.Errorf("category %q has no sources", cat.Name)
		}
		for _, key := range cat.Sources {
			if _, ok := c.TrustedSources[key]; !ok {
				return fmt.Errorf("category %q: unknown source %q", cat.Name, key)
			}
		}
		for _, sub := range cat.Subcategories {
			if sub.Name == "" || sub.Title == "" {
				return fmt.Errorf("category %q: subcategory %q needs a name and a title", cat.Name, sub.Name)
			}
			if sub.SpecificTitle != "" && !strings.Contains(sub.SpecificTitle, "{specific}") {
				return fmt.Errorf("subcategory %q: specific_title must contain {specific}", sub.Name)
			}
		}
	}
	return nil
}

// Weight returns the maximum points for a criterion.
func (c *Catalog) Weight(crit types.Criterion) int {
	return c.Weights[crit]
}

// Category looks up a main category by name.
func (c *Catalog) Category(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// Subcategory looks up a subcategory of a main category.
func (c *Catalog) Subcategory(main, sub string) (Subcategory, bool) {
	cat, ok := c.Category(main)
	if !ok {
		return Subcategory{}, false
	}
	for _, s := range cat.Subcategories {
		if s.Name == sub {
			return s, true
		}
	}
	return Subcategory{}, false
}

// MainCategories lists the main category names in catalog order.
func (c *Catalog) MainCategories() []string {
	out := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		out = append(out, cat.Name)
	}
	return out
}

// Subcategories lists the subcategory names of main, preceded by "ALL".
func (c *Catalog) Subcategories(main string) []string {
	cat, ok := c.Category(main)
	if !ok {
		return nil
	}
	out := []string{types.AllTopics}
	for _, s := range cat.Subcategories {
		out = append(out, s.Name)
	}
	return out
}

// Topics lists the specific topics of a subcategory.
func (c *Catalog) Topics(main, sub string) []string {
	s, ok := c.Subcategory(main, sub)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(s.Topics))
	for _, t := range s.Topics {
		out = append(out, t.Name)
	}
	return out
}

// Details lists the detailed topics below a specific topic.
func (c *Catalog) Details(main, sub, specific string) []string {
	s, ok := c.Subcategory(main, sub)
	if !ok {
		return nil
	}
	for _, t := range s.Topics {
		if t.Name == specific {
			return append([]string(nil), t.Details...)
		}
	}
	return nil
}

// Known reports whether every non-ALL part of sel is in the hierarchy.
func (c *Catalog) Known(sel types.TopicSelection) bool {
	if _, ok := c.Category(sel.MainCategory); !ok {
		return false
	}
	if sel.SubCategory == types.AllTopics {
		return sel.Specific() == ""
	}
	s, ok := c.Subcategory(sel.MainCategory, sel.SubCategory)
	if !ok {
		return false
	}
	if sel.Specific() == "" {
		return true
	}
	for _, t := range s.Topics {
		if t.Name == sel.Specific() {
			return true
		}
	}
	return false
}

// Selections enumerates every known selection: each category with ALL, each
// subcategory, and each specific topic.
func (c *Catalog) Selections() []types.TopicSelection {
	var out []types.TopicSelection
	for _, cat := range c.Categories {
		out = append(out, types.TopicSelection{MainCategory: cat.Name, SubCategory: types.AllTopics})
		for _, s := range cat.Subcategories {
			out = append(out, types.TopicSelection{MainCategory: cat.Name, SubCategory: s.Name})
			for _, t := range s.Topics {
				out = append(out, types.TopicSelection{MainCategory: cat.Name, SubCategory: s.Name, SpecificTopic: t.Name})
			}
		}
	}
	return out
}

// Title maps a selection to its canonical title. Unknown combinations use
// the fallback template with the most specific part of the selection.
func (c *Catalog) Title(sel types.TopicSelection) string {
	if c.Known(sel) {
		if sel.SubCategory == types.AllTopics {
			cat, _ := c.Category(sel.MainCategory)
			return cat.Title
		}
		s, _ := c.Subcategory(sel.MainCategory, sel.SubCategory)
		if sel.Specific() == "" {
			return s.Title
		}
		if s.SpecificTitle != "" {
			return strings.ReplaceAll(s.SpecificTitle, "{specific}", sel.Specific())
		}
	}
	return strings.ReplaceAll(c.FallbackTitle, "{subject}", subject(sel))
}

func subject(sel types.TopicSelection) string {
	var parts []string
	for _, p := range []string{sel.SubCategory, sel.Specific()} {
		p = strings.TrimSpace(p)
		if p != "" && p != types.AllTopics {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return titleCase(sel.MainCategory)
	}
	return strings.Join(parts, " ")
}

// titleCase turns "GOVERNMENT PLANS" into "Government Plans".
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Sources returns the trusted source names for a main category. Unknown
// categories get the default sources, so the result is never empty.
func (c *Catalog) Sources(main string) []string {
	keys := c.DefaultSources
	if cat, ok := c.Category(main); ok {
		keys = cat.Sources
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, c.TrustedSources[k])
	}
	return out
}

// Keywords returns the curated keywords for a category and subcategory,
// category keywords first.
func (c *Catalog) Keywords(main, sub string) []string {
	var out []string
	if cat, ok := c.Category(main); ok {
		out = append(out, cat.Keywords...)
	}
	if s, ok := c.Subcategory(main, sub); ok {
		out = append(out, s.Keywords...)
	}
	return out
}

// IsStopWord reports whether w is a stop word, ignoring case.
func (c *Catalog) IsStopWord(w string) bool {
	return c.stop[strings.ToLower(w)]
}
