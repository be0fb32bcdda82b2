// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// AllTopics is the selector value meaning "no narrower choice" at any level
// of the topic hierarchy.
const AllTopics = "ALL"

// TopicSelection is the caller's choice in the topic hierarchy. It is
// created once per run and read by every stage; stages never modify it.
type TopicSelection struct {
	// MainCategory is the top-level category (e.g. "GOVERNMENT PLANS").
	MainCategory string `json:"main_category" yaml:"main_category"`

	// SubCategory narrows the main category (e.g. "Medicare"). "ALL" selects
	// the whole main category.
	SubCategory string `json:"sub_category" yaml:"sub_category"`

	// SpecificTopic optionally narrows the subcategory (e.g. "Part D").
	SpecificTopic string `json:"specific_topic,omitempty" yaml:"specific_topic,omitempty"`
}

// Path joins the non-empty, non-"ALL" parts of the selection with " - ",
// e.g. "GOVERNMENT PLANS - Medicare - Part D".
func (t TopicSelection) Path() string {
	parts := []string{strings.TrimSpace(t.MainCategory)}
	for _, p := range []string{t.SubCategory, t.SpecificTopic} {
		p = strings.TrimSpace(p)
		if p != "" && p != AllTopics {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}

// Validate rejects selections without a main category or subcategory.
func (t TopicSelection) Validate() error {
	if strings.TrimSpace(t.MainCategory) == "" {
		return &ConfigError{Field: "main_category", Message: "must not be empty"}
	}
	if strings.TrimSpace(t.SubCategory) == "" {
		return &ConfigError{Field: "sub_category", Message: "must not be empty"}
	}
	return nil
}

// Specific returns the specific topic, or "" when it is unset or "ALL".
func (t TopicSelection) Specific() string {
	s := strings.TrimSpace(t.SpecificTopic)
	if s == AllTopics {
		return ""
	}
	return s
}

// TrendArtifact is the output of trend discovery: the subtopic to write
// about, its keyword set and the trusted sources backing it.
type TrendArtifact struct {
	// TopicTitle is the canonical, SEO-friendly title for the subtopic.
	TopicTitle string `json:"topic_title" yaml:"topic_title"`

	// PrimaryKeyword is the single keyword the article is optimised for.
	PrimaryKeyword string `json:"primary_keyword" yaml:"primary_keyword"`

	// SecondaryKeywords are supporting keywords in first-seen order.
	SecondaryKeywords []string `json:"secondary_keywords" yaml:"secondary_keywords"`

	// Sources names the trusted organisations relevant to the category.
	Sources []string `json:"sources" yaml:"sources"`

	// Description is a short narrative summary of the subtopic.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// TrendingReason explains why the subtopic matters now.
	TrendingReason string `json:"trending_reason,omitempty" yaml:"trending_reason,omitempty"`
}

// Clone returns a deep copy so downstream stages cannot alias the slices.
func (t TrendArtifact) Clone() TrendArtifact {
	out := t
	out.SecondaryKeywords = append([]string(nil), t.SecondaryKeywords...)
	out.Sources = append([]string(nil), t.Sources...)
	return out
}
