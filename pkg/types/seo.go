// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Criterion names one of the seven SEO scoring categories.
type Criterion string

const (
	CriterionKeywordUsage     Criterion = "keyword_usage"
	CriterionHeadingStructure Criterion = "heading_structure"
	CriterionContentLength    Criterion = "content_length"
	CriterionReadability      Criterion = "readability"
	CriterionTopicRelevance   Criterion = "topic_relevance"
	CriterionSearchIntent     Criterion = "search_intent"
	CriterionMetaElements     Criterion = "meta_elements"
)

// Criteria lists the scoring categories in report order.
var Criteria = []Criterion{
	CriterionKeywordUsage,
	CriterionHeadingStructure,
	CriterionContentLength,
	CriterionReadability,
	CriterionTopicRelevance,
	CriterionSearchIntent,
	CriterionMetaElements,
}

// Label returns a human-readable name, e.g. "Keyword Usage".
func (c Criterion) Label() string {
	switch c {
	case CriterionKeywordUsage:
		return "Keyword Usage"
	case CriterionHeadingStructure:
		return "Heading Structure"
	case CriterionContentLength:
		return "Content Length"
	case CriterionReadability:
		return "Readability"
	case CriterionTopicRelevance:
		return "Topic Relevance"
	case CriterionSearchIntent:
		return "Search Intent"
	case CriterionMetaElements:
		return "Meta Elements"
	}
	return string(c)
}

// SeoFinding is the result of one scoring criterion.
type SeoFinding struct {
	Criterion      Criterion `json:"criterion" yaml:"criterion"`
	PointsEarned   int       `json:"points_earned" yaml:"points_earned"`
	PointsPossible int       `json:"points_possible" yaml:"points_possible"`
	Passed         bool      `json:"passed" yaml:"passed"`

	// Detail explains how the points were earned or lost.
	Detail string `json:"detail" yaml:"detail"`
}

// PassThreshold is the minimum total score for a passing article.
const PassThreshold = 70

// ValidationResult is the complete SEO assessment of a draft.
type ValidationResult struct {
	// Findings holds one entry per criterion, in Criteria order.
	Findings []SeoFinding `json:"findings" yaml:"findings"`

	// TotalScore is the sum of PointsEarned, clamped to [0,100].
	TotalScore int `json:"total_score" yaml:"total_score"`

	// Passed reports TotalScore >= PassThreshold.
	Passed bool `json:"passed" yaml:"passed"`

	// Recommendations lists suggested fixes for the failed findings.
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// Finding returns the finding for c and whether it exists.
func (v ValidationResult) Finding(c Criterion) (SeoFinding, bool) {
	for _, f := range v.Findings {
		if f.Criterion == c {
			return f, true
		}
	}
	return SeoFinding{}, false
}

// Clone returns a deep copy of the result.
func (v ValidationResult) Clone() ValidationResult {
	out := v
	out.Findings = append([]SeoFinding(nil), v.Findings...)
	out.Recommendations = append([]string(nil), v.Recommendations...)
	return out
}
