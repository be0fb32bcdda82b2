package types

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicSelectionPath(t *testing.T) {
	tests := []struct {
		name string
		sel  TopicSelection
		want string
	}{
		{"main and sub", TopicSelection{MainCategory: "GOVERNMENT PLANS", SubCategory: "Medicare"}, "GOVERNMENT PLANS - Medicare"},
		{"with specific", TopicSelection{MainCategory: "GOVERNMENT PLANS", SubCategory: "Medicare", SpecificTopic: "Part D"}, "GOVERNMENT PLANS - Medicare - Part D"},
		{"all subcategory", TopicSelection{MainCategory: "EXCHANGE", SubCategory: "ALL"}, "EXCHANGE"},
		{"all specific", TopicSelection{MainCategory: "COMMERCIAL PLANS", SubCategory: "HMO", SpecificTopic: "ALL"}, "COMMERCIAL PLANS - HMO"},
		{"trims whitespace", TopicSelection{MainCategory: " EXCHANGE ", SubCategory: " Subsidies "}, "EXCHANGE - Subsidies"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.Path())
		})
	}
}

func TestTopicSelectionValidate(t *testing.T) {
	tests := []struct {
		name  string
		sel   TopicSelection
		field string
	}{
		{"valid", TopicSelection{MainCategory: "EXCHANGE", SubCategory: "ALL"}, ""},
		{"missing main", TopicSelection{SubCategory: "Medicare"}, "main_category"},
		{"blank main", TopicSelection{MainCategory: "  ", SubCategory: "Medicare"}, "main_category"},
		{"missing sub", TopicSelection{MainCategory: "EXCHANGE"}, "sub_category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sel.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestTopicSelectionSpecific(t *testing.T) {
	assert.Equal(t, "", TopicSelection{SpecificTopic: "ALL"}.Specific())
	assert.Equal(t, "", TopicSelection{}.Specific())
	assert.Equal(t, "Part D", TopicSelection{SpecificTopic: " Part D "}.Specific())
}

func TestTrendArtifactClone(t *testing.T) {
	orig := TrendArtifact{TopicTitle: "Medicare", SecondaryKeywords: []string{"a"}, Sources: []string{"CMS.gov"}}
	c := orig.Clone()
	c.SecondaryKeywords[0] = "changed"
	c.Sources[0] = "changed"
	assert.Equal(t, "a", orig.SecondaryKeywords[0])
	assert.Equal(t, "CMS.gov", orig.Sources[0])
}

func sampleDraft() ArticleDraft {
	return ArticleDraft{
		Title: "Medicare Basics",
		Headings: []Heading{
			{Level: H1, Text: "Medicare Basics", ParagraphIndex: 0},
			{Level: H2, Text: "Who Qualifies", ParagraphIndex: 1},
			{Level: H3, Text: "Age Rules", ParagraphIndex: 1},
			{Level: H2, Text: "Next Steps", ParagraphIndex: 2},
		},
		Paragraphs: []string{
			"Medicare covers people over 65.",
			"Most people qualify at 65 - or earlier with a disability.",
		},
	}
}

func TestArticleDraftMarkdown(t *testing.T) {
	want := "# Medicare Basics\n\n" +
		"Medicare covers people over 65.\n\n" +
		"## Who Qualifies\n\n" +
		"### Age Rules\n\n" +
		"Most people qualify at 65 - or earlier with a disability.\n\n" +
		"## Next Steps\n"
	assert.Equal(t, want, sampleDraft().Markdown())
}

func TestArticleDraftCounts(t *testing.T) {
	d := sampleDraft()
	assert.Equal(t, 15, d.WordCount())
	assert.Equal(t, 1, d.HeadingCount(H1))
	assert.Equal(t, 2, d.HeadingCount(H2))
	assert.Equal(t, 1, d.HeadingCount(H3))
	assert.Equal(t, 0, ArticleDraft{}.WordCount())
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one - two", 2},
		{"1. Apply online", 3},
		{"cost-sharing and co-pays", 3},
		{"-- ... !!", 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.in))
		})
	}
}

func TestArticleDraftClone(t *testing.T) {
	d := sampleDraft()
	d.ImageSuggestions = []ImageSuggestion{{Description: "card", AltText: "Medicare card"}}
	c := d.Clone()
	c.Headings[0].Text = "x"
	c.Paragraphs[0] = "x"
	c.ImageSuggestions[0].AltText = "x"
	assert.Equal(t, "Medicare Basics", d.Headings[0].Text)
	assert.Equal(t, "Medicare covers people over 65.", d.Paragraphs[0])
	assert.Equal(t, "Medicare card", d.ImageSuggestions[0].AltText)
}

func TestModelConfig(t *testing.T) {
	t.Run("demo", func(t *testing.T) {
		assert.True(t, ModelConfig{ModelID: "gpt-4o"}.Demo())
		assert.True(t, ModelConfig{ModelID: "gpt-4o", APIKey: "  "}.Demo())
		assert.True(t, ModelConfig{ModelID: "gpt-4o", APIKey: "sk", UseDemoMode: true}.Demo())
		assert.False(t, ModelConfig{ModelID: "gpt-4o", APIKey: "sk"}.Demo())
	})

	t.Run("timeout", func(t *testing.T) {
		assert.Equal(t, 60*time.Second, ModelConfig{}.Timeout())
		assert.Equal(t, 5*time.Second, ModelConfig{TimeoutSeconds: 5}.Timeout())
	})

	t.Run("provider", func(t *testing.T) {
		assert.Equal(t, ProviderOpenAI, ModelConfig{ModelID: "gpt-4"}.Provider())
		assert.Equal(t, ProviderAnthropic, ModelConfig{ModelID: "claude-haiku-4-5"}.Provider())
		assert.Equal(t, Provider(""), ModelConfig{ModelID: "llama"}.Provider())
	})

	t.Run("validate", func(t *testing.T) {
		for model := range SupportedModels {
			assert.NoError(t, ModelConfig{ModelID: model}.Validate(), model)
		}
		var cfgErr *ConfigError
		require.True(t, errors.As(ModelConfig{ModelID: "gpt-5"}.Validate(), &cfgErr))
		assert.Equal(t, "model_id", cfgErr.Field)
		require.True(t, errors.As(ModelConfig{ModelID: "gpt-4o", TimeoutSeconds: -1}.Validate(), &cfgErr))
		assert.Equal(t, "timeout_seconds", cfgErr.Field)
	})
}

func TestValidationResult(t *testing.T) {
	v := ValidationResult{
		Findings:        []SeoFinding{{Criterion: CriterionReadability, PointsEarned: 12, PointsPossible: 15}},
		Recommendations: []string{"shorten sentences"},
	}
	f, ok := v.Finding(CriterionReadability)
	require.True(t, ok)
	assert.Equal(t, 12, f.PointsEarned)
	_, ok = v.Finding(CriterionMetaElements)
	assert.False(t, ok)

	c := v.Clone()
	c.Findings[0].PointsEarned = 0
	c.Recommendations[0] = "x"
	assert.Equal(t, 12, v.Findings[0].PointsEarned)
	assert.Equal(t, "shorten sentences", v.Recommendations[0])
}

func TestCriterionLabel(t *testing.T) {
	assert.Equal(t, "Keyword Usage", CriterionKeywordUsage.Label())
	assert.Equal(t, "Meta Elements", CriterionMetaElements.Label())
	assert.Equal(t, "other", Criterion("other").Label())
	assert.Len(t, Criteria, 7)
}

func TestErrors(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")

	cfgErr := &ConfigError{Field: "model_id", Message: "unsupported model"}
	assert.Equal(t, "invalid configuration model_id: unsupported model", cfgErr.Error())

	timeout := &BackendTimeoutError{Backend: "openai", Timeout: 30 * time.Second, Err: cause}
	assert.Equal(t, "openai backend unavailable (timeout 30s): dial tcp: i/o timeout", timeout.Error())
	assert.ErrorIs(t, timeout, cause)

	gen := &GenerationError{Stage: StageContentWriter, Detail: "completion failed", Err: timeout}
	assert.Equal(t, "content_writer: completion failed: "+timeout.Error(), gen.Error())
	assert.ErrorIs(t, gen, cause)
	var got *BackendTimeoutError
	assert.True(t, errors.As(gen, &got))

	bare := &GenerationError{Stage: StageTrendDiscovery, Detail: "empty response"}
	assert.Equal(t, "trend_discovery: empty response", bare.Error())
}
