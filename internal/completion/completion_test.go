// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/healthpulse/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partDBrief() Brief {
	return Brief{
		Title:             "Medicare Part D in 2025: Coverage, Costs and Enrollment",
		Focus:             "Medicare Part D",
		PrimaryKeyword:    "Medicare",
		SecondaryKeywords: []string{"Part", "Coverage", "Costs", "Enrollment", "government", "plans"},
		Sources:           []string{"CMS (Centers for Medicare & Medicaid Services)", "Healthcare.gov"},
		Category:          "GOVERNMENT PLANS",
		Subcategory:       "Medicare",
		Specific:          "Part D",
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.ModelConfig
		want string
	}{
		{"demo flag", types.ModelConfig{ModelID: "gpt-4o", APIKey: "sk-test", UseDemoMode: true}, "demo"},
		{"no key", types.ModelConfig{ModelID: "gpt-4o"}, "demo"},
		{"openai", types.ModelConfig{ModelID: "gpt-4-turbo", APIKey: "sk-test"}, "openai"},
		{"claude", types.ModelConfig{ModelID: "claude-haiku-4-5", APIKey: "key"}, "claude"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := New(tc.cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, b.Name())
		})
	}

	_, err := New(types.ModelConfig{ModelID: "llama", APIKey: "key"})
	var cfgErr *types.ConfigError
	require.True(t, errors.As(err, &cfgErr))
}

func TestDemo_ArticleIsDeterministic(t *testing.T) {
	req := Request{Task: TaskArticle, Brief: partDBrief()}
	a, err := Demo{}.Complete(context.Background(), req)
	require.NoError(t, err)
	b, err := Demo{}.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDemo_ArticleShape(t *testing.T) {
	md, err := Demo{}.Complete(context.Background(), Request{Task: TaskArticle, Brief: partDBrief()})
	require.NoError(t, err)

	var h1, h2 int
	words := 0
	for _, line := range strings.Split(md, "\n") {
		switch {
		case strings.HasPrefix(line, "# "):
			h1++
		case strings.HasPrefix(line, "## "):
			h2++
		case strings.HasPrefix(line, "#"):
		default:
			words += types.CountWords(line)
		}
	}
	assert.Equal(t, 1, h1)
	assert.GreaterOrEqual(t, h2, 5)
	assert.GreaterOrEqual(t, words, 1500)
	assert.LessOrEqual(t, words, 3000)

	assert.True(t, strings.HasPrefix(md, "# Medicare Part D in 2025"))
	assert.Contains(t, md, "## What Is Medicare Part D?")
	assert.Contains(t, md, "## Frequently Asked Questions About Medicare Part D")
	assert.Contains(t, md, "\n1. Gather your documents")
	for _, kw := range partDBrief().SecondaryKeywords {
		assert.Contains(t, strings.ToLower(md), strings.ToLower(kw))
	}
}

func TestDemo_Framing(t *testing.T) {
	out, err := Demo{}.Complete(context.Background(), Request{Task: TaskTrendFraming, Brief: partDBrief()})
	require.NoError(t, err)
	assert.Contains(t, out, "TRENDING REASON: Medicare Part D is drawing attention")
	assert.Contains(t, out, "BRIEF DESCRIPTION: A practical guide to Medicare Part D")
	assert.Contains(t, out, "guidance drawn from CMS.")
}

func TestDemo_UnknownTaskAndCancelled(t *testing.T) {
	_, err := Demo{}.Complete(context.Background(), Request{Task: "poem"})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Demo{}.Complete(ctx, Request{Task: TaskArticle, Brief: partDBrief()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDemo_EmptyBrief(t *testing.T) {
	out, err := Demo{}.Complete(context.Background(), Request{Task: TaskArticle, Brief: Brief{Title: "Coverage Basics"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Coverage Basics\n"))
}

func TestOpenAIBackend_Complete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer sk-test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "write", body.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"# Title\n\nBody"}}]}`))
	}))
	defer ts.Close()

	b := NewOpenAI(types.ModelConfig{ModelID: "gpt-4o", APIKey: "sk-test-key", BaseURL: ts.URL, TimeoutSeconds: 5})
	out, err := b.Complete(context.Background(), Request{System: "you write", User: "write"})
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody", out)
}

func TestOpenAIBackend_ServerErrorIsUnavailable(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer ts.Close()

	b := NewOpenAI(types.ModelConfig{ModelID: "gpt-4o", APIKey: "sk-test-key", BaseURL: ts.URL, TimeoutSeconds: 5})
	_, err := b.Complete(context.Background(), Request{User: "write"})
	var timeoutErr *types.BackendTimeoutError
	require.True(t, errors.As(err, &timeoutErr), "got %v", err)
	assert.Equal(t, "openai", timeoutErr.Backend)
	assert.Equal(t, 1, calls)
}

func TestClaudeBackend_Complete(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var body claudeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-haiku-4-5", body.Model)
		assert.Equal(t, "you write", body.System)
		require.Len(t, body.Messages, 1)

		json.NewEncoder(w).Encode(claudeResponse{Content: []claudeContent{
			{Type: "text", Text: "# Title\n\n"},
			{Type: "text", Text: "Body"},
		}})
	}))
	defer ts.Close()

	b := NewClaude(types.ModelConfig{ModelID: "claude-haiku-4-5", APIKey: "key", BaseURL: ts.URL, TimeoutSeconds: 5})
	out, err := b.Complete(context.Background(), Request{System: "you write", User: "write"})
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nBody", out)
}

func TestClaudeBackend_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	b := NewClaude(types.ModelConfig{ModelID: "claude-haiku-4-5", APIKey: "key", BaseURL: ts.URL})
	b.Timeout = 20 * time.Millisecond

	_, err := b.Complete(context.Background(), Request{User: "write"})
	var timeoutErr *types.BackendTimeoutError
	require.True(t, errors.As(err, &timeoutErr), "got %v", err)
	assert.Equal(t, "claude", timeoutErr.Backend)
	assert.Equal(t, 20*time.Millisecond, timeoutErr.Timeout)
}

func TestClaudeBackend_BadRequestIsNotUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error"}`))
	}))
	defer ts.Close()

	b := NewClaude(types.ModelConfig{ModelID: "claude-haiku-4-5", APIKey: "bad", BaseURL: ts.URL, TimeoutSeconds: 5})
	_, err := b.Complete(context.Background(), Request{User: "write"})
	require.Error(t, err)
	var timeoutErr *types.BackendTimeoutError
	assert.False(t, errors.As(err, &timeoutErr))
	assert.Contains(t, err.Error(), "401")
}
