package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsvox/internal/news"
)

func TestArticleTextStripsMarkup(t *testing.T) {
	a := news.Article{
		Title:       "Rates &amp; markets",
		Description: "<p>Stocks <b>rose</b> today.</p>",
	}
	got := ArticleText(a)
	assert.Equal(t, "Title: Rates & markets\nDescription: Stocks rose today.", got)
}

func TestArticleTextTruncates(t *testing.T) {
	a := news.Article{Title: "t", Description: strings.Repeat("ж", MaxArticleChars*2)}
	got := ArticleText(a)
	assert.Equal(t, MaxArticleChars, len([]rune(got)))
}

func TestPromptTemplates(t *testing.T) {
	a := news.Article{Title: "Title", Description: "Body"}

	assert.Contains(t, Prompt(OpSummarize, a, ""), "3-4 bullet points")
	assert.Contains(t, Prompt(OpKeyPoints, a, ""), "5 concise key points")
	assert.Contains(t, Prompt(OpSentiment, a, ""), "Positive/Negative/Neutral")

	ask := Prompt(OpAsk, a, "who won?")
	assert.Contains(t, ask, "ARTICLE:\nTitle: Title")
	assert.True(t, strings.HasSuffix(ask, "QUESTION:\nwho won?"))
}

func TestParseOp(t *testing.T) {
	for in, want := range map[string]Op{
		"summarize": OpSummarize,
		"keypoints": OpKeyPoints,
		"Sentiment": OpSentiment,
		"ask":       OpAsk,
	} {
		got, err := ParseOp(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseOp("translate")
	assert.Error(t, err)
}

func TestProxyClientGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ai-proxy", r.URL.Path)

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "hello", in["prompt"])

		_ = json.NewEncoder(w).Encode(map[string]string{"text": "world"})
	}))
	defer srv.Close()

	got, err := NewProxyClient(srv.URL+"/", nil).GenerateText(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", got)
}

func TestProxyClientEmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text":"  "}`))
	}))
	defer srv.Close()

	_, err := NewProxyClient(srv.URL, nil).GenerateText(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestProxyClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"quota"}`))
	}))
	defer srv.Close()

	_, err := NewProxyClient(srv.URL, nil).GenerateText(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}
