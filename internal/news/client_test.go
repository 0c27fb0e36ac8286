package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMapsArticles(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"articles":[
			{"title":" Rain ","description":"Monsoon arrives","url":"https://a.example/1","image":"https://img/1","source":{"name":"Daily"}},
			{"title":"Cup final","description":"","url":"https://a.example/2","urlToImage":"https://img/2"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", srv.Client())
	c.SetLanguage("hi")
	set, err := c.Fetch(context.Background(), "sports", "cricket world cup")
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/news-proxy", got.URL.Path)
	assert.Equal(t, "sports", got.URL.Query().Get("category"))
	assert.Equal(t, "cricket world cup", got.URL.Query().Get("query"))
	assert.Equal(t, "hi", got.URL.Query().Get("lang"))

	require.Len(t, set, 2)
	assert.Equal(t, Article{Title: "Rain", Description: "Monsoon arrives", URL: "https://a.example/1", ImageURL: "https://img/1", SourceName: "Daily"}, set[0])
	assert.Equal(t, "https://img/2", set[1].ImageURL)
	assert.Equal(t, []string{"Rain", "Cup final"}, set.Titles())
}

func TestFetchEmptyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"articles":[]}`))
	}))
	defer srv.Close()

	set, err := NewClient(srv.URL, srv.Client()).Fetch(context.Background(), "general", "")
	require.NoError(t, err)
	assert.Empty(t, set)
	assert.NotNil(t, set)
}

func TestFetchNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream down"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).Fetch(context.Background(), "general", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestFetchMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).Fetch(context.Background(), "general", "")
	require.Error(t, err)
}

func TestSetAt(t *testing.T) {
	s := Set{{Title: "a"}}
	a, ok := s.At(0)
	assert.True(t, ok)
	assert.Equal(t, "a", a.Title)

	_, ok = s.At(1)
	assert.False(t, ok)
	_, ok = s.At(-1)
	assert.False(t, ok)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Rates & markets", PlainText("  Rates &amp; markets "))
	assert.Equal(t, "Stocks rose today.", PlainText("<p>Stocks <b>rose</b>\n today.</p>"))
	assert.Equal(t, "No markup", PlainText("No markup"))
}
