package proxyserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

var ErrNoNewsKey = errors.New("GNEWS_API_KEY not set")

// GNews queries the GNews v4 API: top-headlines by category, or search
// when a query is given.
type GNews struct {
	base   string
	key    string
	max    int
	client *http.Client
}

func NewGNews(base, key string, max int, client *http.Client) *GNews {
	if client == nil {
		client = http.DefaultClient
	}
	if max <= 0 {
		max = 10
	}
	return &GNews{
		base:   strings.TrimSuffix(base, "/"),
		key:    key,
		max:    max,
		client: client,
	}
}

// Upstream article shape; passed through to the client untouched.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type gnewsResponse struct {
	Articles []Article `json:"articles"`
	Errors   []string  `json:"errors"`
}

func (g *GNews) Fetch(ctx context.Context, category, query, lang string) ([]Article, error) {
	if g.key == "" {
		return nil, ErrNoNewsKey
	}

	params := url.Values{}
	endpoint := "/top-headlines"
	if query != "" {
		endpoint = "/search"
		params.Set("q", query)
	} else if category != "" {
		params.Set("category", category)
	}
	if lang != "" {
		params.Set("lang", lang)
	}
	params.Set("max", strconv.Itoa(g.max))
	params.Set("apikey", g.key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		// url.Error carries the full URL, key included.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, fmt.Errorf("gnews request: %w", uerr.Err)
		}
		return nil, fmt.Errorf("gnews request: %w", err)
	}
	defer resp.Body.Close()

	var body gnewsResponse
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(raw, &body); err != nil && resp.StatusCode < 300 {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := resp.Status
		if len(body.Errors) > 0 {
			msg = strings.Join(body.Errors, "; ")
		}
		return nil, fmt.Errorf("gnews: %s", msg)
	}

	if body.Articles == nil {
		body.Articles = []Article{}
	}
	return body.Articles, nil
}
