package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

var ErrUpstream = errors.New("news proxy error")

// Client calls GET {base}/news-proxy.
type Client struct {
	base   string
	client *http.Client

	mu   sync.RWMutex
	lang string
}

var _ Gateway = (*Client)(nil)

func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		base:   strings.TrimSuffix(base, "/"),
		lang:   "en",
		client: httpClient,
	}
}

// SetLanguage sets the lang parameter sent with later fetches.
func (c *Client) SetLanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lang = lang
}

type wireArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	URLToImage  string `json:"urlToImage"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type wireResponse struct {
	Articles []wireArticle `json:"articles"`
	Error    string        `json:"error"`
}

func (c *Client) Fetch(ctx context.Context, category, query string) (Set, error) {
	params := url.Values{}
	params.Set("category", category)
	if query != "" {
		params.Set("query", query)
	}
	c.mu.RLock()
	lang := c.lang
	c.mu.RUnlock()
	if lang != "" {
		params.Set("lang", lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/news-proxy?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: %s", ErrUpstream, resp.Status, errorMessage(resp.Body))
	}

	var body wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	set := make(Set, 0, len(body.Articles))
	for _, a := range body.Articles {
		img := a.Image
		if img == "" {
			img = a.URLToImage
		}
		set = append(set, Article{
			Title:       PlainText(a.Title),
			Description: PlainText(a.Description),
			URL:         a.URL,
			ImageURL:    img,
			SourceName:  a.Source.Name,
		})
	}

	return set, nil
}

func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 1024))
	var body wireResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
