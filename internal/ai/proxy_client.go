package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ProxyClient calls POST {base}/ai-proxy with {prompt} and expects {text}.
type ProxyClient struct {
	base   string
	client *http.Client
}

var _ Generator = (*ProxyClient)(nil)

func NewProxyClient(base string, httpClient *http.Client) *ProxyClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &ProxyClient{base: strings.TrimSuffix(base, "/"), client: httpClient}
}

func (c *ProxyClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("marshal prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/ai-proxy", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Text  string `json:"text"`
		Error string `json:"error"`
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if json.Unmarshal(raw, &out) == nil && out.Error != "" {
			return "", fmt.Errorf("ai proxy %s: %s", resp.Status, out.Error)
		}
		return "", fmt.Errorf("ai proxy %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", ErrEmptyResponse
	}

	return out.Text, nil
}
