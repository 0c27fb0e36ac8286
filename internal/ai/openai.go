package ai

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultSystemPrompt = "You are a concise news assistant. Answer in plain text suitable for reading aloud."

// OpenAIClient talks to the chat completions API directly, bypassing the
// proxy. Use it only where the key can live next to the client.
type OpenAIClient struct {
	client openai.Client
	model  openai.ChatModel
	system string
}

var _ Generator = (*OpenAIClient)(nil)

func NewOpenAIClient(apiKey, model string, httpClient *http.Client) *OpenAIClient {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	m := openai.ChatModel(model)
	if model == "" {
		m = openai.ChatModelGPT5Nano
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  m,
		system: defaultSystemPrompt,
	}
}

func (c *OpenAIClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.system),
			openai.UserMessage(prompt),
		},
		Model: c.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", ErrEmptyResponse
	}

	return content, nil
}
