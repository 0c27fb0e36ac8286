// Package ai builds article prompts and sends them to a text-generation
// backend.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"newsvox/internal/news"
)

// MaxArticleChars caps the article text embedded in a prompt.
const MaxArticleChars = 5000

var ErrEmptyResponse = errors.New("empty ai response")

// Generator turns a prompt into text.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Op string

const (
	OpSummarize Op = "summarize"
	OpKeyPoints Op = "key points"
	OpSentiment Op = "sentiment"
	OpAsk       Op = "q&a"
)

// ParseOp accepts the control-socket spellings of an operation.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "summarize", "summary":
		return OpSummarize, nil
	case "keypoints", "key-points", "key points":
		return OpKeyPoints, nil
	case "sentiment":
		return OpSentiment, nil
	case "ask", "q&a":
		return OpAsk, nil
	}
	return "", fmt.Errorf("unknown ai operation %q", s)
}

// Prompt renders the template for op. question is used by OpAsk only.
func Prompt(op Op, a news.Article, question string) string {
	text := ArticleText(a)
	switch op {
	case OpKeyPoints:
		return "Extract 5 concise key points from this news. Use bullets.\n\n" + text
	case OpSentiment:
		return "Classify the overall sentiment (Positive/Negative/Neutral) and give one-line justification.\n\n" + text
	case OpAsk:
		return "You are a helpful assistant. Answer the user question using ONLY the information below (title/description). If unknown, say so briefly.\n\n" +
			"ARTICLE:\n" + text + "\n\nQUESTION:\n" + question
	default:
		return "Summarize the following news in 3-4 bullet points in plain English.\n\n" + text
	}
}

// ArticleText flattens title and description to plain text, capped at
// MaxArticleChars runes.
func ArticleText(a news.Article) string {
	var b strings.Builder
	b.WriteString("Title: ")
	b.WriteString(news.PlainText(a.Title))
	if d := news.PlainText(a.Description); d != "" {
		b.WriteString("\nDescription: ")
		b.WriteString(d)
	}
	return truncate(b.String(), MaxArticleChars)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
