// Package ai wraps the Gemini summarization/chat collaborator. It
// consumes article title/description/url and sits outside the
// aggregation pipeline.
package ai

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	modelName = "gemini-1.5-flash"

	// maxPromptChars bounds article content fed into a prompt.
	maxPromptChars = 6000
)

type Client struct {
	client *genai.Client
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Summarize produces a short neutral summary of one article.
func (c *Client) Summarize(ctx context.Context, title, content string) (string, error) {
	prompt := fmt.Sprintf(`Summarize this news article in 3-4 sentences.
Keep proper nouns as they are, avoid filler like "This article is about".

TITLE: %s

CONTENT: %s`, title, sanitize(content))

	return c.generate(ctx, prompt)
}

// Ask answers a reader question in the context of one article.
func (c *Client) Ask(ctx context.Context, question, articleContext string) (string, error) {
	prompt := fmt.Sprintf(`Answer the question using only the article below.
If the article does not contain the answer, say so briefly.

ARTICLE: %s

QUESTION: %s`, sanitize(articleContext), question)

	return c.generate(ctx, prompt)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(modelName)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		fmt.Fprintf(&b, "%v", part)
	}
	return strings.TrimSpace(b.String()), nil
}

// sanitize collapses whitespace and trims over-long content on a rune
// boundary, preferring a sentence end.
func sanitize(content string) string {
	content = strings.ReplaceAll(content, "\r", "")
	content = strings.Join(strings.Fields(content), " ")

	if utf8.RuneCountInString(content) <= maxPromptChars {
		return content
	}

	runes := []rune(content)
	trimmed := string(runes[:maxPromptChars])
	if idx := strings.LastIndex(trimmed, ". "); idx > maxPromptChars/4 {
		trimmed = trimmed[:idx+1]
	}
	return trimmed
}
