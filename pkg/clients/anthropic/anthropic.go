package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	model          = "claude-3-haiku-20240307"
	maxTokens      = 1024
)

const insightsSystemPrompt = `You are a retail analyst for a small Indonesian shop.
You receive a sales digest for a period. Reply in Indonesian with at most five short bullet points:
what sold well, what is slow, a stock or pricing suggestion, and one action for next week.
Use "Rp" amounts exactly as given. Do not invent numbers that are not in the digest.`

// Client produces natural-language insights from a sales digest.
type Client interface {
	SalesInsights(ctx context.Context, digest string) (string, error)
}

// Option customises the client.
type Option func(*resty.Client)

// WithBaseURL points the client at another API host.
func WithBaseURL(url string) Option {
	return func(c *resty.Client) { c.SetBaseURL(url) }
}

type anthropicClient struct {
	httpClient *resty.Client
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string, opts ...Option) Client {
	client := resty.New().
		SetBaseURL(defaultBaseURL).
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(30 * time.Second)

	for _, opt := range opts {
		opt(client)
	}
	return &anthropicClient{httpClient: client}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *anthropicClient) SalesInsights(ctx context.Context, digest string) (string, error) {
	if strings.TrimSpace(digest) == "" {
		return "", errors.New("empty sales digest")
	}

	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    insightsSystemPrompt,
		Messages:  []Message{{Role: "user", Content: digest}},
	}

	var respBody messageResponse
	var errBody errorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&errBody).
		Post("/v1/messages")

	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: status=%d, type=%s, message=%s", resp.StatusCode(), errBody.Error.Type, errBody.Error.Message)
	}

	var parts []string
	for _, block := range respBody.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", errors.New("empty response from ai")
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}
