// Package openrouter provides the HTTP client for the AI model provider.
package openrouter

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/autofy/autofy/pkg/providers"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	serviceName           = "openrouter"
	defaultTimeoutSeconds = 60
)

// Message is one chat message of a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is a chat completion call.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Client talks to the model provider's OpenAI-compatible API.
type Client struct {
	http    *resty.Client
	referer string
	title   string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeoutSeconds * time.Second)

	return &Client{
		http:    httpClient,
		referer: "https://autofy.dev",
		title:   "Autofy Workflow Engine",
	}
}

// Complete sends a chat completion request and returns the first choice's
// content. An empty choice list yields an empty string; the caller decides
// whether that is fatal.
func (c *Client) Complete(ctx context.Context, apiKey string, req CompletionRequest) (string, error) {
	var result completionResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetHeader("HTTP-Referer", c.referer).
		SetHeader("X-Title", c.title).
		SetBody(req).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return "", providers.WrapTransport(serviceName, err)
	}

	if resp.IsError() {
		return "", providers.NewError(serviceName, resp.StatusCode(), "completion request failed")
	}

	if len(result.Choices) == 0 {
		return "", nil
	}

	return result.Choices[0].Message.Content, nil
}
