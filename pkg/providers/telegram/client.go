// Package telegram provides the HTTP client for the chat bot provider.
package telegram

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/autofy/autofy/pkg/providers"
)

const (
	DefaultBaseURL = "https://api.telegram.org"

	serviceName           = "telegram"
	defaultTimeoutSeconds = 30
)

// SendMessageRequest is one sendMessage bot call.
type SendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
	DisableNotification   bool   `json:"disable_notification,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Client talks to the chat provider's bot API.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeoutSeconds * time.Second)

	return &Client{http: httpClient}
}

// SendMessage delivers one message to one chat via the given bot token.
func (c *Client) SendMessage(ctx context.Context, botToken string, req SendMessageRequest) error {
	var result apiResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&result).
		Post("/bot" + botToken + "/sendMessage")
	if err != nil {
		return providers.WrapTransport(serviceName, err)
	}

	if resp.IsError() || !result.OK {
		message := result.Description
		if message == "" {
			message = "message delivery failed"
		}

		return providers.NewError(serviceName, resp.StatusCode(), message)
	}

	return nil
}
