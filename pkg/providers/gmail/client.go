// Package gmail provides the HTTP client for the mailbox provider.
package gmail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/autofy/autofy/pkg/providers"
)

const (
	DefaultBaseURL  = "https://gmail.googleapis.com/gmail/v1"
	DefaultTokenURL = "https://oauth2.googleapis.com/token"

	serviceName           = "gmail"
	defaultTimeoutSeconds = 30
)

// MessageRef is a message id returned by a search.
type MessageRef struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

type listResponse struct {
	Messages []MessageRef `json:"messages"`
}

// Header is one RFC 822 header of a message payload.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Body carries base64url-encoded part content.
type Body struct {
	Data string `json:"data"`
}

// Part is one node of a (possibly nested) multipart payload.
type Part struct {
	MimeType string   `json:"mimeType"`
	Body     Body     `json:"body"`
	Parts    []Part   `json:"parts"`
	Headers  []Header `json:"headers"`
}

// Message is a full message as returned by a detail fetch.
type Message struct {
	ID           string `json:"id"`
	ThreadID     string `json:"threadId"`
	Snippet      string `json:"snippet"`
	InternalDate string `json:"internalDate"`
	Payload      Part   `json:"payload"`
}

// SendResponse is the result of posting a message.
type SendResponse struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
}

// TokenResponse is the result of an OAuth refresh grant.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Client talks to the mailbox provider's REST API.
type Client struct {
	http     *resty.Client
	tokenURL string
}

func NewClient(baseURL, tokenURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeoutSeconds * time.Second)

	return &Client{http: httpClient, tokenURL: tokenURL}
}

// ListMessages searches the mailbox and returns candidate message refs.
func (c *Client) ListMessages(ctx context.Context, accessToken, query string, maxResults int) ([]MessageRef, error) {
	var result listResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParam("q", query).
		SetQueryParam("maxResults", fmt.Sprintf("%d", maxResults)).
		SetResult(&result).
		Get("/users/me/messages")
	if err != nil {
		return nil, providers.WrapTransport(serviceName, err)
	}

	if resp.IsError() {
		return nil, providers.NewError(serviceName, resp.StatusCode(), "message search failed")
	}

	return result.Messages, nil
}

// GetMessage fetches the full representation of one message.
func (c *Client) GetMessage(ctx context.Context, accessToken, id string) (*Message, error) {
	var message Message

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParam("format", "full").
		SetResult(&message).
		Get("/users/me/messages/" + id)
	if err != nil {
		return nil, providers.WrapTransport(serviceName, err)
	}

	if resp.IsError() {
		return nil, providers.NewError(serviceName, resp.StatusCode(), "message fetch failed for "+id)
	}

	return &message, nil
}

// SendMessage posts a raw RFC 2822 message, base64url-encoded by the
// caller, optionally threaded onto an existing conversation.
func (c *Client) SendMessage(ctx context.Context, accessToken, raw, threadID string) (*SendResponse, error) {
	payload := map[string]any{"raw": raw}
	if threadID != "" {
		payload["threadId"] = threadID
	}

	var result SendResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(payload).
		SetResult(&result).
		Post("/users/me/messages/send")
	if err != nil {
		return nil, providers.WrapTransport(serviceName, err)
	}

	if resp.IsError() {
		return nil, providers.NewError(serviceName, resp.StatusCode(), "message send failed")
	}

	return &result, nil
}

// RefreshToken exchanges a refresh token for a fresh access token.
func (c *Client) RefreshToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*TokenResponse, error) {
	var result TokenResponse

	resp, err := resty.New().
		SetTimeout(defaultTimeoutSeconds*time.Second).
		R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     clientID,
			"client_secret": clientSecret,
			"refresh_token": refreshToken,
			"grant_type":    "refresh_token",
		}).
		SetResult(&result).
		Post(c.tokenURL)
	if err != nil {
		return nil, providers.WrapTransport(serviceName, err)
	}

	if resp.IsError() {
		return nil, providers.NewError(serviceName, resp.StatusCode(), "token refresh rejected")
	}

	if result.AccessToken == "" {
		return nil, providers.NewError(serviceName, http.StatusUnauthorized, "token refresh returned no access token")
	}

	return &result, nil
}
