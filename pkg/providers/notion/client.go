// Package notion provides the HTTP client for the note service provider.
package notion

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/autofy/autofy/pkg/providers"
)

const (
	DefaultBaseURL = "https://api.notion.com/v1"

	serviceName           = "notion"
	apiVersion            = "2022-06-28"
	defaultTimeoutSeconds = 30
)

// Page is the subset of a created page the engine reports back.
type Page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePageRequest is the payload for creating a page under a database
// or a plain page parent.
type CreatePageRequest struct {
	Parent     map[string]any   `json:"parent"`
	Properties map[string]any   `json:"properties"`
	Children   []map[string]any `json:"children,omitempty"`
}

// Client talks to the note provider's REST API.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Notion-Version", apiVersion).
		SetTimeout(defaultTimeoutSeconds * time.Second)

	return &Client{http: httpClient}
}

// RetrieveDatabase checks whether id refers to a database the token can see.
func (c *Client) RetrieveDatabase(ctx context.Context, token, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get("/databases/" + id)
	if err != nil {
		return providers.WrapTransport(serviceName, err)
	}

	if resp.IsError() {
		return providers.NewError(serviceName, resp.StatusCode(), "database lookup failed for "+id)
	}

	return nil
}

// RetrievePage checks whether id refers to a page the token can see.
func (c *Client) RetrievePage(ctx context.Context, token, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get("/pages/" + id)
	if err != nil {
		return providers.WrapTransport(serviceName, err)
	}

	if resp.IsError() {
		return providers.NewError(serviceName, resp.StatusCode(), "page lookup failed for "+id)
	}

	return nil
}

// CreatePage creates a page with the given parent, properties and blocks.
func (c *Client) CreatePage(ctx context.Context, token string, req CreatePageRequest) (*Page, error) {
	var page Page

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(req).
		SetResult(&page).
		Post("/pages")
	if err != nil {
		return nil, providers.WrapTransport(serviceName, err)
	}

	if resp.IsError() {
		return nil, providers.NewError(serviceName, resp.StatusCode(), "page creation failed")
	}

	return &page, nil
}
