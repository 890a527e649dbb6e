// Package devto provides a client for the dev.to (Forem) REST API.
package devto

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oronculzac/wrapup/internal/output"
	"github.com/oronculzac/wrapup/internal/retry"
)

// apiBase is the dev.to API root.
const apiBase = "https://dev.to/api"

// HTTPDoer defines the HTTP operations required by Client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Article is a dev.to article to create. Drafts go up with Published false
// so they can be reviewed on the site before going live.
type Article struct {
	Title        string   `json:"title"`
	BodyMarkdown string   `json:"body_markdown"`
	Published    bool     `json:"published"`
	Tags         []string `json:"tags,omitempty"`
	Series       string   `json:"series,omitempty"`
}

// PublishResult describes a created article.
type PublishResult struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// Client talks to the dev.to REST API.
type Client struct {
	apiKey     string
	httpClient HTTPDoer
	retryCfg   retry.Config
}

// New creates a dev.to client with the given API key.
func New(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, output.NewUserError("no dev.to API key configured (set DEVTO_API_KEY or devto.api_key)")
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retryCfg:   retry.DefaultConfig(),
	}, nil
}

// WithHTTPClient replaces the HTTP client, for tests.
func (c *Client) WithHTTPClient(doer HTTPDoer) *Client {
	c.httpClient = doer
	return c
}

// CreateArticle uploads an article and returns its ID and URL.
func (c *Client) CreateArticle(ctx context.Context, article Article) (*PublishResult, error) {
	payload := map[string]any{"article": article}

	var body []byte
	err := retry.Do(ctx, c.retryCfg, "dev.to create article", func(attemptCtx context.Context) error {
		var attemptErr error
		body, attemptErr = c.do(attemptCtx, http.MethodPost, "/articles", payload)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}

	var result PublishResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse dev.to response", err)
	}
	return &result, nil
}

// Articles returns the caller's articles, newest first.
func (c *Client) Articles(ctx context.Context, page, perPage int) ([]map[string]any, error) {
	path := fmt.Sprintf("/articles/me?page=%d&per_page=%d", page, perPage)

	var body []byte
	err := retry.Do(ctx, c.retryCfg, "dev.to list articles", func(attemptCtx context.Context) error {
		var attemptErr error
		body, attemptErr = c.do(attemptCtx, http.MethodGet, path, nil)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}

	var articles []map[string]any
	if err := json.Unmarshal(body, &articles); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to parse dev.to response", err)
	}
	return articles, nil
}

// TestConnection verifies the API key by fetching the profile username.
func (c *Client) TestConnection(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/users/me", nil)
	if err != nil {
		return "", err
	}
	var profile struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return "", output.NewSystemErrorWithCause("failed to parse dev.to response", err)
	}
	return profile.Username, nil
}

// do performs one HTTP request with the api-key header.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, output.NewSystemErrorWithCause("failed to marshal request", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, apiBase+path, bodyReader)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to create request", err)
	}
	httpReq.Header.Set("api-key", c.apiKey)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody := string(respBody)
		if len(errBody) > 500 {
			errBody = errBody[:500]
		}
		return nil, output.NewSystemError(fmt.Sprintf("dev.to API error (status %d): %s", resp.StatusCode, errBody))
	}

	return respBody, nil
}

// ParseTags splits a comma-separated tag list, trimming whitespace.
func ParseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
