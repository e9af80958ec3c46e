// Package api talks to the backend that owns pools, guesses and users.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"copaweb/internal/domain"
)

// Backend endpoints
const (
	PathPoolCount  = "/pools/count"
	PathGuessCount = "/guesses/count"
	PathUserCount  = "/users/count"
	PathPools      = "/pools"
)

// maxErrorBody bounds how much of an error response is kept for logging.
const maxErrorBody = 512

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// Client is an HTTP client for the backend API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client rooted at baseURL. A zero timeout leaves
// requests unbounded.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Count reads the count exposed at path.
func (c *Client) Count(ctx context.Context, path string) (int, error) {
	var out domain.CountResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return 0, err
	}
	if out.Count < 0 {
		return 0, fmt.Errorf("GET %s: negative count %d", path, out.Count)
	}
	return out.Count, nil
}

// PoolCount returns how many pools were created
func (c *Client) PoolCount(ctx context.Context) (int, error) {
	return c.Count(ctx, PathPoolCount)
}

// GuessCount returns how many guesses were submitted
func (c *Client) GuessCount(ctx context.Context) (int, error) {
	return c.Count(ctx, PathGuessCount)
}

// UserCount returns how many users registered
func (c *Client) UserCount(ctx context.Context) (int, error) {
	return c.Count(ctx, PathUserCount)
}

// CreatePool creates a pool with the given title and returns its share code.
func (c *Client) CreatePool(ctx context.Context, title string) (string, error) {
	var out domain.CreatePoolResponse
	if err := c.do(ctx, http.MethodPost, PathPools, &domain.CreatePoolRequest{Title: title}, &out); err != nil {
		return "", err
	}
	if out.Code == "" {
		return "", fmt.Errorf("POST %s: %w", PathPools, domain.ErrEmptyCode)
	}
	return out.Code, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s: encode request: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
