// Package github is the origin client for the lesson repository's contents
// API. It performs single synchronous fetches with bearer auth; caching and
// retries are the caller's concern.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultContentsURL points at the lesson repository's content listing
// endpoint. Canonical lesson paths are appended directly to it.
const DefaultContentsURL = "https://api.github.com/repos/Adventech/sabbath-school-lessons/contents/src"

const acceptHeader = "application/vnd.github+json"

// UpstreamError is a non-success response from the origin.
type UpstreamError struct {
	StatusCode int
	Status     string // e.g. "404 Not Found"
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("github contents: %s: %s", e.Status, e.Body)
}

// TransportError is a network or decode failure between us and the origin.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client fetches content listings from the repository contents API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if raw != "" {
			c.baseURL = strings.TrimRight(raw, "/")
		}
	}
}

func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errors.New("token required")
	}
	c := &Client{
		http:    &http.Client{Timeout: 20 * time.Second},
		baseURL: DefaultContentsURL,
		token:   token,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// FetchContents issues one GET for the canonical path (leading slash, no
// trailing slash) and decodes the response. No retries: any failure is
// returned to the caller as a typed error.
func (c *Client) FetchContents(ctx context.Context, canonicalPath string) (*ContentResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+canonicalPath, nil)
	if err != nil {
		return nil, &TransportError{Op: "build contents request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "fetch contents", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read contents response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var result ContentResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &TransportError{Op: "decode contents response", Err: err}
	}
	return &result, nil
}
