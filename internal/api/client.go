// Package api implements the HTTP client for the FinSight financial
// assistant API. All calls go through a single authenticated transport
// that injects the bearer token, normalizes the scheme, and treats a 401
// from any endpoint as a forced logout.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finsight/internal/logging"

	"go.uber.org/zap"
)

// ErrUnauthorized is returned when any authenticated call sees HTTP 401.
// The token has already been cleared by the time callers observe it, so
// they should treat it as "session expired", not as a fatal condition.
var ErrUnauthorized = errors.New("unauthorized: session expired")

// TokenSource supplies the bearer token for each request. Implementations
// must read through to durable storage so the token is never stale.
type TokenSource interface {
	Token() string
	Set(token string) error
	Clear() error
}

// StatusError is a non-2xx response from the API, carrying the
// server-supplied detail message when one was present.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api request failed with status %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("api request failed with status %d", e.Code)
}

// Client talks to the FinSight API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a client for the given base URL. Non-local HTTP base URLs
// are upgraded to HTTPS; localhost is left alone so local development
// keeps working.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: normalizeBaseURL(baseURL),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		tokens: tokens,
		logger: logging.Get(logging.CategoryAPI),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// normalizeBaseURL forces secure transport for any non-local host and
// strips a trailing slash so paths can always start with "/".
func normalizeBaseURL(raw string) string {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	if u.Scheme == "http" && !isLocalHost(u.Hostname()) {
		u.Scheme = "https"
	}
	return strings.TrimRight(u.String(), "/")
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1"
}

// doRaw performs an authenticated request and returns the response body.
// The token is read fresh from the store on every call. A 401 clears the
// token before returning ErrUnauthorized.
func (c *Client) doRaw(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("api request", zap.String("method", method), zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn("unauthorized response, clearing session", zap.String("path", path))
		if c.tokens != nil {
			_ = c.tokens.Clear()
		}
		return nil, ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("api error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Code: resp.StatusCode, Detail: detailFromBody(data)}
	}

	return data, nil
}

// do performs an authenticated request and decodes the JSON response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	data, err := c.doRaw(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// detailFromBody extracts the {"detail": "..."} message FastAPI-style
// backends return, falling back to a trimmed body excerpt.
func detailFromBody(data []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	excerpt := strings.TrimSpace(string(data))
	if len(excerpt) > 200 {
		excerpt = excerpt[:200]
	}
	return excerpt
}
