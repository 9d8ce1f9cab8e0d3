package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RequestError reports a failed downstream call after a token was obtained.
type RequestError struct {
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("supply backend request %s failed: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("supply backend request %s returned status %d: %s", e.Path, e.StatusCode, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// TokenSource supplies the bearer token attached to every request.
// Invalidate discards the current token after the backend rejects it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// Client issues authenticated GET requests against the supply backend.
// Stateless apart from delegating token management to the TokenSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zerolog.Logger
}

func NewClient(baseURL string, tokens TokenSource, timeout time.Duration, logger *zerolog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("supply API base URL is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token source is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
	}, nil
}

// Get issues an authenticated GET to baseURL+path and returns the raw JSON
// body. On a 401 it invalidates the cached token and retries exactly once
// with a fresh one; any other failure is surfaced as a RequestError.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	var lastErr error

	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}

		body, unauthorized, err := c.get(ctx, path, params, token)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !unauthorized || attempt > 0 {
			return nil, err
		}

		c.logger.Warn().Str("path", path).Msg("Token rejected by backend, re-authenticating")
		c.tokens.Invalidate()
	}

	return nil, lastErr
}

func (c *Client) get(ctx context.Context, path string, params url.Values, token string) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, false, &RequestError{Path: path, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, &RequestError{Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, false, &RequestError{Path: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode == http.StatusUnauthorized, &RequestError{
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	if !json.Valid(body) {
		return nil, false, &RequestError{Path: path, StatusCode: resp.StatusCode, Message: "response is not valid JSON"}
	}

	return json.RawMessage(body), false, nil
}
