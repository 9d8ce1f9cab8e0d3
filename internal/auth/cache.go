package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// Tokens issued by the supply backend are valid for 24 hours. The cache
	// refreshes one hour early so a token is never presented near its expiry.
	tokenValidity = 24 * time.Hour
	safetyMargin  = 1 * time.Hour
)

// AuthenticationError reports a failed login exchange: transport failure,
// non-2xx status, or a malformed response body.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// TokenStore persists a token outside the process so multiple gateway
// instances can share one login per validity window.
type TokenStore interface {
	Load(ctx context.Context) (token string, expiresAt time.Time, err error)
	Save(ctx context.Context, token string, expiresAt time.Time) error
	Delete(ctx context.Context) error
}

// Config holds the credential cache settings. HTTPClient, Store and Now are
// optional; zero values select a 10s-timeout client, in-memory-only caching
// and the wall clock.
type Config struct {
	BaseURL    string
	Email      string
	Password   string
	HTTPClient *http.Client
	Store      TokenStore
	Now        func() time.Time
}

// CredentialCache holds a single bearer token plus its expiry and refreshes
// it on demand through the backend's login exchange. The mutex is held across
// the exchange, so concurrent callers trigger exactly one login.
type CredentialCache struct {
	baseURL    string
	email      string
	password   string
	httpClient *http.Client
	store      TokenStore
	now        func() time.Time
	logger     *zerolog.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewCredentialCache(cfg Config, logger *zerolog.Logger) (*CredentialCache, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("supply API base URL is required")
	}
	if cfg.Email == "" || cfg.Password == "" {
		return nil, fmt.Errorf("supply API credentials are required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &CredentialCache{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		email:      cfg.Email,
		password:   cfg.Password,
		httpClient: httpClient,
		store:      cfg.Store,
		now:        now,
		logger:     logger,
	}, nil
}

// Token returns the cached bearer token, refreshing it through the login
// exchange when absent or expired. A failed exchange leaves the cache
// untouched; the next call retries from scratch.
func (c *CredentialCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.token != "" && now.Before(c.expiresAt) {
		return c.token, nil
	}

	if c.store != nil {
		token, expiresAt, err := c.store.Load(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Token store lookup failed")
		} else if token != "" && now.Before(expiresAt) {
			c.logger.Debug().Time("expires_at", expiresAt).Msg("Reusing shared token from store")
			c.token = token
			c.expiresAt = expiresAt
			return token, nil
		}
	}

	c.logger.Info().Str("base_url", c.baseURL).Msg("Authenticating against supply backend")

	token, err := c.login(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Authentication failed")
		return "", err
	}

	c.token = token
	c.expiresAt = now.Add(tokenValidity - safetyMargin)
	c.logger.Info().Time("expires_at", c.expiresAt).Msg("Authentication succeeded")

	if c.store != nil {
		if err := c.store.Save(ctx, token, c.expiresAt); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to persist token to store")
		}
	}

	return token, nil
}

// Invalidate discards the cached token so the next Token call performs a
// fresh login. Called by the backend client when a request comes back 401.
func (c *CredentialCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = ""
	c.expiresAt = time.Time{}

	if c.store != nil {
		if err := c.store.Delete(context.Background()); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to delete token from store")
		}
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (c *CredentialCache) login(ctx context.Context) (string, error) {
	payload, err := json.Marshal(loginRequest{Email: c.email, Password: c.password})
	if err != nil {
		return "", &AuthenticationError{Reason: "encoding login request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(payload))
	if err != nil {
		return "", &AuthenticationError{Reason: "building login request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthenticationError{Reason: "login request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &AuthenticationError{
			Reason: fmt.Sprintf("login returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", &AuthenticationError{Reason: "decoding login response", Err: err}
	}
	if lr.Token == "" {
		return "", &AuthenticationError{Reason: "login response missing token"}
	}

	return lr.Token, nil
}
