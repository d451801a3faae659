// Package backend provides the HTTP client for the MarketSight research
// backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/marketsight-cli/internal/core/domain"
	"github.com/custodia-labs/marketsight-cli/internal/core/ports/driven"
	"github.com/custodia-labs/marketsight-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.ResearchAPI = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 60 * time.Second

	// defaultRequestsPerSecond caps the request rate against the
	// backend; bursts cover the login -> profile sequence.
	defaultRequestsPerSecond = 5
	defaultBurst             = 5
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration
}

// Client talks to the research backend over HTTP with bearer
// authentication. Tokens are read from the TokenStore on every request,
// so a login performed elsewhere takes effect immediately.
type Client struct {
	client  *http.Client
	baseURL string
	tokens  driven.TokenStore
	limiter *rate.Limiter
}

// errorResponse is the backend's failure body.
type errorResponse struct {
	Detail string `json:"detail"`
}

// queryRequest is the POST /query request body.
type queryRequest struct {
	Question string `json:"question"`
	K        int    `json:"k"`
}

// signupRequest is the POST /auth/signup request body.
type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// signupResponse is the POST /auth/signup response body.
type signupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
}

// loginRequest is the POST /auth/login request body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authURLResponse is the GET /auth/google/authorize response body.
type authURLResponse struct {
	AuthorizationURL string `json:"authorization_url"`
}

// NewClient creates a new backend client.
func NewClient(cfg Config, tokens driven.TokenStore) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst),
	}
}

// Query submits a research question and returns the complete answer.
// Fails with domain.ErrAuthRequired before any I/O when no token is
// stored.
func (c *Client) Query(ctx context.Context, question string, k int) (*domain.QueryResult, error) {
	if k <= 0 {
		k = domain.DefaultSourceLimit
	}
	defer logger.Timed("query round-trip")()

	var result domain.QueryResult
	err := c.doJSON(ctx, http.MethodPost, "/query", queryRequest{Question: question, K: k}, true, &result)
	if err != nil {
		return nil, err
	}
	logger.Debug("query answered with %d sources, %d context chunks", len(result.Sources), result.ContextUsed)
	return &result, nil
}

// Signup creates an account.
func (c *Client) Signup(ctx context.Context, req driven.SignupRequest) (*driven.SignupResult, error) {
	var resp signupResponse
	body := signupRequest{Email: req.Email, Password: req.Password, Name: req.Name}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", body, false, &resp); err != nil {
		return nil, err
	}
	return &driven.SignupResult{
		Message: resp.Message,
		UserID:  resp.UserID,
		Email:   resp.Email,
	}, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	var resp domain.TokenResponse
	body := loginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the signed-in account's profile.
func (c *Client) Profile(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.doJSON(ctx, http.MethodGet, "/auth/user/me", nil, true, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Validate checks that the stored token is still accepted.
func (c *Client) Validate(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/auth/validate", nil, true, nil)
}

// GoogleAuthURL returns the backend's Google authorization URL.
func (c *Client) GoogleAuthURL(ctx context.Context, redirectURI string) (string, error) {
	path := "/auth/google/authorize"
	if redirectURI != "" {
		path += "?redirect_uri=" + url.QueryEscape(redirectURI)
	}
	var resp authURLResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, false, &resp); err != nil {
		return "", err
	}
	return resp.AuthorizationURL, nil
}

// Ping checks that the backend is reachable. No authentication needed.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("backend: failed to create ping request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend: ping failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend: API returned status %d", resp.StatusCode)
	}
	return nil
}

// doJSON performs a JSON request against the backend. When authed is
// true the stored bearer token is attached; a missing token fails the
// call before any I/O. out may be nil for calls with ignored bodies.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, authed bool, out any) error {
	var token string
	if authed {
		var err error
		token, err = c.tokens.Token()
		if err != nil {
			return fmt.Errorf("backend %s: %w", path, domain.ErrAuthRequired)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("backend %s: %w", path, err)
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.statusError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError converts a non-2xx response into an error, preferring the
// backend's {detail} message when present.
func (c *Client) statusError(status int, body []byte) error {
	var detail errorResponse
	if err := json.Unmarshal(body, &detail); err == nil && detail.Detail != "" {
		if status == http.StatusUnauthorized {
			return fmt.Errorf("backend error (status %d): %s: %w", status, detail.Detail, domain.ErrAuthInvalid)
		}
		return fmt.Errorf("backend error (status %d): %s", status, detail.Detail)
	}
	if status == http.StatusUnauthorized {
		return fmt.Errorf("backend error (status %d): %w", status, domain.ErrAuthInvalid)
	}
	return fmt.Errorf("backend error (status %d): %s", status, string(body))
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
