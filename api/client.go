// Package api is the HTTP client for the news platform's REST backend.
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

	apperrors "github.com/jrsteele09/news-admin/internal/errors"
	"github.com/jrsteele09/news-admin/internal/utils"
)

// TokenSource supplies the bearer token for a request. An empty token sends
// the request unauthenticated.
type TokenSource func(ctx context.Context) string

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.ErrUnauthorized
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	}
	return apperrors.ErrUnexpectedStatus
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTokenSource attaches a bearer token to every request.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = ts
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL is the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, RouteLogin, req, &resp); err != nil {
		return LoginResponse{}, err
	}
	if resp.Token == "" {
		return LoginResponse{}, fmt.Errorf("%w: login response has no token", apperrors.ErrMalformedBody)
	}
	return resp, nil
}

func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (CreateSessionResponse, error) {
	var resp CreateSessionResponse
	if err := c.do(ctx, http.MethodPost, RouteSessionLogs, req, &resp); err != nil {
		return CreateSessionResponse{}, err
	}
	return resp, nil
}

func (c *Client) LogActivity(ctx context.Context, sessionID string, req ActivityRequest) error {
	return c.do(ctx, http.MethodPost, activityPath(sessionID), req, nil)
}

func (c *Client) Logout(ctx context.Context, req LogoutRequest) error {
	return c.do(ctx, http.MethodPost, RouteSessionLogout, req, nil)
}

func (c *Client) Revoke(ctx context.Context, sessionID string, req RevokeRequest) error {
	return c.do(ctx, http.MethodPost, revokePath(sessionID), req, nil)
}

func (c *Client) ListSessions(ctx context.Context) ([]SessionLog, error) {
	var resp listSessionsResponse
	if err := c.do(ctx, http.MethodGet, RouteSessionLogs, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&er)
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    utils.FirstNonEmpty(er.Message, er.Error),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrMalformedBody, method, path, err)
	}
	return nil
}
