// ABOUTME: HTTP client for the storefront REST API
// ABOUTME: Every call goes through one executor that handles auth, errors and forced logout

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds a single request
const DefaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token for authenticated calls
type TokenSource interface {
	Token() string
}

// Client is the API client for the storefront backend
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func(token string) bool
	// unauthorizedMu keeps concurrent 401s from racing the logout hook
	unauthorizedMu sync.Mutex
}

// Option configures a Client
type Option func(*Client)

// WithTokenSource attaches the session token to authenticated calls
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHandler registers fn to run when an authenticated call
// comes back 401. fn receives the token the request was sent with and
// reports whether it ended the session.
func WithUnauthorizedHandler(fn func(token string) bool) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithTimeout overrides the per-request timeout. A client supplied through
// WithHTTPClient is copied rather than modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// authMode selects how a request is authenticated
type authMode int

const (
	authNone    authMode = iota
	authSession          // session bearer token; a 401 ends the session
	authExplicit         // caller-provided bearer (password reset token)
)

type request struct {
	method string
	path   string
	body   interface{}
	auth   authMode
	bearer string
}

// do executes req and decodes a successful JSON response into out (if non-nil)
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to marshal input: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	// sentToken is the session token this request carried, if any
	sentToken := ""
	switch req.auth {
	case authSession:
		if c.tokens != nil {
			if tok := c.tokens.Token(); tok != "" {
				httpReq.Header.Set("Authorization", "Bearer "+tok)
				sentToken = tok
			}
		}
	case authExplicit:
		if req.bearer != "" {
			httpReq.Header.Set("Authorization", "Bearer "+req.bearer)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Debug("API request failed", "method", req.method, "path", req.path, "request_id", requestID, "error", err)
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	slog.Debug("API request",
		"method", req.method,
		"path", req.path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := c.handleErrorResponse(resp)
		if apiErr.Kind == KindUnauthorized && sentToken != "" {
			apiErr.SessionEnded = c.fireUnauthorized(sentToken)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// fireUnauthorized runs the 401 hook for token. It reports whether the hook
// ended a session.
func (c *Client) fireUnauthorized(token string) bool {
	if c.onUnauthorized == nil {
		return false
	}
	c.unauthorizedMu.Lock()
	defer c.unauthorizedMu.Unlock()
	slog.Warn("Backend rejected session token, logging out")
	return c.onUnauthorized(token)
}

// handleRequestError converts transport and context errors to user-friendly errors
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &APIError{Kind: KindNetwork, Message: "request canceled", Err: err}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &APIError{Kind: KindNetwork, Message: "request timed out", Err: err}
	}
	var netTimeout interface{ Timeout() bool }
	if errors.As(err, &netTimeout) && netTimeout.Timeout() {
		return &APIError{Kind: KindNetwork, Message: "request timed out", Err: err}
	}
	return &APIError{Kind: KindNetwork, Message: fmt.Sprintf("cannot connect to backend at %s", c.baseURL), Err: err}
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) *APIError {
	apiErr := &APIError{Kind: kindForStatus(resp.StatusCode), Status: resp.StatusCode}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&errResp); err == nil {
		apiErr.Message = errResp.text()
	}
	return apiErr
}

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

func (e ErrorResponse) text() string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Message != "":
		return e.Message
	default:
		return e.Msg
	}
}

// MessageResponse is the body of endpoints that only acknowledge
type MessageResponse struct {
	Message string `json:"message"`
}
