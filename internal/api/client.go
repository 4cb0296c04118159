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

	"github.com/google/uuid"
)

// TokenSource supplies the current bearer token, if any. The session store
// satisfies this through a small adapter; the client itself never holds
// credentials.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Logger is the logging interface used by the Client.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Client talks to the panel backend over HTTP/JSON.
//
// Every request carries a generated X-Request-ID and, when a session
// exists, an Authorization bearer header. A 401 response triggers the
// OnUnauthorized hook exactly once per response, before the error is
// returned; the hook is where forced logout happens.
//
// All methods are safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests use this to
// shorten timeouts).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenSource sets the bearer token source.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithOnUnauthorized sets the hook invoked when the backend answers 401.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a backend client rooted at baseURL (e.g.
// "https://home.example.net/api") with the given request timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorEnvelope matches the backend's error payloads. Some endpoints use
// {"error": "..."} with a 2xx status, the rest a non-2xx with the same body.
type errorEnvelope struct {
	Error string `json:"error"`
}

// do issues one request and decodes the response into out (when non-nil).
//
// Error mapping:
//   - transport failure, timeout, cancellation → *NetworkError
//   - non-2xx status → *RemoteError (401 additionally fires OnUnauthorized)
//   - 2xx with undecodable body → *NetworkError (the response was lost)
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // Read side; nothing to do on close failure

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env errorEnvelope
		_ = json.Unmarshal(data, &env) //nolint:errcheck // Message is best-effort
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.logger.Warn("backend rejected credentials, forcing logout", "op", op)
			c.onUnauthorized()
		}
		return &RemoteError{Status: resp.StatusCode, Message: env.Error}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}

	c.logger.Debug("request complete", "op", op, "status", resp.StatusCode)
	return nil
}

// get is shorthand for a body-less GET.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}
