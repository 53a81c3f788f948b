package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/langconv/langconv/pkg/logging"
)

// maxErrorBody caps how much of an error response is kept on StatusError.
const maxErrorBody = 4 << 10

// RequestIDHeader carries a per-request UUID.
const RequestIDHeader = "X-Request-Id"

// Transport issues one JSON request and decodes the JSON answer into out.
// A nil body sends no payload; a nil out discards the response body.
type Transport interface {
	Do(ctx context.Context, method, url string, body, out any) error
}

// Func adapts an ordinary function to the Transport interface.
type Func func(ctx context.Context, method, url string, body, out any) error

// Do calls f.
func (f Func) Do(ctx context.Context, method, url string, body, out any) error {
	return f(ctx, method, url, body, out)
}

// HTTP is a Transport backed by an *http.Client.
type HTTP struct {
	httpClient *http.Client
	retries    uint64
	headers    http.Header
	logger     *slog.Logger
}

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(t *HTTP) {
		t.httpClient.Timeout = timeout
	}
}

// WithRoundTripper replaces the underlying round tripper, e.g. with an
// in-process mock backend.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(t *HTTP) {
		t.httpClient.Transport = rt
	}
}

// WithRetry retries requests that fail before any response arrives, up to
// n extra attempts with exponential backoff.
func WithRetry(n uint64) Option {
	return func(t *HTTP) {
		t.retries = n
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(t *HTTP) {
		t.headers.Add(key, value)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(t *HTTP) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New creates an HTTP transport with a 30-second timeout and no retries.
func New(opts ...Option) *HTTP {
	t := &HTTP{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		headers:    make(http.Header),
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Do implements Transport.
func (t *HTTP) Do(ctx context.Context, method, url string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	requestID := uuid.NewString()

	var resp *http.Response
	send := func() error {
		req, err := t.newRequest(ctx, method, url, payload, requestID)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err = t.httpClient.Do(req)
		return err
	}

	var err error
	if t.retries > 0 {
		policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), t.retries), ctx)
		err = backoff.RetryNotify(send, policy, func(err error, next time.Duration) {
			t.logger.Debug("retrying request", "method", method, "url", url, "requestId", requestID, "error", err, "in", next)
		})
	} else {
		err = send()
	}
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	t.logger.Debug("request completed", "method", method, "url", url, "requestId", requestID, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(data)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

func (t *HTTP) newRequest(ctx context.Context, method, url string, payload []byte, requestID string) (*http.Request, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for key, values := range t.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if isMutating(method) {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// Ensure HTTP implements Transport.
var _ Transport = (*HTTP)(nil)
