package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"mediabridge/internal/api"
	"mediabridge/internal/convert"
	"mediabridge/internal/deps"
	"mediabridge/internal/formats"
)

// ErrUnauthorized reports a rejected API token.
var ErrUnauthorized = errors.New("unauthorized: check server.api_token")

// StatusError reports an unexpected HTTP status from the daemon.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API returned error status: %d", e.StatusCode)
	}
	return fmt.Sprintf("API returned error status: %d: %s", e.StatusCode, e.Message)
}

// Option customizes a Client.
type Option func(*retryablehttp.Client)

// WithRetryMax overrides the number of retries.
func WithRetryMax(n int) Option {
	return func(c *retryablehttp.Client) { c.RetryMax = n }
}

// WithRetryWait overrides the backoff bounds.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = min
		c.RetryWaitMax = max
	}
}

// Client calls the daemon HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for baseURL (for example "http://127.0.0.1:7591").
func New(baseURL, token string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil
	retryClient.CheckRetry = checkRetry
	for _, opt := range opts {
		opt(retryClient)
	}

	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base != "" && !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		baseURL:    base,
		token:      strings.TrimSpace(token),
		httpClient: retryClient.StandardClient(),
	}
}

// Convert runs a conversion on the daemon. Failed conversions are returned
// as a Response with Success false and a nil error.
func (c *Client) Convert(ctx context.Context, req convert.Request) (convert.Response, error) {
	var resp convert.Response
	ctx = context.WithValue(ctx, noRetryKey{}, true)
	err := c.do(ctx, http.MethodPost, "/api/convert", req, &resp, http.StatusUnprocessableEntity)
	return resp, err
}

// Status fetches the daemon status.
func (c *Client) Status(ctx context.Context) (api.DaemonStatus, error) {
	var status api.DaemonStatus
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &status)
	return status, err
}

// Formats fetches the supported format table.
func (c *Client) Formats(ctx context.Context) (formats.Table, error) {
	var table formats.Table
	err := c.do(ctx, http.MethodGet, "/api/formats", nil, &table)
	return table, err
}

// Encoder fetches the daemon's encoder probe.
func (c *Client) Encoder(ctx context.Context) (deps.EncoderInfo, error) {
	var info deps.EncoderInfo
	err := c.do(ctx, http.MethodGet, "/api/encoder", nil, &info)
	return info, err
}

type noRetryKey struct{}

// checkRetry applies the default policy, except that requests marked with
// noRetryKey are only retried when the connection was refused.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Value(noRetryKey{}) == nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return err != nil && errors.Is(err, syscall.ECONNREFUSED), nil
}

// do sends a JSON request. Responses with status 200 or one of accept are
// decoded into response.
func (c *Client) do(ctx context.Context, method, path string, payload any, response any, accept ...int) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK && !accepted(resp.StatusCode, accept) {
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if response != nil {
		if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func accepted(code int, accept []int) bool {
	for _, a := range accept {
		if code == a {
			return true
		}
	}
	return false
}

func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(data))
}
