// Package api talks to the remote transactions service.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/model"
)

// DefaultTimeout bounds a single request when no HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

// Doer performs a single HTTP round trip. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches and mutates transactions on the remote service.
type Client struct {
	httpClient Doer
	logger     *slog.Logger
	baseURL    string
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.httpClient = d
	}
}

// WithTimeout uses a fresh http.Client with the given timeout. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithLogger sets the logger used for request tracing and failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL", common.ErrMissingConfig)
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q", common.ErrInvalidConfig, baseURL)
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListTransactions fetches all transactions of a user, in server order.
func (c *Client) ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	endpoint := c.endpoint("transactions", userID)
	c.logger.Debug("Fetching transactions", "url", endpoint)

	var transactions []model.Transaction
	if err := c.getJSON(ctx, endpoint, &transactions); err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []model.Transaction{}
	}

	return transactions, nil
}

// GetSummary fetches a user's summary and normalizes its field names.
func (c *Client) GetSummary(ctx context.Context, userID string) (model.Summary, error) {
	endpoint := c.endpoint("transactions", "summary", userID)
	c.logger.Debug("Fetching summary", "url", endpoint)

	var raw map[string]any
	if err := c.getJSON(ctx, endpoint, &raw); err != nil {
		return model.Summary{}, err
	}

	summary := model.NormalizeSummary(raw)
	c.logger.Debug("Normalized summary", "raw", raw, "normalized", summary)

	return summary, nil
}

// DeleteTransaction removes a single transaction by id.
func (c *Client) DeleteTransaction(ctx context.Context, transactionID string) error {
	endpoint := c.endpoint("transactions", transactionID)
	c.logger.Debug("Deleting transaction", "url", endpoint)

	resp, err := c.do(ctx, http.MethodDelete, endpoint)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			c.logger.Warn("Failed to read delete error body", "url", endpoint, "error", readErr)
		}
		c.logger.Error("Delete failed",
			"status", resp.StatusCode,
			"body", string(body))
		return &common.DeleteError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	// Any success body is accepted; drain it so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// getJSON issues a GET and decodes the body into v. The body is read as text
// first so that non-JSON error pages can be logged verbatim.
func (c *Client) getJSON(ctx context.Context, endpoint string, v any) error {
	resp, err := c.do(ctx, http.MethodGet, endpoint)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &common.TransportError{Op: http.MethodGet, URL: endpoint, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	text := string(body)

	if !isSuccess(resp.StatusCode) {
		c.logger.Error("API responded with non-OK status",
			"url", endpoint,
			"status", resp.StatusCode,
			"body", text)
		return &common.HTTPError{StatusCode: resp.StatusCode, Body: text}
	}

	if err := json.Unmarshal(body, v); err != nil {
		c.logger.Error("Failed to parse JSON",
			"url", endpoint,
			"raw", text)
		return &common.ParseError{Raw: text, Err: err}
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &common.TransportError{Op: method, URL: endpoint, Err: err}
	}

	return resp, nil
}

func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
