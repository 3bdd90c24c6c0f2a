// Package chainrpc is a minimal EOSIO chain API client covering the calls
// needed to resolve did:eosio documents.
package chainrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	getAccountPath          = "/v1/chain/get_account"
	defaultTimeout          = 10 * time.Second
	defaultMaxResponseBytes = 4 << 20
)

// Doer is the subset of http.Client used by Client. Tests and callers can
// supply their own transport through it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client calls EOSIO chain API endpoints.
type Client struct {
	doer             Doer
	maxResponseBytes int64
}

// Option configures a Client.
type Option func(*Client)

// WithDoer sets the HTTP client used for requests.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithTimeout replaces the default client with an instrumented one using
// the given timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.doer = newHTTPClient(timeout)
		}
	}
}

// WithMaxResponseBytes caps the size of response bodies read.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponseBytes = n
		}
	}
}

// NewClient creates a Client. By default requests go through an
// OpenTelemetry-instrumented http.Client with a 10 second timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		doer:             newHTTPClient(defaultTimeout),
		maxResponseBytes: defaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// GetAccount fetches accountName from the chain API node at endpoint.
func (c *Client) GetAccount(ctx context.Context, endpoint, accountName string) (*Account, error) {
	target, err := url.JoinPath(endpoint, getAccountPath)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	payload, err := json.Marshal(map[string]string{"account_name": accountName})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request to %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeAPIError(resp, c.maxResponseBytes)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var account Account
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAccount, err)
	}
	if len(account.Permissions) == 0 {
		return nil, fmt.Errorf("%w: no permissions for %q", ErrMalformedAccount, accountName)
	}

	return &account, nil
}
