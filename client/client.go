// Package client resolves DIDs through a remote resolver driver exposing
// GET /1.0/identifiers/{did}, such as the one in package server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pilacorp/go-did-eosio/document"
	"github.com/pilacorp/go-did-eosio/resolver"
)

const (
	identifiersPath         = "/1.0/identifiers"
	defaultMaxResponseBytes = 4 << 20
)

var (
	// ErrUpstream is returned when the driver answers without a resolution
	// result.
	ErrUpstream = errors.New("resolver driver error")
	// ErrResolution is returned by Document when the result carries an error.
	ErrResolution = errors.New("DID resolution failed")
)

// Client is a client for a remote DID resolver driver.
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.client = c
		}
	}
}

// New creates a client for the driver at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve fetches the resolution result of did. Resolution failures are
// reported in the result; the error is only set when the driver could not
// be reached or answered with something other than a resolution result.
func (c *Client) Resolve(ctx context.Context, did string) (*resolver.Result, error) {
	target, err := url.JoinPath(c.baseURL, identifiersPath, url.PathEscape(did))
	if err != nil {
		return nil, fmt.Errorf("invalid resolver URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/ld+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, defaultMaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from DID resolver: %w", err)
	}

	var result resolver.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: status=%d: failed to unmarshal resolution result: %w", ErrUpstream, resp.StatusCode, err)
	}
	if result.Document == nil && !result.Failed() {
		return nil, fmt.Errorf("%w: status=%d: response is not a resolution result", ErrUpstream, resp.StatusCode)
	}

	return &result, nil
}

// Document resolves did and returns its document.
func (c *Client) Document(ctx context.Context, did string) (*document.Document, error) {
	result, err := c.Resolve(ctx, did)
	if err != nil {
		return nil, err
	}
	if result.Failed() {
		return nil, fmt.Errorf("%w: %s: %s", ErrResolution, did, result.ResolutionMetadata.Error)
	}
	return result.Document, nil
}

// KeyCondition resolves the DID of verificationMethodURL and returns the key
// condition it names.
func (c *Client) KeyCondition(ctx context.Context, verificationMethodURL string) (*document.KeyCondition, error) {
	didPart, _, err := document.SplitDIDURL(verificationMethodURL)
	if err != nil {
		return nil, err
	}

	doc, err := c.Document(ctx, didPart)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DID '%s': %w", didPart, err)
	}
	return doc.PublicKeyJwkFor(verificationMethodURL)
}
