package resolver

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pilacorp/go-did-eosio/chainrpc"
	"github.com/pilacorp/go-did-eosio/registry"
)

// DefaultConcurrency bounds ResolveAll when WithConcurrency is not given.
const DefaultConcurrency = 8

// AccountFetcher fetches an account from a single chain endpoint.
// *chainrpc.Client implements it.
type AccountFetcher interface {
	GetAccount(ctx context.Context, endpoint, accountName string) (*chainrpc.Account, error)
}

// Option configures a Resolver.
type Option func(*options)

type options struct {
	registry    registry.Registry
	fetcher     AccountFetcher
	httpClient  chainrpc.Doer
	logger      zerolog.Logger
	concurrency int
}

func defaultOptions() options {
	return options{
		logger:      zerolog.Nop(),
		concurrency: DefaultConcurrency,
	}
}

// WithRegistry sets a partial registry merged over the built-in chain table.
// Entries with the same chain name replace the built-in ones.
func WithRegistry(reg registry.Registry) Option {
	return func(o *options) { o.registry = reg.Clone() }
}

// WithAccountFetcher replaces the chain RPC client. It takes precedence over
// WithHTTPClient.
func WithAccountFetcher(f AccountFetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithHTTPClient sets the HTTP client used by the default chain RPC client.
// The client's own timeout and cancellation apply to every endpoint call.
func WithHTTPClient(c chainrpc.Doer) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger sets the logger. Resolution is silent by default.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConcurrency bounds the number of resolutions ResolveAll runs at once.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
