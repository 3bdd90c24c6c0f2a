// Package resolver resolves did:eosio DIDs to DID documents.
//
// A resolution parses the method-specific identifier against the chain
// registry, fetches the account from the chain's LinkedDomains endpoints
// and converts its permissions into a document of Verifiable Conditions.
// Failures are reported in the result's metadata, never as partial
// documents.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pilacorp/go-did-eosio/chainrpc"
	"github.com/pilacorp/go-did-eosio/document"
	"github.com/pilacorp/go-did-eosio/methodid"
	"github.com/pilacorp/go-did-eosio/registry"
)

// ResolveFunc resolves an already parsed DID.
type ResolveFunc func(ctx context.Context, parsed *ParsedDID) *Result

// Resolver resolves did:eosio DIDs. It holds no per-call state and is safe
// for concurrent use.
type Resolver struct {
	defaults    registry.Registry
	override    registry.Registry
	fetcher     AccountFetcher
	logger      zerolog.Logger
	concurrency int
}

// New creates a Resolver over the built-in chain registry.
func New(opts ...Option) (*Resolver, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	defaults, err := registry.Default()
	if err != nil {
		return nil, err
	}

	if err := registry.Merge(defaults, o.registry).Validate(); err != nil {
		if errors.Is(err, registry.ErrInvalidChainID) {
			return nil, fmt.Errorf("invalid chain registry: %w", err)
		}
		// duplicates still resolve, the lexically smallest name wins
		o.logger.Warn().Err(err).Msg("chain registry has duplicate chain ids")
	}

	fetcher := o.fetcher
	if fetcher == nil {
		var clientOpts []chainrpc.Option
		if o.httpClient != nil {
			clientOpts = append(clientOpts, chainrpc.WithDoer(o.httpClient))
		}
		fetcher = chainrpc.NewClient(clientOpts...)
	}

	return &Resolver{
		defaults:    defaults,
		override:    o.registry,
		fetcher:     fetcher,
		logger:      o.logger,
		concurrency: o.concurrency,
	}, nil
}

// Registry returns the effective chain registry.
func (r *Resolver) Registry() registry.Registry {
	return registry.Merge(r.defaults, r.override)
}

// Methods returns the resolver keyed by the DID method it serves, for host
// frameworks dispatching on the method name.
func (r *Resolver) Methods() map[string]ResolveFunc {
	return map[string]ResolveFunc{MethodName: r.ResolveParsed}
}

// Resolve resolves a DID. DID URLs resolve to the document of their DID.
func (r *Resolver) Resolve(ctx context.Context, did string) *Result {
	parsed, err := ParseDID(did)
	if err != nil {
		r.logger.Debug().Str("did", did).Err(err).Msg("rejecting malformed DID")
		return failure(ErrorInvalidDID)
	}
	return r.ResolveParsed(ctx, parsed)
}

// ResolveParsed resolves a DID already split by ParseDID.
func (r *Resolver) ResolveParsed(ctx context.Context, parsed *ParsedDID) *Result {
	start := time.Now()
	res := r.resolve(ctx, parsed)

	event := r.logger.Debug().Str("did", parsed.DID).Dur("took", time.Since(start))
	if res.Failed() {
		event.Str("error", res.ResolutionMetadata.Error).Msg("resolution failed")
	} else {
		event.Msg("resolved")
	}
	return res
}

func (r *Resolver) resolve(ctx context.Context, parsed *ParsedDID) *Result {
	if parsed.Method != MethodName {
		return failure(ErrorMethodNotSupported)
	}

	m, err := methodid.Parse(parsed.ID, r.Registry())
	if err != nil {
		r.logger.Debug().Str("did", parsed.DID).Err(err).Msg("cannot parse method-specific identifier")
		return failure(ErrorInvalidDID)
	}

	permissions, err := r.fetchAccount(ctx, m)
	if err != nil {
		r.logger.Debug().Str("did", parsed.DID).Err(err).Msg("account unavailable")
		return failure(ErrorNotFound)
	}

	doc, err := document.Build(m, parsed.DID, permissions)
	if err != nil {
		if errors.Is(err, document.ErrInvalidKey) {
			r.logger.Warn().Str("did", parsed.DID).Err(err).Msg("account holds an unusable key")
			return failure(ErrorInvalidKey)
		}
		r.logger.Error().Str("did", parsed.DID).Err(err).Msg("failed to build DID document")
		return failure(ErrorInternal)
	}

	return success(doc)
}
