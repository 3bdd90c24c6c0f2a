package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/pilacorp/go-did-eosio/chainrpc"
	"github.com/pilacorp/go-did-eosio/methodid"
	"github.com/pilacorp/go-did-eosio/registry"
)

var (
	// ErrNoEndpoint is returned when the chain has no LinkedDomains service.
	ErrNoEndpoint = errors.New("chain has no LinkedDomains endpoint")
	// ErrAccountUnavailable is returned when no endpoint returned the account.
	ErrAccountUnavailable = errors.New("no endpoint returned the account")
)

// fetchAccount asks each LinkedDomains endpoint of the chain in turn and
// returns the permissions from the first that answers. Endpoints are never
// queried in parallel.
func (r *Resolver) fetchAccount(ctx context.Context, m *methodid.MethodID) ([]chainrpc.Permission, error) {
	services := m.Chain.ServicesOfType(registry.ServiceTypeLinkedDomains)
	if len(services) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEndpoint, m.ChainName)
	}

	var errs []error
	for _, svc := range services {
		account, err := r.fetcher.GetAccount(ctx, svc.ServiceEndpoint, m.Subject)
		if err != nil {
			r.logger.Warn().
				Str("endpoint", svc.ServiceEndpoint).
				Str("account", m.Subject).
				Err(err).
				Msg("failed to fetch account, trying next endpoint")
			errs = append(errs, fmt.Errorf("%s: %w", svc.ServiceEndpoint, err))
			continue
		}
		return account.Permissions, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrAccountUnavailable, errors.Join(errs...))
}
