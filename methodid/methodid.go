// Package methodid parses the method-specific identifier of a did:eosio DID
// into the chain it names and the account it refers to.
//
// Two grammars are accepted:
//
//	<chain-name>[:<alias>...]:<account>   e.g. eos:testnet:jungle:lioninjungle
//	<64-hex-chain-id>:<account>           e.g. 4667b2...1d11:caleosblocks
//
// The name form is tried first. A 64 character chain id never matches the
// name grammar since name segments are at most 13 characters long.
package methodid

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/pilacorp/go-did-eosio/registry"
)

// eosio names: up to 13 characters of [a-z1-5.], not ending in '.'.
const nameSegment = `[a-z1-5.]{0,12}[a-z1-5]`

var (
	chainNamePattern = regexp.MustCompile(`^(` + nameSegment + `(?::` + nameSegment + `)*):(` + nameSegment + `)$`)
	chainIDPattern   = regexp.MustCompile(`^([A-Fa-f0-9]{64}):(` + nameSegment + `)$`)
)

var (
	// ErrInvalidDID is returned when the identifier matches neither grammar.
	ErrInvalidDID = errors.New("invalid did:eosio method-specific identifier")
	// ErrChainNotFound is returned when the identifier is well formed but
	// names or identifies no registry chain.
	ErrChainNotFound = errors.New("chain not found in registry")
)

// MethodID is a parsed and registry-checked method-specific identifier.
type MethodID struct {
	// Chain is the registry entry the identifier resolved to.
	Chain registry.Entry
	// ChainRef is the chain reference exactly as written in the identifier,
	// either a registry name or a chain id.
	ChainRef string
	// ChainName is the registry key of Chain.
	ChainName string
	// Subject is the account name.
	Subject string
}

// String returns the method-specific identifier.
func (m *MethodID) String() string {
	return m.ChainRef + ":" + m.Subject
}

// Parse splits id into chain reference and account and resolves the chain
// against reg.
func Parse(id string, reg registry.Registry) (*MethodID, error) {
	matched := false

	if parts := chainNamePattern.FindStringSubmatch(id); parts != nil {
		matched = true
		name, subject := parts[1], parts[2]
		if entry, ok := reg.Lookup(name); ok {
			return &MethodID{Chain: entry, ChainRef: name, ChainName: name, Subject: subject}, nil
		}
	}

	if parts := chainIDPattern.FindStringSubmatch(id); parts != nil {
		matched = true
		chainID, subject := parts[1], parts[2]
		if name, entry, ok := reg.FindByChainID(chainID); ok {
			return &MethodID{Chain: entry, ChainRef: chainID, ChainName: name, Subject: subject}, nil
		}
	}

	if matched {
		return nil, fmt.Errorf("%w: %q", ErrChainNotFound, id)
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDID, id)
}
