package resolver

import (
	"errors"
	"fmt"
	"regexp"
)

// MethodName is the DID method served by this package.
const MethodName = "eosio"

// ErrMalformedDID is returned by ParseDID for strings that are not DIDs.
var ErrMalformedDID = errors.New("malformed DID")

var (
	idChar     = `(?:[a-zA-Z0-9._-]|%[0-9a-fA-F]{2})`
	didPattern = regexp.MustCompile(`^did:([a-z0-9]+):((?:` + idChar + `*:)*` + idChar + `+)([/?#].*)?$`)
)

// ParsedDID is a DID split into its parts.
type ParsedDID struct {
	// DID is the DID without path, query or fragment.
	DID string
	// Method is the DID method, e.g. "eosio".
	Method string
	// ID is the method-specific identifier.
	ID string
	// URLSuffix holds any path, query or fragment that followed the DID.
	URLSuffix string
}

// ParseDID splits a DID or DID URL into method and method-specific identifier.
func ParseDID(didURL string) (*ParsedDID, error) {
	parts := didPattern.FindStringSubmatch(didURL)
	if parts == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedDID, didURL)
	}
	return &ParsedDID{
		DID:       "did:" + parts[1] + ":" + parts[2],
		Method:    parts[1],
		ID:        parts[2],
		URLSuffix: parts[3],
	}, nil
}
