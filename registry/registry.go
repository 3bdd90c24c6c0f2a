// Package registry maps EOSIO chain names to chain ids and the service
// endpoints used to reach them.
//
// A built-in table is embedded in the binary. Callers can supply their own
// partial table which is merged over it per resolution with Merge; neither
// input is modified.
package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/maps"
)

// ServiceTypeLinkedDomains marks services that expose the chain RPC API.
const ServiceTypeLinkedDomains = "LinkedDomains"

//go:embed eosio-did-chain-registry.json
var defaultRegistryJSON []byte

var (
	defaultRegistry     Registry
	loadDefaultOnce     sync.Once
	errLoadDefault      error
	chainIDPattern      = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)
	ErrDuplicateChainID = errors.New("duplicate chain id in registry")
	ErrInvalidChainID   = errors.New("chain id must be 64 hex characters")
)

// ServiceType is a service "type" value. In JSON it is either a single
// string or an array of strings and keeps that shape when re-encoded.
type ServiceType []string

// Contains reports whether t includes typ.
func (t ServiceType) Contains(typ string) bool {
	return slices.Contains(t, typ)
}

// MarshalJSON implements the json.Marshaler interface.
func (t ServiceType) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *ServiceType) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty service type")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = ServiceType{s}
		return nil
	case '[':
		var s []string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = s
		return nil
	default:
		return fmt.Errorf("service type must be a string or an array of strings, got %q", data[0])
	}
}

// Service is a DID document service entry.
type Service struct {
	ID              string      `json:"id"`
	Type            ServiceType `json:"type"`
	ServiceEndpoint string      `json:"serviceEndpoint"`
}

// Entry is the registry record of a single chain.
type Entry struct {
	ChainID string    `json:"chainId"`
	Service []Service `json:"service"`
}

// ServicesOfType returns the entry's services whose type includes typ, in
// listed order.
func (e Entry) ServicesOfType(typ string) []Service {
	var out []Service
	for _, s := range e.Service {
		if s.Type.Contains(typ) {
			out = append(out, s)
		}
	}
	return out
}

// Hash returns the chain id as a 32 byte hash. Comparison through Hash is
// case-insensitive.
func (e Entry) Hash() common.Hash {
	return common.HexToHash(e.ChainID)
}

func (e Entry) clone() Entry {
	out := Entry{ChainID: e.ChainID, Service: make([]Service, len(e.Service))}
	for i, s := range e.Service {
		s.Type = slices.Clone(s.Type)
		out.Service[i] = s
	}
	return out
}

// Registry maps chain names, including ":"-joined aliases such as
// "eos:testnet:jungle", to chain entries. Keys are case-sensitive.
type Registry map[string]Entry

// Default returns a copy of the embedded registry.
func Default() (Registry, error) {
	loadDefaultOnce.Do(func() {
		defaultRegistry, errLoadDefault = Parse(defaultRegistryJSON)
		if errLoadDefault != nil {
			errLoadDefault = fmt.Errorf("failed to load embedded chain registry: %w", errLoadDefault)
		}
	})
	if errLoadDefault != nil {
		return nil, errLoadDefault
	}
	return defaultRegistry.Clone(), nil
}

// Merge returns a new registry holding every entry of base, with entries of
// override replacing those under the same key.
func Merge(base, override Registry) Registry {
	out := make(Registry, len(base)+len(override))
	for name, entry := range base {
		out[name] = entry.clone()
	}
	for name, entry := range override {
		out[name] = entry.clone()
	}
	return out
}

// Clone returns a deep copy of r.
func (r Registry) Clone() Registry {
	return Merge(r, nil)
}

// Names returns the registry keys in lexical order.
func (r Registry) Names() []string {
	keys := maps.Keys(r)
	slices.Sort(keys)
	return keys
}

// Lookup returns the entry registered under name verbatim.
func (r Registry) Lookup(name string) (Entry, bool) {
	entry, ok := r[name]
	return entry, ok
}

// FindByChainID returns the entry whose chain id equals chainID exactly.
// Keys are scanned in lexical order so that, should two entries share a
// chain id, the lexically smallest name wins.
func (r Registry) FindByChainID(chainID string) (string, Entry, bool) {
	if !chainIDPattern.MatchString(chainID) {
		return "", Entry{}, false
	}
	for _, name := range r.Names() {
		entry := r[name]
		if entry.ChainID == chainID {
			return name, entry, true
		}
	}
	return "", Entry{}, false
}

// Validate checks every chain id is well formed and that no two entries
// share one.
func (r Registry) Validate() error {
	seen := make(map[common.Hash]string, len(r))
	var errs []error
	for _, name := range r.Names() {
		entry := r[name]
		if !chainIDPattern.MatchString(entry.ChainID) {
			errs = append(errs, fmt.Errorf("%w: %q (%s)", ErrInvalidChainID, entry.ChainID, name))
			continue
		}
		if prev, ok := seen[entry.Hash()]; ok {
			errs = append(errs, fmt.Errorf("%w: %s is used by %q and %q", ErrDuplicateChainID, entry.ChainID, prev, name))
			continue
		}
		seen[entry.Hash()] = name
	}
	return errors.Join(errs...)
}
