package document

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pilacorp/go-did-eosio/chainrpc"
	"github.com/pilacorp/go-did-eosio/eoskey"
	"github.com/pilacorp/go-did-eosio/methodid"
	"github.com/pilacorp/go-did-eosio/registry"
)

// MethodPrefix is the scheme and method of every did:eosio DID.
const MethodPrefix = "did:eosio:"

// ErrInvalidKey wraps key encoding failures hit while building a document.
var ErrInvalidKey = errors.New("invalid on-chain public key")

// Build converts the permissions of the account identified by m into the
// DID document of did. Permissions keep chain order; within a permission key
// conditions precede delegated conditions and both keep chain order.
//
// No semantic checks are made: thresholds may be unreachable and parent
// permissions may be missing. A key that cannot be encoded fails the whole
// build.
func Build(m *methodid.MethodID, did string, permissions []chainrpc.Permission) (*Document, error) {
	delegationPrefix := delegationPrefix(m, did)

	methods := make([]*ThresholdCondition, 0, len(permissions))
	for _, perm := range permissions {
		baseID := did + "#" + perm.PermName
		cond := &ThresholdCondition{
			ID:         baseID,
			Controller: did,
			Threshold:  perm.RequiredAuth.Threshold,
			Conditions: make([]WeightedCondition, 0, len(perm.RequiredAuth.Keys)+len(perm.RequiredAuth.Accounts)),
		}
		if perm.Parent != "" {
			cond.ParentIDs = []string{did + "#" + perm.Parent}
		}

		i := 0
		for _, key := range perm.RequiredAuth.Keys {
			keyCond, err := newKeyCondition(childID(baseID, i), did, key.Key)
			if err != nil {
				return nil, fmt.Errorf("permission %q: %w", perm.PermName, err)
			}
			cond.Conditions = append(cond.Conditions, WeightedCondition{Condition: keyCond, Weight: key.Weight})
			i++
		}

		for _, account := range perm.RequiredAuth.Accounts {
			cond.Conditions = append(cond.Conditions, WeightedCondition{
				Condition: &DelegatedCondition{
					ID:          childID(baseID, i),
					Controller:  did,
					DelegatedTo: delegationPrefix + account.Permission.Actor + "#" + account.Permission.Permission,
				},
				Weight: account.Weight,
			})
			i++
		}

		methods = append(methods, cond)
	}

	return &Document{
		Context:            []string{ContextDIDv1, ContextVerifiableConditions},
		ID:                 did,
		VerificationMethod: methods,
		Service:            cloneServices(m.Chain.Service),
	}, nil
}

func newKeyCondition(id, controller, key string) (*KeyCondition, error) {
	jwk, methodType, err := eoskey.EncodeJWK(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidKey, key, err)
	}
	return &KeyCondition{
		ID:           id,
		Controller:   controller,
		Type:         methodType,
		PublicKeyJwk: jwk,
	}, nil
}

func childID(baseID string, i int) string {
	return baseID + "-" + strconv.Itoa(i)
}

// delegationPrefix returns the DID prefix, up to and including the chain
// reference, under which delegated accounts are addressed. The result makes
// delegatedTo a well-formed DID URL on the same chain reference.
func delegationPrefix(m *methodid.MethodID, did string) string {
	if strings.HasSuffix(did, ":"+m.Subject) {
		return strings.TrimSuffix(did, m.Subject)
	}
	return MethodPrefix + m.ChainRef + ":"
}

func cloneServices(services []registry.Service) []registry.Service {
	out := make([]registry.Service, len(services))
	for i, s := range services {
		s.Type = slices.Clone(s.Type)
		out[i] = s
	}
	return out
}
