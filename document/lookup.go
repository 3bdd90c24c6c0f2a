package document

import (
	"fmt"
	"strings"
)

// Condition returns the condition with the given id, searching nested
// conditions depth first.
func (d *Document) Condition(id string) (Condition, bool) {
	for _, vm := range d.VerificationMethod {
		if c, ok := findCondition(vm, id); ok {
			return c, true
		}
	}
	return nil, false
}

// Keys returns every key condition of the document in document order.
func (d *Document) Keys() []*KeyCondition {
	var keys []*KeyCondition
	d.walk(func(c Condition) {
		if k, ok := c.(*KeyCondition); ok {
			keys = append(keys, k)
		}
	})
	return keys
}

// Delegations returns every delegated condition of the document in document
// order.
func (d *Document) Delegations() []*DelegatedCondition {
	var out []*DelegatedCondition
	d.walk(func(c Condition) {
		if dc, ok := c.(*DelegatedCondition); ok {
			out = append(out, dc)
		}
	})
	return out
}

// PublicKeyJwkFor returns the JWK of the key condition addressed by the DID
// URL verificationMethodURL.
func (d *Document) PublicKeyJwkFor(verificationMethodURL string) (*KeyCondition, error) {
	didPart, _, err := SplitDIDURL(verificationMethodURL)
	if err != nil {
		return nil, err
	}
	if didPart != d.ID {
		return nil, fmt.Errorf("verification method '%s' does not belong to '%s'", verificationMethodURL, d.ID)
	}

	c, ok := d.Condition(verificationMethodURL)
	if !ok {
		return nil, fmt.Errorf("verification method '%s' not found in DID document", verificationMethodURL)
	}
	key, ok := c.(*KeyCondition)
	if !ok {
		return nil, fmt.Errorf("verification method '%s' is not a key condition", verificationMethodURL)
	}
	return key, nil
}

// SplitDIDURL splits a DID URL such as "did:eosio:eos:alice#active" into
// the DID and the fragment.
func SplitDIDURL(didURL string) (string, string, error) {
	if didURL == "" {
		return "", "", fmt.Errorf("DID URL is empty")
	}

	didPart, fragment, found := strings.Cut(didURL, "#")
	if !found || didPart == "" || fragment == "" {
		return "", "", fmt.Errorf("invalid DID URL, could not extract DID and fragment: %s", didURL)
	}
	if !strings.HasPrefix(didPart, "did:") {
		return "", "", fmt.Errorf("extracted DID '%s' is invalid, must start with 'did:'", didPart)
	}

	return didPart, fragment, nil
}

func (d *Document) walk(fn func(Condition)) {
	for _, vm := range d.VerificationMethod {
		walkCondition(vm, fn)
	}
}

func walkCondition(c Condition, fn func(Condition)) {
	fn(c)
	if t, ok := c.(*ThresholdCondition); ok {
		for _, child := range t.Conditions {
			walkCondition(child.Condition, fn)
		}
	}
}

func findCondition(c Condition, id string) (Condition, bool) {
	var found Condition
	walkCondition(c, func(n Condition) {
		if found == nil && n.ConditionID() == id {
			found = n
		}
	})
	return found, found != nil
}
