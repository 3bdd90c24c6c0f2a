// Package document builds did:eosio DID documents out of an account's
// on-chain permission structure.
//
// Every permission becomes a weighted-threshold Verifiable Condition whose
// children are key conditions (one per authorising key) and delegated
// conditions (one per authorising account permission).
package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pilacorp/go-did-eosio/eoskey"
	"github.com/pilacorp/go-did-eosio/registry"
)

// JSON-LD contexts of every did:eosio document.
const (
	ContextDIDv1                = "https://www.w3.org/ns/did/v1"
	ContextVerifiableConditions = "https://w3c-ccg.github.io/verifiable-conditions/contexts/verifiable-conditions-2021-v1.json"
)

// TypeVerifiableCondition is the type of threshold and delegated conditions.
const TypeVerifiableCondition = "VerifiableCondition"

// Document is a did:eosio DID document.
type Document struct {
	Context            []string              `json:"@context"`
	ID                 string                `json:"id"`
	VerificationMethod []*ThresholdCondition `json:"verificationMethod"`
	Service            []registry.Service    `json:"service"`
}

// Condition is implemented by ThresholdCondition, KeyCondition and
// DelegatedCondition only.
type Condition interface {
	ConditionID() string
	isCondition()
}

// ThresholdCondition is satisfied once the weights of its satisfied
// children reach Threshold.
type ThresholdCondition struct {
	ID         string
	Controller string
	Threshold  uint32
	Conditions []WeightedCondition
	// ParentIDs holds the id of the parent permission's condition. It is not
	// checked against the document and may dangle.
	ParentIDs []string
}

// KeyCondition is satisfied by a signature of its public key.
type KeyCondition struct {
	ID           string
	Controller   string
	Type         string
	PublicKeyJwk *eoskey.JWK
}

// DelegatedCondition is satisfied by satisfying the condition named by
// DelegatedTo, a DID URL of another account's permission.
type DelegatedCondition struct {
	ID          string
	Controller  string
	DelegatedTo string
}

// WeightedCondition is a child of a ThresholdCondition.
type WeightedCondition struct {
	Condition Condition `json:"condition"`
	Weight    uint16    `json:"weight"`
}

func (c *ThresholdCondition) ConditionID() string { return c.ID }
func (c *KeyCondition) ConditionID() string       { return c.ID }
func (c *DelegatedCondition) ConditionID() string { return c.ID }

func (*ThresholdCondition) isCondition() {}
func (*KeyCondition) isCondition()       {}
func (*DelegatedCondition) isCondition() {}

type thresholdJSON struct {
	ID                         string              `json:"id"`
	Controller                 string              `json:"controller"`
	Type                       string              `json:"type"`
	Threshold                  uint32              `json:"threshold"`
	ConditionWeightedThreshold []WeightedCondition `json:"conditionWeightedThreshold"`
	RelationshipParent         []string            `json:"relationshipParent,omitempty"`
}

type keyJSON struct {
	ID           string      `json:"id"`
	Controller   string      `json:"controller"`
	Type         string      `json:"type"`
	PublicKeyJwk *eoskey.JWK `json:"publicKeyJwk"`
}

type delegatedJSON struct {
	ID                 string `json:"id"`
	Controller         string `json:"controller"`
	Type               string `json:"type"`
	ConditionDelegated string `json:"conditionDelegated"`
}

// MarshalJSON implements the json.Marshaler interface.
func (c *ThresholdCondition) MarshalJSON() ([]byte, error) {
	children := c.Conditions
	if children == nil {
		children = []WeightedCondition{}
	}
	return json.Marshal(thresholdJSON{
		ID:                         c.ID,
		Controller:                 c.Controller,
		Type:                       TypeVerifiableCondition,
		Threshold:                  c.Threshold,
		ConditionWeightedThreshold: children,
		RelationshipParent:         c.ParentIDs,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *ThresholdCondition) UnmarshalJSON(data []byte) error {
	var v thresholdJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = ThresholdCondition{
		ID:         v.ID,
		Controller: v.Controller,
		Threshold:  v.Threshold,
		Conditions: v.ConditionWeightedThreshold,
		ParentIDs:  v.RelationshipParent,
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (c *KeyCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(keyJSON{
		ID:           c.ID,
		Controller:   c.Controller,
		Type:         c.Type,
		PublicKeyJwk: c.PublicKeyJwk,
	})
}

// MarshalJSON implements the json.Marshaler interface.
func (c *DelegatedCondition) MarshalJSON() ([]byte, error) {
	return json.Marshal(delegatedJSON{
		ID:                 c.ID,
		Controller:         c.Controller,
		Type:               TypeVerifiableCondition,
		ConditionDelegated: c.DelegatedTo,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface. The concrete
// condition is picked by the properties present.
func (w *WeightedCondition) UnmarshalJSON(data []byte) error {
	var v struct {
		Condition json.RawMessage `json:"condition"`
		Weight    uint16          `json:"weight"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	cond, err := unmarshalCondition(v.Condition)
	if err != nil {
		return err
	}
	*w = WeightedCondition{Condition: cond, Weight: v.Weight}
	return nil
}

func unmarshalCondition(data json.RawMessage) (Condition, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal condition: %w", err)
	}

	switch {
	case probe["conditionWeightedThreshold"] != nil || probe["threshold"] != nil:
		var c ThresholdCondition
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	case probe["conditionDelegated"] != nil:
		var v delegatedJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &DelegatedCondition{ID: v.ID, Controller: v.Controller, DelegatedTo: v.ConditionDelegated}, nil
	case probe["publicKeyJwk"] != nil:
		var v keyJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return &KeyCondition{ID: v.ID, Controller: v.Controller, Type: v.Type, PublicKeyJwk: v.PublicKeyJwk}, nil
	default:
		return nil, errors.New("unrecognised condition: no threshold, delegation or key")
	}
}
