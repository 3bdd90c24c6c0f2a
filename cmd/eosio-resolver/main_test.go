package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-did-eosio/registry"
	"github.com/pilacorp/go-did-eosio/resolver"
)

// Wires the resolver the way main does, against a local chain node.
func TestResolveOnce(t *testing.T) {
	node := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"account_name": "lioninjungle",
			"permissions": [{
				"perm_name": "owner",
				"parent": "",
				"required_auth": {
					"threshold": 1,
					"keys": [{"key": "EOS7ueKyvQJpBLVjuNgLedAgJakw3bLyd4GBx1N4jXswpBhJif5mV", "weight": 1}],
					"accounts": [],
					"waits": []
				}
			}]
		}`))
	}))
	defer node.Close()

	res, err := resolver.New(resolver.WithRegistry(registry.Registry{
		"eos:testnet:jungle": {
			ChainID: "2a02a0053e5a8cf73a56ba0fda11e4d92e0238a4a2aa74fccf46d5a910746840",
			Service: []registry.Service{{ID: node.URL, Type: registry.ServiceType{registry.ServiceTypeLinkedDomains}, ServiceEndpoint: node.URL}},
		},
	}))
	require.NoError(t, err)

	var out bytes.Buffer
	code := resolveOnce(res, []string{"did:eosio:eos:testnet:jungle:lioninjungle"}, &out)
	assert.Equal(t, 0, code)

	var result resolver.Result
	require.NoError(t, json.NewDecoder(&out).Decode(&result))
	assert.Equal(t, resolver.ContentTypeDIDLDJSON, result.ResolutionMetadata.ContentType)
	assert.Equal(t, "did:eosio:eos:testnet:jungle:lioninjungle", result.Document.ID)

	out.Reset()
	code = resolveOnce(res, []string{"did:eosio:eos:testnet:jungle:lioninjungle", "did:wrongdidschema"}, &out)
	assert.Equal(t, 1, code)
}
