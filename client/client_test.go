package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-did-eosio/chainrpc"
	"github.com/pilacorp/go-did-eosio/registry"
	"github.com/pilacorp/go-did-eosio/resolver"
	"github.com/pilacorp/go-did-eosio/server"
)

type staticFetcher struct{}

func (staticFetcher) GetAccount(_ context.Context, _, accountName string) (*chainrpc.Account, error) {
	if accountName != "lioninjungle" {
		return nil, chainrpc.ErrAccountNotFound
	}
	return &chainrpc.Account{
		AccountName: accountName,
		Permissions: []chainrpc.Permission{
			{
				PermName: "active",
				Parent:   "owner",
				RequiredAuth: chainrpc.Authority{
					Threshold: 1,
					Keys:      []chainrpc.KeyWeight{{Key: "PUB_K1_7ueKyvQJpBLVjuNgLedAgJakw3bLyd4GBx1N4jXswpBhE5SbJK", Weight: 1}},
					Accounts: []chainrpc.PermissionLevelWeight{{
						Permission: chainrpc.PermissionLevel{Actor: "eosio", Permission: "active"},
						Weight:     1,
					}},
				},
			},
			{PermName: "owner", RequiredAuth: chainrpc.Authority{Threshold: 1}},
		},
	}, nil
}

func newDriver(t *testing.T) *httptest.Server {
	t.Helper()
	res, err := resolver.New(
		resolver.WithAccountFetcher(staticFetcher{}),
		resolver.WithRegistry(registry.Registry{
			"eos": {
				ChainID: "aca376f206b8fc25a6ed44dbdc66547c36c6c33e3a119ffbeaef943642f0e906",
				Service: []registry.Service{{ID: "https://node", Type: registry.ServiceType{registry.ServiceTypeLinkedDomains}, ServiceEndpoint: "https://node"}},
			},
		}),
	)
	require.NoError(t, err)

	srv := httptest.NewServer(server.New(res).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestResolve(t *testing.T) {
	driver := newDriver(t)
	c := New(driver.URL, WithHTTPClient(driver.Client()))

	result, err := c.Resolve(context.Background(), "did:eosio:eos:lioninjungle")
	require.NoError(t, err)
	require.False(t, result.Failed())
	assert.Equal(t, "did:eosio:eos:lioninjungle", result.Document.ID)
	assert.Len(t, result.Document.VerificationMethod, 2)

	tests := []struct {
		did  string
		kind string
	}{
		{"did:eosio:eos:unknownacc", resolver.ErrorNotFound},
		{"did:wrongdidschema", resolver.ErrorInvalidDID},
		{"did:web:example.com", resolver.ErrorMethodNotSupported},
	}
	for _, tt := range tests {
		t.Run(tt.did, func(t *testing.T) {
			result, err := c.Resolve(context.Background(), tt.did)
			require.NoError(t, err)
			assert.Nil(t, result.Document)
			assert.Equal(t, tt.kind, result.ResolutionMetadata.Error)

			_, err = c.Document(context.Background(), tt.did)
			assert.ErrorIs(t, err, ErrResolution)
		})
	}
}

func TestKeyCondition(t *testing.T) {
	driver := newDriver(t)
	c := New(driver.URL, WithHTTPClient(driver.Client()))

	key, err := c.KeyCondition(context.Background(), "did:eosio:eos:lioninjungle#active-0")
	require.NoError(t, err)
	assert.Equal(t, "jbXSqQffgSNrtF4SBriENexUuXstjPDRFV_3PRCFU7o", key.PublicKeyJwk.X)
	assert.Equal(t, "J20YqTFJgZ3P5KXZBEcOmWX-Nxaqogtt4NyWtvx8Ryk", key.PublicKeyJwk.Y)

	_, err = c.KeyCondition(context.Background(), "did:eosio:eos:lioninjungle#active-1")
	assert.ErrorContains(t, err, "not a key condition")

	_, err = c.KeyCondition(context.Background(), "did:eosio:eos:lioninjungle")
	assert.ErrorContains(t, err, "invalid DID URL")
}

func TestResolveUpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"html gateway error", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "<html>bad gateway</html>", http.StatusBadGateway)
		}},
		{"empty object", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := New(srv.URL).Resolve(context.Background(), "did:eosio:eos:lioninjungle")
			assert.ErrorIs(t, err, ErrUpstream)
		})
	}

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	_, err := New(srv.URL).Resolve(context.Background(), "did:eosio:eos:lioninjungle")
	assert.ErrorIs(t, err, ErrUpstream)
}
