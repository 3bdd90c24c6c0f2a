package methodid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilacorp/go-did-eosio/registry"
)

const (
	eosChainID   = "aca376f206b8fc25a6ed44dbdc66547c36c6c33e3a119ffbeaef943642f0e906"
	telosChainID = "4667b205c6838ef70ff7988f6e8257e8be0e1284a2f59699054a018f743b1d11"
)

func testRegistry() registry.Registry {
	return registry.Registry{
		"eos":                {ChainID: eosChainID},
		"eos:testnet:jungle": {ChainID: "2a02a0053e5a8cf73a56ba0fda11e4d92e0238a4a2aa74fccf46d5a910746840"},
		"telos":              {ChainID: telosChainID},
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		id            string
		wantChainRef  string
		wantChainName string
		wantSubject   string
		wantErr       error
	}{
		{name: "chain name", id: "eos:eoscanadacom", wantChainRef: "eos", wantChainName: "eos", wantSubject: "eoscanadacom"},
		{name: "aliased chain name", id: "eos:testnet:jungle:lioninjungle", wantChainRef: "eos:testnet:jungle", wantChainName: "eos:testnet:jungle", wantSubject: "lioninjungle"},
		{name: "account with dots", id: "eos:eosio.token", wantChainRef: "eos", wantChainName: "eos", wantSubject: "eosio.token"},
		{name: "chain id", id: telosChainID + ":caleosblocks", wantChainRef: telosChainID, wantChainName: "telos", wantSubject: "caleosblocks"},
		{name: "upper case chain id", id: strings.ToUpper(telosChainID) + ":caleosblocks", wantErr: ErrChainNotFound},
		{name: "aliases are not resolved hierarchically", id: "eos:jungle:lioninjungle", wantErr: ErrChainNotFound},
		{name: "unknown chain name", id: "unknown:account", wantErr: ErrChainNotFound},
		{name: "unknown chain id", id: strings.Repeat("0", 64) + ":account", wantErr: ErrChainNotFound},
		{name: "account too long", id: "eos:invalidaccountname", wantErr: ErrInvalidDID},
		{name: "no account", id: "unknownchainid", wantErr: ErrInvalidDID},
		{name: "account ends with dot", id: "eos:account.", wantErr: ErrInvalidDID},
		{name: "upper case account", id: "eos:Account", wantErr: ErrInvalidDID},
		{name: "empty", id: "", wantErr: ErrInvalidDID},
		{name: "short chain id", id: "abcdef:account", wantErr: ErrChainNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.id, testRegistry())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantChainRef, got.ChainRef)
			assert.Equal(t, tt.wantChainName, got.ChainName)
			assert.Equal(t, tt.wantSubject, got.Subject)
			assert.Equal(t, tt.id, got.String())
		})
	}
}

func TestParseByNameAndByIDYieldSameChain(t *testing.T) {
	reg := testRegistry()

	byName, err := Parse("telos:caleosblocks", reg)
	require.NoError(t, err)
	byID, err := Parse(telosChainID+":caleosblocks", reg)
	require.NoError(t, err)

	assert.Equal(t, byName.Chain, byID.Chain)
	assert.Equal(t, byName.Subject, byID.Subject)
	assert.Equal(t, byName.ChainName, byID.ChainName)
}
