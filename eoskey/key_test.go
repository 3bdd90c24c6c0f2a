package eoskey

import (
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	jungleKey       = "PUB_K1_7ueKyvQJpBLVjuNgLedAgJakw3bLyd4GBx1N4jXswpBhE5SbJK"
	jungleKeyLegacy = "EOS7ueKyvQJpBLVjuNgLedAgJakw3bLyd4GBx1N4jXswpBhJif5mV"
	jungleKeyX      = "jbXSqQffgSNrtF4SBriENexUuXstjPDRFV_3PRCFU7o"
	jungleKeyY      = "J20YqTFJgZ3P5KXZBEcOmWX-Nxaqogtt4NyWtvx8Ryk"

	// P-256 generator point.
	r1Key  = "PUB_R1_7eQ5VMbyuk3TvqS38ngVGHbqeuHyK9ASXEw5kmDburVcEgJC8Z"
	waKey  = "PUB_WA_8GpfcLNtogpfw3yC4ZsMfJ5cPe5ug2eWPXsHK5iSCkbXigamvnpc2AWbDsAkv5cRy"
	p256GX = "axfR8uEsQkf4vOblY6RA8ncDfYEt6zOg9KE5RdiYwpY"
	p256GY = "T-NC4v4af5uO5-tKfA-eFivOM1drMV7Oy7ZAaDe_UfU"
)

func TestParsePublicKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		wantType KeyType
		wantErr  error
	}{
		{name: "K1 key", key: jungleKey, wantType: KeyTypeK1},
		{name: "legacy key", key: jungleKeyLegacy, wantType: KeyTypeK1},
		{name: "R1 key", key: r1Key, wantType: KeyTypeR1},
		{name: "WA key", key: waKey, wantType: KeyTypeWA},
		{name: "checksum mismatch", key: "PUB_K1_7ueKyvQJpBLVjuNgLedAgJakw3bLyd4GBx1N4jXswpBhE1ne8F", wantErr: ErrInvalidKey},
		{name: "legacy checksum uses no suffix", key: "EOS7ueKyvQJpBLVjuNgLedAgJakw3bLyd4GBx1N4jXswpBhE5SbJK", wantErr: ErrInvalidKey},
		{name: "unknown type", key: "PUB_XX_7ueKyvQJpBLVjuNgLedAgJakw3bLyd4GBx1N4jXswpBhE5SbJK", wantErr: ErrUnsupportedKeyType},
		{name: "missing type separator", key: "PUB_K17ueKy", wantErr: ErrInvalidKey},
		{name: "not base58", key: "PUB_K1_0OIl", wantErr: ErrInvalidKey},
		{name: "empty body", key: "PUB_K1_", wantErr: ErrInvalidKey},
		{name: "unknown prefix", key: "KEY7ueKyvQJpBLVjuNgLedAgJakw3bLyd4GBx1N4jXswpBhE5SbJK", wantErr: ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParsePublicKey(tt.key)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, key)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantType, key.Type)
			assert.True(t, key.IsValid())
		})
	}
}

func TestPublicKeyString(t *testing.T) {
	key, err := ParsePublicKey(jungleKeyLegacy)
	require.NoError(t, err)
	assert.Equal(t, jungleKey, key.String())
	assert.Equal(t, jungleKeyLegacy, key.LegacyString())

	r1, err := ParsePublicKey(r1Key)
	require.NoError(t, err)
	assert.Equal(t, r1Key, r1.String())
	assert.Equal(t, r1Key, r1.LegacyString())
}

func TestWebAuthnKeyFields(t *testing.T) {
	key, err := ParsePublicKey(waKey)
	require.NoError(t, err)
	assert.Equal(t, byte(1), key.UserPresence)
	assert.Equal(t, "localhost", key.RPID)
	assert.Equal(t, waKey, key.String())
}

func TestPointNotOnCurve(t *testing.T) {
	// checksum is valid, x = 5 has no square root on secp256k1
	key, err := ParsePublicKey("PUB_K1_4tVMTu4hrMTGeAQpAEzueCYqEESJQgkaH9DVJNnzK1mzu3qyQB")
	require.NoError(t, err)
	assert.False(t, key.IsValid())

	_, err = key.JWK()
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestK1PointIsOnCurve(t *testing.T) {
	key, err := ParsePublicKey(jungleKey)
	require.NoError(t, err)

	x, y, err := key.Point()
	require.NoError(t, err)
	assert.True(t, btcec.S256().IsOnCurve(x, y))
	assert.True(t, key.IsValid())
}

func TestReadVarUint32(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		want     uint32
		wantSize int
		wantErr  bool
	}{
		{name: "single byte", input: []byte{0x09}, want: 9, wantSize: 1},
		{name: "two bytes", input: []byte{0x80, 0x01}, want: 128, wantSize: 2},
		{name: "trailing data ignored", input: []byte{0x05, 'a', 'b'}, want: 5, wantSize: 1},
		{name: "max value", input: []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, want: 0xffffffff, wantSize: 5},
		{name: "overflows 32 bits", input: []byte{0xff, 0xff, 0xff, 0xff, 0x1f}, wantErr: true},
		{name: "truncated", input: []byte{0x80}, wantErr: true},
		{name: "empty", input: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, size, err := readVarUint32(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSize, size)
		})
	}
}

func TestWebAuthnRPIDLengthOverflow(t *testing.T) {
	key, err := ParsePublicKey(waKey)
	require.NoError(t, err)

	data := append([]byte{}, key.Data[:compressedKeySize+1]...)
	data = append(data, 0xff, 0xff, 0xff, 0xff, 0x1f)
	bad := &PublicKey{Type: KeyTypeWA, Data: data}
	assert.ErrorIs(t, bad.checkLayout(), ErrInvalidKey)
}

func TestEncodeJWK(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		wantJWK  JWK
		wantType string
	}{
		{
			name:     "secp256k1",
			key:      jungleKey,
			wantJWK:  JWK{Crv: CurveSecp256k1, Kty: "EC", X: jungleKeyX, Y: jungleKeyY, Kid: jungleKey},
			wantType: VerificationKeySecp256k1,
		},
		{
			name:     "legacy key gets canonical kid",
			key:      jungleKeyLegacy,
			wantJWK:  JWK{Crv: CurveSecp256k1, Kty: "EC", X: jungleKeyX, Y: jungleKeyY, Kid: jungleKey},
			wantType: VerificationKeySecp256k1,
		},
		{
			name:     "P-256",
			key:      r1Key,
			wantJWK:  JWK{Crv: CurveP256, Kty: "EC", X: p256GX, Y: p256GY, Kid: r1Key},
			wantType: VerificationKeyJWK2020,
		},
		{
			name:     "WebAuthn P-256",
			key:      waKey,
			wantJWK:  JWK{Crv: CurveP256, Kty: "EC", X: p256GX, Y: p256GY, Kid: waKey},
			wantType: VerificationKeyJWK2020,
		},
		{
			name:     "minimal width coordinate",
			key:      "PUB_K1_4tVMTu4hrMTGeAQpAEzueCYqEESJQgkaH9DVJNnzK1mzMz9Mjc",
			wantJWK:  JWK{Crv: CurveSecp256k1, Kty: "EC", X: "AQ", Y: "QhjyCubGRrNj22hgWCL7FCZMqNJYf91vvHUNWH52p-4", Kid: "PUB_K1_4tVMTu4hrMTGeAQpAEzueCYqEESJQgkaH9DVJNnzK1mzMz9Mjc"},
			wantType: VerificationKeySecp256k1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwk, methodType, err := EncodeJWK(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantJWK, *jwk)
			assert.Equal(t, tt.wantType, methodType)
		})
	}
}

func TestJWKCoordinatesRoundTrip(t *testing.T) {
	key, err := ParsePublicKey(jungleKey)
	require.NoError(t, err)
	x, y, err := key.Point()
	require.NoError(t, err)

	jwk, err := key.JWK()
	require.NoError(t, err)

	gotX, err := DecodeInt(jwk.X)
	require.NoError(t, err)
	gotY, err := DecodeInt(jwk.Y)
	require.NoError(t, err)
	assert.Equal(t, 0, x.Cmp(gotX))
	assert.Equal(t, 0, y.Cmp(gotY))
}

func TestEncodeInt(t *testing.T) {
	n := big.NewInt(1234567890)
	encoded := EncodeInt(n)
	assert.Equal(t, "SZYC0g", encoded)
	assert.Equal(t, "AA", EncodeInt(big.NewInt(0)))
	assert.Equal(t, "AQ", EncodeInt(big.NewInt(1)))

	decoded, err := DecodeInt(encoded)
	require.NoError(t, err)
	assert.Equal(t, n.String(), decoded.String())

	_, err = DecodeInt("not base64!")
	assert.Error(t, err)
}
