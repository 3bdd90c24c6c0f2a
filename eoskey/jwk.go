package eoskey

import (
	"encoding/base64"
	"fmt"
	"math/big"
)

// Verification method types emitted for each curve.
const (
	VerificationKeySecp256k1 = "EcdsaSecp256k1VerificationKey2019"
	VerificationKeyJWK2020   = "JsonWebKey2020"
)

// JWK curve names.
const (
	CurveSecp256k1 = "secp256k1"
	CurveP256      = "P-256"
)

// JWK represents an elliptic curve JSON Web Key.
type JWK struct {
	Crv string `json:"crv"`
	Kty string `json:"kty"`
	X   string `json:"x"`
	Y   string `json:"y"`
	Kid string `json:"kid,omitempty"`
}

// Curve returns the JWK curve name and verification method type for the key.
func (k *PublicKey) Curve() (string, string, error) {
	switch k.Type {
	case KeyTypeK1:
		return CurveSecp256k1, VerificationKeySecp256k1, nil
	case KeyTypeR1, KeyTypeWA:
		return CurveP256, VerificationKeyJWK2020, nil
	default:
		return "", "", fmt.Errorf("%w: %d", ErrUnsupportedKeyType, k.Type)
	}
}

// JWK converts the key to a JSON Web Key. The kid is the canonical key string.
func (k *PublicKey) JWK() (*JWK, error) {
	crv, _, err := k.Curve()
	if err != nil {
		return nil, err
	}
	x, y, err := k.Point()
	if err != nil {
		return nil, err
	}

	return &JWK{
		Crv: crv,
		Kty: "EC",
		X:   EncodeInt(x),
		Y:   EncodeInt(y),
		Kid: k.String(),
	}, nil
}

// EncodeJWK parses an EOSIO key string and returns its JWK together with the
// verification method type matching its curve.
func EncodeJWK(key string) (*JWK, string, error) {
	pub, err := ParsePublicKey(key)
	if err != nil {
		return nil, "", err
	}
	_, methodType, err := pub.Curve()
	if err != nil {
		return nil, "", err
	}
	jwk, err := pub.JWK()
	if err != nil {
		return nil, "", err
	}
	return jwk, methodType, nil
}

// EncodeInt encodes n as the unpadded base64url form of its minimal
// big-endian bytes (RFC 7517 appendix A.1). No left padding to the curve's
// coordinate size is applied; zero encodes as a single zero byte.
func EncodeInt(n *big.Int) string {
	if n.Sign() == 0 {
		return base64.RawURLEncoding.EncodeToString([]byte{0})
	}
	return base64.RawURLEncoding.EncodeToString(n.Bytes())
}

// DecodeInt reverses EncodeInt.
func DecodeInt(s string) (*big.Int, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64url integer: %w", err)
	}
	return new(big.Int).SetBytes(b), nil
}
