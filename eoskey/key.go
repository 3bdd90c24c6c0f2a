// Package eoskey decodes EOSIO public key strings and renders them as
// JSON Web Keys.
//
// Supported string forms:
//   - legacy "EOS..." keys (secp256k1)
//   - "PUB_K1_..." secp256k1 keys
//   - "PUB_R1_..." NIST P-256 keys
//   - "PUB_WA_..." WebAuthn P-256 keys
package eoskey

import (
	"bytes"
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160"
)

// KeyType is the curve family encoded in an EOSIO key string.
type KeyType uint8

// KeyType constants.
const (
	KeyTypeK1 KeyType = iota
	KeyTypeR1
	KeyTypeWA
)

const (
	legacyPrefix      = "EOS"
	modernPrefix      = "PUB_"
	compressedKeySize = 33
	checksumSize      = 4
)

var (
	// ErrInvalidKey is returned when a key string fails to decode, its
	// checksum does not match, or its point is not on the curve.
	ErrInvalidKey = errors.New("invalid EOSIO public key")
	// ErrUnsupportedKeyType is returned for key type suffixes other than
	// K1, R1 and WA.
	ErrUnsupportedKeyType = errors.New("unsupported EOSIO key type")
)

// String returns the suffix used in "PUB_<type>_" key strings.
func (t KeyType) String() string {
	switch t {
	case KeyTypeK1:
		return "K1"
	case KeyTypeR1:
		return "R1"
	case KeyTypeWA:
		return "WA"
	default:
		return "unknown"
	}
}

// ParseKeyType converts a key string suffix to a KeyType.
func ParseKeyType(s string) (KeyType, error) {
	switch s {
	case "K1":
		return KeyTypeK1, nil
	case "R1":
		return KeyTypeR1, nil
	case "WA":
		return KeyTypeWA, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedKeyType, s)
	}
}

// PublicKey is a decoded EOSIO public key.
type PublicKey struct {
	Type KeyType
	// Data is the checksummed payload. For K1 and R1 keys it is the 33 byte
	// compressed point; WebAuthn keys append the user presence flag and the
	// relying party id.
	Data []byte
	// UserPresence and RPID are only set for WebAuthn keys.
	UserPresence byte
	RPID         string
}

// ParsePublicKey decodes a legacy or "PUB_" prefixed key string and verifies
// its checksum.
func ParsePublicKey(s string) (*PublicKey, error) {
	switch {
	case strings.HasPrefix(s, modernPrefix):
		suffix, encoded, ok := strings.Cut(s[len(modernPrefix):], "_")
		if !ok {
			return nil, fmt.Errorf("%w: missing key type in %q", ErrInvalidKey, s)
		}
		keyType, err := ParseKeyType(suffix)
		if err != nil {
			return nil, err
		}
		data, err := decodeChecked(encoded, []byte(suffix))
		if err != nil {
			return nil, err
		}
		key := &PublicKey{Type: keyType, Data: data}
		if err := key.checkLayout(); err != nil {
			return nil, err
		}
		return key, nil

	case strings.HasPrefix(s, legacyPrefix):
		data, err := decodeChecked(s[len(legacyPrefix):], nil)
		if err != nil {
			return nil, err
		}
		key := &PublicKey{Type: KeyTypeK1, Data: data}
		if err := key.checkLayout(); err != nil {
			return nil, err
		}
		return key, nil

	default:
		return nil, fmt.Errorf("%w: unrecognised prefix in %q", ErrInvalidKey, s)
	}
}

// String renders the key in its canonical "PUB_<type>_" form.
func (k *PublicKey) String() string {
	suffix := k.Type.String()
	return modernPrefix + suffix + "_" + encodeChecked(k.Data, []byte(suffix))
}

// LegacyString renders a K1 key in the "EOS" form. Other key types have no
// legacy form and render canonically.
func (k *PublicKey) LegacyString() string {
	if k.Type != KeyTypeK1 {
		return k.String()
	}
	return legacyPrefix + encodeChecked(k.Data, nil)
}

// Point returns the affine coordinates of the key's curve point.
func (k *PublicKey) Point() (*big.Int, *big.Int, error) {
	if len(k.Data) < compressedKeySize {
		return nil, nil, fmt.Errorf("%w: payload is %d bytes", ErrInvalidKey, len(k.Data))
	}
	compressed := k.Data[:compressedKeySize]

	switch k.Type {
	case KeyTypeK1:
		pub, err := secp256k1.ParsePubKey(compressed)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return pub.X(), pub.Y(), nil
	case KeyTypeR1, KeyTypeWA:
		x, y := elliptic.UnmarshalCompressed(elliptic.P256(), compressed)
		if x == nil {
			return nil, nil, fmt.Errorf("%w: point is not on P-256", ErrInvalidKey)
		}
		return x, y, nil
	default:
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedKeyType, k.Type)
	}
}

// IsValid reports whether the key's point decodes on its curve.
func (k *PublicKey) IsValid() bool {
	if k.Type == KeyTypeK1 && len(k.Data) >= compressedKeySize {
		_, err := btcec.ParsePubKey(k.Data[:compressedKeySize])
		return err == nil
	}
	_, _, err := k.Point()
	return err == nil
}

func (k *PublicKey) checkLayout() error {
	switch k.Type {
	case KeyTypeK1, KeyTypeR1:
		if len(k.Data) != compressedKeySize {
			return fmt.Errorf("%w: %s payload must be %d bytes, got %d", ErrInvalidKey, k.Type, compressedKeySize, len(k.Data))
		}
		return nil
	case KeyTypeWA:
		// point || user presence || varuint32 length || rpid
		if len(k.Data) < compressedKeySize+2 {
			return fmt.Errorf("%w: WA payload too short", ErrInvalidKey)
		}
		k.UserPresence = k.Data[compressedKeySize]
		n, size, err := readVarUint32(k.Data[compressedKeySize+1:])
		if err != nil {
			return err
		}
		rest := k.Data[compressedKeySize+1+size:]
		if uint64(len(rest)) != uint64(n) {
			return fmt.Errorf("%w: WA rpid length %d does not match remaining %d bytes", ErrInvalidKey, n, len(rest))
		}
		k.RPID = string(rest)
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedKeyType, k.Type)
	}
}

func decodeChecked(encoded string, suffix []byte) ([]byte, error) {
	if encoded == "" {
		return nil, fmt.Errorf("%w: empty key body", ErrInvalidKey)
	}
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) <= checksumSize {
		return nil, fmt.Errorf("%w: key body too short", ErrInvalidKey)
	}

	payload := raw[:len(raw)-checksumSize]
	if !bytes.Equal(raw[len(raw)-checksumSize:], checksum(payload, suffix)) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidKey)
	}
	return payload, nil
}

func encodeChecked(payload, suffix []byte) string {
	buf := make([]byte, 0, len(payload)+checksumSize)
	buf = append(buf, payload...)
	buf = append(buf, checksum(payload, suffix)...)
	return base58.Encode(buf)
}

// checksum is the first four bytes of ripemd160(payload || suffix).
func checksum(payload, suffix []byte) []byte {
	h := ripemd160.New()
	h.Write(payload)
	h.Write(suffix)
	return h.Sum(nil)[:checksumSize]
}

func readVarUint32(b []byte) (uint32, int, error) {
	var v uint32
	for i := 0; i < len(b) && i < 5; i++ {
		if i == 4 && b[i] > 0x0f {
			return 0, 0, fmt.Errorf("%w: varuint32 overflows 32 bits", ErrInvalidKey)
		}
		v |= uint32(b[i]&0x7f) << (7 * i)
		if b[i]&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: malformed varuint32", ErrInvalidKey)
}
