package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// KeySize is the required key size in bytes (AES-256).
const KeySize = 32

// Secret is key material accepted by DeriveKey.
// It is implemented by KeyBytes and KeyString only.
type Secret interface {
	deriveKey() ([]byte, error)
}

// KeyBytes is raw key material. It must be exactly KeySize bytes.
type KeyBytes []byte

// KeyString is a secret string that is hashed into a key with SHA-256.
//
// WARNING: this is NOT a password-based key derivation function. There is no
// salt, no iteration count and no memory cost, so the resulting key is only as
// strong as the string itself. Only use high-entropy strings (for example 32+
// random characters from a secret manager), never human-chosen passwords.
type KeyString string

func (k KeyBytes) deriveKey() ([]byte, error) {
	if len(k) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(k))
	}
	return k, nil
}

func (k KeyString) deriveKey() ([]byte, error) {
	sum := sha256.Sum256([]byte(k))
	return sum[:], nil
}

// DeriveKey turns a Secret into a 32-byte key.
//
// KeyBytes of the right length are returned unchanged; any other length fails
// with ErrInvalidKeyLength. KeyString is hashed with SHA-256, so the same string
// always yields the same key. See KeyString for why this must not be fed
// low-entropy input.
func DeriveKey(secret Secret) ([]byte, error) {
	if secret == nil {
		return nil, fmt.Errorf("%w: no key material", ErrInvalidKeyLength)
	}
	return secret.deriveKey()
}

// ParseSecret parses textual key material as found in configuration.
//
//	base64:<standard base64>   raw key bytes
//	hex:<hex>                  raw key bytes
//	anything else              KeyString
//
// Prefixed forms must decode to exactly KeySize bytes.
func ParseSecret(s string) (Secret, error) {
	switch {
	case strings.HasPrefix(s, "base64:"):
		b, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, "base64:"))
		if err != nil {
			return nil, fmt.Errorf("crypto: invalid base64 key: %w", err)
		}
		if len(b) != KeySize {
			return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(b))
		}
		return KeyBytes(b), nil
	case strings.HasPrefix(s, "hex:"):
		b, err := hex.DecodeString(strings.TrimPrefix(s, "hex:"))
		if err != nil {
			return nil, fmt.Errorf("crypto: invalid hex key: %w", err)
		}
		if len(b) != KeySize {
			return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(b))
		}
		return KeyBytes(b), nil
	default:
		return KeyString(s), nil
	}
}

// GenerateKey returns a new random 32-byte key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("crypto: failed to generate key: %w", err)
	}
	return key, nil
}

// Digest returns the key identifier embedded in envelopes produced with key.
// Equal key bytes always produce equal digests.
func Digest(key []byte) string {
	sum := sha256.Sum256(key)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
