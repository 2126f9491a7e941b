package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm identifies the AEAD used to produce an envelope.
// The value is written verbatim into the envelope metadata.
type Algorithm string

const (
	// AES256GCM is AES-256 in Galois/Counter Mode. It is the default.
	AES256GCM Algorithm = "AES-256-GCM"

	// ChaCha20Poly1305 is ChaCha20-Poly1305 (RFC 8439).
	ChaCha20Poly1305 Algorithm = "ChaCha20-Poly1305"
)

// algorithms lists every supported algorithm. All of them take a 32-byte key,
// a 12-byte nonce and append a 16-byte tag, so the payload layout is shared.
var algorithms = []Algorithm{AES256GCM, ChaCha20Poly1305}

// Supported reports whether alg is a known algorithm.
func (alg Algorithm) Supported() bool {
	switch alg {
	case AES256GCM, ChaCha20Poly1305:
		return true
	default:
		return false
	}
}

// newAEAD creates the cipher for alg keyed with key.
func newAEAD(alg Algorithm, key []byte) (cipher.AEAD, error) {
	switch alg {
	case AES256GCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("crypto: failed to create AES cipher: %w", err)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("crypto: failed to create GCM: %w", err)
		}
		return gcm, nil
	case ChaCha20Poly1305:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("crypto: failed to create ChaCha20-Poly1305: %w", err)
		}
		return aead, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
}
