package crypto

import (
	"context"
	"fmt"
	"io"
)

// Encrypter encrypts strings into envelopes with a single key.
// It is safe for concurrent use.
type Encrypter struct {
	keys   *keySet
	alg    Algorithm
	random io.Reader
	tel    *telemetry
}

// NewEncrypter creates an Encrypter for a 32-byte key.
// A key of any other length fails immediately with ErrInvalidKeyLength.
// Key bytes are copied; the caller may zero the original after construction.
func NewEncrypter(key []byte, opts ...Option) (*Encrypter, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeyLength, len(key))
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	keys, err := newKeySet([][]byte{key})
	if err != nil {
		return nil, err
	}
	tel, err := newTelemetry(o)
	if err != nil {
		return nil, err
	}
	return &Encrypter{
		keys:   keys,
		alg:    o.algorithm,
		random: o.random,
		tel:    tel,
	}, nil
}

// Algorithm returns the algorithm used for new envelopes.
func (e *Encrypter) Algorithm() Algorithm {
	return e.alg
}

// Digest returns the digest of the encryption key, as written to envelopes.
func (e *Encrypter) Digest() (string, error) {
	handles, err := e.keys.handles()
	if err != nil {
		return "", err
	}
	return handles[0].digest, nil
}

// Encrypt encrypts plaintext and returns an envelope string.
// Every call uses a fresh random IV, so equal plaintexts give different envelopes.
func (e *Encrypter) Encrypt(ctx context.Context, plaintext string) (string, error) {
	op := e.tel.begin(ctx, opEncrypt)
	envelope, err := e.encrypt(op, plaintext)
	op.end(err)
	return envelope, err
}

func (e *Encrypter) encrypt(op *operation, plaintext string) (string, error) {
	handles, err := e.keys.handles()
	if err != nil {
		return "", err
	}
	h := handles[0]
	op.annotate(e.alg, h.digest)

	aead := h.aeads[e.alg]
	payload := make([]byte, nonceSize, nonceSize+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(e.random, payload); err != nil {
		return "", fmt.Errorf("crypto: failed to generate IV: %w", err)
	}
	nonce := payload[:nonceSize:nonceSize]
	payload = aead.Seal(payload, nonce, []byte(plaintext), nil)

	return encodeEnvelope(metadata{
		Version:   formatVersion,
		Algorithm: e.alg,
		KeyDigest: h.digest,
	}, payload)
}
