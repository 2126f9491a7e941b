package crypto

import (
	"context"
	"fmt"
)

// Decrypter decrypts envelopes with an ordered set of candidate keys:
// conventionally the current key first, then keys being rotated out.
// It is safe for concurrent use.
type Decrypter struct {
	keys *keySet
	tel  *telemetry
}

// NewDecrypter creates a Decrypter for the given keys.
// It fails immediately with ErrEmptyKeyList for no keys and with
// ErrInvalidKeyLength if any key is not 32 bytes.
// Key bytes are copied; the caller may zero the originals after construction.
//
// Keys are prepared on the first call to Decrypt.
func NewDecrypter(keys [][]byte, opts ...Option) (*Decrypter, error) {
	ks, err := newKeySet(keys)
	if err != nil {
		return nil, err
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	tel, err := newTelemetry(o)
	if err != nil {
		return nil, err
	}
	return &Decrypter{keys: ks, tel: tel}, nil
}

// Digests returns the digests of the candidate keys in configured order.
func (d *Decrypter) Digests() ([]string, error) {
	handles, err := d.keys.handles()
	if err != nil {
		return nil, err
	}
	digests := make([]string, len(handles))
	for i, h := range handles {
		digests[i] = h.digest
	}
	return digests, nil
}

// Decrypt decrypts an envelope produced by an Encrypter.
//
// It fails with ErrMalformedEnvelope if the string is not a well-formed
// envelope, and with ErrDecryptionFailed if no candidate key has the
// envelope's digest or every matching key fails authentication.
func (d *Decrypter) Decrypt(ctx context.Context, envelope string) (string, error) {
	op := d.tel.begin(ctx, opDecrypt)
	plaintext, err := d.decrypt(op, envelope)
	op.end(err)
	return plaintext, err
}

func (d *Decrypter) decrypt(op *operation, s string) (string, error) {
	env, err := parseEnvelope(s)
	if err != nil {
		d.tel.logger.DebugContext(op.ctx, "rejected malformed envelope", "error", err)
		return "", ErrMalformedEnvelope
	}
	op.annotate(env.meta.Algorithm, env.meta.KeyDigest)

	if !env.meta.Algorithm.Supported() {
		d.tel.logger.DebugContext(op.ctx, "unsupported envelope algorithm",
			"alg", string(env.meta.Algorithm), "kid", env.meta.KeyDigest)
		return "", fmt.Errorf("%w: %w %q", ErrDecryptionFailed, ErrUnsupportedAlgorithm, env.meta.Algorithm)
	}

	matched, err := d.keys.lookup(env.meta.KeyDigest)
	if err != nil {
		return "", err
	}
	if len(matched) == 0 {
		d.tel.logger.DebugContext(op.ctx, "no key matches envelope", "kid", env.meta.KeyDigest)
		return "", fmt.Errorf("%w: no key matches digest %s", ErrDecryptionFailed, env.meta.KeyDigest)
	}

	for _, h := range matched {
		plaintext, err := h.aeads[env.meta.Algorithm].Open(nil, env.nonce, env.ciphertext, nil)
		if err == nil {
			return string(plaintext), nil
		}
	}

	d.tel.logger.DebugContext(op.ctx, "envelope authentication failed",
		"alg", string(env.meta.Algorithm), "kid", env.meta.KeyDigest, "candidates", len(matched))
	return "", fmt.Errorf("%w: authentication failed", ErrDecryptionFailed)
}
