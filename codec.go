package crypto

import (
	"context"
	"fmt"

	"github.com/rbaliyan/config/codec"
)

// Codec wraps an inner codec with envelope encryption for config stores.
// On Encode, the inner codec serializes the value and the result is encrypted
// into an envelope. On Decode, the envelope is decrypted and the inner codec
// deserializes the plaintext.
//
// Codec is safe for concurrent use if the inner codec is.
type Codec struct {
	inner codec.Codec
	enc   *Encrypter
	dec   *Decrypter
	name  string
}

// Compile-time interface check.
var _ codec.Codec = (*Codec)(nil)

// NewCodec creates an encrypting codec that wraps the given inner codec.
// The codec name is "encrypted:<inner>", e.g. "encrypted:json".
// Returns an error if any argument is nil.
func NewCodec(inner codec.Codec, enc *Encrypter, dec *Decrypter) (*Codec, error) {
	if inner == nil {
		return nil, fmt.Errorf("crypto: NewCodec inner codec is nil")
	}
	if enc == nil {
		return nil, fmt.Errorf("crypto: NewCodec encrypter is nil")
	}
	if dec == nil {
		return nil, fmt.Errorf("crypto: NewCodec decrypter is nil")
	}
	return &Codec{
		inner: inner,
		enc:   enc,
		dec:   dec,
		name:  "encrypted:" + inner.Name(),
	}, nil
}

// Name returns the codec name, e.g. "encrypted:json".
func (c *Codec) Name() string {
	return c.name
}

// Encode serializes the value using the inner codec, then encrypts the result.
func (c *Codec) Encode(v any) ([]byte, error) {
	plaintext, err := c.inner.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("crypto: inner encode failed: %w", err)
	}

	envelope, err := c.enc.Encrypt(context.Background(), string(plaintext))
	if err != nil {
		return nil, fmt.Errorf("crypto: encrypt failed: %w", err)
	}
	return []byte(envelope), nil
}

// Decode decrypts the data, then deserializes the plaintext using the inner codec.
func (c *Codec) Decode(data []byte, v any) error {
	plaintext, err := c.dec.Decrypt(context.Background(), string(data))
	if err != nil {
		return fmt.Errorf("crypto: decrypt failed: %w", err)
	}

	if err := c.inner.Decode([]byte(plaintext), v); err != nil {
		return fmt.Errorf("crypto: inner decode failed: %w", err)
	}
	return nil
}
