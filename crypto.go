// Package crypto encrypts individual string field values into self-describing
// envelopes and supports key rotation.
//
// An envelope has the form
//
//	base64(metadata-json) "." base64(iv || ciphertext || tag)
//
// where the metadata is {"v":1,"alg":"AES-256-GCM","kid":"<key digest>"}.
// The key digest lets a Decrypter holding several keys pick the right one, so
// a new key can be introduced for writes while older keys remain available
// for reads, without re-encrypting stored data.
//
// Encryption is intentionally non-deterministic: equal plaintexts produce
// different envelopes, so envelopes cannot be compared for equality.
package crypto

import (
	"context"
	"fmt"
)

// FieldCipher encrypts and decrypts field values on behalf of a persistence
// layer. model and field identify the value being processed; the built-in
// engine ignores them and CustomConfig functions receive them unchanged.
type FieldCipher interface {
	EncryptField(ctx context.Context, model string, field any, value string) (string, error)
	DecryptField(ctx context.Context, model string, field any, value string) (string, error)
}

// New creates a FieldCipher for cfg.
//
// For a SimpleConfig the result is an *Engine (see NewEngine). For a CustomConfig,
// options are ignored and both functions must be set.
func New(cfg Config, opts ...Option) (FieldCipher, error) {
	switch c := cfg.(type) {
	case SimpleConfig:
		e, err := NewEngine(c, opts...)
		if err != nil {
			return nil, err
		}
		return e, nil
	case CustomConfig:
		if c.Encrypt == nil || c.Decrypt == nil {
			return nil, fmt.Errorf("%w: custom config requires both Encrypt and Decrypt", ErrInvalidConfig)
		}
		return customCipher{cfg: c}, nil
	case nil:
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	default:
		return nil, fmt.Errorf("%w: unknown config type %T", ErrInvalidConfig, cfg)
	}
}

// Engine is the FieldCipher for SimpleConfig: an Encrypter for the current
// key and a Decrypter for the current and previous keys.
type Engine struct {
	Encrypter *Encrypter
	Decrypter *Decrypter
}

// NewEngine builds an Engine from cfg. Options apply to both halves.
// Derived key bytes are copied, so cfg may be zeroed afterwards.
func NewEngine(cfg SimpleConfig, opts ...Option) (*Engine, error) {
	current, candidates, err := cfg.keys()
	if err != nil {
		return nil, err
	}
	enc, err := NewEncrypter(current, opts...)
	if err != nil {
		return nil, err
	}
	dec, err := NewDecrypter(candidates, opts...)
	if err != nil {
		return nil, err
	}
	return &Engine{Encrypter: enc, Decrypter: dec}, nil
}

// EncryptField encrypts value with the current key.
func (e *Engine) EncryptField(ctx context.Context, _ string, _ any, value string) (string, error) {
	return e.Encrypter.Encrypt(ctx, value)
}

// DecryptField decrypts value with whichever configured key produced it.
func (e *Engine) DecryptField(ctx context.Context, _ string, _ any, value string) (string, error) {
	return e.Decrypter.Decrypt(ctx, value)
}

// customCipher is the FieldCipher for CustomConfig.
type customCipher struct {
	cfg CustomConfig
}

func (c customCipher) EncryptField(ctx context.Context, model string, field any, value string) (string, error) {
	return c.cfg.Encrypt(ctx, model, field, value)
}

func (c customCipher) DecryptField(ctx context.Context, model string, field any, value string) (string, error) {
	return c.cfg.Decrypt(ctx, model, field, value)
}

// Compile-time interface checks.
var (
	_ FieldCipher = (*Engine)(nil)
	_ FieldCipher = customCipher{}
)
