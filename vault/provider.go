// Package vault builds a field-crypto Engine from keys wrapped by the HashiCorp
// Vault Transit secrets engine.
//
// Wrapped key material is unwrapped with the Transit decrypt endpoint once, at
// construction. The unwrapped bytes are copied into the engine and zeroed.
//
// Usage:
//
//	client := myTransitClient{...} // wraps any Vault client library
//	engine, err := vault.New(ctx, client,
//	    vault.WithEncryptedKey(ciphertext, "my-transit-key"),
//	)
package vault

import (
	"context"
	"fmt"

	crypto "github.com/rbaliyan/field-crypto"
)

// Client abstracts the Vault Transit decrypt operation.
// This allows injecting a mock for testing or wrapping any Vault client library.
type Client interface {
	// TransitDecrypt decrypts ciphertext using the named Transit key.
	// The ciphertext should be in Vault's format (e.g., "vault:v1:base64data").
	// Returns the plaintext bytes.
	TransitDecrypt(ctx context.Context, keyName string, ciphertext string) ([]byte, error)
}

// Option configures New.
type Option func(*options)

type options struct {
	encryptedKeys []encryptedKeyEntry
	engineOpts    []crypto.Option
}

type encryptedKeyEntry struct {
	ciphertext     string // Vault Transit ciphertext (e.g., "vault:v1:...")
	transitKeyName string
}

// WithEncryptedKey adds a Transit-encrypted key to be decrypted at construction time.
// The transitKeyName is the name of the Transit key in Vault.
// The first key added becomes the current key for new encryptions.
func WithEncryptedKey(ciphertext string, transitKeyName string) Option {
	return func(o *options) {
		o.encryptedKeys = append(o.encryptedKeys, encryptedKeyEntry{
			ciphertext:     ciphertext,
			transitKeyName: transitKeyName,
		})
	}
}

// WithEngineOptions passes options through to crypto.NewEngine.
func WithEngineOptions(opts ...crypto.Option) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// New decrypts every configured key with Vault Transit and builds an Engine.
//
// At least one key must be provided via WithEncryptedKey. The first key is the
// current key for new encryptions; the others are only used to decrypt.
// The Vault client is not retained.
func New(ctx context.Context, client Client, opts ...Option) (*crypto.Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.encryptedKeys) == 0 {
		return nil, fmt.Errorf("vault: at least one encrypted key is required")
	}

	keys := make([][]byte, 0, len(o.encryptedKeys))
	defer func() {
		for _, k := range keys {
			clear(k)
		}
	}()
	for i, ek := range o.encryptedKeys {
		plaintext, err := client.TransitDecrypt(ctx, ek.transitKeyName, ek.ciphertext)
		if err != nil {
			return nil, fmt.Errorf("vault: failed to decrypt key %d: %w", i, err)
		}
		keys = append(keys, plaintext)
	}

	cfg := crypto.SimpleConfig{Key: crypto.KeyBytes(keys[0])}
	for _, k := range keys[1:] {
		cfg.PreviousKeys = append(cfg.PreviousKeys, crypto.KeyBytes(k))
	}

	engine, err := crypto.NewEngine(cfg, o.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("vault: %w", err)
	}
	return engine, nil
}
