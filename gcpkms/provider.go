// Package gcpkms builds a field-crypto Engine from keys wrapped by Google Cloud KMS.
//
// Wrapped key material is unwrapped with the CryptoKeys.Decrypt RPC once, at
// construction. The unwrapped bytes are copied into the engine and zeroed.
//
// Usage:
//
//	client, err := kms.NewKeyManagementClient(ctx)
//	engine, err := gcpkms.New(ctx, client,
//	    gcpkms.WithEncryptedKey(ciphertext, resourceName),
//	)
package gcpkms

import (
	"context"
	"fmt"

	kmspb "cloud.google.com/go/kms/apiv1/kmspb"
	crypto "github.com/rbaliyan/field-crypto"
)

// Client is the subset of the GCP Cloud KMS API used by this package.
type Client interface {
	Decrypt(ctx context.Context, req *kmspb.DecryptRequest) (*kmspb.DecryptResponse, error)
}

// Option configures New.
type Option func(*options)

type options struct {
	encryptedKeys []encryptedKeyEntry
	engineOpts    []crypto.Option
}

type encryptedKeyEntry struct {
	ciphertext   []byte
	resourceName string // projects/*/locations/*/keyRings/*/cryptoKeys/*
}

// WithEncryptedKey adds an encrypted key to be unwrapped via Cloud KMS Decrypt.
// The resourceName is the full Cloud KMS CryptoKey resource name.
// The first key added becomes the current key for new encryptions.
func WithEncryptedKey(ciphertext []byte, resourceName string) Option {
	return func(o *options) {
		o.encryptedKeys = append(o.encryptedKeys, encryptedKeyEntry{
			ciphertext:   ciphertext,
			resourceName: resourceName,
		})
	}
}

// WithEngineOptions passes options through to crypto.NewEngine.
func WithEngineOptions(opts ...crypto.Option) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// New unwraps every configured key with Cloud KMS and builds an Engine.
//
// At least one key must be provided via WithEncryptedKey. The first key is
// the current key for new encryptions; the others are only used to decrypt.
// The KMS client is not retained.
func New(ctx context.Context, client Client, opts ...Option) (*crypto.Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.encryptedKeys) == 0 {
		return nil, fmt.Errorf("gcpkms: at least one encrypted key is required")
	}

	keys := make([][]byte, 0, len(o.encryptedKeys))
	defer func() {
		for _, k := range keys {
			clear(k)
		}
	}()
	for i, ek := range o.encryptedKeys {
		resp, err := client.Decrypt(ctx, &kmspb.DecryptRequest{
			Name:       ek.resourceName,
			Ciphertext: ek.ciphertext,
		})
		if err != nil {
			return nil, fmt.Errorf("gcpkms: failed to decrypt key %d: %w", i, err)
		}
		keys = append(keys, resp.Plaintext)
	}

	cfg := crypto.SimpleConfig{Key: crypto.KeyBytes(keys[0])}
	for _, k := range keys[1:] {
		cfg.PreviousKeys = append(cfg.PreviousKeys, crypto.KeyBytes(k))
	}

	engine, err := crypto.NewEngine(cfg, o.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("gcpkms: %w", err)
	}
	return engine, nil
}
