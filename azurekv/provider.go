// Package azurekv builds a field-crypto Engine from keys wrapped by Azure Key Vault.
//
// Wrapped key material is unwrapped with the UnwrapKey operation once, at
// construction. The unwrapped bytes are copied into the engine and zeroed.
//
// Usage:
//
//	cred, err := azidentity.NewDefaultAzureCredential(nil)
//	client, err := azkeys.NewClient("https://my-vault.vault.azure.net/", cred, nil)
//
//	engine, err := azurekv.New(ctx, client,
//	    azurekv.WithWrappedKey(wrappedKeyBytes, "my-key-name", "key-version"),
//	)
package azurekv

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azkeys"
	crypto "github.com/rbaliyan/field-crypto"
)

// Client is the subset of the Azure Key Vault API used by this package.
type Client interface {
	UnwrapKey(ctx context.Context, keyName string, keyVersion string, parameters azkeys.KeyOperationParameters, options *azkeys.UnwrapKeyOptions) (azkeys.UnwrapKeyResponse, error)
}

// Option configures New.
type Option func(*options)

type options struct {
	wrappedKeys []wrappedKeyEntry
	engineOpts  []crypto.Option
}

type wrappedKeyEntry struct {
	ciphertext []byte
	keyName    string
	keyVersion string
	algorithm  azkeys.EncryptionAlgorithm
}

// WithWrappedKey adds a wrapped key to be unwrapped via Key Vault.
// The keyName and keyVersion identify the Key Vault key used for wrapping.
// Uses RSA-OAEP-256. The first key added becomes the current key for new
// encryptions.
func WithWrappedKey(ciphertext []byte, keyName, keyVersion string) Option {
	return WithWrappedKeyAlgorithm(ciphertext, keyName, keyVersion, azkeys.EncryptionAlgorithmRSAOAEP256)
}

// WithWrappedKeyAlgorithm is like WithWrappedKey but allows specifying the unwrap algorithm.
func WithWrappedKeyAlgorithm(ciphertext []byte, keyName, keyVersion string, alg azkeys.EncryptionAlgorithm) Option {
	return func(o *options) {
		o.wrappedKeys = append(o.wrappedKeys, wrappedKeyEntry{
			ciphertext: ciphertext,
			keyName:    keyName,
			keyVersion: keyVersion,
			algorithm:  alg,
		})
	}
}

// WithEngineOptions passes options through to crypto.NewEngine.
func WithEngineOptions(opts ...crypto.Option) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// New unwraps every configured key with Azure Key Vault and builds an Engine.
//
// At least one key must be provided via WithWrappedKey. The first key is the
// current key for new encryptions; the others are only used to decrypt.
// The Key Vault client is not retained.
func New(ctx context.Context, client Client, opts ...Option) (*crypto.Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.wrappedKeys) == 0 {
		return nil, fmt.Errorf("azurekv: at least one wrapped key is required")
	}

	keys := make([][]byte, 0, len(o.wrappedKeys))
	defer func() {
		for _, k := range keys {
			clear(k)
		}
	}()
	for i, wk := range o.wrappedKeys {
		resp, err := client.UnwrapKey(ctx, wk.keyName, wk.keyVersion, azkeys.KeyOperationParameters{
			Algorithm: &wk.algorithm,
			Value:     wk.ciphertext,
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("azurekv: failed to unwrap key %d: %w", i, err)
		}
		keys = append(keys, resp.Result)
	}

	cfg := crypto.SimpleConfig{Key: crypto.KeyBytes(keys[0])}
	for _, k := range keys[1:] {
		cfg.PreviousKeys = append(cfg.PreviousKeys, crypto.KeyBytes(k))
	}

	engine, err := crypto.NewEngine(cfg, o.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("azurekv: %w", err)
	}
	return engine, nil
}
