// Package awskms builds a field-crypto Engine from keys wrapped by AWS KMS.
//
// Wrapped key material is unwrapped with KMS Decrypt once, at construction.
// The unwrapped bytes are copied into the engine and zeroed.
//
// Usage:
//
//	cfg, err := awsconfig.LoadDefaultConfig(ctx)
//	kmsClient := kms.NewFromConfig(cfg)
//
//	engine, err := awskms.New(ctx, kmsClient,
//	    awskms.WithEncryptedKey(currentKeyBlob),
//	    awskms.WithEncryptedKey(previousKeyBlob),
//	)
package awskms

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/kms"
	crypto "github.com/rbaliyan/field-crypto"
)

// Client is the subset of the AWS KMS API used by this package.
type Client interface {
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// Option configures New.
type Option func(*options)

type options struct {
	encryptedKeys []encryptedKeyEntry
	engineOpts    []crypto.Option
}

type encryptedKeyEntry struct {
	ciphertext []byte
	kmsKeyID   string // KMS key ARN or alias; empty = let KMS determine
}

// WithEncryptedKey adds an encrypted key to be unwrapped via KMS Decrypt.
// The ciphertext should be the output of KMS Encrypt or GenerateDataKey.
// The first key added becomes the current key for new encryptions; later
// keys are only used for decryption.
func WithEncryptedKey(ciphertext []byte) Option {
	return func(o *options) {
		o.encryptedKeys = append(o.encryptedKeys, encryptedKeyEntry{
			ciphertext: ciphertext,
		})
	}
}

// WithEncryptedKeyForKMSKey is like WithEncryptedKey but specifies the KMS key ARN
// or alias to use for decryption. Use this when the ciphertext was encrypted with
// a specific KMS key.
func WithEncryptedKeyForKMSKey(ciphertext []byte, kmsKeyID string) Option {
	return func(o *options) {
		o.encryptedKeys = append(o.encryptedKeys, encryptedKeyEntry{
			ciphertext: ciphertext,
			kmsKeyID:   kmsKeyID,
		})
	}
}

// WithEngineOptions passes options through to crypto.NewEngine.
func WithEngineOptions(opts ...crypto.Option) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// New unwraps every configured key with AWS KMS and builds an Engine.
//
// At least one key must be provided via WithEncryptedKey or WithEncryptedKeyForKMSKey.
// Unwrapped keys must be 32 bytes. The KMS client is not retained.
func New(ctx context.Context, client Client, opts ...Option) (*crypto.Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(o.encryptedKeys) == 0 {
		return nil, fmt.Errorf("awskms: at least one encrypted key is required")
	}

	keys := make([][]byte, 0, len(o.encryptedKeys))
	defer func() {
		for _, k := range keys {
			clear(k)
		}
	}()
	for i, ek := range o.encryptedKeys {
		input := &kms.DecryptInput{
			CiphertextBlob: ek.ciphertext,
		}
		if ek.kmsKeyID != "" {
			input.KeyId = &ek.kmsKeyID
		}

		out, err := client.Decrypt(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("awskms: failed to decrypt key %d: %w", i, err)
		}
		keys = append(keys, out.Plaintext)
	}

	cfg := crypto.SimpleConfig{Key: crypto.KeyBytes(keys[0])}
	for _, k := range keys[1:] {
		cfg.PreviousKeys = append(cfg.PreviousKeys, crypto.KeyBytes(k))
	}

	engine, err := crypto.NewEngine(cfg, o.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("awskms: %w", err)
	}
	return engine, nil
}
