package crypto

import (
	"context"
	"fmt"
)

// Config selects how field values are encrypted.
// It is implemented by SimpleConfig and CustomConfig only.
type Config interface {
	isConfig()
}

// SimpleConfig uses the built-in engine.
// New values are encrypted with Key; decryption tries Key followed by
// PreviousKeys, so values written before a rotation stay readable.
type SimpleConfig struct {
	Key          Secret
	PreviousKeys []Secret
}

// EncryptFunc encrypts one field value. field is passed through uninterpreted.
type EncryptFunc func(ctx context.Context, model string, field any, plaintext string) (string, error)

// DecryptFunc decrypts one field value. field is passed through uninterpreted.
type DecryptFunc func(ctx context.Context, model string, field any, ciphertext string) (string, error)

// CustomConfig bypasses the engine entirely. Both functions are required;
// their results and errors are returned unchanged.
type CustomConfig struct {
	Encrypt EncryptFunc
	Decrypt DecryptFunc
}

func (SimpleConfig) isConfig() {}
func (CustomConfig) isConfig() {}

// keys returns the derived encryption key and the ordered decryption keys.
func (c SimpleConfig) keys() (current []byte, candidates [][]byte, err error) {
	current, err = DeriveKey(c.Key)
	if err != nil {
		return nil, nil, err
	}
	candidates = make([][]byte, 0, 1+len(c.PreviousKeys))
	candidates = append(candidates, current)
	for i, s := range c.PreviousKeys {
		k, err := DeriveKey(s)
		if err != nil {
			return nil, nil, fmt.Errorf("previous key %d: %w", i, err)
		}
		candidates = append(candidates, k)
	}
	return current, candidates, nil
}
