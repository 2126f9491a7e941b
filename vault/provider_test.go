package vault

import (
	"context"
	"fmt"
	"testing"

	crypto "github.com/rbaliyan/field-crypto"
)

type mockClient struct {
	keys   map[string][]byte // "keyName:ciphertext" -> plaintext
	failOn string
}

func (m *mockClient) TransitDecrypt(ctx context.Context, keyName string, ciphertext string) ([]byte, error) {
	lookup := keyName + ":" + ciphertext
	if lookup == m.failOn {
		return nil, fmt.Errorf("vault: permission denied")
	}
	plaintext, ok := m.keys[lookup]
	if !ok {
		return nil, fmt.Errorf("vault: decryption failed")
	}
	return plaintext, nil
}

func makeKey(size int, offset byte) []byte {
	key := make([]byte, size)
	for i := range key {
		key[i] = byte(i) + offset
	}
	return key
}

func TestNew(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"transit-key:vault:v1:abc123": makeKey(32, 0),
		},
	}

	engine, err := New(context.Background(), client,
		WithEncryptedKey("vault:v1:abc123", "transit-key"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	digest, err := engine.Encrypter.Digest()
	if err != nil {
		t.Fatal(err)
	}
	if want := crypto.Digest(makeKey(32, 0)); digest != want {
		t.Errorf("Digest: got %q, want %q", digest, want)
	}
}

func TestNewWithRotation(t *testing.T) {
	ctx := context.Background()

	old, err := crypto.NewEncrypter(makeKey(32, 100))
	if err != nil {
		t.Fatal(err)
	}
	envelope, err := old.Encrypt(ctx, "secret")
	if err != nil {
		t.Fatal(err)
	}

	client := &mockClient{
		keys: map[string][]byte{
			"transit-key:vault:v2:new": makeKey(32, 0),
			"transit-key:vault:v1:old": makeKey(32, 100),
		},
	}

	engine, err := New(ctx, client,
		WithEncryptedKey("vault:v2:new", "transit-key"),
		WithEncryptedKey("vault:v1:old", "transit-key"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := engine.Decrypter.Decrypt(ctx, envelope)
	if err != nil {
		t.Fatalf("Decrypt with rotated key: %v", err)
	}
	if got != "secret" {
		t.Errorf("got %q, want %q", got, "secret")
	}
}

func TestNewNoKeys(t *testing.T) {
	_, err := New(context.Background(), &mockClient{})
	if err == nil {
		t.Error("expected error for no keys")
	}
}

func TestNewDecryptFailure(t *testing.T) {
	client := &mockClient{failOn: "transit-key:vault:v1:abc123"}

	_, err := New(context.Background(), client,
		WithEncryptedKey("vault:v1:abc123", "transit-key"),
	)
	if err == nil {
		t.Error("expected error for decrypt failure")
	}
}

func TestNewInvalidKeyLength(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"transit-key:vault:v1:short": makeKey(16, 0),
		},
	}

	_, err := New(context.Background(), client,
		WithEncryptedKey("vault:v1:short", "transit-key"),
	)
	if !crypto.IsInvalidKeyLength(err) {
		t.Errorf("expected ErrInvalidKeyLength, got %v", err)
	}
}

func TestNewReturnsFieldCipher(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"transit-key:vault:v1:data": makeKey(32, 0),
		},
	}

	engine, err := New(context.Background(), client,
		WithEncryptedKey("vault:v1:data", "transit-key"),
	)
	if err != nil {
		t.Fatal(err)
	}

	var _ crypto.FieldCipher = engine
}
