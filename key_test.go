package crypto

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"testing"
)

func TestDeriveKeyString(t *testing.T) {
	k1, err := DeriveKey(KeyString("a-high-entropy-secret"))
	if err != nil {
		t.Fatal(err)
	}
	k2, err := DeriveKey(KeyString("a-high-entropy-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if len(k1) != KeySize {
		t.Errorf("len: got %d, want %d", len(k1), KeySize)
	}
	if !bytes.Equal(k1, k2) {
		t.Error("same string derived different keys")
	}

	sum := sha256.Sum256([]byte("a-high-entropy-secret"))
	if !bytes.Equal(k1, sum[:]) {
		t.Error("derived key is not the SHA-256 of the string")
	}

	k3, err := DeriveKey(KeyString("another-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(k1, k3) {
		t.Error("different strings derived the same key")
	}
}

func TestDeriveKeyEmptyString(t *testing.T) {
	k, err := DeriveKey(KeyString(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(k) != KeySize {
		t.Errorf("len: got %d, want %d", len(k), KeySize)
	}
}

func TestDeriveKeyBytes(t *testing.T) {
	key := makeKey(KeySize)
	got, err := DeriveKey(KeyBytes(key))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, key) {
		t.Error("KeyBytes were not returned unchanged")
	}
}

func TestDeriveKeyBytesInvalidLength(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33} {
		if _, err := DeriveKey(KeyBytes(makeKey(n))); !IsInvalidKeyLength(err) {
			t.Errorf("DeriveKey(%d bytes): expected ErrInvalidKeyLength, got %v", n, err)
		}
	}
}

func TestDeriveKeyNil(t *testing.T) {
	if _, err := DeriveKey(nil); !IsInvalidKeyLength(err) {
		t.Errorf("expected ErrInvalidKeyLength, got %v", err)
	}
}

func TestParseSecret(t *testing.T) {
	key := makeKey(KeySize)

	tests := []struct {
		name string
		in   string
		want Secret
	}{
		{"base64", "base64:" + base64.StdEncoding.EncodeToString(key), KeyBytes(key)},
		{"hex", "hex:" + hex.EncodeToString(key), KeyBytes(key)},
		{"plain", "some-long-random-string", KeyString("some-long-random-string")},
		{"unknown prefix", "aes:abc", KeyString("aes:abc")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSecret(tt.in)
			if err != nil {
				t.Fatalf("ParseSecret: %v", err)
			}
			gotKey, err := DeriveKey(got)
			if err != nil {
				t.Fatal(err)
			}
			wantKey, err := DeriveKey(tt.want)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(gotKey, wantKey) {
				t.Errorf("ParseSecret(%q) derived a different key", tt.in)
			}
		})
	}
}

func TestParseSecretErrors(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		keyLength bool
	}{
		{"bad base64", "base64:!!!", false},
		{"bad hex", "hex:zz", false},
		{"short base64", "base64:" + base64.StdEncoding.EncodeToString(makeKey(16)), true},
		{"long hex", "hex:" + hex.EncodeToString(makeKey(33)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSecret(tt.in)
			if err == nil {
				t.Fatal("expected error")
			}
			if IsInvalidKeyLength(err) != tt.keyLength {
				t.Errorf("IsInvalidKeyLength: got %v, want %v (%v)", !tt.keyLength, tt.keyLength, err)
			}
		})
	}
}

func TestGenerateKey(t *testing.T) {
	k1, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	k2, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	if len(k1) != KeySize {
		t.Errorf("len: got %d, want %d", len(k1), KeySize)
	}
	if bytes.Equal(k1, k2) {
		t.Error("two generated keys are equal")
	}
}

func TestDigest(t *testing.T) {
	d1 := Digest(makeKey(KeySize))
	if d1 != Digest(makeKey(KeySize)) {
		t.Error("equal keys produced different digests")
	}
	if d1 == Digest(otherKey()) {
		t.Error("different keys produced equal digests")
	}
	// 32 bytes in unpadded base64url
	if len(d1) != 43 {
		t.Errorf("len: got %d, want 43", len(d1))
	}
	if _, err := base64.RawURLEncoding.DecodeString(d1); err != nil {
		t.Errorf("digest is not raw base64url: %v", err)
	}
}
