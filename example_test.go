package crypto_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/rbaliyan/config/codec"
	crypto "github.com/rbaliyan/field-crypto"
)

func ExampleNewEncrypter() {
	ctx := context.Background()

	// Create a 32-byte key for AES-256
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	enc, err := crypto.NewEncrypter(key)
	if err != nil {
		panic(err)
	}
	dec, err := crypto.NewDecrypter([][]byte{key})
	if err != nil {
		panic(err)
	}

	envelope, err := enc.Encrypt(ctx, "hello world")
	if err != nil {
		panic(err)
	}
	fmt.Println("Segments:", len(strings.Split(envelope, ".")))

	plaintext, err := dec.Decrypt(ctx, envelope)
	if err != nil {
		panic(err)
	}
	fmt.Println("Decrypted:", plaintext)

	// Output:
	// Segments: 2
	// Decrypted: hello world
}

func ExampleNewDecrypter_rotation() {
	ctx := context.Background()

	oldKey := make([]byte, 32)
	newKey := make([]byte, 32)
	for i := range oldKey {
		oldKey[i] = byte(i)
		newKey[i] = byte(i + 100)
	}

	// Data written before the rotation
	oldEnc, err := crypto.NewEncrypter(oldKey)
	if err != nil {
		panic(err)
	}
	stored, err := oldEnc.Encrypt(ctx, "secret-data")
	if err != nil {
		panic(err)
	}

	// After the rotation: new key first, old key kept for reads
	dec, err := crypto.NewDecrypter([][]byte{newKey, oldKey})
	if err != nil {
		panic(err)
	}
	plaintext, err := dec.Decrypt(ctx, stored)
	if err != nil {
		panic(err)
	}
	fmt.Println("Decrypted with rotated keys:", plaintext)

	// Output:
	// Decrypted with rotated keys: secret-data
}

func ExampleNew() {
	ctx := context.Background()

	fc, err := crypto.New(crypto.SimpleConfig{
		Key:          crypto.KeyString("use-a-long-random-value-from-your-secret-store"),
		PreviousKeys: []crypto.Secret{crypto.KeyString("the-value-before-rotation")},
	})
	if err != nil {
		panic(err)
	}

	envelope, err := fc.EncryptField(ctx, "User", "ssn", "123-45-6789")
	if err != nil {
		panic(err)
	}
	ssn, err := fc.DecryptField(ctx, "User", "ssn", envelope)
	if err != nil {
		panic(err)
	}
	fmt.Println("SSN:", ssn)

	_, err = fc.DecryptField(ctx, "User", "ssn", "plain-text")
	fmt.Println(err)

	// Output:
	// SSN: 123-45-6789
	// Malformed encrypted data
}

func ExampleNew_custom() {
	ctx := context.Background()

	fc, err := crypto.New(crypto.CustomConfig{
		Encrypt: func(_ context.Context, model string, field any, plaintext string) (string, error) {
			return fmt.Sprintf("%s.%v:%s", model, field, strings.ToUpper(plaintext)), nil
		},
		Decrypt: func(_ context.Context, _ string, _ any, ciphertext string) (string, error) {
			_, v, _ := strings.Cut(ciphertext, ":")
			return strings.ToLower(v), nil
		},
	})
	if err != nil {
		panic(err)
	}

	out, _ := fc.EncryptField(ctx, "User", "name", "ada")
	fmt.Println(out)
	in, _ := fc.DecryptField(ctx, "User", "name", out)
	fmt.Println(in)

	// Output:
	// User.name:ADA
	// ada
}

func ExampleNewCodec() {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	enc, err := crypto.NewEncrypter(key)
	if err != nil {
		panic(err)
	}
	dec, err := crypto.NewDecrypter([][]byte{key})
	if err != nil {
		panic(err)
	}

	// Wrap the JSON codec with encryption
	encJSON, err := crypto.NewCodec(codec.JSON(), enc, dec)
	if err != nil {
		panic(err)
	}
	fmt.Println("Codec name:", encJSON.Name())

	data, err := encJSON.Encode("my-secret")
	if err != nil {
		panic(err)
	}

	var result string
	if err := encJSON.Decode(data, &result); err != nil {
		panic(err)
	}
	fmt.Println("Decrypted:", result)

	// Output:
	// Codec name: encrypted:json
	// Decrypted: my-secret
}
