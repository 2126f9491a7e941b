package crypto

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Envelope format constants.
const (
	// formatVersion is the current envelope format version.
	formatVersion = 1

	// separator joins the metadata and payload segments.
	separator = "."

	// nonceSize is the IV size in bytes (12 bytes for GCM and ChaCha20-Poly1305).
	nonceSize = 12

	// tagSize is the authentication tag size in bytes.
	tagSize = 16
)

// metadata is the self-describing part of an envelope.
// Field order is part of the wire format.
type metadata struct {
	Version   int       `json:"v"`
	Algorithm Algorithm `json:"alg"`
	KeyDigest string    `json:"kid"`
}

// rawMetadata detects missing fields while parsing.
type rawMetadata struct {
	Version   *int    `json:"v"`
	Algorithm *string `json:"alg"`
	KeyDigest *string `json:"kid"`
}

// envelope is a parsed envelope.
type envelope struct {
	meta       metadata
	nonce      []byte
	ciphertext []byte // ciphertext with the tag appended
}

// encodeEnvelope serializes metadata and payload (iv || ciphertext || tag).
func encodeEnvelope(meta metadata, payload []byte) (string, error) {
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("crypto: failed to encode metadata: %w", err)
	}

	var b strings.Builder
	b.Grow(base64.StdEncoding.EncodedLen(len(metaJSON)) + 1 + base64.StdEncoding.EncodedLen(len(payload)))
	b.WriteString(base64.StdEncoding.EncodeToString(metaJSON))
	b.WriteString(separator)
	b.WriteString(base64.StdEncoding.EncodeToString(payload))
	return b.String(), nil
}

// parseEnvelope splits and decodes an envelope string.
// Every failure wraps ErrMalformedEnvelope. The algorithm is not validated here.
func parseEnvelope(s string) (*envelope, error) {
	parts := strings.Split(s, separator)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: expected 2 segments, got %d", ErrMalformedEnvelope, len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: empty segment", ErrMalformedEnvelope)
	}

	metaJSON, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", ErrMalformedEnvelope, err)
	}
	payload, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrMalformedEnvelope, err)
	}

	var raw rawMetadata
	if err := json.Unmarshal(metaJSON, &raw); err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", ErrMalformedEnvelope, err)
	}
	if raw.Version == nil || raw.Algorithm == nil || raw.KeyDigest == nil {
		return nil, fmt.Errorf("%w: metadata is missing fields", ErrMalformedEnvelope)
	}
	if *raw.Version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedEnvelope, *raw.Version)
	}
	if *raw.KeyDigest == "" {
		return nil, fmt.Errorf("%w: empty key digest", ErrMalformedEnvelope)
	}

	if len(payload) < nonceSize+tagSize {
		return nil, fmt.Errorf("%w: payload too short", ErrMalformedEnvelope)
	}

	return &envelope{
		meta: metadata{
			Version:   *raw.Version,
			Algorithm: Algorithm(*raw.Algorithm),
			KeyDigest: *raw.KeyDigest,
		},
		nonce:      payload[:nonceSize],
		ciphertext: payload[nonceSize:],
	}, nil
}
