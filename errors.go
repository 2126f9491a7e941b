package crypto

import "errors"

var (
	// ErrInvalidKeyLength is returned when key material is not exactly 32 bytes.
	ErrInvalidKeyLength = errors.New("crypto: invalid key length, must be 32 bytes")

	// ErrEmptyKeyList is returned when a Decrypter is built without any keys.
	ErrEmptyKeyList = errors.New("crypto: at least one decryption key is required")

	// ErrMalformedEnvelope is returned when an envelope cannot be parsed.
	// The message is shared with other implementations of the envelope format.
	ErrMalformedEnvelope = errors.New("Malformed encrypted data") //nolint:staticcheck

	// ErrDecryptionFailed is returned when no key matches the envelope or
	// authentication fails for every matching key.
	ErrDecryptionFailed = errors.New("crypto: decryption failed")

	// ErrUnsupportedAlgorithm is returned for an unknown algorithm identifier.
	ErrUnsupportedAlgorithm = errors.New("crypto: unsupported algorithm")

	// ErrInvalidConfig is returned when an encryption config is incomplete.
	ErrInvalidConfig = errors.New("crypto: invalid encryption config")
)

// IsInvalidKeyLength returns true if the error is or wraps ErrInvalidKeyLength.
func IsInvalidKeyLength(err error) bool {
	return errors.Is(err, ErrInvalidKeyLength)
}

// IsEmptyKeyList returns true if the error is or wraps ErrEmptyKeyList.
func IsEmptyKeyList(err error) bool {
	return errors.Is(err, ErrEmptyKeyList)
}

// IsMalformedEnvelope returns true if the error is or wraps ErrMalformedEnvelope.
func IsMalformedEnvelope(err error) bool {
	return errors.Is(err, ErrMalformedEnvelope)
}

// IsDecryptionFailed returns true if the error is or wraps ErrDecryptionFailed.
func IsDecryptionFailed(err error) bool {
	return errors.Is(err, ErrDecryptionFailed)
}

// IsUnsupportedAlgorithm returns true if the error is or wraps ErrUnsupportedAlgorithm.
func IsUnsupportedAlgorithm(err error) bool {
	return errors.Is(err, ErrUnsupportedAlgorithm)
}

// IsInvalidConfig returns true if the error is or wraps ErrInvalidConfig.
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}
