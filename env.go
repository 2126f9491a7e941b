package crypto

import (
	"fmt"
	"strings"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnvConfig.
const (
	// EnvKey holds the current key. Required.
	EnvKey = "FIELD_ENCRYPTION_KEY"

	// EnvPreviousKeys holds comma-separated keys kept for decryption only.
	EnvPreviousKeys = "FIELD_ENCRYPTION_PREVIOUS_KEYS"
)

// LoadEnvConfig builds a SimpleConfig from the environment.
//
// The named dotenv files are loaded first; variables already set in the
// environment take precedence over them. Each value is parsed with
// ParseSecret, so keys can be given as "base64:...", "hex:..." or as a
// high-entropy string.
func LoadEnvConfig(files ...string) (SimpleConfig, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return SimpleConfig{}, fmt.Errorf("crypto: failed to load env files: %w", err)
		}
	}

	raw := env.GetString(EnvKey, "")
	if raw == "" {
		return SimpleConfig{}, fmt.Errorf("%w: %s is not set", ErrInvalidConfig, EnvKey)
	}
	key, err := ParseSecret(raw)
	if err != nil {
		return SimpleConfig{}, fmt.Errorf("crypto: %s: %w", EnvKey, err)
	}

	cfg := SimpleConfig{Key: key}
	for i, part := range strings.Split(env.GetString(EnvPreviousKeys, ""), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		s, err := ParseSecret(part)
		if err != nil {
			return SimpleConfig{}, fmt.Errorf("crypto: %s[%d]: %w", EnvPreviousKeys, i, err)
		}
		cfg.PreviousKeys = append(cfg.PreviousKeys, s)
	}
	return cfg, nil
}
