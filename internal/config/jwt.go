package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// DefaultJWTAudience is the audience Supabase stamps on user access tokens.
const DefaultJWTAudience = "authenticated"

// ErrJWTSecretMissing is returned when JWT_SECRET is unset. Callers may
// treat it as "authentication disabled".
var ErrJWTSecretMissing = errors.New("JWT_SECRET is required but not set")

// JWTConfig holds the settings for verifying and issuing bearer tokens.
type JWTConfig struct {
	Secret          string
	Audience        string
	ExpirationHours int
}

// NewJWTConfig reads JWT_SECRET (required), JWT_AUDIENCE (default
// "authenticated") and JWT_EXPIRATION_HOURS (default 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}

	expirationHours := 24
	if raw := os.Getenv("JWT_EXPIRATION_HOURS"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
		}
		expirationHours = v
	}

	cfg := &JWTConfig{
		Secret:          secret,
		Audience:        envOr("JWT_AUDIENCE", DefaultJWTAudience),
		ExpirationHours: expirationHours,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return ErrJWTSecretMissing
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
