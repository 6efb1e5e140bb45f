package config

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// AdminKeyCost is the bcrypt cost used when hashing a new admin key.
const AdminKeyCost = 12

// ErrAdminKeyMissing is returned when ADMIN_KEY_HASH is unset; admin routes
// are then closed.
var ErrAdminKeyMissing = errors.New("ADMIN_KEY_HASH is required but not set")

// AdminKeyConfig verifies the shared admin API key. Only its bcrypt hash is
// kept in the environment.
type AdminKeyConfig struct {
	Hash   string
	Pepper string // optional global secret appended before hashing
}

// NewAdminKeyConfig reads ADMIN_KEY_HASH and the optional ADMIN_KEY_PEPPER.
func NewAdminKeyConfig() (*AdminKeyConfig, error) {
	hash := os.Getenv("ADMIN_KEY_HASH")
	if hash == "" {
		return nil, ErrAdminKeyMissing
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_KEY_HASH: %w", err)
	}
	if cost < 10 || cost > 14 {
		return nil, fmt.Errorf("ADMIN_KEY_HASH cost out of range: %d (must be 10-14)", cost)
	}
	return &AdminKeyConfig{
		Hash:   hash,
		Pepper: os.Getenv("ADMIN_KEY_PEPPER"),
	}, nil
}

// HashAdminKey produces the value to store in ADMIN_KEY_HASH.
func HashAdminKey(key, pepper string, cost int) (string, error) {
	if key == "" {
		return "", errors.New("admin key cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key+pepper), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash admin key: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether key matches the configured hash.
func (c *AdminKeyConfig) Verify(key string) bool {
	if c == nil || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(key+c.Pepper)) == nil
}
