package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminKeyConfig_Verify(t *testing.T) {
	hash, err := HashAdminKey("s3cret", "pepper", bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name   string
		cfg    *AdminKeyConfig
		key    string
		expect bool
	}{
		{"correct key and pepper", &AdminKeyConfig{Hash: hash, Pepper: "pepper"}, "s3cret", true},
		{"wrong key", &AdminKeyConfig{Hash: hash, Pepper: "pepper"}, "guess", false},
		{"missing pepper", &AdminKeyConfig{Hash: hash}, "s3cret", false},
		{"empty key", &AdminKeyConfig{Hash: hash, Pepper: "pepper"}, "", false},
		{"nil config", nil, "s3cret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.cfg.Verify(tt.key))
		})
	}
}

func TestHashAdminKey_RejectsEmptyKey(t *testing.T) {
	_, err := HashAdminKey("", "", bcrypt.MinCost)
	assert.Error(t, err)
}

func TestNewAdminKeyConfig(t *testing.T) {
	hash, err := HashAdminKey("s3cret", "", 10)
	require.NoError(t, err)
	lowCost, err := HashAdminKey("s3cret", "", bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name    string
		hash    string
		wantErr string
	}{
		{"valid", hash, ""},
		{"missing", "", "ADMIN_KEY_HASH is required"},
		{"not bcrypt", "plaintext", "invalid ADMIN_KEY_HASH"},
		{"cost too low", lowCost, "cost out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ADMIN_KEY_HASH", tt.hash)
			t.Setenv("ADMIN_KEY_PEPPER", "")

			cfg, err := NewAdminKeyConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, cfg.Verify("s3cret"))
		})
	}
}
