package config

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settingsEnv = []string{
	"GEMINI_API_KEY", "RB_MODEL", "RB_AGENTIC", "LLM_TIMEOUT_MS", "DATABASE_URL", "PORT",
	"FRONTEND_ORIGIN", "API_BASE_URL", "SUPABASE_URL", "LOG_JSON", "LOG_DEBUG",
	"RB_ALIAS_FILE", "DAILY_FREE_CREDITS", "FREE_ROLLOVER_CAP", "JD_FETCH_RPS", "JD_ALLOW_RENDER",
}

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, key := range settingsEnv {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearSettingsEnv(t)

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, s.Port)
	assert.Equal(t, 30*time.Second, s.LLMTimeout)
	assert.Equal(t, 3, s.DailyFreeCredits)
	assert.Equal(t, 20, s.FreeRolloverCap)
	assert.InDelta(t, 1.0, s.FetchRPS, 1e-9)
	assert.False(t, s.Agentic)
	assert.False(t, s.AllowRender)
	assert.Empty(t, s.Model)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearSettingsEnv(t)
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("RB_MODEL", " gemini-2.5-pro ")
	t.Setenv("RB_AGENTIC", "1")
	t.Setenv("LLM_TIMEOUT_MS", "1500")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("DAILY_FREE_CREDITS", "5")
	t.Setenv("FREE_ROLLOVER_CAP", "50")
	t.Setenv("JD_FETCH_RPS", "0.5")
	t.Setenv("JD_ALLOW_RENDER", "1")

	s, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "key", s.GeminiAPIKey)
	assert.Equal(t, "gemini-2.5-pro", s.Model)
	assert.True(t, s.Agentic)
	assert.Equal(t, 1500*time.Millisecond, s.LLMTimeout)
	assert.Equal(t, "9090", s.Port)
	assert.True(t, s.LogJSON)
	assert.Equal(t, 5, s.DailyFreeCredits)
	assert.Equal(t, 50, s.FreeRolloverCap)
	assert.InDelta(t, 0.5, s.FetchRPS, 1e-9)
	assert.True(t, s.AllowRender)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value, wantErr string
	}{
		{"RB_AGENTIC", "maybe", "invalid RB_AGENTIC"},
		{"LLM_TIMEOUT_MS", "soon", "invalid LLM_TIMEOUT_MS"},
		{"LLM_TIMEOUT_MS", "-1", "'LLM_TIMEOUT_MS' must be non-negative"},
		{"DAILY_FREE_CREDITS", "-3", "'DAILY_FREE_CREDITS' must be non-negative"},
		{"FREE_ROLLOVER_CAP", "-1", "'FREE_ROLLOVER_CAP' must be non-negative"},
		{"JD_FETCH_RPS", "fast", "invalid JD_FETCH_RPS"},
		{"JD_FETCH_RPS", "-2", "'JD_FETCH_RPS' must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearSettingsEnv(t)
			t.Setenv(tt.key, tt.value)

			s, err := Load()
			assert.Nil(t, s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUseAgentic(t *testing.T) {
	on := &Settings{Agentic: true}
	off := &Settings{}

	tests := []struct {
		name     string
		target   string
		header   *string
		settings *Settings
		want     bool
	}{
		{"global off", "/v3/draft", nil, off, false},
		{"global on", "/v3/draft", nil, on, true},
		{"query enables", "/v3/draft?agentic=1", nil, off, true},
		{"query disables over header and global", "/v3/draft?agentic=0", strPtr("1"), on, false},
		{"empty query disables", "/v3/draft?agentic=", nil, on, false},
		{"header enables", "/v3/draft", strPtr("1"), off, true},
		{"header disables", "/v3/draft", strPtr("0"), on, false},
		{"nil settings", "/v3/draft", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
			if tt.header != nil {
				req.Header.Set(AgenticHeader, *tt.header)
			}
			assert.Equal(t, tt.want, UseAgentic(req, tt.settings))
		})
	}
}

func strPtr(s string) *string { return &s }
