// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the environment leaves a setting unset.
const (
	DefaultPort             = "8000"
	DefaultLLMTimeout       = 30 * time.Second
	DefaultDailyFreeCredits = 3
	DefaultFreeRolloverCap  = 20
	DefaultFetchRPS         = 1.0
)

// AgenticHeader lets a client opt into the agentic draft path per request.
const AgenticHeader = "X-RB-Agentic"

// Settings is the process-wide configuration. Every field maps to one
// environment variable.
type Settings struct {
	GeminiAPIKey string        // GEMINI_API_KEY
	Model        string        // RB_MODEL, overrides the standard tier
	Agentic      bool          // RB_AGENTIC
	LLMTimeout   time.Duration // LLM_TIMEOUT_MS
	DatabaseURL  string        // DATABASE_URL
	Port         string        // PORT

	FrontendOrigin string // FRONTEND_ORIGIN
	APIBaseURL     string // API_BASE_URL
	SupabaseURL    string // SUPABASE_URL

	LogJSON  bool // LOG_JSON
	LogDebug bool // LOG_DEBUG

	AliasFile string // RB_ALIAS_FILE

	DailyFreeCredits int // DAILY_FREE_CREDITS
	FreeRolloverCap  int // FREE_ROLLOVER_CAP

	FetchRPS    float64 // JD_FETCH_RPS
	AllowRender bool    // JD_ALLOW_RENDER
}

// Load reads Settings from the environment and validates them.
func Load() (*Settings, error) {
	s := &Settings{
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		Model:          strings.TrimSpace(os.Getenv("RB_MODEL")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           envOr("PORT", DefaultPort),
		FrontendOrigin: os.Getenv("FRONTEND_ORIGIN"),
		APIBaseURL:     os.Getenv("API_BASE_URL"),
		SupabaseURL:    os.Getenv("SUPABASE_URL"),
		AliasFile:      os.Getenv("RB_ALIAS_FILE"),
	}

	var err error
	if s.Agentic, err = envBool("RB_AGENTIC"); err != nil {
		return nil, err
	}
	if s.LogJSON, err = envBool("LOG_JSON"); err != nil {
		return nil, err
	}
	if s.LogDebug, err = envBool("LOG_DEBUG"); err != nil {
		return nil, err
	}
	if s.AllowRender, err = envBool("JD_ALLOW_RENDER"); err != nil {
		return nil, err
	}

	timeoutMS, err := envInt("LLM_TIMEOUT_MS", int(DefaultLLMTimeout/time.Millisecond))
	if err != nil {
		return nil, err
	}
	s.LLMTimeout = time.Duration(timeoutMS) * time.Millisecond

	if s.DailyFreeCredits, err = envInt("DAILY_FREE_CREDITS", DefaultDailyFreeCredits); err != nil {
		return nil, err
	}
	if s.FreeRolloverCap, err = envInt("FREE_ROLLOVER_CAP", DefaultFreeRolloverCap); err != nil {
		return nil, err
	}

	s.FetchRPS = DefaultFetchRPS
	if raw := os.Getenv("JD_FETCH_RPS"); raw != "" {
		if s.FetchRPS, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("invalid JD_FETCH_RPS: %v", err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that numeric settings are in range.
func (s *Settings) Validate() error {
	if s.LLMTimeout < 0 {
		return fmt.Errorf("config error: 'LLM_TIMEOUT_MS' must be non-negative")
	}
	if s.DailyFreeCredits < 0 {
		return fmt.Errorf("config error: 'DAILY_FREE_CREDITS' must be non-negative")
	}
	if s.FreeRolloverCap < 0 {
		return fmt.Errorf("config error: 'FREE_ROLLOVER_CAP' must be non-negative")
	}
	if s.FetchRPS < 0 {
		return fmt.Errorf("config error: 'JD_FETCH_RPS' must be non-negative")
	}
	return nil
}

// UseAgentic decides whether a request takes the agentic path. The
// agentic=1 query parameter wins, then the X-RB-Agentic header, then the
// global RB_AGENTIC flag.
func UseAgentic(r *http.Request, s *Settings) bool {
	if r != nil {
		if q, ok := r.URL.Query()["agentic"]; ok && len(q) > 0 {
			return q[0] == "1"
		}
		if h := r.Header.Values(AgenticHeader); len(h) > 0 {
			return strings.TrimSpace(h[0]) == "1"
		}
	}
	return s != nil && s.Agentic
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return v, nil
}

func envBool(key string) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %v", key, err)
	}
	return v, nil
}
