package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestBuildCSP(t *testing.T) {
	tests := []struct {
		name        string
		urls        []string
		wantConnect string
	}{
		{
			name:        "no urls",
			wantConnect: "connect-src 'self';",
		},
		{
			name:        "origins only with dedupe",
			urls:        []string{"https://api.example.com/v1", "https://app.example.com", "https://api.example.com"},
			wantConnect: "connect-src 'self' https://api.example.com https://app.example.com;",
		},
		{
			name:        "empty and hostless skipped",
			urls:        []string{"", "not a url", "/relative", "https://abc.supabase.co"},
			wantConnect: "connect-src 'self' https://abc.supabase.co;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csp := BuildCSP(tt.urls...)
			assert.Contains(t, csp, tt.wantConnect)
			assert.Contains(t, csp, "default-src 'self'; base-uri 'self'; frame-ancestors 'none';")
			assert.Contains(t, csp, "frame-src https://js.stripe.com; form-action 'self' https://hooks.stripe.com;")
			assert.Contains(t, csp, "object-src 'none'; upgrade-insecure-requests")
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders("default-src 'self'")(okHandler())
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "max-age=31536000; includeSubDomains; preload", rr.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rr.Header().Get("Referrer-Policy"))
	assert.Equal(t, "camera=(), microphone=(), geolocation=(), payment=(), usb=(), xr-spatial-tracking=()", rr.Header().Get("Permissions-Policy"))
	assert.Equal(t, "default-src 'self'", rr.Header().Get("Content-Security-Policy"))
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name            string
		configured      string
		requestOrigin   string
		method          string
		wantAllow       string
		wantCredentials string
		wantStatus      int
	}{
		{"wildcard when unset", "", "https://x.example.com", http.MethodGet, "*", "", http.StatusOK},
		{"matching origin", "https://app.example.com/", "https://app.example.com", http.MethodGet, "https://app.example.com", "true", http.StatusOK},
		{"other origin", "https://app.example.com", "https://evil.example.com", http.MethodGet, "", "", http.StatusOK},
		{"preflight", "https://app.example.com", "https://app.example.com", http.MethodOptions, "https://app.example.com", "true", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/first-impression", nil)
			req.Header.Set("Origin", tt.requestOrigin)
			rr := httptest.NewRecorder()

			CORS(tt.configured)(okHandler()).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, rr.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	failing := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux := http.NewServeMux()
	mux.Handle("/ok", okHandler())
	mux.Handle("/fail", failing)
	handler := Chain(mux, AccessLog(zap.New(core)))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/fail", nil))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
		assert.Equal(t, int64(2), entries[0].ContextMap()["bytes"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, "/fail", entries[1].ContextMap()["path"])
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	Chain(okHandler(), mark("outer"), mark("inner")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}
