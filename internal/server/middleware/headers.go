package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	hstsValue              = "max-age=31536000; includeSubDomains; preload"
	referrerPolicyValue    = "strict-origin-when-cross-origin"
	permissionsPolicyValue = "camera=(), microphone=(), geolocation=(), payment=(), usb=(), xr-spatial-tracking=()"
)

// originOf returns scheme://host for raw, or "" when raw has no host.
func originOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// BuildCSP returns the Content-Security-Policy for the app. Each URL
// contributes its origin to connect-src; empty, hostless and repeated
// origins are skipped.
func BuildCSP(urls ...string) string {
	connect := []string{"'self'"}
	seen := make(map[string]bool)
	for _, raw := range urls {
		origin := originOf(raw)
		if origin == "" || seen[origin] {
			continue
		}
		seen[origin] = true
		connect = append(connect, origin)
	}

	directives := []string{
		"default-src 'self'",
		"base-uri 'self'",
		"frame-ancestors 'none'",
		"connect-src " + strings.Join(connect, " "),
		"img-src 'self' data: blob:",
		"script-src 'self' https://js.stripe.com",
		"style-src 'self' 'unsafe-inline'",
		"font-src 'self' data:",
		"worker-src 'self' blob:",
		"frame-src https://js.stripe.com",
		"form-action 'self' https://hooks.stripe.com",
		"object-src 'none'",
		"upgrade-insecure-requests",
	}
	return strings.Join(directives, "; ")
}

// SecurityHeaders sets the browser hardening headers on every response.
func SecurityHeaders(csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Strict-Transport-Security", hstsValue)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", referrerPolicyValue)
			h.Set("Permissions-Policy", permissionsPolicyValue)
			h.Set("Content-Security-Policy", csp)
			next.ServeHTTP(w, r)
		})
	}
}

// CORS allows the frontend origin to call the API with credentials. An
// empty origin allows any origin without credentials.
func CORS(origin string) func(http.Handler) http.Handler {
	origin = originOf(origin)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			switch {
			case origin == "":
				h.Set("Access-Control-Allow-Origin", "*")
			case r.Header.Get("Origin") == origin:
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-RB-Agentic, "+AdminKeyHeader)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
