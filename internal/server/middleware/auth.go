// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/resume-bender/internal/types"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const principalKey ContextKey = "principal"

// AdminKeyHeader carries the shared admin API key.
const AdminKeyHeader = "X-Admin-Key"

// ErrNoPrincipal is returned by GetPrincipal on unauthenticated requests.
var ErrNoPrincipal = errors.New("no authenticated user in request context")

// TokenValidator verifies a bearer token and resolves the caller.
type TokenValidator interface {
	ValidateToken(tokenString string) (*types.Principal, error)
}

// KeyVerifier checks an admin API key.
type KeyVerifier interface {
	Verify(key string) bool
}

// bearerToken extracts the token of a "Bearer <token>" header. The scheme is
// case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller in the request context. A nil validator rejects every token.
func RequireAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "Missing bearer token")
				return
			}
			if validator == nil {
				unauthorized(w, "Invalid token")
				return
			}
			principal, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// OptionalAuth resolves the caller when a valid token is present and lets
// every request through.
func OptionalAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok && validator != nil {
				if principal, err := validator.ValidateToken(token); err == nil {
					r = r.WithContext(WithPrincipal(r.Context(), principal))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminKey guards admin routes. A nil verifier closes them.
func RequireAdminKey(verifier KeyVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(AdminKeyHeader)
			if verifier == nil || key == "" || !verifier.Verify(key) {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// StaticKey verifies against a plain key. Used where no hash is configured,
// such as tests.
type StaticKey string

// Verify compares in constant time.
func (k StaticKey) Verify(key string) bool {
	return k != "" && subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *types.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal returns the authenticated caller of the request.
func GetPrincipal(r *http.Request) (*types.Principal, error) {
	p, ok := r.Context().Value(principalKey).(*types.Principal)
	if !ok || p == nil {
		return nil, ErrNoPrincipal
	}
	return p, nil
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, message)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
