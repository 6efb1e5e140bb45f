package types

import (
	"time"

	"github.com/google/uuid"
)

// Principal is the caller resolved from a verified bearer token.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email,omitempty"`
}

// UserSummary is the account view returned by the /me endpoints.
type UserSummary struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	Plan              string     `json:"plan"`
	Unlimited         bool       `json:"unlimited"`
	FreeUsesRemaining int        `json:"free_uses_remaining"`
	LastFreeRefillAt  *time.Time `json:"last_free_refill_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// CreditsResponse is the body of GET /me/credits.
type CreditsResponse struct {
	Plan              string `json:"plan"`
	Unlimited         bool   `json:"unlimited"`
	FreeUsesRemaining int    `json:"free_uses_remaining"`
}
