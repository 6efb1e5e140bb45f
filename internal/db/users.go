package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-bender/internal/credits"
	"github.com/jonathan/resume-bender/internal/types"
)

// UpsertUser records a user seen through a verified token. The email is
// refreshed on every call; plan and credits keep their stored values.
func (db *DB) UpsertUser(ctx context.Context, userID uuid.UUID, email string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO users (id, email) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email`,
		userID, email,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetUserSummary returns the account row, or nil when the user is unknown
func (db *DB) GetUserSummary(ctx context.Context, userID uuid.UUID) (*types.UserSummary, error) {
	var u types.UserSummary
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, plan, unlimited, free_uses_remaining, last_free_refill_at, created_at
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&u.ID, &u.Email, &u.Plan, &u.Unlimited, &u.FreeUsesRemaining, &u.LastFreeRefillAt, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetCreditAccount implements credits.Store
func (db *DB) GetCreditAccount(ctx context.Context, userID uuid.UUID) (*credits.Account, error) {
	u, err := db.GetUserSummary(ctx, userID)
	if err != nil || u == nil {
		return nil, err
	}
	return &credits.Account{
		Plan:         u.Plan,
		Unlimited:    u.Unlimited,
		Remaining:    u.FreeUsesRemaining,
		LastRefillAt: u.LastFreeRefillAt,
	}, nil
}

// SetRemainingAndMarkRefill writes the balance and refill time in one update
// and returns the stored balance.
func (db *DB) SetRemainingAndMarkRefill(ctx context.Context, userID uuid.UUID, remaining int, at time.Time) (int, error) {
	var stored int
	err := db.pool.QueryRow(ctx,
		`UPDATE users SET free_uses_remaining = $2, last_free_refill_at = $3
		 WHERE id = $1
		 RETURNING free_uses_remaining`,
		userID, remaining, at,
	).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return 0, fmt.Errorf("failed to set credits: %w", err)
	}
	return stored, nil
}

// ConsumeFreeUse decrements one credit atomically. It returns -1 without
// decrementing when the balance is empty or the user is unknown.
func (db *DB) ConsumeFreeUse(ctx context.Context, userID uuid.UUID) (int, error) {
	var remaining int
	err := db.pool.QueryRow(ctx,
		`UPDATE users SET free_uses_remaining = free_uses_remaining - 1
		 WHERE id = $1 AND free_uses_remaining > 0
		 RETURNING free_uses_remaining`,
		userID,
	).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return -1, nil
		}
		return 0, fmt.Errorf("failed to consume credit: %w", err)
	}
	return remaining, nil
}

// SetPlan changes a user's plan. When allowance is non-nil the balance is
// overwritten with it.
func (db *DB) SetPlan(ctx context.Context, userID uuid.UUID, plan string, unlimited bool, allowance *int) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET plan = $2, unlimited = $3,
		 free_uses_remaining = COALESCE($4, free_uses_remaining)
		 WHERE id = $1`,
		userID, plan, unlimited, allowance,
	)
	if err != nil {
		return fmt.Errorf("failed to set plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return nil
}
