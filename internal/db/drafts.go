package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SaveDraft stores a generated draft and returns its ID
func (db *DB) SaveDraft(ctx context.Context, d *Draft) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO drafts (user_id, url, job_title, prompt, bullets, provider, model)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		d.UserID, d.URL, d.JobTitle, d.Prompt, d.Bullets, d.Provider, d.Model,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return id, nil
}

// ListRecentDrafts returns the newest drafts first
func (db *DB) ListRecentDrafts(ctx context.Context, limit int) ([]Draft, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, url, job_title, prompt, bullets, provider, model, created_at
		 FROM drafts ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	drafts := []Draft{}
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.ID, &d.UserID, &d.URL, &d.JobTitle, &d.Prompt, &d.Bullets, &d.Provider, &d.Model, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}
