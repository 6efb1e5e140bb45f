package db

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for missing rows on write paths. Reads return nil, nil.
var (
	ErrRunNotFound  = errors.New("run not found")
	ErrUserNotFound = errors.New("user not found")
)

// Run is one first-impression or bender scoring run
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	Company     string     `json:"company"`
	RoleTitle   string     `json:"role_title"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Artifact is the stored output of one run stage
type Artifact struct {
	ID        uuid.UUID       `json:"id"`
	RunID     uuid.UUID       `json:"run_id"`
	Step      string          `json:"step"`
	Category  string          `json:"category"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}

// Draft is a generated set of resume bullets for a job posting
type Draft struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	URL       string     `json:"url"`
	JobTitle  string     `json:"job_title"`
	Prompt    string     `json:"prompt"`
	Bullets   string     `json:"bullets"`
	Provider  string     `json:"provider"`
	Model     string     `json:"model"`
	CreatedAt time.Time  `json:"created_at"`
}

// AnalyticsEvent is a client-side event captured by the web app
type AnalyticsEvent struct {
	ClientEventID uuid.UUID      `json:"client_event_id"`
	Name          string         `json:"name"`
	Props         map[string]any `json:"props"`
	UserID        *uuid.UUID     `json:"user_id,omitempty"`
	AnonID        *string        `json:"anon_id,omitempty"`
	Path          *string        `json:"path,omitempty"`
	IP            *string        `json:"ip,omitempty"`
	UserAgent     *string        `json:"ua,omitempty"`
}
