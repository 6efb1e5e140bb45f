package types

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

// newValidator reports field errors by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FirstImpressionRequest is the body of the first-impression and bender-score endpoints.
type FirstImpressionRequest struct {
	ResumeText string   `json:"resume_text" validate:"required"`
	JobText    string   `json:"job_text" validate:"required"`
	Bullets    []string `json:"bullets,omitempty"`
}

// AtsMatchRequest carries already-scanned facts for deterministic scoring.
type AtsMatchRequest struct {
	Job    JobFacts    `json:"job"`
	Resume ResumeFacts `json:"resume"`
}

// AggregateRequest carries six sub-scores to combine.
type AggregateRequest struct {
	SubScores
}

// IngestRequest asks for a job description to be fetched from a URL.
type IngestRequest struct {
	URL         string `json:"url" validate:"required,url"`
	AllowRender bool   `json:"allow_render,omitempty"`
}

// DraftRequest asks for a bullet-drafting prompt built from a job URL.
type DraftRequest struct {
	URL      string `json:"url" validate:"required,url"`
	Q        string `json:"q,omitempty"`
	JobTitle string `json:"job_title,omitempty"`
	Resume   string `json:"resume,omitempty"`
}

// AgenticDraftRequest is the body of the v3 draft endpoint.
type AgenticDraftRequest struct {
	JobTitle   string   `json:"job_title" validate:"required"`
	Context    []string `json:"context"`
	ResumeText string   `json:"resume_text" validate:"required"`
}

// CaptureRequest is an analytics event posted by the web client.
type CaptureRequest struct {
	Name          string         `json:"name" validate:"required,max=128"`
	Props         map[string]any `json:"props,omitempty"`
	Path          *string        `json:"path,omitempty"`
	AnonID        *string        `json:"anon_id,omitempty"`
	ClientEventID *uuid.UUID     `json:"client_event_id,omitempty"`
}

// Validate validates the FirstImpressionRequest using the validator.
func (r *FirstImpressionRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the IngestRequest using the validator.
func (r *IngestRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the DraftRequest using the validator.
func (r *DraftRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the AgenticDraftRequest using the validator.
func (r *AgenticDraftRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the CaptureRequest using the validator.
func (r *CaptureRequest) Validate() error {
	return validate.Struct(r)
}
