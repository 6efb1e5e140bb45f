package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-bender/internal/types"
)

// Artifact steps read back by the API. They match the stage names the
// pipeline records.
const (
	StepJobFacts        = "scan_job"
	StepResumeFacts     = "scan_resume"
	StepFirstImpression = "summarize"
	StepBenderScore     = "bender_score"
)

// getArtifactAs loads one step and decodes it into T. It returns nil when
// the step was never stored.
func getArtifactAs[T any](ctx context.Context, db *DB, runID uuid.UUID, step string) (*T, error) {
	content, err := db.GetArtifact(ctx, runID, step)
	if err != nil {
		return nil, err
	}
	return decodeArtifact[T](content, step)
}

func decodeArtifact[T any](content []byte, step string) (*T, error) {
	if content == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(content, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", step, err)
	}
	return &v, nil
}

// GetJobFactsByRunID loads the job scan of a run
func (db *DB) GetJobFactsByRunID(ctx context.Context, runID uuid.UUID) (*types.JobFacts, error) {
	return getArtifactAs[types.JobFacts](ctx, db, runID, StepJobFacts)
}

// GetResumeFactsByRunID loads the resume scan of a run
func (db *DB) GetResumeFactsByRunID(ctx context.Context, runID uuid.UUID) (*types.ResumeFacts, error) {
	return getArtifactAs[types.ResumeFacts](ctx, db, runID, StepResumeFacts)
}

// GetFirstImpressionByRunID loads the recruiter summary of a first-impression run
func (db *DB) GetFirstImpressionByRunID(ctx context.Context, runID uuid.UUID) (*types.FirstImpression, error) {
	return getArtifactAs[types.FirstImpression](ctx, db, runID, StepFirstImpression)
}

// GetBenderScoreByRunID loads the final score of a bender run
func (db *DB) GetBenderScoreByRunID(ctx context.Context, runID uuid.UUID) (*types.BenderScore, error) {
	return getArtifactAs[types.BenderScore](ctx, db, runID, StepBenderScore)
}
