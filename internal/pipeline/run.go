// Package pipeline sequences the scan, match, risk, evaluation and summary
// stages that turn a resume and job posting into a first-impression report
// or a Bender score.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-bender/internal/evaluation"
	"github.com/jonathan/resume-bender/internal/matching"
	"github.com/jonathan/resume-bender/internal/observability"
	"github.com/jonathan/resume-bender/internal/risk"
	"github.com/jonathan/resume-bender/internal/types"
)

// Stage names, in execution order.
const (
	StepScanJob                = evaluation.StepScanJob
	StepScanResume             = evaluation.StepScanResume
	StepAtsMatch               = "ats_match"
	StepRiskAdjust             = "risk_adjust"
	StepCarEvaluate            = evaluation.StepCarEvaluate
	StepSummarize              = evaluation.StepSummarize
	StepExperienceFit          = evaluation.StepExperienceFit
	StepLocationFit            = evaluation.StepLocationFit
	StepCompanyCompetitiveness = evaluation.StepCompanyCompetitiveness
	StepResumeClarity          = evaluation.StepResumeClarity
	StepBenderScore            = "bender_score"
)

// Stage categories used for progress events and stored artifacts.
const (
	CategoryScan     = "scan"
	CategoryMatch    = "match"
	CategoryEvaluate = "evaluate"
	CategorySummary  = "summary"
)

// Run kinds recorded with each run.
const (
	KindFirstImpression = "first_impression"
	KindBender          = "bender"
)

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Scanner turns raw text into facts.
type Scanner interface {
	ScanJob(ctx context.Context, jobText string) (*types.JobFacts, error)
	ScanResume(ctx context.Context, resumeText string) (*types.ResumeFacts, error)
}

// CarEvaluator reviews resume bullets.
type CarEvaluator interface {
	EvaluateCar(ctx context.Context, input types.CarEvaluateInput) (*types.CarEvaluation, error)
}

// Summarizer writes the recruiter-skim narrative.
type Summarizer interface {
	Summarize(ctx context.Context, sc evaluation.SummaryContext) (*types.FirstImpression, error)
}

// FitEvaluator produces the LLM-judged Bender sub-scores.
type FitEvaluator interface {
	ExperienceFit(ctx context.Context, job *types.JobFacts, resume *types.ResumeFacts) (*types.ExperienceFit, error)
	LocationFit(ctx context.Context, job *types.JobFacts, resume *types.ResumeFacts) (*types.LocationFit, error)
	CompanyCompetitiveness(ctx context.Context, job *types.JobFacts, resume *types.ResumeFacts) (*types.CompanyCompetitiveness, error)
	ResumeClarity(ctx context.Context, resumeText string) (*types.ResumeClarity, error)
}

// Recorder persists runs and their per-stage artifacts. Recording failures
// are logged and never fail a run.
type Recorder interface {
	CreateRun(ctx context.Context, kind, company, roleTitle string) (uuid.UUID, error)
	SaveArtifact(ctx context.Context, runID uuid.UUID, step, category string, content any) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status string) error
}

// Input is one resume and job pair. Bullets are optional.
type Input struct {
	ResumeText string
	JobText    string
	Bullets    []string
}

// HasBullets reports whether at least one bullet is non-blank.
func (in Input) HasBullets() bool {
	for _, b := range in.Bullets {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

// matchResult holds the outputs of the deterministic front half shared by
// both pipelines.
type matchResult struct {
	Job    *types.JobFacts
	Resume *types.ResumeFacts
	Ats    types.AtsResult
	Risk   types.RiskResult
}

// run carries the per-invocation state: logger, run id and progress sink.
type run struct {
	logger     *zap.Logger
	recorder   Recorder
	kind       string
	id         uuid.UUID
	onProgress ProgressCallback
	mu         sync.Mutex
}

func newRun(logger *zap.Logger, recorder Recorder, kind string, onProgress ProgressCallback) *run {
	return &run{
		logger:     observability.OrNop(logger),
		recorder:   recorder,
		kind:       kind,
		onProgress: onProgress,
	}
}

// start creates the run record once the job is known.
func (r *run) start(ctx context.Context, job *types.JobFacts) {
	if r.recorder == nil {
		return
	}
	id, err := r.recorder.CreateRun(ctx, r.kind, job.Company(), job.Title())
	if err != nil {
		r.logger.Warn("failed to create run record", zap.Error(err))
		return
	}
	r.id = id
	r.logger = r.logger.With(zap.String(observability.FieldRunID, id.String()))
}

func (r *run) recording() bool {
	return r.recorder != nil && r.id != uuid.Nil
}

// step times fn under name and, on success, emits a progress event and
// stores content as the step's artifact.
func (r *run) step(ctx context.Context, name, category string, fn func() (message string, content any, err error)) error {
	var (
		message string
		content any
	)
	err := observability.Timed(r.logger, name, func() error {
		var err error
		message, content, err = fn()
		return err
	})
	if err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}

	r.emit(name, category, message, content)
	if r.recording() {
		if err := r.recorder.SaveArtifact(ctx, r.id, name, category, content); err != nil {
			r.logger.Warn("failed to save artifact", zap.String(observability.FieldStep, name), zap.Error(err))
		}
	}
	return nil
}

func (r *run) emit(step, category, message string, content any) {
	if r.onProgress == nil {
		return
	}
	event := ProgressEvent{
		Step:     step,
		Category: category,
		Message:  message,
		Content:  content,
	}
	if r.id != uuid.Nil {
		event.RunID = r.id.String()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onProgress(event)
}

// finish marks the run completed or failed. A cancelled request still
// records its outcome.
func (r *run) finish(ctx context.Context, err error) {
	if !r.recording() {
		return
	}
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
	}
	if cerr := r.recorder.CompleteRun(context.WithoutCancel(ctx), r.id, status); cerr != nil {
		r.logger.Warn("failed to complete run record", zap.Error(cerr))
	}
}

// scanAndMatch runs SCAN_JOB, SCAN_RESUME, ATS_MATCH and RISK_ADJUST in order.
// Scan failures are fatal.
func scanAndMatch(ctx context.Context, r *run, scanner Scanner, scorer *matching.Scorer, in Input) (*matchResult, error) {
	res := &matchResult{}

	if err := r.step(ctx, StepScanJob, CategoryScan, func() (string, any, error) {
		job, err := scanner.ScanJob(ctx, in.JobText)
		if err != nil {
			return "", nil, err
		}
		res.Job = job
		r.start(ctx, job)
		return fmt.Sprintf("Scanned job: %s", types.Deref(job.RawTitle, "untitled role")), job, nil
	}); err != nil {
		return nil, err
	}

	if err := r.step(ctx, StepScanResume, CategoryScan, func() (string, any, error) {
		resume, err := scanner.ScanResume(ctx, in.ResumeText)
		if err != nil {
			return "", nil, err
		}
		res.Resume = resume
		return fmt.Sprintf("Scanned resume with %d skills", resume.SkillCount()), resume, nil
	}); err != nil {
		return nil, err
	}

	_ = r.step(ctx, StepAtsMatch, CategoryMatch, func() (string, any, error) {
		res.Ats = scorer.Score(*res.Job, *res.Resume)
		return fmt.Sprintf("ATS score %.2f", res.Ats.AtsScore), res.Ats, nil
	})

	_ = r.step(ctx, StepRiskAdjust, CategoryMatch, func() (string, any, error) {
		res.Risk = risk.Assess(*res.Job, *res.Resume, res.Ats)
		return fmt.Sprintf("Risk score %.2f with %d factors", res.Risk.RiskScore, len(res.Risk.Factors)), res.Risk, nil
	})

	return res, nil
}
