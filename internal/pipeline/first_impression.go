package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-bender/internal/evaluation"
	"github.com/jonathan/resume-bender/internal/matching"
	"github.com/jonathan/resume-bender/internal/types"
)

// FirstImpressionEvaluator is the set of LLM collaborators the first
// impression needs. *evaluation.Evaluator satisfies it.
type FirstImpressionEvaluator interface {
	Scanner
	CarEvaluator
	Summarizer
}

// Sequencer runs SCAN_JOB, SCAN_RESUME, ATS_MATCH, RISK_ADJUST, the optional
// CAR_EVALUATE and SUMMARIZE in that order.
type Sequencer struct {
	evaluator FirstImpressionEvaluator
	scorer    *matching.Scorer
	recorder  Recorder
	logger    *zap.Logger
}

// NewSequencer creates a Sequencer. recorder and logger may be nil.
func NewSequencer(evaluator FirstImpressionEvaluator, scorer *matching.Scorer, recorder Recorder, logger *zap.Logger) *Sequencer {
	return &Sequencer{
		evaluator: evaluator,
		scorer:    scorer,
		recorder:  recorder,
		logger:    logger,
	}
}

// FirstImpressionResult is the report plus every intermediate stage output.
type FirstImpressionResult struct {
	RunID  uuid.UUID
	Job    *types.JobFacts
	Resume *types.ResumeFacts
	Ats    types.AtsResult
	Risk   types.RiskResult
	Car    *types.CarEvaluation
	Report *types.FirstImpression
}

// Run executes the pipeline. Any collaborator failure aborts the run and no
// partial result is returned.
func (s *Sequencer) Run(ctx context.Context, in Input, onProgress ProgressCallback) (result *FirstImpressionResult, err error) {
	r := newRun(s.logger, s.recorder, KindFirstImpression, onProgress)
	defer func() { r.finish(ctx, err) }()

	m, err := scanAndMatch(ctx, r, s.evaluator, s.scorer, in)
	if err != nil {
		return nil, err
	}

	var car *types.CarEvaluation
	if in.HasBullets() {
		if err := r.step(ctx, StepCarEvaluate, CategoryEvaluate, func() (string, any, error) {
			eval, err := s.evaluator.EvaluateCar(ctx, types.CarEvaluateInput{
				Bullets:      in.Bullets,
				JobTitleHint: m.Job.Title(),
			})
			if err != nil {
				return "", nil, err
			}
			car = eval
			return fmt.Sprintf("CAR score %.2f over %d bullets", eval.OverallCarScore, len(eval.Bullets)), eval, nil
		}); err != nil {
			return nil, err
		}
	}

	var report *types.FirstImpression
	if err := r.step(ctx, StepSummarize, CategorySummary, func() (string, any, error) {
		fi, err := s.evaluator.Summarize(ctx, evaluation.SummaryContext{
			Job:    m.Job,
			Resume: m.Resume,
			Ats:    &m.Ats,
			Risk:   &m.Risk,
			Car:    car,
		})
		if err != nil {
			return "", nil, err
		}
		applyComputedScores(fi, m.Ats, m.Risk, car)
		report = fi
		return fmt.Sprintf("First impression: %s", fi.Label), fi, nil
	}); err != nil {
		return nil, err
	}

	return &FirstImpressionResult{
		RunID:  r.id,
		Job:    m.Job,
		Resume: m.Resume,
		Ats:    m.Ats,
		Risk:   m.Risk,
		Car:    car,
		Report: report,
	}, nil
}

// applyComputedScores replaces the numbers echoed by the summarizer with the
// values computed by the deterministic stages.
func applyComputedScores(fi *types.FirstImpression, ats types.AtsResult, risk types.RiskResult, car *types.CarEvaluation) {
	fi.AtsScore = ats.AtsScore
	fi.RiskScore = risk.RiskScore
	fi.CarScore = nil
	if car != nil {
		score := car.OverallCarScore
		fi.CarScore = &score
	}
}
