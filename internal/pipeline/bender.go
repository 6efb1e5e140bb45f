package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-bender/internal/matching"
	"github.com/jonathan/resume-bender/internal/scoring"
	"github.com/jonathan/resume-bender/internal/types"
)

// BenderEvaluator is the set of LLM collaborators the Bender score needs.
// *evaluation.Evaluator satisfies it.
type BenderEvaluator interface {
	Scanner
	CarEvaluator
	FitEvaluator
}

// BenderRunner scans both documents, runs ATS and risk, then evaluates the
// LLM-judged sub-scores concurrently and combines everything into a
// Bender score.
type BenderRunner struct {
	evaluator BenderEvaluator
	scorer    *matching.Scorer
	recorder  Recorder
	logger    *zap.Logger
}

// NewBenderRunner creates a BenderRunner. recorder and logger may be nil.
func NewBenderRunner(evaluator BenderEvaluator, scorer *matching.Scorer, recorder Recorder, logger *zap.Logger) *BenderRunner {
	return &BenderRunner{
		evaluator: evaluator,
		scorer:    scorer,
		recorder:  recorder,
		logger:    logger,
	}
}

// BenderResult is the final score plus every stage output. Location is
// informational and nil when its evaluation failed.
type BenderResult struct {
	RunID           uuid.UUID
	Job             *types.JobFacts
	Resume          *types.ResumeFacts
	Ats             types.AtsResult
	Risk            types.RiskResult
	Car             *types.CarEvaluation
	Experience      *types.ExperienceFit
	Clarity         *types.ResumeClarity
	Competitiveness *types.CompanyCompetitiveness
	Location        *types.LocationFit
	Score           types.BenderScore
}

// Run executes the pipeline. A failure of any weighted sub-score aborts the
// run.
func (b *BenderRunner) Run(ctx context.Context, in Input, onProgress ProgressCallback) (result *BenderResult, err error) {
	r := newRun(b.logger, b.recorder, KindBender, onProgress)
	defer func() { r.finish(ctx, err) }()

	m, err := scanAndMatch(ctx, r, b.evaluator, b.scorer, in)
	if err != nil {
		return nil, err
	}

	res := &BenderResult{
		Job:    m.Job,
		Resume: m.Resume,
		Ats:    m.Ats,
		Risk:   m.Risk,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.step(gCtx, StepExperienceFit, CategoryEvaluate, func() (string, any, error) {
			fit, err := b.evaluator.ExperienceFit(gCtx, m.Job, m.Resume)
			if err != nil {
				return "", nil, err
			}
			res.Experience = fit
			return fmt.Sprintf("Experience fit %.0f", fit.Score), fit, nil
		})
	})

	g.Go(func() error {
		return r.step(gCtx, StepResumeClarity, CategoryEvaluate, func() (string, any, error) {
			rc, err := b.evaluator.ResumeClarity(gCtx, in.ResumeText)
			if err != nil {
				return "", nil, err
			}
			res.Clarity = rc
			return fmt.Sprintf("Resume clarity %.0f", rc.Score), rc, nil
		})
	})

	g.Go(func() error {
		return r.step(gCtx, StepCompanyCompetitiveness, CategoryEvaluate, func() (string, any, error) {
			cc, err := b.evaluator.CompanyCompetitiveness(gCtx, m.Job, m.Resume)
			if err != nil {
				return "", nil, err
			}
			res.Competitiveness = cc
			return fmt.Sprintf("Company competitiveness %.0f", cc.Score), cc, nil
		})
	})

	g.Go(func() error {
		err := r.step(gCtx, StepLocationFit, CategoryEvaluate, func() (string, any, error) {
			lf, err := b.evaluator.LocationFit(gCtx, m.Job, m.Resume)
			if err != nil {
				return "", nil, err
			}
			res.Location = lf
			return fmt.Sprintf("Location fit %.0f", lf.Score), lf, nil
		})
		if err != nil {
			r.logger.Warn("location fit skipped", zap.Error(err))
		}
		return nil
	})

	if in.HasBullets() {
		g.Go(func() error {
			return r.step(gCtx, StepCarEvaluate, CategoryEvaluate, func() (string, any, error) {
				eval, err := b.evaluator.EvaluateCar(gCtx, types.CarEvaluateInput{
					Bullets:      in.Bullets,
					JobTitleHint: m.Job.Title(),
				})
				if err != nil {
					return "", nil, err
				}
				res.Car = eval
				return fmt.Sprintf("CAR score %.2f over %d bullets", eval.OverallCarScore, len(eval.Bullets)), eval, nil
			})
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	_ = r.step(ctx, StepBenderScore, CategorySummary, func() (string, any, error) {
		res.Score = scoring.NewBenderScore(benderInputs(res))
		return fmt.Sprintf("Bender score %.2f", res.Score.FinalBenderScore), res.Score, nil
	})

	res.RunID = r.id
	return res, nil
}

// benderInputs maps stage outputs onto the 0-100 sub-score scale.
func benderInputs(res *BenderResult) scoring.Inputs {
	in := scoring.Inputs{
		AtsAlignment:           scoring.Scale(res.Ats.AtsScore),
		ExperienceFit:          scoring.Clamp(res.Experience.Score, 0, 100),
		ResumeClarity:          scoring.Clamp(res.Clarity.Score, 0, 100),
		CompanyCompetitiveness: scoring.Clamp(res.Competitiveness.Score, 0, 100),
		RiskAdjustment:         scoring.Scale(res.Risk.RiskScore),
	}
	if res.Car != nil {
		car := scoring.Scale(res.Car.OverallCarScore)
		in.CarQuality = &car
	}
	return in
}
