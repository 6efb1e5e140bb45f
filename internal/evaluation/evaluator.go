// Package evaluation wraps the LLM-backed collaborators of the scoring
// pipeline: job and resume scanning, CAR bullet review, the four fit
// evaluators, the first-impression summary and bullet drafting.
//
// Every call follows the same path: render a prompt, ask the model for JSON,
// strip fences, validate against the embedded schema, decode and normalize.
package evaluation

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-bender/internal/llm"
	"github.com/jonathan/resume-bender/internal/observability"
	"github.com/jonathan/resume-bender/internal/prompts"
	"github.com/jonathan/resume-bender/internal/schemas"
)

// Step names used in errors and logs.
const (
	StepScanJob                = "scan_job"
	StepScanResume             = "scan_resume"
	StepCarEvaluate            = "car_evaluate"
	StepExperienceFit          = "experience_fit"
	StepLocationFit            = "location_fit"
	StepCompanyCompetitiveness = "company_competitiveness"
	StepResumeClarity          = "resume_clarity"
	StepSummarize              = "summarize"
	StepDraftBullets           = "draft_bullets"
)

// maxLoggedReply bounds how much of a rejected model reply is logged.
const maxLoggedReply = 500

// Evaluator runs the LLM-backed evaluations against a single client.
type Evaluator struct {
	client llm.Client
	logger *zap.Logger
}

// New creates an Evaluator. A nil logger disables logging.
func New(client llm.Client, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		client: client,
		logger: observability.OrNop(logger),
	}
}

// Model returns the model name used for the given tier.
func (e *Evaluator) Model(tier llm.ModelTier) string {
	return e.client.GetModel(tier)
}

type call struct {
	step   string
	file   string
	prompt string
	schema string
	tier   llm.ModelTier
	data   map[string]string
}

// generate renders the prompt for c, asks the model for JSON, checks the
// reply against the schema and decodes it into a T.
func generate[T any](ctx context.Context, e *Evaluator, c call) (*T, error) {
	prompt, err := prompts.Render(c.file, c.prompt, c.data)
	if err != nil {
		return nil, &APICallError{Step: c.step, Message: "failed to build prompt", Cause: err}
	}

	reply, err := e.client.GenerateJSON(ctx, prompt, c.tier)
	if err != nil {
		return nil, &APICallError{Step: c.step, Message: "failed to generate content from LLM", Cause: err}
	}
	reply = llm.CleanJSONBlock(reply)

	if err := schemas.Validate(c.schema, reply); err != nil {
		e.logger.Debug("rejected model reply",
			zap.String(observability.FieldStep, c.step),
			zap.String("reply", observability.TruncateForLog(reply, maxLoggedReply)),
		)
		return nil, &ParseError{Step: c.step, Message: "reply does not match schema", Cause: err}
	}

	var out T
	if err := json.Unmarshal([]byte(reply), &out); err != nil {
		return nil, &ParseError{Step: c.step, Message: "failed to parse JSON response", Cause: err}
	}
	return &out, nil
}

// trimList trims every entry and drops the blank ones. The result is never nil.
func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clampScore(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func clampPtr(v *float64, lo, hi float64) *float64 {
	if v == nil {
		return nil
	}
	c := clampScore(*v, lo, hi)
	return &c
}

// orDefault returns the trimmed pointed-to string, or fallback when it is
// nil or blank.
func orDefault(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return strings.TrimSpace(*s)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None listed"
	}
	return strings.Join(items, ", ")
}
