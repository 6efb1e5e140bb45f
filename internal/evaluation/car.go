package evaluation

import (
	"context"
	"strings"

	"github.com/jonathan/resume-bender/internal/llm"
	"github.com/jonathan/resume-bender/internal/prompts"
	"github.com/jonathan/resume-bender/internal/schemas"
	"github.com/jonathan/resume-bender/internal/types"
)

// EvaluateCar reviews bullets for Context, Action and Result. All scores in
// the reply are clamped to [0,1].
func (e *Evaluator) EvaluateCar(ctx context.Context, input types.CarEvaluateInput) (*types.CarEvaluation, error) {
	bullets := FormatBullets(input.Bullets)
	if bullets == "" {
		return nil, &ValidationError{Field: "bullets", Message: "at least one non-empty bullet is required"}
	}

	eval, err := generate[types.CarEvaluation](ctx, e, call{
		step:   StepCarEvaluate,
		file:   prompts.EvaluationFile,
		prompt: "car-evaluate",
		schema: schemas.CarEvaluation,
		tier:   llm.TierStandard,
		data: map[string]string{
			"Bullets":        bullets,
			"JobContextNote": contextNote(input.JobTitleHint, input.SeniorityHint),
		},
	})
	if err != nil {
		return nil, err
	}

	eval.OverallCarScore = clampScore(eval.OverallCarScore, 0, 1)
	if eval.Bullets == nil {
		eval.Bullets = []types.CarBulletAnalysis{}
	}
	for i := range eval.Bullets {
		b := &eval.Bullets[i]
		b.ClarityScore = clampScore(b.ClarityScore, 0, 1)
		b.CarQualityScore = clampScore(b.CarQualityScore, 0, 1)
	}
	return eval, nil
}

// FormatBullets renders bullets as "- text" lines, skipping blank entries.
func FormatBullets(bullets []string) string {
	lines := make([]string, 0, len(bullets))
	for _, b := range bullets {
		if s := strings.TrimSpace(b); s != "" {
			lines = append(lines, "- "+s)
		}
	}
	return strings.Join(lines, "\n")
}

func contextNote(jobTitle, seniority string) string {
	jobTitle = strings.TrimSpace(jobTitle)
	seniority = strings.TrimSpace(seniority)
	if jobTitle == "" && seniority == "" {
		return "Context: No specific job title or seniority was provided."
	}

	lines := []string{"Context:"}
	if jobTitle != "" {
		lines = append(lines, "Job title: "+jobTitle)
	}
	if seniority != "" {
		lines = append(lines, "Seniority: "+seniority)
	}
	return strings.Join(lines, "\n")
}
