package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-bender/internal/llm"
	"github.com/jonathan/resume-bender/internal/prompts"
	"github.com/jonathan/resume-bender/internal/schemas"
	"github.com/jonathan/resume-bender/internal/types"
)

// SummaryContext is everything the first-impression summary is shown.
// Car is nil when no bullets were evaluated.
type SummaryContext struct {
	Job    *types.JobFacts
	Resume *types.ResumeFacts
	Ats    *types.AtsResult
	Risk   *types.RiskResult
	Car    *types.CarEvaluation
}

// Summarize asks the model for a recruiter-skim report. The numeric fields
// of the reply are echoes only; callers replace them with computed scores.
func (e *Evaluator) Summarize(ctx context.Context, sc SummaryContext) (*types.FirstImpression, error) {
	data := make(map[string]string, 5)
	for key, v := range map[string]any{
		"JobScan":    sc.Job,
		"ResumeScan": sc.Resume,
		"AtsResult":  sc.Ats,
		"RiskResult": sc.Risk,
		"CarResult":  sc.Car,
	} {
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, &ValidationError{Field: key, Message: err.Error()}
		}
		data[key] = string(b)
	}

	fi, err := generate[types.FirstImpression](ctx, e, call{
		step:   StepSummarize,
		file:   prompts.SummaryFile,
		prompt: "first-impression",
		schema: schemas.FirstImpression,
		tier:   llm.TierStandard,
		data:   data,
	})
	if err != nil {
		return nil, err
	}

	if !fi.Label.Valid() {
		return nil, &ValidationError{Field: "label", Message: fmt.Sprintf("unknown label %q", fi.Label)}
	}
	if n := len(fi.Highlights); n < types.MinHighlights || n > types.MaxHighlights {
		return nil, &ValidationError{
			Field:   "highlights",
			Message: fmt.Sprintf("expected %d-%d highlights, got %d", types.MinHighlights, types.MaxHighlights, n),
		}
	}
	fi.Headline = strings.TrimSpace(fi.Headline)
	fi.QuickSummary = strings.TrimSpace(fi.QuickSummary)
	return fi, nil
}
