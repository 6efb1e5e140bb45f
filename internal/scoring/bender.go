// Package scoring combines the six Bender sub-scores into the final
// weighted Bender score.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-bender/internal/types"
)

// Weights holds the share of each sub-score in the final score.
type Weights struct {
	AtsAlignment           float64
	ExperienceFit          float64
	CarQuality             float64
	ResumeClarity          float64
	CompanyCompetitiveness float64
	RiskAdjustment         float64
}

// DefaultWeights sum to 1.0.
var DefaultWeights = Weights{
	AtsAlignment:           0.30,
	ExperienceFit:          0.20,
	CarQuality:             0.20,
	ResumeClarity:          0.10,
	CompanyCompetitiveness: 0.10,
	RiskAdjustment:         0.10,
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.AtsAlignment + w.ExperienceFit + w.CarQuality +
		w.ResumeClarity + w.CompanyCompetitiveness + w.RiskAdjustment
}

// WithoutCar drops the CAR weight and spreads it over the remaining five
// sub-scores in proportion to their own weights.
func (w Weights) WithoutCar() Weights {
	rest := w.Sum() - w.CarQuality
	if rest <= 0 {
		return Weights{}
	}
	scale := w.Sum() / rest
	return Weights{
		AtsAlignment:           w.AtsAlignment * scale,
		ExperienceFit:          w.ExperienceFit * scale,
		ResumeClarity:          w.ResumeClarity * scale,
		CompanyCompetitiveness: w.CompanyCompetitiveness * scale,
		RiskAdjustment:         w.RiskAdjustment * scale,
	}
}

// Aggregate computes the weighted sum of s with DefaultWeights, clamped to
// [0, 100]. Inputs are not validated; out-of-range values only affect the
// sum before clamping.
func Aggregate(s types.SubScores) float64 {
	return DefaultWeights.Apply(s)
}

// Apply computes the weighted sum of s clamped to [0, 100].
func (w Weights) Apply(s types.SubScores) float64 {
	total := w.AtsAlignment*s.AtsAlignment +
		w.ExperienceFit*s.ExperienceFit +
		w.CarQuality*s.CarQuality +
		w.ResumeClarity*s.ResumeClarity +
		w.CompanyCompetitiveness*s.CompanyCompetitiveness +
		w.RiskAdjustment*s.RiskAdjustment
	return Clamp(total, 0, 100)
}

// Inputs are the sub-scores for one resume and job pair. CarQuality is nil
// when no bullets were evaluated.
type Inputs struct {
	AtsAlignment           float64
	ExperienceFit          float64
	CarQuality             *float64
	ResumeClarity          float64
	CompanyCompetitiveness float64
	RiskAdjustment         float64
}

// NewBenderScore builds the final score. When CarQuality is nil its weight
// is redistributed so that a missing CAR evaluation is not scored as zero.
func NewBenderScore(in Inputs) types.BenderScore {
	sub := types.SubScores{
		AtsAlignment:           in.AtsAlignment,
		ExperienceFit:          in.ExperienceFit,
		ResumeClarity:          in.ResumeClarity,
		CompanyCompetitiveness: in.CompanyCompetitiveness,
		RiskAdjustment:         in.RiskAdjustment,
	}

	weights := DefaultWeights
	if in.CarQuality != nil {
		sub.CarQuality = *in.CarQuality
	} else {
		weights = weights.WithoutCar()
	}

	final := round2(weights.Apply(sub))

	return types.BenderScore{
		AtsAlignment:           in.AtsAlignment,
		ExperienceFit:          in.ExperienceFit,
		CarQuality:             in.CarQuality,
		ResumeClarity:          in.ResumeClarity,
		CompanyCompetitiveness: in.CompanyCompetitiveness,
		RiskAdjustment:         in.RiskAdjustment,
		FinalBenderScore:       final,
		Explanation:            explain(final, in, weights),
	}
}

// Band describes where a final score falls.
func Band(score float64) string {
	switch {
	case score >= 90:
		return "excellent, top-tier for this role"
	case score >= 70:
		return "strong, likely to pass first screens"
	case score >= 50:
		return "borderline, needs noticeable improvements"
	default:
		return "weak match"
	}
}

type namedScore struct {
	name  string
	value float64
}

func explain(final float64, in Inputs, w Weights) string {
	parts := []namedScore{
		{"ATS alignment", in.AtsAlignment},
		{"experience fit", in.ExperienceFit},
		{"resume clarity", in.ResumeClarity},
		{"company competitiveness", in.CompanyCompetitiveness},
		{"risk adjustment", in.RiskAdjustment},
	}
	if in.CarQuality != nil {
		parts = append(parts, namedScore{"CAR bullet quality", *in.CarQuality})
	}
	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].value > parts[j].value
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Bender score %.1f (%s).", final, Band(final))
	fmt.Fprintf(&b, " Strongest: %s (%.0f).", parts[0].name, parts[0].value)
	last := parts[len(parts)-1]
	fmt.Fprintf(&b, " Weakest: %s (%.0f).", last.name, last.value)
	if in.CarQuality == nil {
		b.WriteString(" No bullets were provided, so CAR quality was not scored and its weight was spread over the other sub-scores.")
	}

	contributions := []string{
		fmt.Sprintf("ATS alignment %.1f", w.AtsAlignment*in.AtsAlignment),
		fmt.Sprintf("experience fit %.1f", w.ExperienceFit*in.ExperienceFit),
	}
	if in.CarQuality != nil {
		contributions = append(contributions, fmt.Sprintf("CAR bullet quality %.1f", w.CarQuality**in.CarQuality))
	}
	contributions = append(contributions,
		fmt.Sprintf("resume clarity %.1f", w.ResumeClarity*in.ResumeClarity),
		fmt.Sprintf("company competitiveness %.1f", w.CompanyCompetitiveness*in.CompanyCompetitiveness),
		fmt.Sprintf("risk adjustment %.1f", w.RiskAdjustment*in.RiskAdjustment),
	)
	fmt.Fprintf(&b, " Weighted contributions: %s.", strings.Join(contributions, ", "))
	return b.String()
}

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Scale converts a 0-1 score to 0-100.
func Scale(unit float64) float64 {
	return round2(Clamp(unit, 0, 1) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
