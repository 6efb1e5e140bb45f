// Package risk scores how risky a candidate looks for a job using simple
// penalty heuristics over the scanned facts and ATS result.
package risk

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-bender/internal/types"
)

// Factor names.
const (
	FactorVeryLowATS          = "very_low_ats"
	FactorLowATS              = "low_ats"
	FactorMissingMustHave     = "missing_must_have_skills"
	FactorVeryLowExperience   = "very_low_experience"
	FactorLowExperience       = "low_experience"
	FactorNoSkills            = "no_skills_listed"
	FactorSeniorLowExperience = "senior_role_low_experience"
)

// Penalty thresholds and amounts.
const (
	VeryLowATSThreshold = 0.30
	LowATSThreshold     = 0.50
	VeryLowATSPenalty   = 0.30
	LowATSPenalty       = 0.15

	MissingSkillBasePenalty = 0.10
	MissingSkillStepPenalty = 0.05
	MissingSkillMaxPenalty  = 0.30

	VeryLowExperienceYears   = 1.0
	LowExperienceYears       = 3.0
	VeryLowExperiencePenalty = 0.20
	LowExperiencePenalty     = 0.10

	NoSkillsPenalty = 0.25

	SeniorRolePenalty = 0.15
)

var seniorTitleKeywords = []string{"senior", "staff", "principal", "lead"}

// Assess starts from a score of 1.0 and subtracts a penalty for every
// heuristic that fires. All checks always run so penalties stack.
func Assess(job types.JobFacts, resume types.ResumeFacts, ats types.AtsResult) types.RiskResult {
	factors := make([]types.RiskFactor, 0, 5)
	score := 1.0

	add := func(name string, penalty float64, description string) {
		score -= penalty
		factors = append(factors, types.RiskFactor{
			Name:        name,
			Weight:      -penalty,
			Description: description,
		})
	}

	switch {
	case ats.AtsScore < VeryLowATSThreshold:
		add(FactorVeryLowATS, VeryLowATSPenalty,
			fmt.Sprintf("ATS score %.2f is very low (< 0.30).", ats.AtsScore))
	case ats.AtsScore < LowATSThreshold:
		add(FactorLowATS, LowATSPenalty,
			fmt.Sprintf("ATS score %.2f is below 0.50.", ats.AtsScore))
	}

	if missing := ats.MissingMustHaveSkills; len(missing) > 0 {
		penalty := MissingSkillPenalty(len(missing))
		add(FactorMissingMustHave, penalty,
			"Resume is missing required skills: "+strings.Join(missing, ", "))
	}

	years := resume.Years()
	switch {
	case years < VeryLowExperienceYears:
		add(FactorVeryLowExperience, VeryLowExperiencePenalty,
			"Total years of experience is less than 1 year.")
	case years < LowExperienceYears:
		add(FactorLowExperience, LowExperiencePenalty,
			"Total years of experience is between 1 and 3 years.")
	}

	if resume.SkillCount() == 0 {
		add(FactorNoSkills, NoSkillsPenalty,
			"Resume scan did not detect any skills or technologies.")
	}

	if IsSeniorTitle(job.Title()) && years < LowExperienceYears {
		add(FactorSeniorLowExperience, SeniorRolePenalty,
			"Job title appears senior (e.g., 'Senior', 'Staff'), but total experience is under 3 years.")
	}

	score = math.Max(0, math.Min(1, score))

	return types.RiskResult{
		RiskScore:   score,
		Factors:     factors,
		Explanation: explain(score, factors),
	}
}

// MissingSkillPenalty is 0.10 plus 0.05 per missing skill, capped at 0.30.
func MissingSkillPenalty(count int) float64 {
	if count <= 0 {
		return 0
	}
	return math.Min(MissingSkillMaxPenalty, MissingSkillBasePenalty+MissingSkillStepPenalty*float64(count))
}

// IsSeniorTitle reports whether title names a senior level role.
func IsSeniorTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range seniorTitleKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func explain(score float64, factors []types.RiskFactor) string {
	if len(factors) == 0 {
		return fmt.Sprintf("Risk score %.2f with no major heuristic risk factors detected.", score)
	}
	descs := make([]string, len(factors))
	for i, f := range factors {
		descs[i] = f.Description
	}
	return fmt.Sprintf("Risk score %.2f based on the following factors: ", score) + strings.Join(descs, " ")
}
