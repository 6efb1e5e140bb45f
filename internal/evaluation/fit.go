package evaluation

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonathan/resume-bender/internal/llm"
	"github.com/jonathan/resume-bender/internal/prompts"
	"github.com/jonathan/resume-bender/internal/schemas"
	"github.com/jonathan/resume-bender/internal/types"
)

const notProvided = "Not provided"

// ExperienceFit scores years, seniority and skill evidence from scanned
// facts on a 0-100 scale.
func (e *Evaluator) ExperienceFit(ctx context.Context, job *types.JobFacts, resume *types.ResumeFacts) (*types.ExperienceFit, error) {
	if job == nil || resume == nil {
		return nil, &ValidationError{Message: "job and resume facts are required"}
	}

	years := "Unknown"
	if resume.TotalYearsExperience != nil {
		years = strconv.FormatFloat(*resume.TotalYearsExperience, 'f', -1, 64)
	}
	skills := append(append([]string{}, resume.GlobalSkills...), resume.ToolsAndTech...)

	fit, err := generate[types.ExperienceFit](ctx, e, call{
		step:   StepExperienceFit,
		file:   prompts.EvaluationFile,
		prompt: "experience-fit",
		schema: schemas.ExperienceFit,
		tier:   llm.TierStandard,
		data: map[string]string{
			"ResumeYears":   years,
			"ResumeSkills":  joinOrNone(skills),
			"ResumeSummary": orDefault(resume.WorkExperienceSummary, orDefault(resume.SummaryForMatching, notProvided)),
			"JobMustHave":   joinOrNone(job.MustHaveSkills),
			"JobNiceToHave": joinOrNone(job.NiceToHaveSkills),
			"JobSummary":    jobSummary(job),
		},
	})
	if err != nil {
		return nil, err
	}

	fit.Score = clampScore(fit.Score, 0, 100)
	fit.KeySkillsMissingFromExperience = trimList(fit.KeySkillsMissingFromExperience)
	return fit, nil
}

// LocationFit scores remote/onsite and relocation compatibility on a 0-100
// scale.
func (e *Evaluator) LocationFit(ctx context.Context, job *types.JobFacts, resume *types.ResumeFacts) (*types.LocationFit, error) {
	if job == nil || resume == nil {
		return nil, &ValidationError{Message: "job and resume facts are required"}
	}

	fit, err := generate[types.LocationFit](ctx, e, call{
		step:   StepLocationFit,
		file:   prompts.EvaluationFile,
		prompt: "location-fit",
		schema: schemas.LocationFit,
		tier:   llm.TierStandard,
		data: map[string]string{
			"ResumeSummary": orDefault(resume.SummaryForMatching, orDefault(resume.WorkExperienceSummary, notProvided)),
			"JobLocation":   orDefault(job.Location, "Not specified"),
			"JobSummary":    jobSummary(job),
		},
	})
	if err != nil {
		return nil, err
	}

	fit.Score = clampScore(fit.Score, 0, 100)
	return fit, nil
}

// CompanyCompetitiveness scores the candidate's pedigree and trajectory
// against the hiring company on a 0-100 scale.
func (e *Evaluator) CompanyCompetitiveness(ctx context.Context, job *types.JobFacts, resume *types.ResumeFacts) (*types.CompanyCompetitiveness, error) {
	if job == nil || resume == nil {
		return nil, &ValidationError{Message: "job and resume facts are required"}
	}

	cc, err := generate[types.CompanyCompetitiveness](ctx, e, call{
		step:   StepCompanyCompetitiveness,
		file:   prompts.EvaluationFile,
		prompt: "company-competitiveness",
		schema: schemas.CompanyCompetitiveness,
		tier:   llm.TierStandard,
		data: map[string]string{
			"ResumeSummary": orDefault(resume.WorkExperienceSummary, orDefault(resume.SummaryForMatching, notProvided)),
			"JobCompany":    orDefault(job.CompanyName, "Unknown Company"),
			"JobSummary":    jobSummary(job),
		},
	})
	if err != nil {
		return nil, err
	}

	cc.Score = clampScore(cc.Score, 0, 100)
	cc.GapFactors = trimList(cc.GapFactors)
	return cc, nil
}

// ResumeClarity scores how readable the raw resume text is on a 0-100 scale.
func (e *Evaluator) ResumeClarity(ctx context.Context, resumeText string) (*types.ResumeClarity, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, &ValidationError{Field: "resume_text", Message: "resume text is empty"}
	}

	rc, err := generate[types.ResumeClarity](ctx, e, call{
		step:   StepResumeClarity,
		file:   prompts.EvaluationFile,
		prompt: "resume-clarity",
		schema: schemas.ResumeClarity,
		tier:   llm.TierStandard,
		data:   map[string]string{"ResumeText": resumeText},
	})
	if err != nil {
		return nil, err
	}

	rc.Score = clampScore(rc.Score, 0, 100)
	rc.QuantificationScore = clampPtr(rc.QuantificationScore, 0, 100)
	rc.ActionVerbStrength = clampPtr(rc.ActionVerbStrength, 0, 100)
	rc.FormattingIssues = trimList(rc.FormattingIssues)
	return rc, nil
}

func jobSummary(job *types.JobFacts) string {
	if s := strings.TrimSpace(job.SummaryForCandidate); s != "" {
		return s
	}
	return notProvided
}
