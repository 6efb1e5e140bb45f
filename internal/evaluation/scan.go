package evaluation

import (
	"context"
	"sort"
	"strings"

	"github.com/jonathan/resume-bender/internal/llm"
	"github.com/jonathan/resume-bender/internal/prompts"
	"github.com/jonathan/resume-bender/internal/schemas"
	"github.com/jonathan/resume-bender/internal/types"
)

// ScanJob extracts JobFacts from raw job posting text.
func (e *Evaluator) ScanJob(ctx context.Context, jobText string) (*types.JobFacts, error) {
	if strings.TrimSpace(jobText) == "" {
		return nil, &ValidationError{Field: "job_text", Message: "job text is empty"}
	}

	facts, err := generate[types.JobFacts](ctx, e, call{
		step:   StepScanJob,
		file:   prompts.ScanningFile,
		prompt: "scan-job",
		schema: schemas.JobFacts,
		tier:   llm.TierStandard,
		data:   map[string]string{"JobText": jobText},
	})
	if err != nil {
		return nil, err
	}

	facts.MustHaveSkills = trimList(facts.MustHaveSkills)
	facts.NiceToHaveSkills = trimList(facts.NiceToHaveSkills)
	facts.ToolsAndTech = trimList(facts.ToolsAndTech)
	facts.Keywords = trimList(facts.Keywords)
	facts.SummaryForCandidate = strings.TrimSpace(facts.SummaryForCandidate)
	return facts, nil
}

// ScanResume extracts ResumeFacts from raw resume text. Skill, tool and
// keyword lists come back de-duplicated and sorted.
func (e *Evaluator) ScanResume(ctx context.Context, resumeText string) (*types.ResumeFacts, error) {
	if strings.TrimSpace(resumeText) == "" {
		return nil, &ValidationError{Field: "resume_text", Message: "resume text is empty"}
	}

	facts, err := generate[types.ResumeFacts](ctx, e, call{
		step:   StepScanResume,
		file:   prompts.ScanningFile,
		prompt: "scan-resume",
		schema: schemas.ResumeFacts,
		tier:   llm.TierStandard,
		data:   map[string]string{"ResumeText": resumeText},
	})
	if err != nil {
		return nil, err
	}

	facts.GlobalSkills = dedupeSorted(facts.GlobalSkills)
	facts.ToolsAndTech = dedupeSorted(facts.ToolsAndTech)
	facts.Keywords = dedupeSorted(facts.Keywords)
	return facts, nil
}

func dedupeSorted(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range trimList(items) {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
