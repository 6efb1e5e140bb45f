package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/resume-bender/internal/types"
)

// Coverage weights used when a job lists both must-have and nice-to-have skills.
const (
	MustHaveWeight   = 0.7
	NiceToHaveWeight = 0.3

	// NeutralAtsScore is returned when the job lists no skills at all.
	NeutralAtsScore = 0.5
)

// Scorer computes ATS coverage between scanned job and resume facts.
type Scorer struct {
	matcher *Matcher
}

// NewScorer creates a scorer backed by m.
func NewScorer(m *Matcher) *Scorer {
	return &Scorer{matcher: m}
}

// Score partitions the job's must-have and nice-to-have skills into matched
// and missing against the resume's skills and tools, and combines the
// coverage ratios into a 0-1 score.
func (s *Scorer) Score(job types.JobFacts, resume types.ResumeFacts) types.AtsResult {
	jobMust := s.canonicalSet(job.MustHaveSkills)
	jobNice := s.canonicalSet(job.NiceToHaveSkills)

	resumeRaw := make([]string, 0, resume.SkillCount())
	resumeRaw = append(resumeRaw, resume.GlobalSkills...)
	resumeRaw = append(resumeRaw, resume.ToolsAndTech...)
	resumeAll := s.canonicalSet(resumeRaw)
	candidates := sortedKeys(resumeAll)

	matchedMust, missingMust := s.partition(jobMust, candidates)
	matchedNice, missingNice := s.partition(jobNice, candidates)

	var extra []string
	for _, skill := range candidates {
		_, inMust := jobMust[skill]
		_, inNice := jobNice[skill]
		if !inMust && !inNice {
			extra = append(extra, skill)
		}
	}

	mustCoverage := coverage(len(matchedMust), len(jobMust))
	niceCoverage := coverage(len(matchedNice), len(jobNice))

	var score float64
	switch {
	case len(jobMust) == 0 && len(jobNice) == 0:
		score = NeutralAtsScore
	case len(jobMust) == 0:
		score = niceCoverage
	case len(jobNice) == 0:
		score = mustCoverage
	default:
		score = MustHaveWeight*mustCoverage + NiceToHaveWeight*niceCoverage
	}

	return types.AtsResult{
		AtsScore:                clamp(score, 0, 1),
		MatchedSkills:           nonNil(matchedMust),
		MissingMustHaveSkills:   nonNil(missingMust),
		MissingNiceToHaveSkills: nonNil(missingNice),
		ExtraResumeSkills:       nonNil(extra),
		Explanation: explainAts(
			len(matchedMust), len(jobMust),
			len(matchedNice), len(jobNice),
			missingMust, missingNice, extra,
		),
	}
}

// partition splits requirements into sorted matched and missing lists.
func (s *Scorer) partition(reqs map[string]struct{}, candidates []string) (matched, missing []string) {
	for _, req := range sortedKeys(reqs) {
		if s.matcher.Matches(req, candidates) {
			matched = append(matched, req)
		} else {
			missing = append(missing, req)
		}
	}
	return matched, missing
}

func (s *Scorer) canonicalSet(raw []string) map[string]struct{} {
	set := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		if c := s.matcher.Canonicalize(r); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

func explainAts(matchedMust, totalMust, matchedNice, totalNice int, missingMust, missingNice, extra []string) string {
	var parts []string
	if totalMust > 0 {
		parts = append(parts, fmt.Sprintf("Matched %d/%d must-have skills", matchedMust, totalMust))
	} else {
		parts = append(parts, "Job did not specify any explicit must-have skills")
	}
	if totalNice > 0 {
		parts = append(parts, fmt.Sprintf("Matched %d/%d nice-to-have skills", matchedNice, totalNice))
	}
	if len(missingMust) > 0 {
		parts = append(parts, "Missing must-have skills: "+strings.Join(missingMust, ", "))
	}
	if len(missingNice) > 0 {
		parts = append(parts, "Missing nice-to-have skills: "+strings.Join(missingNice, ", "))
	}
	if len(extra) > 0 {
		parts = append(parts, "Extra skills on the resume: "+strings.Join(extra, ", "))
	}
	return strings.Join(parts, ". ")
}

func coverage(matched, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(matched) / float64(total)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
