// Package types provides type definitions for structured data used throughout the resume-bender system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// JobFacts is the structured scan of a job posting.
type JobFacts struct {
	RawTitle            *string  `json:"raw_title"`
	CompanyName         *string  `json:"company_name"`
	Location            *string  `json:"location"`
	MustHaveSkills      []string `json:"must_have_skills"`
	NiceToHaveSkills    []string `json:"nice_to_have_skills"`
	ToolsAndTech        []string `json:"tools_and_tech"`
	Keywords            []string `json:"keywords"`
	SummaryForCandidate string   `json:"summary_for_candidate"`
}

// Title returns the raw title or the empty string.
func (j *JobFacts) Title() string {
	if j == nil || j.RawTitle == nil {
		return ""
	}
	return *j.RawTitle
}

// Company returns the company name or the empty string.
func (j *JobFacts) Company() string {
	if j == nil || j.CompanyName == nil {
		return ""
	}
	return *j.CompanyName
}

// ResumeFacts is the structured scan of a resume.
type ResumeFacts struct {
	CandidateName         *string  `json:"candidate_name"`
	TotalYearsExperience  *float64 `json:"total_years_experience"`
	WorkExperienceSummary *string  `json:"work_experience_summary"`
	GlobalSkills          []string `json:"global_skills"`
	ToolsAndTech          []string `json:"tools_and_tech"`
	Keywords              []string `json:"keywords"`
	SummaryForMatching    *string  `json:"summary_for_matching"`
}

// Years returns total years of experience, treating a missing value as zero.
func (r *ResumeFacts) Years() float64 {
	if r == nil || r.TotalYearsExperience == nil {
		return 0
	}
	return *r.TotalYearsExperience
}

// SkillCount is the number of raw skill and tool entries on the resume.
func (r *ResumeFacts) SkillCount() int {
	if r == nil {
		return 0
	}
	return len(r.GlobalSkills) + len(r.ToolsAndTech)
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 {
	return &f
}

// Deref returns the pointed-to string or the fallback when nil or blank.
func Deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
