package types

// CarEvaluateInput is the request for a Context-Action-Result bullet review.
type CarEvaluateInput struct {
	Bullets       []string `json:"bullets"`
	JobTitleHint  string   `json:"job_title_hint,omitempty"`
	SeniorityHint string   `json:"seniority_hint,omitempty"`
}

// CarBulletAnalysis is the review of a single bullet.
type CarBulletAnalysis struct {
	Original        string  `json:"original"`
	HasContext      bool    `json:"has_context"`
	HasAction       bool    `json:"has_action"`
	HasResult       bool    `json:"has_result"`
	UsesMetrics     bool    `json:"uses_metrics"`
	ClarityScore    float64 `json:"clarity_score"`
	CarQualityScore float64 `json:"car_quality_score"`
	Suggestions     string  `json:"suggestions"`
}

// CarEvaluation is the review of a bullet set. Scores are in [0,1].
type CarEvaluation struct {
	OverallCarScore float64             `json:"overall_car_score"`
	Bullets         []CarBulletAnalysis `json:"bullets"`
	SummaryFeedback string              `json:"summary_feedback"`
}

// ExperienceFit scores years, seniority and skill evidence on a 0-100 scale.
type ExperienceFit struct {
	Score                          float64  `json:"score"`
	Analysis                       string   `json:"analysis"`
	YearsExperienceGap             *float64 `json:"years_experience_gap"`
	SeniorityLevelMatch            *string  `json:"seniority_level_match"`
	KeySkillsMissingFromExperience []string `json:"key_skills_missing_from_experience"`
	IndustryAlignment              *string  `json:"industry_alignment"`
}

// LocationFit scores remote/onsite and relocation compatibility on a 0-100 scale.
type LocationFit struct {
	Score              float64 `json:"score"`
	Analysis           string  `json:"analysis"`
	RemoteStatusMatch  *string `json:"remote_status_match"`
	RelocationRequired *bool   `json:"relocation_required"`
	CommuteAnalysis    *string `json:"commute_analysis"`
	TimeZoneMatch      *string `json:"time_zone_match"`
}

// CompanyCompetitiveness scores pedigree and trajectory against the target company.
type CompanyCompetitiveness struct {
	Score                    float64  `json:"score"`
	Analysis                 string   `json:"analysis"`
	TargetCompanyTier        *string  `json:"target_company_tier"`
	CandidateLastCompanyTier *string  `json:"candidate_last_company_tier"`
	EducationTier            *string  `json:"education_tier"`
	TrajectoryTrend          *string  `json:"trajectory_trend"`
	GapFactors               []string `json:"gap_factors"`
}

// ResumeClarity scores readability of the raw resume text.
type ResumeClarity struct {
	Score                  float64  `json:"score"`
	Analysis               string   `json:"analysis"`
	FormattingIssues       []string `json:"formatting_issues"`
	QuantificationScore    *float64 `json:"quantification_score"`
	ActionVerbStrength     *float64 `json:"action_verb_strength"`
	SectionOrderingQuality *string  `json:"section_ordering_quality"`
}
