package types

// AtsResult is the outcome of matching job requirements against resume skills.
// All list fields are sorted.
type AtsResult struct {
	AtsScore                float64  `json:"ats_score"`
	MatchedSkills           []string `json:"matched_skills"`
	MissingMustHaveSkills   []string `json:"missing_must_have_skills"`
	MissingNiceToHaveSkills []string `json:"missing_nice_to_have_skills"`
	ExtraResumeSkills       []string `json:"extra_resume_skills"`
	Explanation             string   `json:"explanation"`
}

// RiskFactor is one signed contribution to a risk score.
type RiskFactor struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}

// RiskResult is the outcome of the risk heuristics. 1.0 means lowest risk.
type RiskResult struct {
	RiskScore   float64      `json:"risk_score"`
	Factors     []RiskFactor `json:"factors"`
	Explanation string       `json:"explanation"`
}

// SubScores are the six 0-100 inputs to the Bender score.
type SubScores struct {
	AtsAlignment           float64 `json:"ats_alignment"`
	ExperienceFit          float64 `json:"experience_fit"`
	CarQuality             float64 `json:"car_quality"`
	ResumeClarity          float64 `json:"resume_clarity"`
	CompanyCompetitiveness float64 `json:"company_competitiveness"`
	RiskAdjustment         float64 `json:"risk_adjustment"`
}

// BenderScore is the weighted overall fit of a resume for a job.
type BenderScore struct {
	AtsAlignment           float64  `json:"ats_alignment"`
	ExperienceFit          float64  `json:"experience_fit"`
	CarQuality             *float64 `json:"car_quality"`
	ResumeClarity          float64  `json:"resume_clarity"`
	CompanyCompetitiveness float64  `json:"company_competitiveness"`
	RiskAdjustment         float64  `json:"risk_adjustment"`
	FinalBenderScore       float64  `json:"final_bender_score"`
	Explanation            string   `json:"explanation"`
}
