package types

// Label is the traffic-light verdict of a first impression.
type Label string

// Verdicts
const (
	LabelGreen  Label = "GREEN"
	LabelYellow Label = "YELLOW"
	LabelRed    Label = "RED"
)

// Highlight kinds, areas and importance levels.
const (
	KindStrength = "strength"
	KindConcern  = "concern"
	KindNeutral  = "neutral"

	AreaSkills     = "skills"
	AreaExperience = "experience"
	AreaImpact     = "impact"
	AreaRisk       = "risk"
	AreaClarity    = "clarity"
	AreaOther      = "other"

	ImportanceHigh   = "high"
	ImportanceMedium = "medium"
	ImportanceLow    = "low"
)

// MinHighlights and MaxHighlights bound the highlight list of a report.
const (
	MinHighlights = 3
	MaxHighlights = 7
)

// Highlight is one item a recruiter would notice on a quick skim.
type Highlight struct {
	Kind            string  `json:"kind"`
	Area            string  `json:"area"`
	Title           string  `json:"title"`
	Detail          string  `json:"detail"`
	SuggestedAction *string `json:"suggested_action"`
	Importance      string  `json:"importance"`
}

// FirstImpression is the recruiter-skim report for a resume and job pair.
// The numeric fields always come from the deterministic stages.
type FirstImpression struct {
	AtsScore     float64     `json:"ats_score"`
	RiskScore    float64     `json:"risk_score"`
	CarScore     *float64    `json:"car_score"`
	Label        Label       `json:"label"`
	Headline     string      `json:"headline"`
	QuickSummary string      `json:"quick_summary"`
	Highlights   []Highlight `json:"highlights"`
}

// Valid reports whether l is one of the three verdicts.
func (l Label) Valid() bool {
	switch l {
	case LabelGreen, LabelYellow, LabelRed:
		return true
	}
	return false
}
