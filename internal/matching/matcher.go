package matching

import "strings"

// DefaultJaccardThreshold is the minimum token overlap (inclusive) for a
// fuzzy match.
const DefaultJaccardThreshold = 0.5

// Rule names the check that decided a match.
type Rule string

// Match rules, in evaluation order.
const (
	RuleNone         Rule = ""
	RuleDegree       Rule = "degree"
	RuleExact        Rule = "exact"
	RuleSubstring    Rule = "substring"
	RuleTokenOverlap Rule = "token_overlap"
)

// degreeMarkers flag a requirement as an education requirement.
var degreeMarkers = []string{
	"bachelor", "bs", "b.s", "bsc", "master", "ms", "m.s", "msc", "phd", "doctorate",
}

// bachelorCandidateTokens are resume tokens accepted as a bachelor's degree.
var bachelorCandidateTokens = []string{
	"bs", "b.s", "b.s.", "bsc", "bachelor", "bachelors", "bachelor's",
}

// bachelorRequirementTokens are job tokens that ask for a bachelor's degree.
var bachelorRequirementTokens = []string{"bachelor", "bs", "b.s", "bsc"}

// Decision is the outcome of matching one requirement against candidates.
type Decision struct {
	Matched     bool   `json:"matched"`
	Rule        Rule   `json:"rule,omitempty"`
	Requirement string `json:"requirement"`
	Candidate   string `json:"candidate,omitempty"`
}

// Matcher decides whether a requirement is satisfied by any of a set of
// resume entries. It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	aliases   *AliasTable
	threshold float64
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithJaccardThreshold overrides the token overlap threshold.
func WithJaccardThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.threshold = threshold
	}
}

// NewMatcher creates a matcher over the given alias table. A nil table
// disables alias resolution.
func NewMatcher(aliases *AliasTable, opts ...Option) *Matcher {
	m := &Matcher{
		aliases:   aliases,
		threshold: DefaultJaccardThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Canonicalize resolves raw through the matcher's alias table.
func (m *Matcher) Canonicalize(raw string) string {
	return m.aliases.Canonicalize(raw)
}

// Matches reports whether requirement is satisfied by any candidate.
func (m *Matcher) Matches(requirement string, candidates []string) bool {
	return m.Match(requirement, candidates).Matched
}

// Match runs the degree, exact, substring and token-overlap rules in that
// order and returns the first hit.
func (m *Matcher) Match(requirement string, candidates []string) Decision {
	j := m.Canonicalize(requirement)
	d := Decision{Requirement: j}
	if j == "" {
		return d
	}

	jTokens := Tokenize(j)

	if isDegreeRequirement(j) {
		wantsBachelor := intersects(jTokens, bachelorRequirementTokens) || strings.Contains(j, "bachelor")
		if wantsBachelor {
			for _, c := range candidates {
				rr := m.Canonicalize(c)
				if rr == "" {
					continue
				}
				if intersects(Tokenize(rr), bachelorCandidateTokens) {
					d.Matched, d.Rule, d.Candidate = true, RuleDegree, rr
					return d
				}
			}
		}
	}

	for _, c := range candidates {
		rr := m.Canonicalize(c)
		if rr == "" {
			continue
		}
		if rule := m.compare(j, jTokens, rr); rule != RuleNone {
			d.Matched, d.Rule, d.Candidate = true, rule, rr
			return d
		}
	}
	return d
}

func (m *Matcher) compare(j string, jTokens map[string]struct{}, rr string) Rule {
	if j == rr {
		return RuleExact
	}
	if strings.Contains(rr, j) || strings.Contains(j, rr) {
		return RuleSubstring
	}
	rTokens := Tokenize(rr)
	if len(jTokens) > 0 && len(rTokens) > 0 && Jaccard(jTokens, rTokens) >= m.threshold {
		return RuleTokenOverlap
	}
	return RuleNone
}

func isDegreeRequirement(normalized string) bool {
	for _, marker := range degreeMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}
