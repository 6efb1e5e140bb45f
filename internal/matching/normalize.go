// Package matching provides skill normalization, alias resolution, fuzzy
// requirement matching and ATS coverage scoring.
package matching

import (
	"strings"
)

var punctuationReplacer = strings.NewReplacer(
	"(", " ", ")", " ",
	"[", " ", "]", " ",
	"{", " ", "}", " ",
	",", " ", ":", " ", ";", " ",
	"&", " and ",
)

// Normalize lowercases raw, replaces bracket and list punctuation with spaces,
// expands "&" to "and" and collapses whitespace runs.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = punctuationReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize normalizes raw and splits it on whitespace, "/", "-" and "+".
// Empty tokens are dropped. The result is a set.
func Tokenize(raw string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(Normalize(raw), isSeparator) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '/', '-', '+':
		return true
	}
	return false
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func intersects(a map[string]struct{}, b []string) bool {
	for _, tok := range b {
		if _, ok := a[tok]; ok {
			return true
		}
	}
	return false
}

func isSubset(sub []string, set map[string]struct{}) bool {
	if len(sub) == 0 {
		return false
	}
	for _, tok := range sub {
		if _, ok := set[tok]; !ok {
			return false
		}
	}
	return true
}
