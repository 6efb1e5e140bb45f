package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase and trim", "  Python  ", "python"},
		{"brackets become spaces", "JavaScript (React)", "javascript react"},
		{"list punctuation", "SQL; NoSQL, Redis: cache", "sql nosql redis cache"},
		{"ampersand expands", "R&D", "r and d"},
		{"collapse whitespace", "machine \t  learning\n", "machine learning"},
		{"separators survive", "CI/CD", "ci/cd"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"only punctuation", "()[]", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"slash", "CI/CD", []string{"ci", "cd"}},
		{"hyphen and plus", "front-end + back-end", []string{"front", "end", "back"}},
		{"dots kept", "B.S. Computer Science", []string{"b.s.", "computer", "science"}},
		{"empty", "", nil},
		{"separators only", "/ - +", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			assert.Len(t, got, len(tt.expected))
			for _, tok := range tt.expected {
				assert.Contains(t, got, tok)
			}
		})
	}
}

func TestJaccard(t *testing.T) {
	set := func(toks ...string) map[string]struct{} {
		m := make(map[string]struct{})
		for _, tok := range toks {
			m[tok] = struct{}{}
		}
		return m
	}

	assert.Equal(t, 0.5, Jaccard(set("a", "b", "c"), set("a", "b", "d")))
	assert.Equal(t, 1.0, Jaccard(set("a"), set("a")))
	assert.Equal(t, 0.0, Jaccard(set("a"), set("b")))
	assert.Equal(t, 0.0, Jaccard(set(), set("a")), "empty set must not divide by zero")
	assert.Equal(t, 0.0, Jaccard(set(), set()))
}
