package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-bender/internal/types"
)

func TestChunkText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		size    int
		overlap int
		want    []string
	}{
		{
			name: "empty",
			text: "   ",
			size: 40, overlap: 10,
			want: nil,
		},
		{
			name: "fits in one chunk",
			text: "  short text  ",
			size: 40, overlap: 10,
			want: []string{"short text"},
		},
		{
			name: "snaps to spaces with overlap",
			text: "alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu nu xi omicron pi rho sigma tau",
			size: 40, overlap: 10,
			want: []string{
				"alpha beta gamma delta epsilon zeta eta",
				"n zeta eta theta iota kappa lambda mu",
				"lambda mu nu xi omicron pi rho sigma",
				"rho sigma tau",
			},
		},
		{
			name: "space too close to chunk start is ignored",
			text: strings.Repeat("a", 30) + " " + strings.Repeat("b", 30),
			size: 40, overlap: 10,
			want: []string{
				strings.Repeat("a", 30),
				strings.Repeat("a", 10) + " " + strings.Repeat("b", 29),
				strings.Repeat("b", 11),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChunkText(tt.text, tt.size, tt.overlap))
		})
	}
}

func TestChunkText_DefaultsWithoutSpaces(t *testing.T) {
	chunks := ChunkText(strings.Repeat("x", 2500), DefaultChunkSize, DefaultChunkOverlap)

	lengths := make([]int, 0, len(chunks))
	for _, c := range chunks {
		lengths = append(lengths, len(c))
	}
	assert.Equal(t, []int{1200, 1200, 500}, lengths)
}

func TestChunkText_TerminatesWhenOverlapExceedsProgress(t *testing.T) {
	text := strings.Repeat("word ", 50)

	chunks := ChunkText(text, 30, 29)

	assert.NotEmpty(t, chunks)
	assert.Less(t, len(chunks), 50)
}

func TestBuildContext(t *testing.T) {
	tests := []struct {
		name          string
		chunks        []string
		maxChars      int
		maxChunks     int
		wantContext   string
		wantCitations []types.Citation
	}{
		{
			name:        "budget truncates the last piece",
			chunks:      []string{"first chunk text", "second", "third"},
			maxChars:    20,
			maxChunks:   3,
			wantContext: "[0] first chunk text\n\n[1] seco",
			wantCitations: []types.Citation{
				{ChunkIndex: 0, Length: 16},
				{ChunkIndex: 1, Length: 4},
			},
		},
		{
			name:        "chunk limit",
			chunks:      []string{"aaa", "bbb", "ccc", "ddd"},
			maxChars:    300,
			maxChunks:   3,
			wantContext: "[0] aaa\n\n[1] bbb\n\n[2] ccc",
			wantCitations: []types.Citation{
				{ChunkIndex: 0, Length: 3},
				{ChunkIndex: 1, Length: 3},
				{ChunkIndex: 2, Length: 3},
			},
		},
		{
			name:          "no chunks",
			maxChars:      300,
			maxChunks:     3,
			wantContext:   "",
			wantCitations: []types.Citation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, citations := BuildContext(tt.chunks, tt.maxChars, tt.maxChunks)
			assert.Equal(t, tt.wantContext, ctx)
			assert.Equal(t, tt.wantCitations, citations)
		})
	}
}

func TestBuildSelectedContext_KeepsOriginalIndices(t *testing.T) {
	chunks := []string{"zero", "one", "two"}

	ctx, citations := BuildSelectedContext(chunks, []int{2, 0}, 300, 3)

	assert.Equal(t, "[2] two\n\n[0] zero", ctx)
	assert.Equal(t, []types.Citation{{ChunkIndex: 2, Length: 3}, {ChunkIndex: 0, Length: 4}}, citations)
}

func TestRankChunks(t *testing.T) {
	chunks := []string{
		"Go services and Go tooling",
		"Python data work",
		"We love go and kubernetes",
		"nothing",
	}

	tests := []struct {
		name  string
		query string
		topK  int
		want  []int
	}{
		{"ties keep position", "Go kubernetes", 3, []int{0, 2}},
		{"empty query", "", 2, []int{0, 1}},
		{"no hits", "rust", 3, []int{0, 1, 2}},
		{"top one", "go", 1, []int{0}},
		{"kubernetes only", "KUBERNETES", 3, []int{2}},
		{"zero k", "go", 0, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RankChunks(tt.query, chunks, tt.topK))
		})
	}
}

func TestRankChunks_NoChunks(t *testing.T) {
	assert.Equal(t, []int{}, RankChunks("go", nil, 3))
}
