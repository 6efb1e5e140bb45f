package ingestion

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/resume-bender/internal/types"
)

// Chunking and context defaults.
const (
	DefaultChunkSize    = 1200
	DefaultChunkOverlap = 200
	DefaultContextChars = 300
	DefaultContextLimit = 3

	// snapWindow is how far back from a chunk's end a space is searched for.
	snapWindow = 100
	// minSnapOffset keeps a snapped chunk from collapsing to a sliver.
	minSnapOffset = 20
)

var wordRegex = regexp.MustCompile(`\w+`)

// ChunkText splits text into chunks of at most size runes, each repeating
// the last overlap runes of the previous one. A chunk end snaps back to
// the last space within the final snapWindow runes when that space lies
// more than minSnapOffset runes past the chunk start.
func ChunkText(text string, size, overlap int) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 || size <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []string
	n := len(runes)
	start := 0
	for start < n {
		end := min(start+size, n)

		if end < n {
			windowStart := max(start+size-snapWindow, start)
			if snap := lastSpace(runes, windowStart, end); snap != -1 && snap > start+minSnapOffset {
				end = snap
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= n {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

func lastSpace(runes []rune, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

// BuildContext labels up to maxChunks chunks with their index, in order,
// keeping the total quoted text within maxChars runes. The final chunk may
// be cut short.
func BuildContext(chunks []string, maxChars, maxChunks int) (string, []types.Citation) {
	return BuildSelectedContext(chunks, firstIndices(len(chunks), len(chunks)), maxChars, maxChunks)
}

// BuildSelectedContext is BuildContext over the chunks named by indices,
// in the order given. Labels and citations keep the original indices.
func BuildSelectedContext(chunks []string, indices []int, maxChars, maxChunks int) (string, []types.Citation) {
	var (
		parts     []string
		citations = []types.Citation{}
		used      int
	)
	for _, i := range indices {
		if len(citations) >= maxChunks {
			break
		}
		remaining := maxChars - used
		if remaining <= 0 || i < 0 || i >= len(chunks) {
			break
		}
		piece := firstRunes(chunks[i], remaining)
		if piece == "" {
			break
		}
		length := len([]rune(piece))
		parts = append(parts, fmt.Sprintf("[%d] %s", i, piece))
		citations = append(citations, types.Citation{ChunkIndex: i, Length: length})
		used += length
	}
	return strings.Join(parts, "\n\n"), citations
}

// RankChunks returns the indices of the topK chunks with the most query
// word occurrences, best first and ties by position. With no query words
// or no hits it returns the first topK indices.
func RankChunks(query string, chunks []string, topK int) []int {
	if topK <= 0 {
		return []int{}
	}
	queryTokens := tokens(query)
	if len(queryTokens) == 0 || len(chunks) == 0 {
		return firstIndices(len(chunks), topK)
	}

	type scored struct {
		index int
		score int
	}
	scores := make([]scored, 0, len(chunks))
	for i, chunk := range chunks {
		counts := make(map[string]int)
		for _, tok := range tokens(chunk) {
			counts[tok]++
		}
		s := 0
		for _, qt := range queryTokens {
			s += counts[qt]
		}
		if s > 0 {
			scores = append(scores, scored{index: i, score: s})
		}
	}
	if len(scores) == 0 {
		return firstIndices(len(chunks), topK)
	}

	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].score > scores[b].score
	})

	ranked := make([]int, 0, topK)
	for _, s := range scores[:min(len(scores), topK)] {
		ranked = append(ranked, s.index)
	}
	return ranked
}

func tokens(s string) []string {
	return wordRegex.FindAllString(strings.ToLower(s), -1)
}

func firstIndices(n, k int) []int {
	count := max(0, min(n, k))
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, i)
	}
	return out
}
