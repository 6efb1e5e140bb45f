package ingestion

import (
	"context"

	"github.com/jonathan/resume-bender/internal/fetch"
	"github.com/jonathan/resume-bender/internal/types"
)

// IngestOptions configures IngestURL. Query ranks chunks for the context;
// the page title is used when it is empty.
type IngestOptions struct {
	Job           *fetch.JobOptions
	Query         string
	ContextChars  int
	ContextChunks int
}

// IngestURL fetches a job posting, chunks its text and selects a short
// cited context for prompting.
func IngestURL(ctx context.Context, url string, opts IngestOptions) (*types.JobDescription, *Metadata, error) {
	page, err := fetch.JobDescription(ctx, url, opts.Job)
	if err != nil {
		return nil, nil, err
	}

	contextChars := opts.ContextChars
	if contextChars <= 0 {
		contextChars = DefaultContextChars
	}
	contextChunks := opts.ContextChunks
	if contextChunks <= 0 {
		contextChunks = DefaultContextLimit
	}

	text := CleanText(page.Text)
	chunks := ChunkText(text, DefaultChunkSize, DefaultChunkOverlap)
	if chunks == nil {
		chunks = []string{}
	}

	query := opts.Query
	if query == "" {
		query = page.Title
	}
	selected := RankChunks(query, chunks, contextChunks)
	preview, citations := BuildSelectedContext(chunks, selected, contextChars, contextChunks)

	contextLen := 0
	for _, c := range citations {
		contextLen += c.Length
	}

	jd := &types.JobDescription{
		URL:             url,
		FinalURL:        page.URL,
		Title:           page.Title,
		Text:            text,
		Path:            string(page.Path),
		Chunks:          chunks,
		SelectedIndices: selected,
		ContextPreview:  preview,
		ContextChars:    contextLen,
		Citations:       citations,
	}

	return jd, NewMetadata(text, url, page, len(chunks)), nil
}
