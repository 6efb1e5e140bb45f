package types

// ResumeExtract summarizes text extraction from an uploaded resume file.
type ResumeExtract struct {
	Filename        string `json:"filename"`
	ContentType     string `json:"content_type"`
	SizeBytes       int    `json:"size_bytes"`
	HeadPreviewText string `json:"head_preview_text"`
	Preview         string `json:"preview"`
	TextLength      int    `json:"text_length"`
	ProbablyScanned bool   `json:"probably_scanned"`
	Text            string `json:"-"`
}

// JobDescription is job posting text fetched from a URL, split into
// chunks, with a short cited context selected for prompting.
type JobDescription struct {
	URL             string     `json:"url"`
	FinalURL        string     `json:"final_url"`
	Title           string     `json:"title"`
	Text            string     `json:"text"`
	Path            string     `json:"path"`
	Chunks          []string   `json:"chunks"`
	SelectedIndices []int      `json:"selected_indices"`
	ContextPreview  string     `json:"context_preview"`
	ContextChars    int        `json:"context_chars"`
	Citations       []Citation `json:"citations"`
}

// Citation identifies a chunk quoted in a prompt context.
type Citation struct {
	ChunkIndex int `json:"chunk_index"`
	Length     int `json:"length"`
}
