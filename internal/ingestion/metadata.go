package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/resume-bender/internal/fetch"
)

// Metadata describes one ingested job description. Hash is the SHA-256 of
// the cleaned text and lets callers spot an unchanged posting.
type Metadata struct {
	URL       string `json:"url,omitempty"`
	FinalURL  string `json:"final_url,omitempty"`
	Timestamp string `json:"timestamp"`
	Hash      string `json:"hash"`
	Platform  string `json:"platform,omitempty"`
	Path      string `json:"path,omitempty"`
	Chunks    int    `json:"chunks"`
}

// now is replaced in tests.
var now = time.Now

// NewMetadata stamps text with the current UTC time and its hash. Page
// fields are filled in when page is non-nil.
func NewMetadata(text, url string, page *fetch.JobPage, chunks int) *Metadata {
	m := &Metadata{
		URL:       url,
		Timestamp: now().UTC().Format(time.RFC3339),
		Hash:      ContentHash(text),
		Chunks:    chunks,
	}
	if page != nil {
		m.FinalURL = page.URL
		m.Platform = string(fetch.DetectPlatform(page.URL))
		m.Path = string(page.Path)
	}
	return m
}

// ContentHash returns the hex SHA-256 of text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ToJSON marshals the metadata as indented JSON.
func (m *Metadata) ToJSON() ([]byte, error) {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return out, nil
}
