package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-bender/internal/config"
	"github.com/jonathan/resume-bender/internal/db"
	"github.com/jonathan/resume-bender/internal/evaluation"
	"github.com/jonathan/resume-bender/internal/fetch"
	"github.com/jonathan/resume-bender/internal/ingestion"
	"github.com/jonathan/resume-bender/internal/llm"
	"github.com/jonathan/resume-bender/internal/server/middleware"
	"github.com/jonathan/resume-bender/internal/types"
)

// resumeFormField is the multipart field holding the uploaded resume.
const resumeFormField = "file"

// IngestResponse is a fetched job description plus where it came from.
type IngestResponse struct {
	*types.JobDescription
	Platform string `json:"platform"`
	Hash     string `json:"hash"`
}

// DraftMeta describes the context a draft prompt was built from.
type DraftMeta struct {
	Provider        string `json:"provider,omitempty"`
	Model           string `json:"model,omitempty"`
	FinalURL        string `json:"final_url"`
	SelectedIndices []int  `json:"selected_indices"`
	ContextChars    int    `json:"context_chars"`
	TitleFromPage   string `json:"title_from_page"`
}

// DraftResponse is the body of the draft endpoints. Bullets is only set by
// the run variant.
type DraftResponse struct {
	Bullets string     `json:"bullets,omitempty"`
	Prompt  string     `json:"prompt"`
	DraftID *uuid.UUID `json:"draft_id,omitempty"`
	Meta    DraftMeta  `json:"meta"`
}

// handleResumeExtract extracts text from an uploaded resume.
func (s *Server) handleResumeExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, ingestion.MaxResumeBytes+(1<<20))
	file, header, err := r.FormFile(resumeFormField)
	if err != nil {
		s.validationResponse(w, r, fmt.Errorf("field %q is required", resumeFormField))
		return
	}
	defer file.Close()

	blob, err := io.ReadAll(io.LimitReader(file, ingestion.MaxResumeBytes+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	extract, err := ingestion.ExtractResume(header.Filename, header.Header.Get("Content-Type"), blob)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, extract)
}

// handleIngestURL fetches a job posting and returns its chunks and context.
func (s *Server) handleIngestURL(w http.ResponseWriter, r *http.Request) {
	var req types.IngestRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}

	jd, meta, err := s.ingest(r.Context(), req.URL, ingestion.IngestOptions{Job: s.fetchOptions(req.AllowRender)})
	if err != nil {
		s.failWith(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, IngestResponse{
		JobDescription: jd,
		Platform:       meta.Platform,
		Hash:           meta.Hash,
	})
}

// handleDraft builds the bullet-drafting prompt for a job URL.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req types.DraftRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}

	prompt, jd, err := s.buildDraftPrompt(r.Context(), req)
	if err != nil {
		s.failWith(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, DraftResponse{
		Prompt: prompt,
		Meta:   draftMeta(jd),
	})
}

// handleDraftRun builds the drafting prompt, asks the model for bullets and
// stores the draft for authenticated callers.
func (s *Server) handleDraftRun(w http.ResponseWriter, r *http.Request) {
	if s.drafter == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "drafting is not configured")
		return
	}

	var req types.DraftRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}

	prompt, jd, err := s.buildDraftPrompt(r.Context(), req)
	if err != nil {
		s.failWith(w, r, err)
		return
	}

	bullets, err := s.drafter.DraftBullets(r.Context(), prompt)
	if err != nil {
		s.logger.Warn("draft generation failed", zap.String("url", req.URL), zap.Error(err))
		s.errorResponse(w, http.StatusBadGateway, "LLM call failed: "+err.Error())
		return
	}

	meta := draftMeta(jd)
	meta.Provider = string(llm.ProviderGemini)
	meta.Model = s.drafter.Model(llm.TierLite)

	resp := DraftResponse{Bullets: bullets, Prompt: prompt, Meta: meta}
	if id, ok := s.saveDraft(r, req, jd, resp); ok {
		resp.DraftID = &id
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleAgenticDraft reports which drafting path a request would take.
func (s *Server) handleAgenticDraft(w http.ResponseWriter, r *http.Request) {
	var req types.AgenticDraftRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}

	mode := "legacy_v2"
	if config.UseAgentic(r, s.settings) {
		mode = "agentic"
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"mode": mode, "ok": true})
}

// buildDraftPrompt ingests the posting and fills the drafting template. The
// requested job title wins over the page title.
func (s *Server) buildDraftPrompt(ctx context.Context, req types.DraftRequest) (string, *types.JobDescription, error) {
	jd, _, err := s.ingest(ctx, req.URL, ingestion.IngestOptions{
		Job:   s.fetchOptions(true),
		Query: req.Q,
	})
	if err != nil {
		return "", nil, err
	}

	title := req.JobTitle
	if title == "" {
		title = jd.Title
	}
	prompt, err := evaluation.BuildDraftPrompt(title, jd.ContextPreview, req.Resume)
	if err != nil {
		return "", nil, err
	}
	return prompt, jd, nil
}

// saveDraft persists a generated draft when the caller is signed in.
// Storage failures are logged and do not fail the request.
func (s *Server) saveDraft(r *http.Request, req types.DraftRequest, jd *types.JobDescription, resp DraftResponse) (uuid.UUID, bool) {
	if s.store == nil {
		return uuid.Nil, false
	}
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		return uuid.Nil, false
	}

	title := req.JobTitle
	if title == "" {
		title = jd.Title
	}
	id, err := s.store.SaveDraft(r.Context(), &db.Draft{
		UserID:   &principal.UserID,
		URL:      req.URL,
		JobTitle: title,
		Prompt:   resp.Prompt,
		Bullets:  resp.Bullets,
		Provider: resp.Meta.Provider,
		Model:    resp.Meta.Model,
	})
	if err != nil {
		s.logger.Warn("failed to save draft", zap.String("user_id", principal.UserID.String()), zap.Error(err))
		return uuid.Nil, false
	}
	return id, true
}

// fetchOptions copies the configured job fetch options. Rendering needs
// both the server setting and the caller's consent.
func (s *Server) fetchOptions(allowRender bool) *fetch.JobOptions {
	opts := fetch.JobOptions{Logger: s.logger}
	if s.jobOptions != nil {
		opts = *s.jobOptions
	}
	opts.AllowRender = opts.AllowRender && allowRender
	return &opts
}

func draftMeta(jd *types.JobDescription) DraftMeta {
	return DraftMeta{
		FinalURL:        jd.FinalURL,
		SelectedIndices: jd.SelectedIndices,
		ContextChars:    jd.ContextChars,
		TitleFromPage:   jd.Title,
	}
}
