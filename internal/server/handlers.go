package server

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-bender/internal/pipeline"
	"github.com/jonathan/resume-bender/internal/risk"
	"github.com/jonathan/resume-bender/internal/server/middleware"
	"github.com/jonathan/resume-bender/internal/types"
)

// runIDHeader carries the recorded run of a scoring response.
const runIDHeader = "X-Run-ID"

// AtsMatchResponse is the deterministic scoring of already-scanned facts.
type AtsMatchResponse struct {
	Ats  types.AtsResult  `json:"ats"`
	Risk types.RiskResult `json:"risk"`
}

// handleFirstImpression runs the first-impression pipeline and returns the
// report.
func (s *Server) handleFirstImpression(w http.ResponseWriter, r *http.Request) {
	if s.firstImpression == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "first impression is not configured")
		return
	}

	var req types.FirstImpressionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}
	if !s.chargeCaller(w, r) {
		return
	}

	result, err := s.firstImpression.Run(r.Context(), pipelineInput(req), nil)
	if err != nil {
		s.failWith(w, r, err)
		return
	}

	setRunID(w, result.RunID)
	s.jsonResponse(w, http.StatusOK, result.Report)
}

// handleFirstImpressionStream runs the first-impression pipeline and streams
// progress via SSE
func (s *Server) handleFirstImpressionStream(w http.ResponseWriter, r *http.Request) {
	if s.firstImpression == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "first impression is not configured")
		return
	}

	var req types.FirstImpressionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}
	if !s.chargeCaller(w, r) {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	onProgress := func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent(eventStep, event); err != nil {
			s.logger.Debug("failed to write SSE event", zap.String("step", event.Step), zap.Error(err))
		}
	}

	result, err := s.firstImpression.Run(r.Context(), pipelineInput(req), onProgress)
	if err != nil {
		s.logger.Warn("streamed first impression failed", zap.Error(err))
		sse.WriteError(HTTPStatus(err), err.Error())
		return
	}

	sse.WriteEvent(eventResult, result.Report) //nolint:errcheck
	sse.WriteComplete(runIDString(result.RunID), pipeline.StatusCompleted)
}

// handleBenderScore runs the Bender score pipeline.
func (s *Server) handleBenderScore(w http.ResponseWriter, r *http.Request) {
	if s.bender == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "bender score is not configured")
		return
	}

	var req types.FirstImpressionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}
	if !s.chargeCaller(w, r) {
		return
	}

	result, err := s.bender.Run(r.Context(), pipelineInput(req), nil)
	if err != nil {
		s.failWith(w, r, err)
		return
	}

	setRunID(w, result.RunID)
	s.jsonResponse(w, http.StatusOK, result.Score)
}

// handleAtsMatch scores already-scanned facts without calling the model.
func (s *Server) handleAtsMatch(w http.ResponseWriter, r *http.Request) {
	var req types.AtsMatchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}

	ats := s.scorer.Score(req.Job, req.Resume)
	s.jsonResponse(w, http.StatusOK, AtsMatchResponse{
		Ats:  ats,
		Risk: risk.Assess(req.Job, req.Resume, ats),
	})
}

// chargeCaller takes one credit from an authenticated caller. Anonymous
// requests and servers without credits are not charged. It writes the
// error response and returns false when the request must stop.
func (s *Server) chargeCaller(w http.ResponseWriter, r *http.Request) bool {
	if s.credits == nil {
		return true
	}
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		return true
	}

	if s.store != nil {
		if err := s.store.UpsertUser(r.Context(), principal.UserID, principal.Email); err != nil {
			s.failWith(w, r, err)
			return false
		}
	}
	if _, err := s.credits.Charge(r.Context(), principal.UserID); err != nil {
		s.failWith(w, r, err)
		return false
	}
	return true
}

func pipelineInput(req types.FirstImpressionRequest) pipeline.Input {
	return pipeline.Input{
		ResumeText: req.ResumeText,
		JobText:    req.JobText,
		Bullets:    req.Bullets,
	}
}

func setRunID(w http.ResponseWriter, id uuid.UUID) {
	if id != uuid.Nil {
		w.Header().Set(runIDHeader, id.String())
	}
}

func runIDString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
