package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-bender/internal/db"
	"github.com/jonathan/resume-bender/internal/server/middleware"
	"github.com/jonathan/resume-bender/internal/types"
)

// handleCapture records an analytics event. Storage problems are reported
// as ok=false rather than an error status.
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var req types.CaptureRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.failWith(w, r, err)
		return
	}
	if s.store == nil {
		s.jsonResponse(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}

	ev := &db.AnalyticsEvent{
		ClientEventID: uuid.New(),
		Name:          req.Name,
		Props:         req.Props,
		AnonID:        req.AnonID,
		Path:          req.Path,
		IP:            nilIfEmpty(captureIP(r)),
		UserAgent:     nilIfEmpty(r.UserAgent()),
	}
	if req.ClientEventID != nil {
		ev.ClientEventID = *req.ClientEventID
	}
	if ev.Props == nil {
		ev.Props = map[string]any{}
	}
	if principal, err := middleware.GetPrincipal(r); err == nil {
		ev.UserID = &principal.UserID
	}

	ok, err := s.store.InsertAnalyticsEvent(r.Context(), ev)
	if err != nil {
		s.logger.Warn("failed to store analytics event", zap.String("name", req.Name), zap.Error(err))
		ok = false
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"ok": ok})
}

// handleMyCredits applies the daily top-up and returns the caller's balance.
func (s *Server) handleMyCredits(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.GetPrincipal(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}
	if s.store == nil || s.credits == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "credits are not configured")
		return
	}

	if err := s.store.UpsertUser(r.Context(), principal.UserID, principal.Email); err != nil {
		s.failWith(w, r, err)
		return
	}
	if _, err := s.credits.EnsureDailyTopUp(r.Context(), principal.UserID); err != nil {
		s.failWith(w, r, err)
		return
	}

	summary, err := s.store.GetUserSummary(r.Context(), principal.UserID)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	if summary == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, types.CreditsResponse{
		Plan:              summary.Plan,
		Unlimited:         summary.Unlimited,
		FreeUsesRemaining: summary.FreeUsesRemaining,
	})
}

// handleAdminDrafts lists the most recent drafts.
func (s *Server) handleAdminDrafts(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	drafts, err := s.store.ListRecentDrafts(r.Context(), queryLimit(r))
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"drafts": drafts, "count": len(drafts)})
}

// handleAdminListRuns lists scoring runs, filtered by kind, company and status.
func (s *Server) handleAdminListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	q := r.URL.Query()
	runs, err := s.store.ListRuns(r.Context(), db.RunFilters{
		Kind:    q.Get("kind"),
		Company: q.Get("company"),
		Status:  q.Get("status"),
		Limit:   queryLimit(r),
	})
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// handleAdminGetRun returns one run.
func (s *Server) handleAdminGetRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runIDParam(w, r)
	if !ok {
		return
	}
	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleAdminRunArtifacts returns every stage artifact of a run.
func (s *Server) handleAdminRunArtifacts(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runIDParam(w, r)
	if !ok {
		return
	}
	artifacts, err := s.store.ListArtifacts(r.Context(), runID)
	if err != nil {
		s.failWith(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"run_id": runID, "artifacts": artifacts, "count": len(artifacts)})
}

// handleAdminDeleteRun deletes a run and its artifacts.
func (s *Server) handleAdminDeleteRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := s.runIDParam(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteRun(r.Context(), runID); err != nil {
		if errors.Is(err, db.ErrRunNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Run not found")
			return
		}
		s.failWith(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "database is not configured")
		return false
	}
	return true
}

// runIDParam parses the {id} path value.
func (s *Server) runIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	if !s.requireStore(w) {
		return uuid.Nil, false
	}
	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return uuid.Nil, false
	}
	return runID, true
}

// queryLimit reads ?limit=, falling back to the store default.
func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return db.DefaultListLimit
	}
	return n
}

// captureIP is the raw X-Forwarded-For value, else the remote host.
func captureIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return remoteHost(r)
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
