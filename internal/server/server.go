// Package server provides the HTTP REST API for resume scoring, job
// ingestion and bullet drafting.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-bender/internal/config"
	"github.com/jonathan/resume-bender/internal/db"
	"github.com/jonathan/resume-bender/internal/fetch"
	"github.com/jonathan/resume-bender/internal/ingestion"
	"github.com/jonathan/resume-bender/internal/llm"
	"github.com/jonathan/resume-bender/internal/matching"
	"github.com/jonathan/resume-bender/internal/observability"
	"github.com/jonathan/resume-bender/internal/pipeline"
	"github.com/jonathan/resume-bender/internal/server/middleware"
	"github.com/jonathan/resume-bender/internal/server/ratelimit"
	"github.com/jonathan/resume-bender/internal/types"
)

// maxJSONBody bounds decoded JSON request bodies.
const maxJSONBody = 1 << 20

// FirstImpressionRunner runs the first-impression pipeline.
type FirstImpressionRunner interface {
	Run(ctx context.Context, in pipeline.Input, onProgress pipeline.ProgressCallback) (*pipeline.FirstImpressionResult, error)
}

// BenderScorer runs the Bender score pipeline.
type BenderScorer interface {
	Run(ctx context.Context, in pipeline.Input, onProgress pipeline.ProgressCallback) (*pipeline.BenderResult, error)
}

// Drafter turns a drafting prompt into bullet text.
type Drafter interface {
	DraftBullets(ctx context.Context, prompt string) (string, error)
	Model(tier llm.ModelTier) string
}

// IngestFunc fetches and chunks a job posting.
type IngestFunc func(ctx context.Context, url string, opts ingestion.IngestOptions) (*types.JobDescription, *ingestion.Metadata, error)

// CreditService applies the daily top-up and charges scoring calls.
type CreditService interface {
	EnsureDailyTopUp(ctx context.Context, userID uuid.UUID) (int, error)
	Charge(ctx context.Context, userID uuid.UUID) (int, error)
}

// Store is the persistence the API reads and writes directly.
type Store interface {
	UpsertUser(ctx context.Context, userID uuid.UUID, email string) error
	GetUserSummary(ctx context.Context, userID uuid.UUID) (*types.UserSummary, error)
	SaveDraft(ctx context.Context, d *db.Draft) (uuid.UUID, error)
	ListRecentDrafts(ctx context.Context, limit int) ([]db.Draft, error)
	InsertAnalyticsEvent(ctx context.Context, ev *db.AnalyticsEvent) (bool, error)
	ListRuns(ctx context.Context, filters db.RunFilters) ([]db.Run, error)
	GetRun(ctx context.Context, runID uuid.UUID) (*db.Run, error)
	ListArtifacts(ctx context.Context, runID uuid.UUID) ([]db.Artifact, error)
	DeleteRun(ctx context.Context, runID uuid.UUID) error
}

// Config holds server configuration
type Config struct {
	Port     string
	Settings *config.Settings
}

// Deps are the collaborators behind the routes. Store, Credits, Tokens and
// AdminKey are optional; routes that need a missing one answer 503 or 401.
type Deps struct {
	FirstImpression FirstImpressionRunner
	Bender          BenderScorer
	Scorer          *matching.Scorer
	Drafter         Drafter
	Ingest          IngestFunc
	JobOptions      *fetch.JobOptions
	Store           Store
	Credits         CreditService
	Tokens          middleware.TokenValidator
	AdminKey        middleware.KeyVerifier
	RateLimiter     *ratelimit.Limiter
	Logger          *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	settings        *config.Settings
	firstImpression FirstImpressionRunner
	bender          BenderScorer
	scorer          *matching.Scorer
	drafter         Drafter
	ingest          IngestFunc
	jobOptions      *fetch.JobOptions
	store           Store
	credits         CreditService
	tokens          middleware.TokenValidator
	adminKey        middleware.KeyVerifier
	rateLimiter     *ratelimit.Limiter
	logger          *zap.Logger
}

// New creates a new server instance
func New(cfg Config, deps Deps) *Server {
	settings := cfg.Settings
	if settings == nil {
		settings = &config.Settings{}
	}
	scorer := deps.Scorer
	if scorer == nil {
		scorer = matching.NewScorer(matching.NewMatcher(matching.DefaultAliasTable()))
	}
	ingest := deps.Ingest
	if ingest == nil {
		ingest = ingestion.IngestURL
	}

	s := &Server{
		settings:        settings,
		firstImpression: deps.FirstImpression,
		bender:          deps.Bender,
		scorer:          scorer,
		drafter:         deps.Drafter,
		ingest:          ingest,
		jobOptions:      deps.JobOptions,
		store:           deps.Store,
		credits:         deps.Credits,
		tokens:          deps.Tokens,
		adminKey:        deps.AdminKey,
		rateLimiter:     deps.RateLimiter,
		logger:          observability.OrNop(deps.Logger),
	}

	port := cfg.Port
	if port == "" {
		port = config.DefaultPort
	}
	s.httpServer = &http.Server{
		Addr:         ":" + port,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // pipeline runs make several model calls
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	optional := middleware.OptionalAuth(s.tokens)
	required := middleware.RequireAuth(s.tokens)
	admin := middleware.RequireAdminKey(s.adminKey)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.Handle("POST /first-impression", optional(http.HandlerFunc(s.handleFirstImpression)))
	mux.Handle("POST /first-impression/stream", optional(http.HandlerFunc(s.handleFirstImpressionStream)))
	mux.Handle("POST /bender-score", optional(http.HandlerFunc(s.handleBenderScore)))
	mux.HandleFunc("POST /ats-match", s.handleAtsMatch)

	mux.HandleFunc("POST /resume/extract", s.handleResumeExtract)
	mux.HandleFunc("POST /ingest/url", s.handleIngestURL)
	mux.HandleFunc("POST /draft", s.handleDraft)
	mux.Handle("POST /draft/run", optional(http.HandlerFunc(s.handleDraftRun)))
	mux.HandleFunc("POST /v3/draft", s.handleAgenticDraft)

	mux.Handle("POST /analytics/capture", optional(http.HandlerFunc(s.handleCapture)))
	mux.Handle("GET /me/credits", required(http.HandlerFunc(s.handleMyCredits)))

	mux.Handle("GET /admin/drafts", admin(http.HandlerFunc(s.handleAdminDrafts)))
	mux.Handle("GET /admin/runs", admin(http.HandlerFunc(s.handleAdminListRuns)))
	mux.Handle("GET /admin/runs/{id}", admin(http.HandlerFunc(s.handleAdminGetRun)))
	mux.Handle("GET /admin/runs/{id}/artifacts", admin(http.HandlerFunc(s.handleAdminRunArtifacts)))
	mux.Handle("DELETE /admin/runs/{id}", admin(http.HandlerFunc(s.handleAdminDeleteRun)))

	csp := middleware.BuildCSP(s.settings.APIBaseURL, s.settings.FrontendOrigin, s.settings.SupabaseURL)
	return middleware.Chain(mux,
		middleware.AccessLog(s.logger),
		middleware.SecurityHeaders(csp),
		middleware.CORS(s.settings.FrontendOrigin),
		s.withRateLimit,
	)
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM,
// then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.logger.Info("server stopped")
	return nil
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.rateLimiter == nil || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]bool{"ok": true})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// failWith maps err to a status and writes it. Server-side failures are
// logged with the request path.
func (s *Server) failWith(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusUnprocessableEntity {
		s.validationResponse(w, r, err)
		return
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	s.errorResponse(w, status, err.Error())
}

// validationResponse writes the 422 body.
func (s *Server) validationResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  validationErrorCode,
		"detail": validationDetail(err),
		"path":   r.URL.String(),
	})
}

// decodeJSON decodes a bounded JSON body into dst and runs its validator.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		return &ErrBadRequest{Message: "Invalid request body: " + err.Error()}
	}
	if v, ok := dst.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

// extractClientID extracts the client identifier from the request: the
// first X-Forwarded-For hop when present, else the remote IP.
func (s *Server) extractClientID(r *http.Request) string {
	if fwd := forwardedFor(r); fwd != "" {
		return fwd
	}
	return remoteHost(r)
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.UTC().Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		retry := info.RetryAfterSeconds()
		response["retry_after"] = retry
		w.Header().Set("Retry-After", strconv.Itoa(retry))
	}

	s.logger.Info("rate limit exceeded",
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
		zap.Time("reset_at", info.ResetTime))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// forwardedFor returns the first hop of X-Forwarded-For.
func forwardedFor(r *http.Request) string {
	raw := r.Header.Get("X-Forwarded-For")
	if raw == "" {
		return ""
	}
	first, _, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(first)
}

func remoteHost(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
