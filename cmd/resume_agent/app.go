package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-bender/internal/config"
	"github.com/jonathan/resume-bender/internal/db"
	"github.com/jonathan/resume-bender/internal/evaluation"
	"github.com/jonathan/resume-bender/internal/fetch"
	"github.com/jonathan/resume-bender/internal/ingestion"
	"github.com/jonathan/resume-bender/internal/llm"
	"github.com/jonathan/resume-bender/internal/matching"
	"github.com/jonathan/resume-bender/internal/observability"
	"github.com/jonathan/resume-bender/internal/pipeline"
)

// app holds the collaborators shared by the commands.
type app struct {
	settings *config.Settings
	logger   *zap.Logger
	scorer   *matching.Scorer
	client   llm.Client
	store    *db.DB
}

// newApp loads settings, the logger and the alias table.
func newApp() (*app, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(settings.LogJSON, settings.LogDebug || verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	aliases := matching.DefaultAliasTable()
	if settings.AliasFile != "" {
		if aliases, err = matching.LoadAliasTable(settings.AliasFile); err != nil {
			return nil, err
		}
	}

	return &app{
		settings: settings,
		logger:   logger,
		scorer:   matching.NewScorer(matching.NewMatcher(aliases)),
	}, nil
}

// evaluator connects to the model provider.
func (a *app) evaluator(ctx context.Context) (*evaluation.Evaluator, error) {
	if a.settings.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	cfg := llm.DefaultConfig().Override(a.settings.Model).WithTimeout(a.settings.LLMTimeout)
	client, err := llm.NewClient(ctx, cfg, a.settings.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	a.client = client
	return evaluation.New(client, a.logger), nil
}

// connect opens the database when DATABASE_URL is set.
func (a *app) connect(ctx context.Context) error {
	if a.settings.DatabaseURL == "" {
		return nil
	}
	store, err := db.Connect(ctx, a.settings.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return err
	}
	a.store = store
	return nil
}

// recorder returns the store as a pipeline recorder, or nil without one.
func (a *app) recorder() pipeline.Recorder {
	if a.store == nil {
		return nil
	}
	return a.store
}

// jobOptions configures job posting fetches. Rendering needs both the
// JD_ALLOW_RENDER setting and the caller to allow it.
func (a *app) jobOptions(allowRender bool) *fetch.JobOptions {
	return &fetch.JobOptions{
		Fetch: &fetch.Options{
			Timeout:   fetch.DefaultTimeout,
			UserAgent: fetch.DefaultUserAgent,
			Limiter:   fetch.NewHostLimiter(a.settings.FetchRPS, 1),
		},
		AllowRender: a.settings.AllowRender && allowRender,
		Render:      fetch.NewBrowserRenderer(a.logger),
		Logger:      a.logger,
	}
}

func (a *app) close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}

// readInput loads the resume, job and optional bullets files.
func readInput(resumePath, jobPath, bulletsPath string) (pipeline.Input, error) {
	resume, err := ingestion.ReadTextFile(resumePath)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("resume: %w", err)
	}
	job, err := ingestion.ReadTextFile(jobPath)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("job: %w", err)
	}
	bullets, err := readBullets(bulletsPath)
	if err != nil {
		return pipeline.Input{}, err
	}
	return pipeline.Input{ResumeText: resume, JobText: job, Bullets: bullets}, nil
}

// readBullets reads one bullet per line, skipping blank lines.
func readBullets(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bullets file: %w", err)
	}
	return evaluation.SplitBullets(string(raw)), nil
}

// readJSONFile decodes a JSON file into dst.
func readJSONFile(path string, dst any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// progressPrinter echoes pipeline progress to stderr in verbose mode.
func progressPrinter(w io.Writer) pipeline.ProgressCallback {
	if !verbose {
		return nil
	}
	return func(event pipeline.ProgressEvent) {
		fmt.Fprintf(w, "[%s] %s\n", strings.ToUpper(event.Category), event.Message)
	}
}
