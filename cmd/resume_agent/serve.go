package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-bender/internal/config"
	"github.com/jonathan/resume-bender/internal/credits"
	"github.com/jonathan/resume-bender/internal/pipeline"
	"github.com/jonathan/resume-bender/internal/server"
	"github.com/jonathan/resume-bender/internal/server/ratelimit"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the scoring, ingestion, drafting and account endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (defaults to PORT or 8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := context.Background()
	evaluator, err := a.evaluator(ctx)
	if err != nil {
		return err
	}
	if err := a.connect(ctx); err != nil {
		return err
	}

	deps := server.Deps{
		FirstImpression: pipeline.NewSequencer(evaluator, a.scorer, a.recorder(), a.logger),
		Bender:          pipeline.NewBenderRunner(evaluator, a.scorer, a.recorder(), a.logger),
		Scorer:          a.scorer,
		Drafter:         evaluator,
		JobOptions:      a.jobOptions(true),
		RateLimiter:     ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Logger:          a.logger,
	}

	if a.store != nil {
		deps.Store = a.store
		deps.Credits = credits.NewService(a.store, credits.Policy{
			DailyFree:   a.settings.DailyFreeCredits,
			RolloverCap: a.settings.FreeRolloverCap,
		}, a.logger)
	} else {
		a.logger.Warn("DATABASE_URL not set, runs, drafts, credits and analytics are disabled")
	}

	jwtConfig, err := config.NewJWTConfig()
	switch {
	case err == nil:
		deps.Tokens = server.NewJWTService(jwtConfig)
	case errors.Is(err, config.ErrJWTSecretMissing):
		a.logger.Warn("JWT_SECRET not set, authenticated routes are disabled")
	default:
		return err
	}

	if os.Getenv("ADMIN_KEY_HASH") != "" {
		adminKey, err := config.NewAdminKeyConfig()
		if err != nil {
			return fmt.Errorf("failed to load admin key: %w", err)
		}
		deps.AdminKey = adminKey
	}

	port := servePort
	if port == "" {
		port = a.settings.Port
	}
	a.logger.Info("starting API", zap.String("port", port), zap.Bool("agentic", a.settings.Agentic))
	return server.New(server.Config{Port: port, Settings: a.settings}, deps).Start()
}
