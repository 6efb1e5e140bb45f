package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-bender/internal/observability"
	"github.com/jonathan/resume-bender/internal/pipeline"
)

var benderCmd = &cobra.Command{
	Use:   "bender",
	Short: "Compute the weighted Bender score",
	Long: `Run every scoring stage for a resume and job posting and combine the six
sub-scores into the final Bender score. Without bullets the CAR weight is
spread over the other sub-scores.

Requires GEMINI_API_KEY.`,
	RunE: runBender,
}

var (
	benderResumeFile  string
	benderJobFile     string
	benderBulletsFile string
)

func init() {
	benderCmd.Flags().StringVarP(&benderResumeFile, "resume", "r", "", "Path to resume text file (required)")
	benderCmd.Flags().StringVarP(&benderJobFile, "job", "j", "", "Path to job posting text file (required)")
	benderCmd.Flags().StringVarP(&benderBulletsFile, "bullets", "b", "", "Path to a file with one resume bullet per line")

	_ = benderCmd.MarkFlagRequired("resume")
	_ = benderCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(benderCmd)
}

func runBender(cmd *cobra.Command, _ []string) error {
	input, err := readInput(benderResumeFile, benderJobFile, benderBulletsFile)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	evaluator, err := a.evaluator(ctx)
	if err != nil {
		return err
	}
	if err := a.connect(ctx); err != nil {
		return err
	}

	runner := pipeline.NewBenderRunner(evaluator, a.scorer, a.recorder(), a.logger)
	result, err := runner.Run(ctx, input, progressPrinter(cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("bender score failed: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), result.Score)
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())
	if verbose {
		printer.PrintAtsResult(&result.Ats)
		printer.PrintRiskResult(&result.Risk)
		if result.Location != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Location fit: %.2f (%s)\n", result.Location.Score, result.Location.Analysis)
		}
	}
	printer.PrintBenderScore(&result.Score)
	return nil
}
