package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-bender/internal/observability"
	"github.com/jonathan/resume-bender/internal/pipeline"
)

var firstImpressionCmd = &cobra.Command{
	Use:   "first-impression",
	Short: "Run the recruiter first-impression pipeline",
	Long: `Scan the resume and job posting, match skills, assess risk, review the
optional bullets and write the recruiter-skim report.

Requires GEMINI_API_KEY. When DATABASE_URL is set the run and every stage
output are recorded.`,
	RunE: runFirstImpression,
}

var (
	fiResumeFile  string
	fiJobFile     string
	fiBulletsFile string
)

func init() {
	firstImpressionCmd.Flags().StringVarP(&fiResumeFile, "resume", "r", "", "Path to resume text file (required)")
	firstImpressionCmd.Flags().StringVarP(&fiJobFile, "job", "j", "", "Path to job posting text file (required)")
	firstImpressionCmd.Flags().StringVarP(&fiBulletsFile, "bullets", "b", "", "Path to a file with one resume bullet per line")

	_ = firstImpressionCmd.MarkFlagRequired("resume")
	_ = firstImpressionCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(firstImpressionCmd)
}

func runFirstImpression(cmd *cobra.Command, _ []string) error {
	input, err := readInput(fiResumeFile, fiJobFile, fiBulletsFile)
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

	seq := pipeline.NewSequencer(evaluator, a.scorer, a.recorder(), a.logger)
	result, err := seq.Run(ctx, input, progressPrinter(cmd.ErrOrStderr()))
	if err != nil {
		return fmt.Errorf("first impression failed: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), result.Report)
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())
	if verbose {
		printer.PrintJobFacts(result.Job)
		printer.PrintResumeFacts(result.Resume)
		printer.PrintAtsResult(&result.Ats)
		printer.PrintRiskResult(&result.Risk)
	}
	printer.PrintFirstImpression(result.Report)
	return nil
}
