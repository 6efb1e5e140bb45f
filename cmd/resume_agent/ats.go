package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-bender/internal/observability"
	"github.com/jonathan/resume-bender/internal/risk"
	"github.com/jonathan/resume-bender/internal/server"
	"github.com/jonathan/resume-bender/internal/types"
)

var atsCmd = &cobra.Command{
	Use:   "ats",
	Short: "Score skill coverage and risk from extracted facts",
	Long:  "Run the deterministic ATS matcher and risk heuristics over job and resume facts JSON files. No model calls are made.",
	RunE:  runAts,
}

var (
	atsJobFile    string
	atsResumeFile string
)

func init() {
	atsCmd.Flags().StringVarP(&atsJobFile, "job", "j", "", "Path to job facts JSON (required)")
	atsCmd.Flags().StringVarP(&atsResumeFile, "resume", "r", "", "Path to resume facts JSON (required)")

	_ = atsCmd.MarkFlagRequired("job")
	_ = atsCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(atsCmd)
}

func runAts(cmd *cobra.Command, _ []string) error {
	var job types.JobFacts
	if err := readJSONFile(atsJobFile, &job); err != nil {
		return err
	}
	var resume types.ResumeFacts
	if err := readJSONFile(atsResumeFile, &resume); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ats := a.scorer.Score(job, resume)
	assessed := risk.Assess(job, resume, ats)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), server.AtsMatchResponse{Ats: ats, Risk: assessed})
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())
	if verbose {
		printer.PrintJobFacts(&job)
		printer.PrintResumeFacts(&resume)
	}
	printer.PrintAtsResult(&ats)
	printer.PrintRiskResult(&assessed)
	return nil
}
