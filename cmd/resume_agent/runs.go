package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-bender/internal/db"
	"github.com/jonathan/resume-bender/internal/observability"
	"github.com/jonathan/resume-bender/internal/pipeline"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded scoring runs",
	Long:  "List, show and delete the runs recorded in DATABASE_URL.",
}

var (
	runsKind    string
	runsCompany string
	runsStatus  string
	runsLimit   int
)

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its stored results",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run and its artifacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsListCmd.Flags().StringVar(&runsKind, "kind", "", "Filter by kind (first_impression or bender)")
	runsListCmd.Flags().StringVar(&runsCompany, "company", "", "Filter by company")
	runsListCmd.Flags().StringVar(&runsStatus, "status", "", "Filter by status")
	runsListCmd.Flags().IntVar(&runsLimit, "limit", db.DefaultListLimit, "Maximum number of runs")

	runsCmd.AddCommand(runsListCmd, runsShowCmd, runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

// withStore opens the database and hands it to fn.
func withStore(ctx context.Context, fn func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.settings.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if err := a.connect(ctx); err != nil {
		return err
	}
	return fn(a)
}

func runRunsList(cmd *cobra.Command, _ []string) error {
	return withStore(cmd.Context(), func(a *app) error {
		runs, err := a.store.ListRuns(cmd.Context(), db.RunFilters{
			Kind:    runsKind,
			Company: runsCompany,
			Status:  runsStatus,
			Limit:   runsLimit,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), runs)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tKIND\tCOMPANY\tROLE\tSTATUS\tCREATED")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.Kind, r.Company, r.RoleTitle, r.Status, r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	})
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id: %w", err)
	}

	return withStore(cmd.Context(), func(a *app) error {
		ctx := cmd.Context()
		run, err := a.store.GetRun(ctx, runID)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("%w: %s", db.ErrRunNotFound, runID)
		}

		if jsonOutput {
			artifacts, err := a.store.ListArtifacts(ctx, runID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				*db.Run
				Artifacts []db.Artifact `json:"artifacts"`
			}{run, artifacts})
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Run %s (%s, %s)\n", run.ID, run.Kind, run.Status)

		printer := observability.NewPrinter(cmd.OutOrStdout())
		job, err := a.store.GetJobFactsByRunID(ctx, runID)
		if err != nil {
			return err
		}
		printer.PrintJobFacts(job)
		resume, err := a.store.GetResumeFactsByRunID(ctx, runID)
		if err != nil {
			return err
		}
		printer.PrintResumeFacts(resume)

		switch run.Kind {
		case pipeline.KindFirstImpression:
			report, err := a.store.GetFirstImpressionByRunID(ctx, runID)
			if err != nil {
				return err
			}
			printer.PrintFirstImpression(report)
		case pipeline.KindBender:
			score, err := a.store.GetBenderScoreByRunID(ctx, runID)
			if err != nil {
				return err
			}
			printer.PrintBenderScore(score)
		}
		return nil
	})
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run id: %w", err)
	}
	return withStore(cmd.Context(), func(a *app) error {
		if err := a.store.DeleteRun(cmd.Context(), runID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", runID)
		return nil
	})
}
