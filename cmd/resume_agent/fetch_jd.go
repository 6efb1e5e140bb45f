package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-bender/internal/ingestion"
	"github.com/jonathan/resume-bender/internal/observability"
)

var fetchJDCmd = &cobra.Command{
	Use:   "fetch-jd",
	Short: "Fetch a job posting URL and select a cited context",
	Long: `Fetch a job posting, extract its text with the platform selectors, chunk it
and rank the chunks against a query. With --out the text and its metadata
are written to job_description.txt and job_description.meta.json.`,
	RunE: runFetchJD,
}

var (
	fetchURL    string
	fetchQuery  string
	fetchRender bool
	fetchOutDir string
)

func init() {
	fetchJDCmd.Flags().StringVarP(&fetchURL, "url", "u", "", "Job posting URL (required)")
	fetchJDCmd.Flags().StringVarP(&fetchQuery, "query", "q", "", "Ranking query (defaults to the page title)")
	fetchJDCmd.Flags().BoolVar(&fetchRender, "render", false, "Render the page in a headless browser when static fetch is thin (needs JD_ALLOW_RENDER)")
	fetchJDCmd.Flags().StringVarP(&fetchOutDir, "out", "o", "", "Output directory")

	_ = fetchJDCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(fetchJDCmd)
}

func runFetchJD(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	jd, meta, err := ingestion.IngestURL(cmd.Context(), fetchURL, ingestion.IngestOptions{
		Job:   a.jobOptions(fetchRender),
		Query: fetchQuery,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch job description: %w", err)
	}

	if fetchOutDir != "" {
		if err := ingestion.WriteOutput(fetchOutDir, jd.Text, meta); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), jd)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintJobDescription(jd)
	if fetchOutDir != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Text: %s/job_description.txt\n", fetchOutDir)
		fmt.Fprintf(cmd.OutOrStdout(), "Metadata: %s/job_description.meta.json\n", fetchOutDir)
	}
	return nil
}
