// Package main provides the resume_agent CLI: the HTTP API server plus
// commands that run the scoring pipeline locally.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "resume_agent",
	Short:         "Resume Bender scoring service",
	Long:          "Resume Bender scores how well a resume fits a job posting: ATS coverage, risk heuristics, a recruiter first impression and the weighted Bender score.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print intermediate stage results")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON instead of report boxes")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
