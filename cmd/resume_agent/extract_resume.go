package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-bender/internal/ingestion"
	"github.com/jonathan/resume-bender/internal/observability"
	"github.com/jonathan/resume-bender/internal/types"
)

var extractResumeCmd = &cobra.Command{
	Use:   "extract-resume",
	Short: "Extract text from a PDF, DOCX or plain-text resume",
	RunE:  runExtractResume,
}

var extractFile string

// extractOutput adds the full text, which the HTTP summary omits.
type extractOutput struct {
	*types.ResumeExtract
	Text string `json:"text"`
}

func init() {
	extractResumeCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to resume file (required)")
	_ = extractResumeCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(extractResumeCmd)
}

func runExtractResume(cmd *cobra.Command, _ []string) error {
	blob, err := os.ReadFile(extractFile)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	name := filepath.Base(extractFile)
	extracted, err := ingestion.ExtractResume(name, mime.TypeByExtension(filepath.Ext(name)), blob)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), extractOutput{ResumeExtract: extracted, Text: extracted.Text})
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintResumeExtract(extracted)
	if verbose {
		fmt.Fprintln(cmd.OutOrStdout(), extracted.Text)
	}
	return nil
}
