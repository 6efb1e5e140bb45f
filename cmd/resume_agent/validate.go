package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-bender/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON document against an embedded schema",
	Long: `Validate a JSON document against one of the embedded schemas.

Available schemas: ` + strings.Join(schemas.Names(), ", "),
	RunE: runValidate,
}

var (
	validateSchema string
	validateFile   string
)

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", "", "Schema name (required)")
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to JSON document (required)")
	_ = validateCmd.MarkFlagRequired("schema")
	_ = validateCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if !slices.Contains(schemas.Names(), validateSchema) {
		return fmt.Errorf("unknown schema %q (available: %s)", validateSchema, strings.Join(schemas.Names(), ", "))
	}
	if err := schemas.ValidateFile(validateSchema, validateFile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid %s document\n", validateFile, validateSchema)
	return nil
}
