package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/schemas"
)

var validateResultCmd = &cobra.Command{
	Use:   "validate-result",
	Short: "Validate a saved analysis result against the result schema",
	Long: `Validate a saved analysis result against the built-in analysis result schema,
or against a JSON Schema file given with --schema.`,
	Args:  cobra.NoArgs,
	RunE:  runValidateResult,
}

var (
	validateResultFile   string
	validateResultSchema string
)

func init() {
	validateResultCmd.Flags().StringVarP(&validateResultFile, "file", "f", "", "Path to the result JSON file (required)")
	validateResultCmd.Flags().StringVar(&validateResultSchema, "schema", "", "Path to a JSON Schema file to validate against instead of the built-in schema")
	_ = validateResultCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(validateResultCmd)
}

func runValidateResult(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	var err error
	if validateResultSchema != "" {
		err = schemas.ValidateAgainst(validateResultSchema, validateResultFile)
	} else {
		err = schemas.ValidateAnalysisFile(validateResultFile)
	}
	if err == nil {
		_, _ = fmt.Fprintf(out, "Validation passed: %s\n", validateResultFile)
		return nil
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		_, _ = fmt.Fprintf(out, "Validation failed: %d error(s)\n", len(validationErr.Errors))
		for i, fe := range validationErr.Errors {
			_, _ = fmt.Fprintf(out, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
		}
		return fmt.Errorf("validation failed for %s", validateResultFile)
	}
	return err
}
