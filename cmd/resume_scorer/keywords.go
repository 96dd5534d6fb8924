package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/keywords"
	"github.com/jonathan/resume-scorer/internal/observability"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List the most frequent keywords of a document",
	Long:  "Extract text from a resume or job description and list its most frequent non-stop-words with their counts.",
	Args:  cobra.NoArgs,
	RunE:  runKeywords,
}

var (
	keywordsFile   string
	keywordsLimit  int
	keywordsFormat string
)

func init() {
	keywordsCmd.Flags().StringVarP(&keywordsFile, "file", "f", "", "Path to the document (required)")
	keywordsCmd.Flags().IntVar(&keywordsLimit, "limit", keywords.DefaultLimit, "Maximum number of keywords (0 for all)")
	keywordsCmd.Flags().StringVar(&keywordsFormat, "format", formatJSON, "Output format: json or text")

	_ = keywordsCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, _ []string) error {
	if keywordsFormat != formatJSON && keywordsFormat != formatText {
		return fmt.Errorf("invalid --format %q: must be json or text", keywordsFormat)
	}
	if keywordsLimit < 0 {
		return fmt.Errorf("invalid --limit %d: must not be negative", keywordsLimit)
	}

	text, err := readDocument(keywordsFile)
	if err != nil {
		return err
	}

	terms := keywords.Rank(text, keywordsLimit)
	if keywordsFormat == formatText {
		observability.NewPrinter(cmd.OutOrStdout()).PrintKeywords(terms)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), terms)
}

// readDocument extracts and normalizes the text of the file at path.
func readDocument(path string) (string, error) {
	text, _, err := ingestion.ExtractFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ingestion.Normalize(text), nil
}
