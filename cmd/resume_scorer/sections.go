package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/sections"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Report which conventional resume sections are present",
	Args:  cobra.NoArgs,
	RunE:  runSections,
}

var (
	sectionsFile   string
	sectionsFormat string
)

func init() {
	sectionsCmd.Flags().StringVarP(&sectionsFile, "file", "f", "", "Path to the resume (required)")
	sectionsCmd.Flags().StringVar(&sectionsFormat, "format", formatJSON, "Output format: json or text")

	_ = sectionsCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, _ []string) error {
	if sectionsFormat != formatJSON && sectionsFormat != formatText {
		return fmt.Errorf("invalid --format %q: must be json or text", sectionsFormat)
	}

	text, err := readDocument(sectionsFile)
	if err != nil {
		return err
	}

	flags := sections.Detect(text)
	if sectionsFormat == formatText {
		observability.NewPrinter(cmd.OutOrStdout()).PrintSections(flags)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), flags)
}
