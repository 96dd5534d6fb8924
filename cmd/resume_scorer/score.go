package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/fetch"
	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/observability"
	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/scoring"
	"github.com/jonathan/resume-scorer/internal/types"
)

const (
	formatJSON = "json"
	formatText = "text"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume, optionally against a job description",
	Long: `Extract text from a resume (PDF, DOCX, HTML or plain text) and score it from 0 to 100.

A job description can be given as a file (--jd), inline text (--jd-text) or a job posting URL (--jd-url).`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

var (
	scoreResume   string
	scoreJD       string
	scoreJDText   string
	scoreJDURL    string
	scoreOut      string
	scoreFormat   string
	scoreValidate bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResume, "resume", "r", "", "Path to the resume file (required)")
	scoreCmd.Flags().StringVar(&scoreJD, "jd", "", "Path to a job description file")
	scoreCmd.Flags().StringVar(&scoreJDText, "jd-text", "", "Job description text")
	scoreCmd.Flags().StringVar(&scoreJDURL, "jd-url", "", "URL of a job posting to fetch the job description from")
	scoreCmd.Flags().StringVarP(&scoreOut, "out", "o", "", "Write the result to this file instead of stdout")
	scoreCmd.Flags().StringVar(&scoreFormat, "format", formatJSON, "Output format: json or text")
	scoreCmd.Flags().BoolVar(&scoreValidate, "validate", false, "Validate the result against the analysis result schema")

	_ = scoreCmd.MarkFlagRequired("resume")
	scoreCmd.MarkFlagsMutuallyExclusive("jd", "jd-text", "jd-url")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	if scoreFormat != formatJSON && scoreFormat != formatText {
		return fmt.Errorf("invalid --format %q: must be json or text", scoreFormat)
	}

	ctx := commandContext(cmd)
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	data, err := os.ReadFile(scoreResume)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}

	jobDescription, err := resolveJobDescription(ctx)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(cmd, scoreOut)
	if err != nil {
		return err
	}
	defer closeOut()

	result, err := a.scorer.AnalyzeFile(ctx, filepath.Base(scoreResume), data, jobDescription)
	if err != nil {
		errResult := scoring.ErrorResult(err)
		if errResult == nil {
			return fmt.Errorf("scoring failed: %w", err)
		}
		if writeErr := writeErrorResult(out, errResult); writeErr != nil {
			return writeErr
		}
		return fmt.Errorf("%s", errResult.Error)
	}

	if scoreValidate {
		if err := result.Validate(); err != nil {
			return err
		}
		if err := schemas.ValidateAnalysisValue(result); err != nil {
			return fmt.Errorf("result does not match schema: %w", err)
		}
		a.logger.Debug("result validated against schema")
	}

	if err := writeResult(out, result); err != nil {
		return err
	}
	if scoreOut != "" {
		a.logger.Info("result written", zap.String("path", scoreOut), zap.Int("overall_score", result.OverallScore))
	}
	return nil
}

// resolveJobDescription returns the job description from whichever flag was
// set, or "" when none was.
func resolveJobDescription(ctx context.Context) (string, error) {
	switch {
	case scoreJD != "":
		text, _, err := ingestion.ExtractFile(scoreJD)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		return text, nil
	case scoreJDURL != "":
		res, err := fetch.JobDescription(ctx, scoreJDURL, nil)
		if err != nil {
			return "", fmt.Errorf("failed to fetch job description: %w", err)
		}
		return res.Text, nil
	default:
		return scoreJDText, nil
	}
}

func writeResult(out io.Writer, result *types.AnalysisResult) error {
	if scoreFormat == formatText {
		observability.NewPrinter(out).PrintAnalysis(result)
		return nil
	}
	return writeJSON(out, result)
}

func writeErrorResult(out io.Writer, result *types.ErrorResult) error {
	if scoreFormat == formatText {
		observability.NewPrinter(out).PrintError(result)
		return nil
	}
	return writeJSON(out, result)
}

// openOutput returns the command's stdout, or the file at path when set.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// commandContext returns the command's context, or a background context
// when the command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
