package scoring

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/keywords"
	"github.com/jonathan/resume-scorer/internal/logger"
	"github.com/jonathan/resume-scorer/internal/readability"
	"github.com/jonathan/resume-scorer/internal/sections"
	"github.com/jonathan/resume-scorer/internal/semantic"
	"github.com/jonathan/resume-scorer/internal/textseg"
	"github.com/jonathan/resume-scorer/internal/types"
)

// ExtractionFailedMessage is the user-facing error for unscorable input.
const ExtractionFailedMessage = "Could not extract text from file."

// ErrEmptyContent is returned when there is no text left to score.
var ErrEmptyContent = errors.New("no text content to score")

// Scorer runs the scoring pipeline. It is stateless apart from the injected
// matcher and is safe for concurrent use.
type Scorer struct {
	matcher *semantic.Matcher
	logger  *zap.Logger
}

// NewScorer creates a Scorer. A nil matcher uses the local hashing provider.
func NewScorer(matcher *semantic.Matcher, log *zap.Logger) *Scorer {
	log = logger.OrNop(log)
	if matcher == nil {
		matcher = semantic.NewMatcher(nil, log)
	}
	return &Scorer{matcher: matcher, logger: log}
}

// Score normalizes text and scores it, optionally against a job description.
// A job description that is blank after normalization counts as absent.
func (s *Scorer) Score(ctx context.Context, text, jobDescription string) (*types.AnalysisResult, error) {
	text = ingestion.Normalize(text)
	if text == "" {
		return nil, ErrEmptyContent
	}

	flags := sections.Detect(text)
	sentences := textseg.Sentences(text)
	words := textseg.Words(text)
	meanLength := textseg.MeanSentenceLength(sentences)
	metrics := countMetrics(text)
	index := readability.Flesch(text)

	components := types.Components{
		Format:          computeFormatScore(text, flags),
		Content:         computeContentScore(metrics, countActionVerbs(text), meanLength),
		Readability:     readability.Bucket(index),
		ATSFriendliness: computeATSScore(text, flags),
	}

	var match *types.JobMatch
	jd := ingestion.Normalize(jobDescription)
	if jd != "" {
		match = s.matchJobDescription(ctx, text, sentences, jd)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		components.KeywordsATS = computeKeywordScore(match.ExactFraction, match.SemanticScore)
	} else {
		components.KeywordsATS = computeFallbackKeywordScore(flags)
	}

	f := features{
		metrics:            metrics,
		hasSkills:          flags.Skills,
		meanSentenceLength: meanLength,
		hasJobDescription:  match != nil,
	}
	if match != nil {
		f.exactFraction = match.ExactFraction
	}

	result := &types.AnalysisResult{
		OverallScore:     clamp(components.Sum(), types.MaxOverall),
		Components:       components,
		WordCount:        len(words),
		SentenceCount:    len(sentences),
		TopKeywords:      keywords.Top(text, keywords.DefaultLimit),
		Suggestions:      generateSuggestions(f),
		Sections:         &flags,
		ReadabilityIndex: &index,
		JobMatch:         match,
	}

	s.logger.Debug("resume scored",
		zap.Int("overall_score", result.OverallScore),
		zap.Int("words", result.WordCount),
		zap.Int("sentences", result.SentenceCount),
		zap.Bool("job_description", match != nil))
	return result, nil
}

// matchJobDescription computes exact keyword coverage and semantic similarity.
func (s *Scorer) matchJobDescription(ctx context.Context, text string, sentences []string, jd string) *types.JobMatch {
	jdWords := keywords.Top(jd, keywords.JobDescriptionLimit)
	resumeWords := keywords.WordSet(text)

	matched := []string{}
	missing := []string{}
	for _, w := range jdWords {
		if _, ok := resumeWords[w]; ok {
			matched = append(matched, w)
		} else {
			missing = append(missing, w)
		}
	}

	return &types.JobMatch{
		ExactFraction:   float64(len(matched)) / float64(max(1, len(jdWords))),
		SemanticScore:   s.matcher.Match(ctx, sentences, textseg.Sentences(jd)),
		JobKeywords:     len(jdWords),
		MatchedKeywords: matched,
		MissingKeywords: missing,
	}
}

// AnalyzeFile extracts text from an uploaded file and scores it. Any
// extraction failure, or a file without text, yields an error wrapping
// ErrEmptyContent.
func (s *Scorer) AnalyzeFile(ctx context.Context, filename string, data []byte, jobDescription string) (*types.AnalysisResult, error) {
	text, err := ingestion.Extract(filename, data)
	if err != nil {
		s.logger.Warn("text extraction failed", zap.String("filename", filename), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrEmptyContent, err)
	}

	meta := ingestion.NewMetadata(filename, len(data), text)
	s.logger.Debug("text extracted",
		zap.String("filename", meta.Filename),
		zap.String("format", meta.Format),
		zap.Int("bytes", meta.Bytes),
		zap.Int("chars", meta.Chars),
		zap.String("hash", meta.Hash))

	return s.Score(ctx, text, jobDescription)
}

// ErrorResult converts a scoring error into the user-facing error shape.
// It returns nil for errors that are not content failures.
func ErrorResult(err error) *types.ErrorResult {
	if errors.Is(err, ErrEmptyContent) {
		return &types.ErrorResult{Error: ExtractionFailedMessage}
	}
	return nil
}
