package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-scorer/internal/ingestion"
	"github.com/jonathan/resume-scorer/internal/semantic"
	"github.com/jonathan/resume-scorer/internal/types"
)

const sampleResume = "John Doe\nEmail: j@x.com\nExperience: Built and led a team of 5, improved throughput 20%.\nSkills: Python, SQL\nEducation: BS 2015"

const sampleJD = "Looking for a Python engineer with SQL and leadership experience."

// constProvider maps every text to the same vector, so every pair has cosine 1.
type constProvider struct{}

func (constProvider) Name() string { return "const" }
func (constProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 1}
	}
	return out, nil
}

type brokenProvider struct{}

func (brokenProvider) Name() string { return "broken" }
func (brokenProvider) Embed(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("model not loaded")
}

func newTestScorer(p interface {
	Name() string
	Embed(context.Context, []string) ([][]float32, error)
}) *Scorer {
	return NewScorer(semantic.NewMatcher(p, nil), nil)
}

func TestScore_SampleResumeWithoutJD(t *testing.T) {
	result, err := newTestScorer(constProvider{}).Score(context.Background(), sampleResume, "")
	require.NoError(t, err)

	require.NotNil(t, result.Sections)
	assert.Equal(t, types.SectionFlags{Contact: true, Experience: true, Education: true, Skills: true}, *result.Sections)

	assert.Equal(t, types.Components{
		Format:          9,  // 4 sections + year
		Content:         11, // metrics 5, 20%, 2015 + built, led, improved + short sentences
		KeywordsATS:     15, // skills present
		Readability:     15,
		ATSFriendliness: 15,
	}, result.Components)
	assert.Equal(t, 65, result.OverallScore)
	assert.Equal(t, 20, result.WordCount)
	assert.Equal(t, 5, result.SentenceCount)
	assert.Empty(t, result.Suggestions)
	assert.NotContains(t, result.Suggestions, SuggestSkillsSection)
	assert.Nil(t, result.JobMatch)
	require.NotNil(t, result.ReadabilityIndex)
	assert.InDelta(t, 75.875, *result.ReadabilityIndex, 1e-9)
	assert.Equal(t, []string{
		"john", "doe", "email", "com", "experience", "built", "led", "team",
		"improved", "throughput", "skills", "python", "sql", "education",
	}, result.TopKeywords)
	assert.NoError(t, result.Validate())
}

func TestScore_SampleResumeWithJD(t *testing.T) {
	result, err := newTestScorer(constProvider{}).Score(context.Background(), sampleResume, sampleJD)
	require.NoError(t, err)

	require.NotNil(t, result.JobMatch)
	assert.Equal(t, 6, result.JobMatch.JobKeywords)
	assert.Equal(t, []string{"python", "sql", "experience"}, result.JobMatch.MatchedKeywords)
	assert.Equal(t, []string{"looking", "engineer", "leadership"}, result.JobMatch.MissingKeywords)
	assert.InDelta(t, 0.5, result.JobMatch.ExactFraction, 1e-9)
	assert.InDelta(t, 1.0, result.JobMatch.SemanticScore, 1e-6)

	assert.Equal(t, 17, result.Components.KeywordsATS)
	assert.GreaterOrEqual(t, result.Components.KeywordsATS, 0)
	assert.LessOrEqual(t, result.Components.KeywordsATS, types.MaxKeywordsATS)
	assert.Equal(t, 67, result.OverallScore)
	assert.NotContains(t, result.Suggestions, SuggestJDKeywords)
	assert.NoError(t, result.Validate())
}

func TestScore_ProviderFailureFallsBackToExactMatch(t *testing.T) {
	result, err := newTestScorer(brokenProvider{}).Score(context.Background(), sampleResume, sampleJD)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.JobMatch.SemanticScore)
	assert.Equal(t, 7, result.Components.KeywordsATS)
}

func TestScore_LowJDCoverageSuggestsKeywords(t *testing.T) {
	jd := "Kubernetes operator, Terraform modules, Helm charts and observability tooling."
	result, err := newTestScorer(brokenProvider{}).Score(context.Background(), sampleResume, jd)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.JobMatch.ExactFraction)
	assert.Equal(t, 0, result.Components.KeywordsATS)
	assert.Equal(t, []string{SuggestJDKeywords}, result.Suggestions)
}

func TestScore_BlankJDCountsAsAbsent(t *testing.T) {
	result, err := newTestScorer(constProvider{}).Score(context.Background(), sampleResume, " \r\n\t ")
	require.NoError(t, err)
	assert.Nil(t, result.JobMatch)
	assert.Equal(t, 15, result.Components.KeywordsATS)
}

func TestScore_EmptyContent(t *testing.T) {
	for _, text := range []string{"", "   ", "\r\n\r\n", "\t \n"} {
		result, err := newTestScorer(constProvider{}).Score(context.Background(), text, sampleJD)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrEmptyContent)
	}
}

func TestScore_SparseResume(t *testing.T) {
	text := "Jane Roe\nI like to write long rambling paragraphs " + strings.Repeat("about many things ", 12) + "without stopping."
	result, err := newTestScorer(constProvider{}).Score(context.Background(), text, "")
	require.NoError(t, err)

	assert.Equal(t, 10, result.Components.KeywordsATS)
	assert.Equal(t, 11, result.Components.ATSFriendliness)
	assert.Equal(t, []string{SuggestMetrics, SuggestSkillsSection}, result.Suggestions)
	assert.Equal(t, result.Components.Sum(), result.OverallScore)
}

func TestScore_LongSentences(t *testing.T) {
	sentence := strings.TrimSpace(strings.Repeat("word ", 35)) + "."
	result, err := newTestScorer(constProvider{}).Score(context.Background(), sentence, "")
	require.NoError(t, err)

	assert.Contains(t, result.Suggestions, SuggestShortSentences)
	assert.Equal(t, longSentenceBonus, result.Components.Content)
}

func TestScore_ScoresAlwaysInRange(t *testing.T) {
	inputs := []string{
		sampleResume,
		strings.Repeat("Led 100% of 2020 projects, built 3.5x growth. ", 50),
		"\t\t\tx",
		strings.Repeat("skill project summary experience education email ", 20),
	}
	s := newTestScorer(constProvider{})
	for _, in := range inputs {
		result, err := s.Score(context.Background(), in, sampleJD)
		require.NoError(t, err)
		assert.NoError(t, result.Validate())
		assert.LessOrEqual(t, result.OverallScore, types.MaxOverall)
		assert.GreaterOrEqual(t, result.OverallScore, 0)
		assert.LessOrEqual(t, len(result.TopKeywords), 30)
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := NewScorer(nil, nil)
	first, err := s.Score(context.Background(), sampleResume, sampleJD)
	require.NoError(t, err)
	second, err := s.Score(context.Background(), sampleResume, sampleJD)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestScorer(constProvider{}).Score(ctx, sampleResume, sampleJD)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeFile(t *testing.T) {
	s := newTestScorer(constProvider{})

	t.Run("plain text", func(t *testing.T) {
		result, err := s.AnalyzeFile(context.Background(), "resume.txt", []byte(sampleResume), "")
		require.NoError(t, err)
		assert.Equal(t, 65, result.OverallScore)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := s.AnalyzeFile(context.Background(), "resume.txt", []byte("  \n "), "")
		require.ErrorIs(t, err, ErrEmptyContent)
		assert.Equal(t, &types.ErrorResult{Error: ExtractionFailedMessage}, ErrorResult(err))
	})

	t.Run("corrupt docx", func(t *testing.T) {
		_, err := s.AnalyzeFile(context.Background(), "resume.docx", []byte("not a zip"), "")
		require.ErrorIs(t, err, ErrEmptyContent)
		var extractionErr *ingestion.ExtractionError
		assert.ErrorAs(t, err, &extractionErr)
		assert.Equal(t, ExtractionFailedMessage, ErrorResult(err).Error)
	})
}

func TestErrorResult_OtherErrors(t *testing.T) {
	assert.Nil(t, ErrorResult(errors.New("boom")))
	assert.Nil(t, ErrorResult(nil))
}
