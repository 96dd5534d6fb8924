// Package semantic scores how well résumé sentences cover job-description
// sentences using embedding similarity.
package semantic

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-scorer/internal/embedding"
	"github.com/jonathan/resume-scorer/internal/logger"
)

// MaxSentences bounds each side of a comparison. Longer inputs keep their
// first MaxSentences sentences in original order.
const MaxSentences = 40

// Matcher computes the semantic score of a résumé against a job description.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	provider embedding.Provider
	logger   *zap.Logger
}

// NewMatcher creates a Matcher. A nil provider falls back to the local
// hashing provider.
func NewMatcher(provider embedding.Provider, log *zap.Logger) *Matcher {
	if provider == nil {
		provider = embedding.NewHashing(0)
	}
	return &Matcher{provider: provider, logger: logger.OrNop(log)}
}

// Match returns the mean, over résumé sentences, of each sentence's best
// cosine similarity to any job-description sentence. It returns 0 when either
// side is empty or the provider fails.
func (m *Matcher) Match(ctx context.Context, resume, jobDescription []string) float64 {
	resume = truncate(resume)
	jobDescription = truncate(jobDescription)
	if len(resume) == 0 || len(jobDescription) == 0 {
		return 0
	}

	start := time.Now()
	var resumeVecs, jdVecs [][]float32
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		resumeVecs, err = m.provider.Embed(gctx, resume)
		return err
	})
	g.Go(func() error {
		var err error
		jdVecs, err = m.provider.Embed(gctx, jobDescription)
		return err
	})
	if err := g.Wait(); err != nil {
		m.logger.Warn("semantic match unavailable, using 0",
			zap.String(logger.FieldProvider, m.provider.Name()),
			zap.Error(err))
		return 0
	}
	if len(resumeVecs) != len(resume) || len(jdVecs) != len(jobDescription) {
		m.logger.Warn("semantic match got wrong vector count, using 0",
			zap.String(logger.FieldProvider, m.provider.Name()),
			zap.Int("resume_vectors", len(resumeVecs)),
			zap.Int("jd_vectors", len(jdVecs)))
		return 0
	}

	score := Aggregate(Matrix(resumeVecs, jdVecs))
	m.logger.Debug("semantic match",
		zap.String(logger.FieldProvider, m.provider.Name()),
		zap.Int("resume_sentences", len(resume)),
		zap.Int("jd_sentences", len(jobDescription)),
		zap.Float64("score", score),
		zap.Duration("elapsed", time.Since(start)))
	return score
}

func truncate(sentences []string) []string {
	if len(sentences) > MaxSentences {
		return sentences[:MaxSentences]
	}
	return sentences
}

// Cosine returns the cosine similarity of a and b. Mismatched lengths or a
// zero vector yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Matrix returns the pairwise similarity of rows × cols.
func Matrix(rows, cols [][]float32) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = make([]float64, len(cols))
		for j, c := range cols {
			out[i][j] = Cosine(r, c)
		}
	}
	return out
}

// Aggregate returns the mean of the row maxima. An empty matrix, or one with
// empty rows, yields 0.
func Aggregate(matrix [][]float64) float64 {
	if len(matrix) == 0 {
		return 0
	}
	var sum float64
	for _, row := range matrix {
		if len(row) == 0 {
			return 0
		}
		best := row[0]
		for _, v := range row[1:] {
			if v > best {
				best = v
			}
		}
		sum += best
	}
	return sum / float64(len(matrix))
}
