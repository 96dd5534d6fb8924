// Package scoring combines the résumé feature extractors into a bounded,
// explainable score with suggestions.
package scoring

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

// Keyword sub-score weights when a job description is supplied
const (
	exactMatchWeight = 0.6
	semanticWeight   = 0.4
)

// Fixed bonuses and deductions
const (
	yearBonus = 5

	shortSentenceBonus = 5
	longSentenceBonus  = 2
	shortSentenceLimit = 25.0

	keywordsWithSkills    = 15
	keywordsWithoutSkills = 10

	tabPenalty           = 2
	missingExperienceCut = 4
)

var (
	yearPattern   = regexp.MustCompile(`\b20\d{2}\b|\b19\d{2}\b`)
	metricPattern = regexp.MustCompile(`\d+%?|\d+\.\d+`)
)

// ActionVerbs are matched as substrings of the lowercased text.
var ActionVerbs = []string{"led", "built", "managed", "created", "improved", "designed"}

// computeFormatScore rewards detected sections and the presence of a year.
func computeFormatScore(text string, sections types.SectionFlags) int {
	score := sections.Count()
	if yearPattern.MatchString(text) {
		score += yearBonus
	}
	return clamp(score, types.MaxFormat)
}

// countMetrics counts numeric tokens. The leftmost alternative wins, so
// "3.5" counts as two matches.
func countMetrics(text string) int {
	return len(metricPattern.FindAllStringIndex(text, -1))
}

// countActionVerbs counts how many action verbs occur anywhere in text.
func countActionVerbs(text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, verb := range ActionVerbs {
		if strings.Contains(lower, verb) {
			count++
		}
	}
	return count
}

// computeContentScore sums metrics, action verbs and a sentence-length bonus.
func computeContentScore(metrics, verbs int, meanSentenceLength float64) int {
	bonus := longSentenceBonus
	if meanSentenceLength < shortSentenceLimit {
		bonus = shortSentenceBonus
	}
	return clamp(metrics+verbs+bonus, types.MaxContent)
}

// computeKeywordScore blends exact and semantic job-description coverage.
// The product is truncated toward zero before clamping.
func computeKeywordScore(exactFraction, semanticScore float64) int {
	raw := float64(types.MaxKeywordsATS) * (exactMatchWeight*exactFraction + semanticWeight*semanticScore)
	return clamp(int(raw), types.MaxKeywordsATS)
}

// computeFallbackKeywordScore is used without a job description.
func computeFallbackKeywordScore(sections types.SectionFlags) int {
	if sections.Skills {
		return keywordsWithSkills
	}
	return keywordsWithoutSkills
}

// computeATSScore deducts for tab characters and a missing experience section.
func computeATSScore(text string, sections types.SectionFlags) int {
	score := types.MaxATSFriendliness
	if strings.Contains(text, "\t") {
		score -= tabPenalty
	}
	if !sections.Experience {
		score -= missingExperienceCut
	}
	return clamp(score, types.MaxATSFriendliness)
}

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}
