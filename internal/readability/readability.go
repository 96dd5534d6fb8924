// Package readability estimates how easy résumé text is to read.
package readability

import (
	"strings"

	"github.com/jonathan/resume-scorer/internal/textseg"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Flesch reading-ease coefficients
const (
	fleschBase          = 206.835
	fleschSentenceCoeff = 1.015
	fleschSyllableCoeff = 84.6
)

// Bucket thresholds and their sub-scores
const (
	easyThreshold     = 70.0
	standardThreshold = 50.0

	easyScore     = types.MaxReadability
	standardScore = 10
	hardScore     = 5
)

const vowels = "aeiouy"

// Syllables estimates the syllable count of a word by counting vowel groups.
// A trailing "e" is treated as silent. Every word has at least one syllable.
func Syllables(word string) int {
	w := strings.ToLower(word)
	count := 0
	prev := false
	for _, c := range w {
		isVowel := strings.ContainsRune(vowels, c)
		if isVowel && !prev {
			count++
		}
		prev = isVowel
	}
	if strings.HasSuffix(w, "e") {
		count = max(1, count-1)
	}
	return max(1, count)
}

// Stats holds the counts behind a Flesch score.
type Stats struct {
	Sentences int
	Words     int
	Syllables int
}

// Analyze counts sentences, alphabetic words and their syllables.
func Analyze(text string) Stats {
	words := textseg.Words(text)
	syllables := 0
	for _, w := range words {
		syllables += Syllables(w)
	}
	return Stats{
		Sentences: len(textseg.Sentences(text)),
		Words:     len(words),
		Syllables: syllables,
	}
}

// Flesch returns the Flesch reading-ease index computed from the stats.
// Zero counts are floored at 1 so the result is always defined.
func (s Stats) Flesch() float64 {
	sentences := float64(max(1, s.Sentences))
	words := float64(max(1, s.Words))
	syllables := float64(s.Syllables)
	if syllables == 0 {
		syllables = 1
	}
	return fleschBase - fleschSentenceCoeff*(words/sentences) - fleschSyllableCoeff*(syllables/words)
}

// Flesch returns the Flesch reading-ease index of text.
func Flesch(text string) float64 {
	return Analyze(text).Flesch()
}

// Bucket maps a Flesch index to the readability sub-score.
func Bucket(index float64) int {
	switch {
	case index >= easyThreshold:
		return easyScore
	case index >= standardThreshold:
		return standardScore
	default:
		return hardScore
	}
}

// Score returns the readability sub-score of text.
func Score(text string) int {
	return Bucket(Flesch(text))
}
