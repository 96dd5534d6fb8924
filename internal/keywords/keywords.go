// Package keywords extracts frequency-ranked terms from document text.
package keywords

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-scorer/internal/textseg"
)

const (
	// DefaultLimit is the number of keywords reported for a résumé.
	DefaultLimit = 30
	// JobDescriptionLimit is the number of keywords taken from a job description.
	JobDescriptionLimit = 50

	minKeywordLength = 3
)

// Term is a keyword with its occurrence count.
type Term struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Rank returns up to limit terms ordered by descending frequency. Terms with
// equal counts keep the order in which they first appeared. Stop-words and
// words shorter than three letters are dropped. A non-positive limit returns
// every term.
func Rank(text string, limit int) []Term {
	counts := make(map[string]int)
	var order []string
	for _, w := range textseg.Words(text) {
		w = strings.ToLower(w)
		if utf8.RuneCountInString(w) < minKeywordLength || IsStopword(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	terms := make([]Term, len(order))
	for i, w := range order {
		terms[i] = Term{Word: w, Count: counts[w]}
	}
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].Count > terms[j].Count
	})

	if limit > 0 && len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}

// Top returns up to limit keywords, most frequent first.
func Top(text string, limit int) []string {
	terms := Rank(text, limit)
	words := make([]string, len(terms))
	for i, t := range terms {
		words[i] = t.Word
	}
	return words
}

// WordSet returns the set of lowercased alphabetic words in text.
func WordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range textseg.Words(text) {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
