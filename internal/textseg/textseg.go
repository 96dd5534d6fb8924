// Package textseg splits document text into sentences and words.
//
// Sentences end at terminal punctuation followed by whitespace, or at a line
// break: résumé lines are usually standalone statements without a full stop.
// A résumé written as unpunctuated lines therefore yields more, shorter
// sentences than a punctuation-only tokenizer would produce, which lowers the
// mean sentence length and raises the Flesch score.
// Words are maximal runs of Unicode letters, so numbers and punctuation never
// appear in a word sequence.
package textseg

import (
	"strings"
	"unicode"
)

// abbreviations never end a sentence when followed by a period.
var abbreviations = map[string]bool{
	"e.g": true, "i.e": true, "etc": true, "vs": true, "approx": true,
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true,
	"jr": true, "sr": true, "inc": true, "ltd": true, "co": true, "corp": true,
	"st": true, "no": true, "dept": true, "univ": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true,
	"aug": true, "sep": true, "sept": true, "oct": true, "nov": true, "dec": true,
}

// Sentences returns the sentences of text in order, trimmed and non-empty.
func Sentences(text string) []string {
	var sentences []string
	for _, line := range strings.Split(text, "\n") {
		sentences = appendLineSentences(sentences, line)
	}
	return sentences
}

func appendLineSentences(out []string, line string) []string {
	runes := []rune(line)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		end := i + 1
		for end < len(runes) && (isTerminal(runes[end]) || isCloser(runes[end])) {
			end++
		}
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			i = end - 1
			continue
		}
		if runes[i] == '.' && isAbbreviation(runes[start:i]) {
			i = end - 1
			continue
		}
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
		start = end
		i = end - 1
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}
	return out
}

// isAbbreviation reports whether the word ending the fragment is a known
// abbreviation or a single-letter initial.
func isAbbreviation(fragment []rune) bool {
	j := len(fragment)
	for j > 0 && !unicode.IsSpace(fragment[j-1]) && fragment[j-1] != '(' {
		j--
	}
	word := strings.ToLower(string(fragment[j:]))
	if word == "" {
		return false
	}
	if len([]rune(word)) == 1 && unicode.IsLetter([]rune(word)[0]) {
		return true
	}
	return abbreviations[word]
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’':
		return true
	}
	return false
}

// Words returns the alphabetic tokens of text in order, preserving case.
func Words(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// MeanSentenceLength is the average whitespace-separated token count per
// sentence. An empty sentence list yields 0.
func MeanSentenceLength(sentences []string) float64 {
	total := 0
	for _, s := range sentences {
		total += len(strings.Fields(s))
	}
	return float64(total) / float64(max(1, len(sentences)))
}
