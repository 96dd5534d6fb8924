// Package ingestion turns uploaded résumé files into normalized plain text.
package ingestion

import (
	"regexp"
	"strings"
)

var blankLineRun = regexp.MustCompile(`\n{2,}`)

// Normalize canonicalizes raw document text: every carriage return becomes a
// newline, runs of two or more newlines collapse to exactly two, and leading
// and trailing whitespace is trimmed. Applying it twice equals applying it once.
func Normalize(content string) string {
	if content == "" {
		return ""
	}
	content = strings.ReplaceAll(content, "\r", "\n")
	content = blankLineRun.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// joinLines trims each line, drops empty ones and joins the rest with newlines.
func joinLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
