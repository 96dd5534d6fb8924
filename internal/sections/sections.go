// Package sections flags conventional résumé sections by keyword scan.
//
// Detection is a plain substring heuristic over the lowercased text. It does
// not parse document structure, and scores depend on it staying this way.
package sections

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

var contactPattern = regexp.MustCompile(`email|contact|phone`)

// Detect returns the section flags for normalized résumé text.
func Detect(text string) types.SectionFlags {
	lower := strings.ToLower(text)
	return types.SectionFlags{
		Contact:    contactPattern.MatchString(lower),
		Summary:    strings.Contains(lower, "summary") || strings.Contains(lower, "profile"),
		Experience: strings.Contains(lower, "experience"),
		Education:  strings.Contains(lower, "educat"),
		Skills:     strings.Contains(lower, "skill"),
		Projects:   strings.Contains(lower, "project"),
	}
}
