// Package types provides type definitions for structured data used throughout the resume-scorer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Sub-score caps. The overall score is the sum of the five and never exceeds MaxOverall.
const (
	MaxFormat          = 20
	MaxContent         = 25
	MaxKeywordsATS     = 25
	MaxReadability     = 15
	MaxATSFriendliness = 15
	MaxOverall         = 100
)

// Section names used as SectionFlags keys.
const (
	SectionContact    = "contact"
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
	SectionProjects   = "projects"
)

// SectionNames lists the sections in their canonical order.
var SectionNames = []string{
	SectionContact,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
}

// SectionFlags records which conventional résumé sections were detected.
type SectionFlags struct {
	Contact    bool `json:"contact"`
	Summary    bool `json:"summary"`
	Experience bool `json:"experience"`
	Education  bool `json:"education"`
	Skills     bool `json:"skills"`
	Projects   bool `json:"projects"`
}

// Count returns the number of sections present.
func (f SectionFlags) Count() int {
	n := 0
	for _, present := range []bool{f.Contact, f.Summary, f.Experience, f.Education, f.Skills, f.Projects} {
		if present {
			n++
		}
	}
	return n
}

// Map returns the flags keyed by section name.
func (f SectionFlags) Map() map[string]bool {
	return map[string]bool{
		SectionContact:    f.Contact,
		SectionSummary:    f.Summary,
		SectionExperience: f.Experience,
		SectionEducation:  f.Education,
		SectionSkills:     f.Skills,
		SectionProjects:   f.Projects,
	}
}

// Missing returns the names of absent sections in canonical order.
func (f SectionFlags) Missing() []string {
	m := f.Map()
	var missing []string
	for _, name := range SectionNames {
		if !m[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// Components holds the five capped sub-scores.
type Components struct {
	Format          int `json:"format" validate:"gte=0,lte=20"`
	Content         int `json:"content" validate:"gte=0,lte=25"`
	KeywordsATS     int `json:"keywords_ats" validate:"gte=0,lte=25"`
	Readability     int `json:"readability" validate:"gte=0,lte=15"`
	ATSFriendliness int `json:"ats_friendliness" validate:"gte=0,lte=15"`
}

// Sum returns the unclamped total of all sub-scores.
func (c Components) Sum() int {
	return c.Format + c.Content + c.KeywordsATS + c.Readability + c.ATSFriendliness
}

// JobMatch describes how the résumé lines up with a job description.
type JobMatch struct {
	ExactFraction   float64  `json:"exact_fraction" validate:"gte=0,lte=1"`
	SemanticScore   float64  `json:"semantic_score" validate:"gte=-1,lte=1"`
	JobKeywords     int      `json:"job_keywords"`
	MatchedKeywords []string `json:"matched_keywords"`
	MissingKeywords []string `json:"missing_keywords"`
}

// AnalysisResult is the scored output for a single résumé.
type AnalysisResult struct {
	OverallScore  int        `json:"overall_score" validate:"gte=0,lte=100"`
	Components    Components `json:"components"`
	WordCount     int        `json:"word_count" validate:"gte=0"`
	SentenceCount int        `json:"sentence_count" validate:"gte=0"`
	TopKeywords   []string   `json:"top_keywords" validate:"max=30"`
	Suggestions   []string   `json:"suggestions"`

	// Intermediate values, reported for explainability.
	Sections         *SectionFlags `json:"sections,omitempty"`
	ReadabilityIndex *float64      `json:"readability_index,omitempty"`
	JobMatch         *JobMatch     `json:"job_match,omitempty"`
}

// ErrorResult is returned in place of an AnalysisResult when no text could be scored.
type ErrorResult struct {
	Error string `json:"error"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func resultValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the caps and ranges declared on the result's fields.
func (r *AnalysisResult) Validate() error {
	if r == nil {
		return fmt.Errorf("analysis result is nil")
	}
	if err := resultValidator().Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
			}
			return fmt.Errorf("invalid analysis result: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid analysis result: %w", err)
	}
	if r.OverallScore != min(r.Components.Sum(), MaxOverall) {
		return fmt.Errorf("invalid analysis result: overall_score %d does not match components total %d", r.OverallScore, r.Components.Sum())
	}
	return nil
}
