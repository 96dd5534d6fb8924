package scoring

// Suggestion texts, emitted in this order.
const (
	SuggestMetrics        = "Add measurable achievements with numbers."
	SuggestSkillsSection  = "Include a clear Skills section."
	SuggestShortSentences = "Shorten long sentences for readability."
	SuggestJDKeywords     = "Add more job-specific keywords from the JD."
)

const (
	minMetrics         = 3
	longSentenceLimit  = 30.0
	minExactMatchRatio = 0.4
)

// features are the intermediate values suggestions are derived from.
type features struct {
	metrics            int
	hasSkills          bool
	meanSentenceLength float64
	hasJobDescription  bool
	exactFraction      float64
}

// generateSuggestions evaluates each condition independently, in fixed order.
func generateSuggestions(f features) []string {
	suggestions := []string{}
	if f.metrics < minMetrics {
		suggestions = append(suggestions, SuggestMetrics)
	}
	if !f.hasSkills {
		suggestions = append(suggestions, SuggestSkillsSection)
	}
	if f.meanSentenceLength > longSentenceLimit {
		suggestions = append(suggestions, SuggestShortSentences)
	}
	if f.hasJobDescription && f.exactFraction < minExactMatchRatio {
		suggestions = append(suggestions, SuggestJDKeywords)
	}
	return suggestions
}
