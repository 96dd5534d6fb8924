package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CarriageReturns(t *testing.T) {
	assert.Equal(t, "Line 1\nLine 2\n\nLine 3", Normalize("Line 1\rLine 2\r\n\rLine 3"))
	assert.NotContains(t, Normalize("a\r\nb"), "\r")
}

func TestNormalize_CollapsesBlankLines(t *testing.T) {
	result := Normalize("Line 1\n\n\n\n\nLine 2")

	assert.Equal(t, "Line 1\n\nLine 2", result)
	assert.NotContains(t, result, "\n\n\n")
}

func TestNormalize_Trims(t *testing.T) {
	assert.Equal(t, "Content", Normalize("  \n\n Content \t\n"))
}

func TestNormalize_EmptyAndWhitespace(t *testing.T) {
	assert.Empty(t, Normalize(""))
	assert.Empty(t, Normalize("   \n  \r\n  "))
	assert.Empty(t, Normalize(" \t\r\n"))
}

func TestNormalize_PreservesInlineWhitespace(t *testing.T) {
	// Tabs inside the text matter to ATS scoring and must survive.
	assert.Equal(t, "Skills:\tGo\tSQL", Normalize("Skills:\tGo\tSQL"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"simple",
		"a\r\r\rb\n\n\nc",
		"\n\n  lead and trail  \n\n",
		"x\n \n\ny",
		"Résumé 🚀\r\n\r\n\r\nDone",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestJoinLines(t *testing.T) {
	assert.Equal(t, "a\nb c", joinLines("  a \n\n\n   b c  \n  "))
	assert.Empty(t, joinLines(" \n \n"))
}
