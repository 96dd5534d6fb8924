package sections

import (
	"testing"

	"github.com/jonathan/resume-scorer/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.SectionFlags
	}{
		{"empty", "", types.SectionFlags{}},
		{"contact via email", "EMAIL: a@b.c", types.SectionFlags{Contact: true}},
		{"contact via phone", "Phone +1 555", types.SectionFlags{Contact: true}},
		{"contact via contact", "Contact me", types.SectionFlags{Contact: true}},
		{"summary", "Professional Summary", types.SectionFlags{Summary: true}},
		{"profile", "LinkedIn profile", types.SectionFlags{Summary: true}},
		{"experience", "Work Experience", types.SectionFlags{Experience: true}},
		{"education prefix", "Self-educated engineer", types.SectionFlags{Education: true}},
		{"skills singular", "Key skill: Go", types.SectionFlags{Skills: true}},
		{"projects prefix", "Side-projects", types.SectionFlags{Projects: true}},
		{
			name: "all",
			text: "Contact\nSummary\nExperience\nEducation\nSkills\nProjects",
			want: types.SectionFlags{Contact: true, Summary: true, Experience: true, Education: true, Skills: true, Projects: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestDetect_SubstringHeuristic(t *testing.T) {
	// "unskilled" contains "skill"; substring matches are accepted as-is.
	assert.True(t, Detect("unskilled labour").Skills)
	assert.False(t, Detect("experiment").Experience)
}

func TestDetect_Scenario(t *testing.T) {
	text := "John Doe\nEmail: j@x.com\nExperience: Built and led a team of 5, improved throughput 20%.\nSkills: Python, SQL\nEducation: BS 2015"

	flags := Detect(text)

	assert.True(t, flags.Contact)
	assert.True(t, flags.Experience)
	assert.True(t, flags.Skills)
	assert.True(t, flags.Education)
	assert.False(t, flags.Summary)
	assert.False(t, flags.Projects)
	assert.Equal(t, 4, flags.Count())
}
