// Package observability provides formatted terminal output for CLI reports.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/resume-scorer/internal/keywords"
	"github.com/jonathan/resume-scorer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
	// barWidth is the width of a sub-score bar
	barWidth = 20
)

// Printer handles formatted output for text reports
type Printer struct {
	out io.Writer

	box   lipgloss.Style
	title lipgloss.Style
	good  lipgloss.Style
	warn  lipgloss.Style
	muted lipgloss.Style
}

// NewPrinter creates a new Printer that writes to the given writer. Colors
// are only emitted when the writer is a color-capable terminal.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:   out,
		box:   r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(boxWidth - 2),
		title: r.NewStyle().Bold(true),
		good:  r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		muted: r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// printBox prints a bordered box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	body := p.title.Render(title)
	if content != "" {
		body += "\n\n" + content
	}
	fmt.Fprintln(p.out, p.box.Render(body))
}

// bar renders score out of maxScore as a fixed-width bar.
func bar(score, maxScore int) string {
	filled := 0
	if maxScore > 0 {
		filled = min(barWidth, max(0, score*barWidth/maxScore))
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// PrintAnalysis outputs a human-readable report of a scored résumé.
func (p *Printer) PrintAnalysis(result *types.AnalysisResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(p.title.Render(fmt.Sprintf("Overall: %d/%d", result.OverallScore, types.MaxOverall)))
	sb.WriteString("\n\n")

	c := result.Components
	rows := []struct {
		label string
		score int
		cap   int
	}{
		{"Format", c.Format, types.MaxFormat},
		{"Content", c.Content, types.MaxContent},
		{"Keywords/ATS", c.KeywordsATS, types.MaxKeywordsATS},
		{"Readability", c.Readability, types.MaxReadability},
		{"ATS friendly", c.ATSFriendliness, types.MaxATSFriendliness},
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%-13s %s %2d/%d\n", row.label, bar(row.score, row.cap), row.score, row.cap))
	}

	sb.WriteString("\n")
	sb.WriteString(p.muted.Render(fmt.Sprintf("%d words, %d sentences", result.WordCount, result.SentenceCount)))
	if result.ReadabilityIndex != nil {
		sb.WriteString(p.muted.Render(fmt.Sprintf(", Flesch %.1f", *result.ReadabilityIndex)))
	}
	sb.WriteString("\n")

	if result.Sections != nil {
		sb.WriteString("\nSections:\n")
		sb.WriteString(p.sectionLine(*result.Sections))
		sb.WriteString("\n")
	}

	if len(result.TopKeywords) > 0 {
		sb.WriteString("\nTop keywords:\n  ")
		sb.WriteString(joinLimited(result.TopKeywords, maxItemsToShow))
		sb.WriteString("\n")
	}

	if m := result.JobMatch; m != nil {
		sb.WriteString(fmt.Sprintf("\nJob match: %.0f%% keywords, semantic %.2f\n", m.ExactFraction*100, m.SemanticScore))
		if len(m.MatchedKeywords) > 0 {
			sb.WriteString("  Matched: " + joinLimited(m.MatchedKeywords, maxItemsToShow) + "\n")
		}
		if len(m.MissingKeywords) > 0 {
			sb.WriteString("  Missing: " + joinLimited(m.MissingKeywords, maxItemsToShow) + "\n")
		}
	}

	sb.WriteString("\n")
	if len(result.Suggestions) == 0 {
		sb.WriteString(p.good.Render("✓ No suggestions"))
	} else {
		sb.WriteString("Suggestions:\n")
		for _, s := range result.Suggestions {
			sb.WriteString(p.warn.Render("⚠") + " " + s + "\n")
		}
	}

	p.printBox("RESUME SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintError outputs the error result in a box.
func (p *Printer) PrintError(result *types.ErrorResult) {
	if result == nil {
		return
	}
	p.printBox("RESUME SCORE", p.warn.Render("⚠ "+result.Error))
}

// PrintSections outputs which résumé sections were detected.
func (p *Printer) PrintSections(flags types.SectionFlags) {
	content := p.sectionLine(flags)
	if missing := flags.Missing(); len(missing) > 0 {
		content += "\n\n" + p.muted.Render("Missing: "+strings.Join(missing, ", "))
	}
	p.printBox(fmt.Sprintf("SECTIONS (%d/%d)", flags.Count(), len(types.SectionNames)), content)
}

// PrintKeywords outputs ranked keywords with their counts.
func (p *Printer) PrintKeywords(terms []keywords.Term) {
	if len(terms) == 0 {
		p.printBox("TOP KEYWORDS", p.muted.Render("No keywords found"))
		return
	}

	var sb strings.Builder
	for i, term := range terms {
		sb.WriteString(fmt.Sprintf("%2d. %-30s %d\n", i+1, term.Word, term.Count))
	}
	p.printBox("TOP KEYWORDS", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) sectionLine(flags types.SectionFlags) string {
	present := flags.Map()
	parts := make([]string, 0, len(types.SectionNames))
	for _, name := range types.SectionNames {
		if present[name] {
			parts = append(parts, p.good.Render("✓ "+name))
		} else {
			parts = append(parts, p.muted.Render("✗ "+name))
		}
	}
	return "  " + strings.Join(parts[:3], "  ") + "\n  " + strings.Join(parts[3:], "  ")
}

func joinLimited(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:limit], ", ") + fmt.Sprintf(" ... and %d more", len(items)-limit)
}
