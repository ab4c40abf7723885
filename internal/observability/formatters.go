// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/portfolio-builder/internal/analysis"
	"github.com/jonathan/portfolio-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = truncate(line, boxWidth-4)
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// PrintPortfolio outputs the contact block and a per-section count of the portfolio.
func (p *Printer) PrintPortfolio(portfolio *types.PortfolioData) {
	if portfolio == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", portfolio.FullName))
	if portfolio.Headline != "" {
		sb.WriteString(fmt.Sprintf("Headline: %s\n", portfolio.Headline))
	}
	if portfolio.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", portfolio.Location))
	}
	if portfolio.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", portfolio.Email))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Skills: %d  Experience: %d  Education: %d  Projects: %d",
		len(portfolio.Skills), len(portfolio.Experience), len(portfolio.Education), len(portfolio.Projects)))

	if len(portfolio.Experience) > 0 {
		sb.WriteString("\n\nExperience:\n")
		count := min(len(portfolio.Experience), 3)
		for i := 0; i < count; i++ {
			exp := portfolio.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s", exp.Role, exp.Company))
			if exp.Period != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", exp.Period))
			}
			sb.WriteString("\n")
		}
		if len(portfolio.Experience) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(portfolio.Experience)-3))
		}
	}

	p.printBox("EXTRACTED PORTFOLIO", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkills outputs skills grouped by category with a proficiency bar.
func (p *Printer) PrintSkills(skills []types.Skill) {
	if len(skills) == 0 {
		return
	}

	groups := make(map[types.SkillCategory][]types.Skill)
	for _, s := range skills {
		groups[s.Category] = append(groups[s.Category], s)
	}

	var sb strings.Builder
	for _, category := range types.SkillCategories {
		group := groups[category]
		if len(group) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s:\n", category))
		count := min(len(group), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  %-20s %s %3d%%\n", truncate(group[i].Name, 20), bar(group[i].Level), group[i].Level))
		}
		if len(group) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(group)-maxItemsToShow))
		}
	}

	p.printBox("SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// bar renders level (0-100) as ten cells.
func bar(level int) string {
	filled := types.ClampPercent(level) / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// PrintAnalysis outputs the private career analysis.
func (p *Printer) PrintAnalysis(a *types.ResumeAnalysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:    %d/100 (%s)\n", a.Score, analysis.ScoreLabel(a.Score)))
	if a.IsDegraded() {
		sb.WriteString("Status:   degraded\n")
	}
	sb.WriteString(fmt.Sprintf("Summary:  %s\n", a.Summary))
	sb.WriteString("\n")

	if len(a.Strengths) > 0 {
		sb.WriteString("Strengths:\n")
		count := min(len(a.Strengths), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  + %s\n", a.Strengths[i]))
		}
	}
	if len(a.Weaknesses) > 0 {
		sb.WriteString("Weaknesses:\n")
		count := min(len(a.Weaknesses), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  - %s\n", a.Weaknesses[i]))
		}
	}

	if len(a.JobRecommendations) > 0 {
		sb.WriteString("\nRecommended roles:\n")
		count := min(len(a.JobRecommendations), maxItemsToShow)
		for i := 0; i < count; i++ {
			rec := a.JobRecommendations[i]
			sb.WriteString(fmt.Sprintf("  • %s at %s", rec.Title, rec.Company))
			if rec.MatchScore != nil {
				sb.WriteString(fmt.Sprintf(" [%d%%]", *rec.MatchScore))
			}
			sb.WriteString("\n")
		}
		if len(a.JobRecommendations) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(a.JobRecommendations)-maxItemsToShow))
		}
	}

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidates outputs the employer listing.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCandidates(candidates []types.CandidateProfile) {
	if len(candidates) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "No candidates found")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d candidates:\n\n", len(candidates)))
	for i, c := range candidates {
		name := c.User.Name
		headline := ""
		if c.Portfolio != nil {
			name = c.Portfolio.FullName
			headline = c.Portfolio.Headline
		}
		sb.WriteString(fmt.Sprintf("%s <%s>\n", name, c.User.Email))
		sb.WriteString(fmt.Sprintf("  %s\n", headline))
		if !c.LastUpdated.IsZero() {
			sb.WriteString(fmt.Sprintf("  updated %s\n", c.LastUpdated.Format("2006-01-02")))
		}
		if i < len(candidates)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}
