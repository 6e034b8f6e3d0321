package tui

import (
	"fmt"
	"strings"

	"dburn/internal/cli"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderProjectsTab() string {
	muted := lipgloss.NewStyle().Foreground(a.theme.TextMuted)
	if len(a.stats.Projects) == 0 {
		return "\n" + muted.Render("  No projects found") + "\n"
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Accent)
	row := lipgloss.NewStyle().Foreground(a.theme.Text)
	selected := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Text).Background(a.theme.Surface)

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(header.Render(fmt.Sprintf("%-20s %-14s %8s %8s %9s %7s %8s",
		"PROJECT", "GROUP", "SESSIONS", "TOKENS", "COST", "SHARE", "ACTIVE")))
	b.WriteString("\n")

	start, end := a.window(len(a.stats.Projects))
	for i := start; i < end; i++ {
		p := a.stats.Projects[i]
		line := fmt.Sprintf("%-20s %-14s %8d %8s %9s %7s %8s",
			cli.Truncate(p.Name, 20),
			cli.Truncate(p.Group, 14),
			p.Sessions,
			cli.FormatTokens(p.Tokens.Total()),
			cli.FormatCost(p.EstimatedCost),
			cli.FormatPercent(p.TokenShare),
			cli.FormatDuration(p.ActiveTime))

		b.WriteString("  ")
		if i == a.cursor {
			b.WriteString(selected.Render(line))
		} else {
			b.WriteString(row.Render(line))
		}
		b.WriteString("\n")
	}

	// Token share bar for the selected project
	if a.cursor < len(a.stats.Projects) {
		p := a.stats.Projects[a.cursor]
		barW := 40
		filled := int(p.TokenShare * float64(barW))
		if filled > barW {
			filled = barW
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barW-filled)
		b.WriteString("\n  ")
		b.WriteString(muted.Render(fmt.Sprintf("%s %s of all tokens", bar, cli.FormatPercent(p.TokenShare))))
		b.WriteString("\n")
	}

	return b.String()
}
