package tui

import (
	"fmt"
	"strings"

	"dburn/internal/cli"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderGroupsTab() string {
	muted := lipgloss.NewStyle().Foreground(a.theme.TextMuted)
	if len(a.stats.Groups) == 0 {
		return "\n" + muted.Render("  No groups found") + "\n"
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Accent)
	row := lipgloss.NewStyle().Foreground(a.theme.Text)
	selected := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Text).Background(a.theme.Surface)

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(header.Render(fmt.Sprintf("%-18s %8s %9s %8s %9s %7s",
		"GROUP", "PROJECTS", "SESSIONS", "TOKENS", "COST", "SHARE")))
	b.WriteString("\n")

	start, end := a.window(len(a.stats.Groups))
	for i := start; i < end; i++ {
		g := a.stats.Groups[i]
		line := fmt.Sprintf("%-18s %8d %9d %8s %9s %7s",
			cli.Truncate(g.Name, 18),
			len(g.Projects),
			g.Sessions,
			cli.FormatTokens(g.Tokens.Total()),
			cli.FormatCost(g.EstimatedCost),
			cli.FormatPercent(g.TokenShare))

		b.WriteString("  ")
		if i == a.cursor {
			b.WriteString(selected.Render(line))
		} else {
			b.WriteString(row.Render(line))
		}
		b.WriteString("\n")
	}

	// Member list for the selected group
	if a.cursor < len(a.stats.Groups) {
		g := a.stats.Groups[a.cursor]
		b.WriteString("\n  ")
		b.WriteString(muted.Render("Projects: " + cli.Truncate(strings.Join(g.Projects, ", "), 90)))
		b.WriteString("\n")
	}

	return b.String()
}
