package tui

import (
	"fmt"
	"strings"

	"dburn/internal/cli"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderSessionsTab() string {
	muted := lipgloss.NewStyle().Foreground(a.theme.TextMuted)
	if len(a.sessions) == 0 {
		return "\n" + muted.Render("  No sessions found") + "\n"
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Accent)
	row := lipgloss.NewStyle().Foreground(a.theme.Text)
	selected := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Text).Background(a.theme.Surface)
	star := lipgloss.NewStyle().Foreground(a.theme.Yellow)

	cols := a.cfg.Columns.Sessions

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(header.Render(a.sessionLine(
		"", "TITLE", "DATE", "PROJECT", "MODEL", "TOKENS", "DUR", "PROMPTS")))
	b.WriteString("\n")

	start, end := a.window(len(a.sessions))
	for i := start; i < end; i++ {
		s := a.sessions[i]

		fav := " "
		if cols.ShowFavorites && s.IsFavorite {
			fav = "★"
		}
		line := a.sessionLine(
			fav,
			cli.Truncate(s.Title, 32),
			cli.FormatDate(s.StartedAt),
			cli.Truncate(s.Project, 16),
			cli.Truncate(s.Model, 20),
			cli.FormatTokens(s.Tokens.Total()),
			cli.FormatDuration(s.ActiveTime),
			fmt.Sprintf("%d", len(s.Prompts)),
		)

		b.WriteString("  ")
		switch {
		case i == a.cursor:
			b.WriteString(selected.Render(line))
		case s.IsFavorite:
			b.WriteString(star.Render(line))
		default:
			b.WriteString(row.Render(line))
		}
		b.WriteString("\n")
	}

	if end < len(a.sessions) || start > 0 {
		b.WriteString(muted.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(a.sessions))))
		b.WriteString("\n")
	}

	// Detail pane for the selected session
	b.WriteString("\n")
	b.WriteString(a.renderSessionDetail())
	return b.String()
}

// sessionLine formats one row honoring the configured column toggles.
func (a App) sessionLine(fav, title, date, project, mdl, tokens, dur, prompts string) string {
	cols := a.cfg.Columns.Sessions
	parts := []string{}
	if cols.ShowFavorites {
		parts = append(parts, fav)
	}
	if cols.ShowTitle {
		parts = append(parts, fmt.Sprintf("%-32s", title))
	}
	if cols.ShowDate {
		parts = append(parts, fmt.Sprintf("%-16s", date))
	}
	if cols.ShowProject {
		parts = append(parts, fmt.Sprintf("%-16s", project))
	}
	if cols.ShowModel {
		parts = append(parts, fmt.Sprintf("%-20s", mdl))
	}
	if cols.ShowTokens {
		parts = append(parts, fmt.Sprintf("%8s", tokens))
	}
	if cols.ShowDuration {
		parts = append(parts, fmt.Sprintf("%7s", dur))
	}
	if cols.ShowPrompts {
		parts = append(parts, fmt.Sprintf("%7s", prompts))
	}
	return strings.Join(parts, " ")
}

func (a App) renderSessionDetail() string {
	if a.cursor >= len(a.sessions) {
		return ""
	}
	s := a.sessions[a.cursor]

	label := lipgloss.NewStyle().Foreground(a.theme.TextMuted)
	value := lipgloss.NewStyle().Foreground(a.theme.Text)
	green := lipgloss.NewStyle().Foreground(a.theme.Green)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s %s  %s %s/%s  %s %s\n",
		label.Render("Session"), value.Render(shortID(s.ID)),
		label.Render("in"), value.Render(s.Group), value.Render(s.Project),
		label.Render("autonomy:"), value.Render(s.AutonomyMode)))

	b.WriteString(fmt.Sprintf("  %s in:%s out:%s cw:%s cr:%s think:%s  %s %s\n",
		label.Render("Tokens"),
		value.Render(cli.FormatTokens(s.Tokens.Input)),
		value.Render(cli.FormatTokens(s.Tokens.Output)),
		value.Render(cli.FormatTokens(s.Tokens.CacheWrite)),
		value.Render(cli.FormatTokens(s.Tokens.CacheRead)),
		value.Render(cli.FormatTokens(s.Tokens.Thinking)),
		label.Render("cost:"),
		green.Render(cli.FormatCost(a.est.SessionCost(s)))))

	if len(s.Prompts) > 0 {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			label.Render("Last prompt:"),
			value.Render(cli.Truncate(s.Prompts[len(s.Prompts)-1].Text, 70))))
	}
	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
