package tui

import (
	"fmt"
	"strings"

	"dburn/internal/cli"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab() string {
	label := lipgloss.NewStyle().Foreground(a.theme.TextMuted)
	value := lipgloss.NewStyle().Foreground(a.theme.Text)
	accent := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Accent)
	green := lipgloss.NewStyle().Foreground(a.theme.Green)
	blue := lipgloss.NewStyle().Foreground(a.theme.Blue)

	s := a.stats
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s %s    %s %s    %s %s\n",
		label.Render("Sessions:"), value.Render(cli.FormatNumber(int64(s.TotalSessions))),
		label.Render("Projects:"), value.Render(cli.FormatNumber(int64(s.TotalProjects))),
		label.Render("Groups:"), value.Render(cli.FormatNumber(int64(s.TotalGroups)))))

	b.WriteString(fmt.Sprintf("  %s %s    %s %s    %s %s\n",
		label.Render("Tokens:"), blue.Render(cli.FormatTokens(s.Tokens.Total())),
		label.Render("Cost:"), green.Render(cli.FormatCost(s.EstimatedCost)),
		label.Render("Active:"), value.Render(cli.FormatDuration(s.TotalActiveTime))))

	b.WriteString(fmt.Sprintf("  %s %s\n",
		label.Render("Cache hit:"), value.Render(cli.FormatPercent(s.CacheHitRatio))))

	if !s.FirstSession.IsZero() {
		b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			label.Render("First:"), value.Render(cli.FormatDate(s.FirstSession)),
			label.Render("Last:"), value.Render(cli.FormatDate(s.LastSession))))
	}

	// Token type breakdown
	b.WriteString("\n")
	b.WriteString(accent.Render("  TOKENS BY TYPE"))
	b.WriteString("\n")
	rows := []struct {
		name  string
		count int64
	}{
		{"Input", s.Tokens.Input},
		{"Output", s.Tokens.Output},
		{"Cache Write", s.Tokens.CacheWrite},
		{"Cache Read", s.Tokens.CacheRead},
		{"Thinking", s.Tokens.Thinking},
	}
	for _, r := range rows {
		if r.count == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s\n",
			label.Render(fmt.Sprintf("%-12s", r.name)),
			value.Render(cli.FormatTokens(r.count))))
	}

	// Model mix
	if len(s.Models) > 0 {
		b.WriteString("\n")
		b.WriteString(accent.Render("  SESSIONS BY MODEL"))
		b.WriteString("\n")
		for _, m := range s.Models {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				label.Render(fmt.Sprintf("%-28s", cli.Truncate(m.Model, 28))),
				value.Render(cli.FormatNumber(int64(m.Sessions)))))
		}
	}

	// Activity heatmap
	if len(s.Heatmap) > 0 {
		b.WriteString("\n")
		b.WriteString(accent.Render("  ACTIVITY"))
		b.WriteString("\n")
		b.WriteString(a.renderHeatmap())
	}

	return b.String()
}

// renderHeatmap lays the daily counts out in GitHub-style columns, one
// column per week, Monday at the top.
func (a App) renderHeatmap() string {
	s := a.stats
	max := 0
	for _, d := range s.Heatmap {
		if d.Sessions > max {
			max = d.Sessions
		}
	}

	active := lipgloss.NewStyle().Foreground(a.theme.Green)
	idle := lipgloss.NewStyle().Foreground(a.theme.TextDim)

	weeks := len(s.Heatmap) / 7
	var b strings.Builder
	for row := 0; row < 7; row++ {
		b.WriteString("  ")
		for col := 0; col < weeks; col++ {
			idx := col*7 + row
			if idx >= len(s.Heatmap) {
				break
			}
			glyph := cli.HeatmapGlyph(s.Heatmap[idx].Sessions, max)
			if s.Heatmap[idx].Sessions > 0 {
				b.WriteString(active.Render(glyph))
			} else {
				b.WriteString(idle.Render(glyph))
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String()
}
