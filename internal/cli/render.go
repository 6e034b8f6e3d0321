package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the terminal palette. Two variants ship, selected by the
// dark_mode display setting.
type Theme struct {
	Bg        lipgloss.Color
	Surface   lipgloss.Color
	Border    lipgloss.Color
	TextDim   lipgloss.Color
	TextMuted lipgloss.Color
	Text      lipgloss.Color
	Accent    lipgloss.Color
	Green     lipgloss.Color
	Orange    lipgloss.Color
	Red       lipgloss.Color
	Blue      lipgloss.Color
	Purple    lipgloss.Color
	Yellow    lipgloss.Color
}

// DarkTheme is the Flexoki Dark palette.
var DarkTheme = Theme{
	Bg:        lipgloss.Color("#100F0F"),
	Surface:   lipgloss.Color("#1C1B1A"),
	Border:    lipgloss.Color("#282726"),
	TextDim:   lipgloss.Color("#575653"),
	TextMuted: lipgloss.Color("#6F6E69"),
	Text:      lipgloss.Color("#FFFCF0"),
	Accent:    lipgloss.Color("#3AA99F"),
	Green:     lipgloss.Color("#879A39"),
	Orange:    lipgloss.Color("#DA702C"),
	Red:       lipgloss.Color("#D14D41"),
	Blue:      lipgloss.Color("#4385BE"),
	Purple:    lipgloss.Color("#8B7EC8"),
	Yellow:    lipgloss.Color("#D0A215"),
}

// LightTheme is the Flexoki Light palette.
var LightTheme = Theme{
	Bg:        lipgloss.Color("#FFFCF0"),
	Surface:   lipgloss.Color("#F2F0E5"),
	Border:    lipgloss.Color("#DAD8CE"),
	TextDim:   lipgloss.Color("#B7B5AC"),
	TextMuted: lipgloss.Color("#6F6E69"),
	Text:      lipgloss.Color("#100F0F"),
	Accent:    lipgloss.Color("#24837B"),
	Green:     lipgloss.Color("#66800B"),
	Orange:    lipgloss.Color("#BC5215"),
	Red:       lipgloss.Color("#AF3029"),
	Blue:      lipgloss.Color("#205EA6"),
	Purple:    lipgloss.Color("#5E409D"),
	Yellow:    lipgloss.Color("#AD8301"),
}

// ThemeFor selects the palette for the dark_mode setting.
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}

// Renderer produces styled terminal output under one theme.
type Renderer struct {
	theme  Theme
	title  lipgloss.Style
	header lipgloss.Style
	value  lipgloss.Style
	muted  lipgloss.Style
	dim    lipgloss.Style
}

// NewRenderer builds a renderer for the theme.
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{
		theme:  theme,
		title:  lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Align(lipgloss.Center),
		header: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		value:  lipgloss.NewStyle().Foreground(theme.Text),
		muted:  lipgloss.NewStyle().Foreground(theme.TextMuted),
		dim:    lipgloss.NewStyle().Foreground(theme.TextDim),
	}
}

// Theme returns the renderer's palette.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func (r *Renderer) RenderTitle(title string) string {
	width := 55
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(r.theme.Border).
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(r.title.Render(title))
}

// RenderTable renders a bordered table with headers and rows. The first
// column is left-aligned, the rest right-aligned. A row of ["---"]
// renders as a separator line.
func (r *Renderer) RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			if len(h) > widths[i] {
				widths[i] = len(h)
			}
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols && len(cell) > widths[i] {
					widths[i] = len(cell)
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(r.header.Render(t.Title))
		b.WriteString("\n")
	}

	r.writeBorder(&b, widths, "╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(r.dim.Render("│"))
		for i, h := range t.Headers {
			padded := fmt.Sprintf(" %-*s ", widths[i], h)
			b.WriteString(r.header.Render(padded))
			if i < numCols-1 {
				b.WriteString(r.dim.Render("│"))
			}
		}
		b.WriteString(r.dim.Render("│"))
		b.WriteString("\n")
		r.writeBorder(&b, widths, "├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			r.writeBorder(&b, widths, "├", "┼", "┤")
			continue
		}

		b.WriteString(r.dim.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", widths[i], cell)
			} else {
				padded = fmt.Sprintf(" %*s ", widths[i], cell)
			}
			b.WriteString(r.value.Render(padded))
			if i < numCols-1 {
				b.WriteString(r.dim.Render("│"))
			}
		}
		b.WriteString(r.dim.Render("│"))
		b.WriteString("\n")
	}

	r.writeBorder(&b, widths, "╰", "┴", "╯")

	return b.String()
}

func (r *Renderer) writeBorder(b *strings.Builder, widths []int, left, mid, right string) {
	b.WriteString(r.dim.Render(left))
	for i, w := range widths {
		b.WriteString(r.dim.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(r.dim.Render(mid))
		}
	}
	b.WriteString(r.dim.Render(right))
	b.WriteString("\n")
}

// RenderProgressBar renders a simple text progress bar.
func (r *Renderer) RenderProgressBar(current, total int, width int) string {
	if total <= 0 {
		return ""
	}

	pct := float64(current) / float64(total)
	if pct > 1 {
		pct = 1
	}

	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s/%s",
		r.muted.Render(bar),
		FormatNumber(int64(current)),
		FormatNumber(int64(total)),
	)
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		max = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / max * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(blocks[idx])
	}

	return b.String()
}

// HeatmapGlyph maps a day's session count to a density glyph relative to
// the busiest day in the window.
func HeatmapGlyph(count, max int) string {
	if count == 0 {
		return "·"
	}
	if max <= 0 {
		max = 1
	}
	glyphs := []string{"░", "▒", "▓", "█"}
	idx := (count*len(glyphs) - 1) / max
	if idx >= len(glyphs) {
		idx = len(glyphs) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return glyphs[idx]
}
