package cmd

import (
	"fmt"
	"strings"
	"time"

	"dburn/internal/cli"

	"github.com/spf13/cobra"
)

var flagHeatmapWeeks int

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Daily session activity heatmap",
	RunE:  runHeatmap,
}

func init() {
	heatmapCmd.Flags().IntVarP(&flagHeatmapWeeks, "weeks", "w", 0, "Weeks of history (default from config)")
	rootCmd.AddCommand(heatmapCmd)
}

func runHeatmap(_ *cobra.Command, _ []string) error {
	data, err := loadData()
	if err != nil {
		return err
	}
	if len(data.sessions) == 0 {
		fmt.Println("\n  No sessions found.")
		return nil
	}

	if flagHeatmapWeeks > 0 {
		data.cfg.Display.HeatmapWeeks = flagHeatmapWeeks
	}
	stats := data.aggregate()
	r := data.renderer()

	fmt.Println()
	fmt.Println(r.RenderTitle(fmt.Sprintf("ACTIVITY  Last %dw", data.cfg.Display.HeatmapWeeks)))
	fmt.Println()

	max := 0
	for _, d := range stats.Heatmap {
		if d.Sessions > max {
			max = d.Sessions
		}
	}

	// One column per week, one row per weekday. Row labels come from the
	// window's first seven days since the window ends today, not on a
	// week boundary.
	weeks := len(stats.Heatmap) / 7
	for row := 0; row < 7; row++ {
		label := ""
		if row < len(stats.Heatmap) && row%2 == 0 {
			if t, err := time.Parse("2006-01-02", stats.Heatmap[row].Date); err == nil {
				label = t.Format("Mon")
			}
		}
		var b strings.Builder
		b.WriteString(fmt.Sprintf("  %-4s", label))
		for col := 0; col < weeks; col++ {
			idx := col*7 + row
			if idx >= len(stats.Heatmap) {
				break
			}
			b.WriteString(cli.HeatmapGlyph(stats.Heatmap[idx].Sessions, max))
			b.WriteString(" ")
		}
		fmt.Println(b.String())
	}

	busiest := ""
	for _, d := range stats.Heatmap {
		if max > 0 && d.Sessions == max {
			busiest = d.Date
		}
	}
	fmt.Println()
	if busiest != "" {
		t, err := time.Parse("2006-01-02", busiest)
		if err == nil {
			fmt.Printf("  Busiest day: %s (%d sessions)\n", t.Format("Jan 02"), max)
		}
	}

	return nil
}
