package cmd

import (
	"fmt"

	"dburn/internal/cli"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Overall usage summary",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	data, err := loadData()
	if err != nil {
		return err
	}
	if len(data.sessions) == 0 {
		fmt.Println("\n  No sessions found.")
		return nil
	}

	stats := data.aggregate()
	r := data.renderer()

	fmt.Println()
	fmt.Println(r.RenderTitle("DROID USAGE"))
	fmt.Println()

	rows := [][]string{
		{"Sessions", cli.FormatNumber(int64(stats.TotalSessions))},
		{"Projects", cli.FormatNumber(int64(stats.TotalProjects))},
		{"Groups", cli.FormatNumber(int64(stats.TotalGroups))},
		{"---"},
		{"Total tokens", cli.FormatTokens(stats.Tokens.Total())},
		{"Input", cli.FormatTokens(stats.Tokens.Input)},
		{"Output", cli.FormatTokens(stats.Tokens.Output)},
		{"Cache write", cli.FormatTokens(stats.Tokens.CacheWrite)},
		{"Cache read", cli.FormatTokens(stats.Tokens.CacheRead)},
		{"Thinking", cli.FormatTokens(stats.Tokens.Thinking)},
		{"Cache hit rate", cli.FormatPercent(stats.CacheHitRatio)},
		{"---"},
		{"Estimated cost", cli.FormatCost(stats.EstimatedCost)},
		{"Active time", cli.FormatDuration(stats.TotalActiveTime)},
	}
	if !stats.FirstSession.IsZero() {
		rows = append(rows,
			[]string{"First session", cli.FormatDate(stats.FirstSession)},
			[]string{"Last session", cli.FormatDate(stats.LastSession)},
		)
	}
	if data.skipped > 0 {
		rows = append(rows, []string{"Skipped units", cli.FormatNumber(int64(data.skipped))})
	}

	fmt.Print(r.RenderTable(cli.Table{Rows: rows}))

	if len(stats.TopProjects) > 0 {
		fmt.Println()
		top := make([][]string, 0, len(stats.TopProjects))
		for _, p := range stats.TopProjects {
			top = append(top, []string{
				p.Name,
				p.Group,
				cli.FormatNumber(int64(p.Sessions)),
				cli.FormatTokens(p.Tokens.Total()),
				cli.FormatCost(p.EstimatedCost),
				cli.FormatPercent(p.TokenShare),
			})
		}
		fmt.Print(r.RenderTable(cli.Table{
			Title:   "Top projects",
			Headers: []string{"Project", "Group", "Sessions", "Tokens", "Cost", "Share"},
			Rows:    top,
		}))
	}

	return nil
}
