package cmd

import (
	"fmt"
	"strings"

	"dburn/internal/cli"

	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Usage broken down by project group",
	RunE:  runGroups,
}

func init() {
	rootCmd.AddCommand(groupsCmd)
}

func runGroups(_ *cobra.Command, _ []string) error {
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
	fmt.Println(r.RenderTitle("USAGE BY GROUP"))
	fmt.Println()

	rows := make([][]string, 0, len(stats.Groups))
	for _, g := range stats.Groups {
		rows = append(rows, []string{
			g.Name,
			cli.FormatNumber(int64(len(g.Projects))),
			cli.FormatNumber(int64(g.Sessions)),
			cli.FormatTokens(g.Tokens.Total()),
			cli.FormatCost(g.EstimatedCost),
			cli.FormatPercent(g.TokenShare),
			cli.FormatDuration(g.ActiveTime),
		})
	}

	fmt.Print(r.RenderTable(cli.Table{
		Headers: []string{"Group", "Projects", "Sessions", "Tokens", "Cost", "Share", "Active"},
		Rows:    rows,
	}))

	for _, g := range stats.Groups {
		fmt.Printf("  %s: %s\n", g.Name, cli.Truncate(strings.Join(g.Projects, ", "), 90))
	}

	return nil
}
