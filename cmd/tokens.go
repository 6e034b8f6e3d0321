package cmd

import (
	"fmt"

	"dburn/internal/cli"

	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Token usage and cost per project",
	RunE:  runTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(_ *cobra.Command, _ []string) error {
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
	fmt.Println(r.RenderTitle("TOKENS BY PROJECT"))
	fmt.Println()

	rows := make([][]string, 0, len(stats.Projects))
	for _, p := range stats.Projects {
		rows = append(rows, []string{
			p.Name,
			cli.FormatTokens(p.Tokens.Input),
			cli.FormatTokens(p.Tokens.Output),
			cli.FormatTokens(p.Tokens.CacheWrite),
			cli.FormatTokens(p.Tokens.CacheRead),
			cli.FormatTokens(p.Tokens.Total()),
			cli.FormatCost(p.EstimatedCost),
			cli.FormatPercent(p.TokenShare),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{
		"Total",
		cli.FormatTokens(stats.Tokens.Input),
		cli.FormatTokens(stats.Tokens.Output),
		cli.FormatTokens(stats.Tokens.CacheWrite),
		cli.FormatTokens(stats.Tokens.CacheRead),
		cli.FormatTokens(stats.Tokens.Total()),
		cli.FormatCost(stats.EstimatedCost),
		"",
	})

	fmt.Print(r.RenderTable(cli.Table{
		Headers: []string{"Project", "Input", "Output", "CacheW", "CacheR", "Total", "Cost", "Share"},
		Rows:    rows,
	}))

	return nil
}
