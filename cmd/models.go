package cmd

import (
	"fmt"

	"dburn/internal/cli"
	"dburn/internal/model"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Model usage breakdown",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(_ *cobra.Command, _ []string) error {
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

	// Per-model token and cost totals, summed session by session since
	// one session maps to one model.
	type modelTotals struct {
		tokens model.TokenUsage
		cost   float64
	}
	totals := make(map[string]modelTotals)
	for _, s := range data.sessions {
		mt := totals[s.Model]
		mt.tokens = mt.tokens.Add(s.Tokens)
		mt.cost += data.est.SessionCost(s)
		totals[s.Model] = mt
	}

	fmt.Println()
	fmt.Println(r.RenderTitle("MODEL USAGE"))
	fmt.Println()

	rows := make([][]string, 0, len(stats.Models))
	for _, mc := range stats.Models {
		mt := totals[mc.Model]
		share := 0.0
		if total := stats.Tokens.Total(); total > 0 {
			share = float64(mt.tokens.Total()) / float64(total)
		}
		rows = append(rows, []string{
			mc.Model,
			cli.FormatNumber(int64(mc.Sessions)),
			cli.FormatTokens(mt.tokens.Input),
			cli.FormatTokens(mt.tokens.Output),
			cli.FormatTokens(mt.tokens.Total()),
			cli.FormatCost(mt.cost),
			cli.FormatPercent(share),
		})
	}

	fmt.Print(r.RenderTable(cli.Table{
		Headers: []string{"Model", "Sessions", "Input", "Output", "Total", "Cost", "Share"},
		Rows:    rows,
	}))

	return nil
}
