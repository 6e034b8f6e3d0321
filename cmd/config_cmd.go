// Package cmd implements the dburn CLI commands.
package cmd

import (
	"fmt"
	"os"
	"sort"

	"dburn/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	fmt.Printf("  Primary config:   %s%s\n", config.PrimaryConfigPath(), existsTag(config.PrimaryConfigPath()))
	fmt.Printf("  Secondary config: %s%s\n", config.SecondaryConfigPath(), existsTag(config.SecondaryConfigPath()))
	if flagConfig != "" {
		fmt.Printf("  Override:         %s\n", flagConfig)
	}
	fmt.Println()

	fmt.Println("  [display]")
	fmt.Printf("    default_tab:         %s\n", cfg.Display.DefaultTab)
	fmt.Printf("    default_sort:        %s\n", cfg.Display.DefaultSort)
	fmt.Printf("    default_group:       %s\n", cfg.Display.DefaultGroup)
	fmt.Printf("    hide_empty_sessions: %v\n", cfg.Display.HideEmptySessions)
	fmt.Printf("    dark_mode:           %v\n", cfg.Display.DarkMode)
	fmt.Printf("    heatmap_weeks:       %d\n", cfg.Display.HeatmapWeeks)
	fmt.Println()

	fmt.Println("  [columns.sessions]")
	cols := cfg.Columns.Sessions
	fmt.Printf("    title:%v date:%v project:%v model:%v\n",
		cols.ShowTitle, cols.ShowDate, cols.ShowProject, cols.ShowModel)
	fmt.Printf("    tokens:%v favorites:%v prompts:%v duration:%v\n",
		cols.ShowTokens, cols.ShowFavorites, cols.ShowPrompts, cols.ShowDuration)
	fmt.Println()

	fmt.Println("  [pricing]")
	d := cfg.Pricing.Default
	fmt.Printf("    default: in $%.2f/M  out $%.2f/M  cw $%.2f/M  cr $%.2f/M\n",
		d.InputPerMTok, d.OutputPerMTok, d.CacheWritePerMTok, d.CacheReadPerMTok)
	names := make([]string, 0, len(cfg.Pricing.Models))
	for name := range cfg.Pricing.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := cfg.Pricing.Models[name]
		fmt.Printf("    %-30s in $%.2f/M  out $%.2f/M  cw $%.2f/M  cr $%.2f/M\n",
			name, t.InputPerMTok, t.OutputPerMTok, t.CacheWritePerMTok, t.CacheReadPerMTok)
	}
	fmt.Println()

	fmt.Println("  [paths]")
	fmt.Printf("    sessions_dir: %s\n", cfg.SessionsDir(flagSessionsDir))
	fmt.Println()

	fmt.Println("  Run `dburn setup` to reconfigure.")
	return nil
}

func existsTag(path string) string {
	if _, err := os.Stat(path); err == nil {
		return ""
	}
	return " (not present)"
}
