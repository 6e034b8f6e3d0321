package cmd

import (
	"fmt"
	"strconv"

	"dburn/internal/cli"
	"dburn/internal/config"
	"dburn/internal/source"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	sessionsDir := cfg.SessionsDir(flagSessionsDir)
	files, _ := source.ScanDir(sessionsDir)

	fmt.Println()
	fmt.Println("  Welcome to dburn!")
	if len(files) > 0 {
		fmt.Printf("  Found %s sessions in %s (%d projects)\n",
			cli.FormatNumber(int64(len(files))), sessionsDir, source.CountProjects(files))
	}
	fmt.Println()

	tab := cfg.Display.DefaultTab
	sortMode := cfg.Display.DefaultSort
	darkMode := cfg.Display.DarkMode
	hideEmpty := cfg.Display.HideEmptySessions
	weeks := strconv.Itoa(cfg.Display.HeatmapWeeks)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default tab").
				Options(
					huh.NewOption("Sessions", "sessions"),
					huh.NewOption("Overview", "overview"),
					huh.NewOption("Projects", "projects"),
					huh.NewOption("Groups", "groups"),
				).
				Value(&tab),

			huh.NewSelect[string]().
				Title("Default sort").
				Options(
					huh.NewOption("Newest first", "date_desc"),
					huh.NewOption("Oldest first", "date_asc"),
					huh.NewOption("Most tokens", "tokens_desc"),
					huh.NewOption("Longest active", "duration_desc"),
				).
				Value(&sortMode),

			huh.NewConfirm().
				Title("Dark mode?").
				Value(&darkMode),

			huh.NewConfirm().
				Title("Hide sessions with no activity?").
				Value(&hideEmpty),

			huh.NewInput().
				Title("Heatmap weeks").
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 || n > 52 {
						return fmt.Errorf("enter a number between 1 and 52")
					}
					return nil
				}).
				Value(&weeks),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Display.DefaultTab = tab
	cfg.Display.DefaultSort = sortMode
	cfg.Display.DarkMode = darkMode
	cfg.Display.HideEmptySessions = hideEmpty
	if n, err := strconv.Atoi(weeks); err == nil {
		cfg.Display.HeatmapWeeks = n
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.PrimaryConfigPath())
	fmt.Println("  Run `dburn setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}
