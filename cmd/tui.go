package cmd

import (
	"fmt"

	"dburn/internal/config"
	"dburn/internal/favorites"
	"dburn/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	sessionsDir := cfg.SessionsDir(flagSessionsDir)
	est := config.NewEstimator(cfg.Pricing)
	favs := favorites.NewStore(sessionsDir)

	app := tui.NewApp(cfg, est, favs, sessionsDir)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
