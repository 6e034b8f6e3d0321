package cmd

import (
	"fmt"

	"dburn/internal/config"
	"dburn/internal/favorites"

	"github.com/spf13/cobra"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite <session-id>",
	Short: "Toggle a session's favorite flag",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavorite,
}

func init() {
	rootCmd.AddCommand(favoriteCmd)
}

func runFavorite(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	favs := favorites.NewStore(cfg.SessionsDir(flagSessionsDir))
	added, err := favs.Toggle(args[0])
	if err != nil {
		return err
	}

	if added {
		fmt.Printf("  Favorited %s\n", args[0])
	} else {
		fmt.Printf("  Unfavorited %s\n", args[0])
	}
	return nil
}
