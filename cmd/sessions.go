package cmd

import (
	"fmt"

	"dburn/internal/cli"
	"dburn/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagSessionsSort  string
	flagSessionsLimit int
	flagFavoritesOnly bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().StringVarP(&flagSessionsSort, "sort", "s", "", "Sort mode (date_desc, date_asc, tokens_desc, tokens_asc, duration_desc, duration_asc)")
	sessionsCmd.Flags().IntVarP(&flagSessionsLimit, "limit", "l", 0, "Show at most N sessions (0 = all)")
	sessionsCmd.Flags().BoolVar(&flagFavoritesOnly, "favorites", false, "Only show favorite sessions")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(_ *cobra.Command, _ []string) error {
	data, err := loadData()
	if err != nil {
		return err
	}

	sessions := data.sessions
	if flagFavoritesOnly {
		n := 0
		for _, s := range sessions {
			if s.IsFavorite {
				sessions[n] = s
				n++
			}
		}
		sessions = sessions[:n]
	}
	if len(sessions) == 0 {
		fmt.Println("\n  No sessions found.")
		return nil
	}

	if flagSessionsSort != "" {
		pipeline.SortSessions(sessions, flagSessionsSort)
	}
	if flagSessionsLimit > 0 && len(sessions) > flagSessionsLimit {
		sessions = sessions[:flagSessionsLimit]
	}

	r := data.renderer()
	cols := data.cfg.Columns.Sessions

	headers := []string{"ID"}
	if cols.ShowFavorites {
		headers = append(headers, "Fav")
	}
	if cols.ShowTitle {
		headers = append(headers, "Title")
	}
	if cols.ShowDate {
		headers = append(headers, "Date")
	}
	if cols.ShowProject {
		headers = append(headers, "Project")
	}
	if cols.ShowModel {
		headers = append(headers, "Model")
	}
	if cols.ShowTokens {
		headers = append(headers, "Tokens")
	}
	if cols.ShowDuration {
		headers = append(headers, "Duration")
	}
	if cols.ShowPrompts {
		headers = append(headers, "Prompts")
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		row := []string{shortID(s.ID)}
		if cols.ShowFavorites {
			fav := ""
			if s.IsFavorite {
				fav = "★"
			}
			row = append(row, fav)
		}
		if cols.ShowTitle {
			row = append(row, cli.Truncate(s.Title, 36))
		}
		if cols.ShowDate {
			row = append(row, cli.FormatDate(s.StartedAt))
		}
		if cols.ShowProject {
			row = append(row, cli.Truncate(s.Project, 20))
		}
		if cols.ShowModel {
			row = append(row, cli.Truncate(s.Model, 24))
		}
		if cols.ShowTokens {
			row = append(row, cli.FormatTokens(s.Tokens.Total()))
		}
		if cols.ShowDuration {
			row = append(row, cli.FormatDuration(s.ActiveTime))
		}
		if cols.ShowPrompts {
			row = append(row, fmt.Sprintf("%d", len(s.Prompts)))
		}
		rows = append(rows, row)
	}

	fmt.Println()
	fmt.Print(r.RenderTable(cli.Table{Headers: headers, Rows: rows}))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
