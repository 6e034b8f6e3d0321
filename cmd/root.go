package cmd

import (
	"fmt"
	"os"

	"dburn/internal/cli"
	"dburn/internal/config"
	"dburn/internal/favorites"
	"dburn/internal/grouping"
	"dburn/internal/model"
	"dburn/internal/pipeline"
	"dburn/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagConfig      string
	flagSessionsDir string
	flagQuiet       bool
	flagNoCache     bool
)

var rootCmd = &cobra.Command{
	Use:   "dburn",
	Short: "Droid Usage Metrics CLI",
	Long:  "Analyze your droid session usage: tokens, costs, projects, and more.",
	RunE:  runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file path (overrides default locations)")
	rootCmd.PersistentFlags().StringVarP(&flagSessionsDir, "sessions-dir", "d", "", "Droid sessions directory")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
}

// appData bundles the loaded session set with the resolved runtime pieces
// every command needs.
type appData struct {
	cfg      config.Config
	est      *config.Estimator
	favs     *favorites.Store
	sessions []model.Session
	skipped  int
	projects int
}

// loadData is the shared data loading path used by all commands. Uses the
// SQLite cache when available for fast subsequent runs.
func loadData() (*appData, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	sessionsDir := cfg.SessionsDir(flagSessionsDir)

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%100 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	result, err := loadSessions(sessionsDir, progressFn)
	if err != nil {
		return nil, err
	}

	sessions := result.Sessions
	if cfg.Display.HideEmptySessions {
		sessions = pipeline.FilterEmpty(sessions)
	}
	grouping.Annotate(sessions, grouping.Default())

	favs := favorites.NewStore(sessionsDir)
	if err := favs.Apply(sessions); err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Warning: favorites unreadable: %v\n", err)
	}

	pipeline.SortSessions(sessions, cfg.Display.DefaultSort)

	return &appData{
		cfg:      cfg,
		est:      config.NewEstimator(cfg.Pricing),
		favs:     favs,
		sessions: sessions,
		skipped:  result.SkippedUnits,
		projects: result.ProjectCount,
	}, nil
}

// loadSessions runs the cached pipeline, falling back to a full parse
// when the cache is unusable.
func loadSessions(sessionsDir string, progressFn pipeline.ProgressFunc) (*pipeline.LoadResult, error) {
	if !flagNoCache {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, doing full parse\n")
			}
		} else {
			defer func() { _ = cache.Close() }()

			cr, err := pipeline.LoadWithCache(sessionsDir, cache, progressFn)
			if err == nil {
				if !flagQuiet && cr.TotalPairs > 0 {
					if cr.Reparsed == 0 {
						fmt.Fprintf(os.Stderr, "\r  Loaded %s sessions from cache (%d projects)    \n",
							cli.FormatNumber(int64(len(cr.Sessions))), cr.ProjectCount)
					} else {
						fmt.Fprintf(os.Stderr, "\r  %s cached + %d reparsed (%d projects)    \n",
							cli.FormatNumber(int64(cr.CacheHits)), cr.Reparsed, cr.ProjectCount)
					}
				}
				return &cr.LoadResult, nil
			}
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "\n  Cache error, falling back to full parse\n")
			}
		}
	}

	result, err := pipeline.Load(sessionsDir, progressFn)
	if err != nil {
		return nil, err
	}
	if !flagQuiet && result.TotalPairs > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %s sessions across %d projects    \n",
			cli.FormatNumber(int64(len(result.Sessions))), result.ProjectCount)
	}
	return result, nil
}

// renderer builds the terminal renderer for the configured theme.
func (d *appData) renderer() *cli.Renderer {
	return cli.NewRenderer(cli.ThemeFor(d.cfg.Display.DarkMode))
}

// aggregate reduces the loaded sessions into dashboard stats.
func (d *appData) aggregate() model.DashboardStats {
	return pipeline.Aggregate(d.sessions, d.est, d.cfg.Display.HeatmapWeeks)
}
