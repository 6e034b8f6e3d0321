// Package tui provides the interactive Bubble Tea dashboard for dburn.
package tui

import (
	"fmt"
	"strings"
	"time"

	"dburn/internal/cli"
	"dburn/internal/config"
	"dburn/internal/favorites"
	"dburn/internal/grouping"
	"dburn/internal/model"
	"dburn/internal/pipeline"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Sessions []model.Session
	Skipped  int
	LoadTime time.Duration
	Err      error
}

// ProgressMsg reports pair parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// Tab indices, in display order.
const (
	tabOverview = iota
	tabSessions
	tabProjects
	tabGroups
	tabCount
)

var tabNames = [tabCount]string{"Overview", "Sessions", "Projects", "Groups"}

// App is the root Bubble Tea model.
type App struct {
	cfg         config.Config
	est         *config.Estimator
	favs        *favorites.Store
	sessionsDir string

	// Data
	sessions []model.Session
	stats    model.DashboardStats
	skipped  int
	loaded   bool
	loadTime time.Duration
	loadErr  error

	// UI state
	width     int
	height    int
	activeTab int
	cursor    int
	offset    int
	sortMode  string
	showHelp  bool

	theme cli.Theme

	// Snapshot-and-swap stats publication; stale refreshes are dropped.
	refresher *pipeline.Refresher

	// Loading, channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
	refreshing  bool
}

// NewApp creates a new TUI app model.
func NewApp(cfg config.Config, est *config.Estimator, favs *favorites.Store, sessionsDir string) App {
	theme := cli.ThemeFor(cfg.Display.DarkMode)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Accent)

	activeTab := tabOverview
	switch cfg.Display.DefaultTab {
	case "sessions":
		activeTab = tabSessions
	case "projects":
		activeTab = tabProjects
	case "groups":
		activeTab = tabGroups
	}

	return App{
		cfg:         cfg,
		est:         est,
		favs:        favs,
		sessionsDir: sessionsDir,
		activeTab:   activeTab,
		sortMode:    cfg.Display.DefaultSort,
		theme:       theme,
		refresher:   &pipeline.Refresher{},
		spinner:     sp,
		loadSub:     make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadDataCmd(),
		waitForMsg(a.loadSub),
		a.spinner.Tick,
	)
}

// loadDataCmd runs the pipeline in a goroutine, streaming progress and
// the final result through the subscription channel. The stats snapshot
// publishes through the refresher so an abandoned refresh never
// clobbers a newer one.
func (a App) loadDataCmd() tea.Cmd {
	cfg, est, favs := a.cfg, a.est, a.favs
	sessionsDir, refresher, sub := a.sessionsDir, a.refresher, a.loadSub

	return func() tea.Msg {
		go func() {
			start := time.Now()
			gen := refresher.Begin()

			result, err := pipeline.Load(sessionsDir, func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			})
			if err != nil {
				sub <- DataLoadedMsg{Err: err}
				return
			}

			sessions := result.Sessions
			if cfg.Display.HideEmptySessions {
				sessions = pipeline.FilterEmpty(sessions)
			}
			grouping.Annotate(sessions, grouping.Default())
			_ = favs.Apply(sessions)

			stats := pipeline.Aggregate(sessions, est, cfg.Display.HeatmapWeeks)
			refresher.Publish(gen, stats)

			sub <- DataLoadedMsg{
				Sessions: sessions,
				Skipped:  result.SkippedUnits,
				LoadTime: time.Since(start),
			}
		}()
		return nil
	}
}

// waitForMsg relays one message from the loader goroutine.
func waitForMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

func (a *App) recompute() {
	pipeline.SortSessions(a.sessions, a.sortMode)
	if stats, ok := a.refresher.Latest(); ok {
		a.stats = stats
	} else {
		a.stats = pipeline.Aggregate(a.sessions, a.est, a.cfg.Display.HeatmapWeeks)
	}
	if a.cursor >= len(a.sessions) {
		a.cursor = len(a.sessions) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForMsg(a.loadSub)

	case DataLoadedMsg:
		a.loaded = true
		a.refreshing = false
		a.loadErr = msg.Err
		if msg.Err == nil {
			a.sessions = msg.Sessions
			a.skipped = msg.Skipped
			a.loadTime = msg.LoadTime
			a.recompute()
		}
		return a, nil

	case spinner.TickMsg:
		if a.loaded && !a.refreshing {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "?":
		a.showHelp = true
		return a, nil

	case "tab", "l", "right":
		a.activeTab = (a.activeTab + 1) % tabCount
		a.cursor, a.offset = 0, 0
		return a, nil

	case "shift+tab", "h", "left":
		a.activeTab = (a.activeTab + tabCount - 1) % tabCount
		a.cursor, a.offset = 0, 0
		return a, nil

	case "1", "2", "3", "4":
		a.activeTab = int(msg.String()[0] - '1')
		a.cursor, a.offset = 0, 0
		return a, nil

	case "j", "down":
		if a.cursor < a.listLen()-1 {
			a.cursor++
		}
		return a, nil

	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "g":
		a.cursor = 0
		return a, nil

	case "G":
		a.cursor = a.listLen() - 1
		if a.cursor < 0 {
			a.cursor = 0
		}
		return a, nil

	case "s":
		a.sortMode = nextSortMode(a.sortMode)
		a.recompute()
		return a, nil

	case "f":
		return a.toggleFavorite()

	case "r":
		if a.refreshing {
			return a, nil
		}
		a.refreshing = true
		a.progress, a.progressMax = 0, 0
		return a, tea.Batch(
			a.loadDataCmd(),
			waitForMsg(a.loadSub),
			a.spinner.Tick,
		)
	}

	return a, nil
}

// listLen is the row count of the active tab's navigable list.
func (a App) listLen() int {
	switch a.activeTab {
	case tabSessions:
		return len(a.sessions)
	case tabProjects:
		return len(a.stats.Projects)
	case tabGroups:
		return len(a.stats.Groups)
	default:
		return 0
	}
}

func (a App) toggleFavorite() (tea.Model, tea.Cmd) {
	if a.activeTab != tabSessions || a.cursor >= len(a.sessions) {
		return a, nil
	}
	id := a.sessions[a.cursor].ID
	if _, err := a.favs.Toggle(id); err != nil {
		a.loadErr = err
		return a, nil
	}
	a.sessions[a.cursor].IsFavorite = !a.sessions[a.cursor].IsFavorite
	return a, nil
}

func nextSortMode(mode string) string {
	for i, m := range config.SortModes {
		if m == mode {
			return config.SortModes[(i+1)%len(config.SortModes)]
		}
	}
	return config.SortModes[0]
}

// View implements tea.Model.
func (a App) View() string {
	if !a.loaded || a.refreshing {
		return a.renderLoading()
	}
	if a.loadErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(a.theme.Red)
		return fmt.Sprintf("\n  %s\n\n  %s\n",
			errStyle.Render("Error: "+a.loadErr.Error()),
			"Press q to quit, r to retry.")
	}
	if a.showHelp {
		return a.renderHelp()
	}

	var b strings.Builder
	b.WriteString(a.renderTabBar())
	b.WriteString("\n")

	switch a.activeTab {
	case tabSessions:
		b.WriteString(a.renderSessionsTab())
	case tabProjects:
		b.WriteString(a.renderProjectsTab())
	case tabGroups:
		b.WriteString(a.renderGroupsTab())
	default:
		b.WriteString(a.renderOverviewTab())
	}

	b.WriteString("\n")
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a App) renderLoading() string {
	msg := "Scanning sessions..."
	if a.progressMax > 0 {
		msg = fmt.Sprintf("Parsing sessions %d/%d", a.progress, a.progressMax)
	}
	return fmt.Sprintf("\n  %s %s\n", a.spinner.View(), msg)
}

func (a App) renderTabBar() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Accent)
	inactive := lipgloss.NewStyle().Foreground(a.theme.TextMuted)

	parts := make([]string, tabCount)
	for i, name := range tabNames {
		label := fmt.Sprintf(" %d:%s ", i+1, name)
		if i == a.activeTab {
			parts[i] = active.Render(label)
		} else {
			parts[i] = inactive.Render(label)
		}
	}
	return strings.Join(parts, "")
}

func (a App) renderStatusBar() string {
	muted := lipgloss.NewStyle().Foreground(a.theme.TextMuted)

	status := fmt.Sprintf("%d sessions  %s tokens  %s  sort:%s",
		a.stats.TotalSessions,
		cli.FormatTokens(a.stats.Tokens.Total()),
		cli.FormatCost(a.stats.EstimatedCost),
		a.sortMode)
	if a.skipped > 0 {
		status += fmt.Sprintf("  %d skipped", a.skipped)
	}
	return muted.Render("  " + status + "  [?] help")
}

func (a App) renderHelp() string {
	header := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Accent)
	text := lipgloss.NewStyle().Foreground(a.theme.Text)

	lines := []string{
		header.Render("  Keys"),
		"",
		text.Render("  1-4, tab     switch tab"),
		text.Render("  j/k          move cursor"),
		text.Render("  g/G          jump to top/bottom"),
		text.Render("  s            cycle sort mode"),
		text.Render("  f            toggle favorite (sessions tab)"),
		text.Render("  r            refresh data"),
		text.Render("  q            quit"),
		"",
		text.Render("  Press any key to close."),
	}
	return "\n" + strings.Join(lines, "\n") + "\n"
}

// visibleRows is how many list rows fit in the content area.
func (a App) visibleRows() int {
	rows := a.height - 8
	if rows < 5 {
		rows = 5
	}
	return rows
}

// window clamps the scroll offset around the cursor and returns the
// visible slice bounds.
func (a App) window(n int) (int, int) {
	visible := a.visibleRows()
	offset := a.offset
	if a.cursor < offset {
		offset = a.cursor
	}
	if a.cursor >= offset+visible {
		offset = a.cursor - visible + 1
	}
	end := offset + visible
	if end > n {
		end = n
	}
	return offset, end
}
