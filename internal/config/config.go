// Package config resolves dburn configuration from layered TOML sources
// and provides pricing-based cost estimation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the fully resolved configuration.
type Config struct {
	Display DisplayConfig `toml:"display"`
	Columns ColumnsConfig `toml:"columns"`
	Pricing PricingConfig `toml:"pricing"`
	Paths   PathsConfig   `toml:"paths"`
}

// DisplayConfig holds display and sorting preferences.
type DisplayConfig struct {
	DefaultTab        string `toml:"default_tab"`
	DefaultSort       string `toml:"default_sort"`
	DefaultGroup      string `toml:"default_group"`
	HideEmptySessions bool   `toml:"hide_empty_sessions"`
	DarkMode          bool   `toml:"dark_mode"`
	HeatmapWeeks      int    `toml:"heatmap_weeks"`
}

// ColumnsConfig holds per-column visibility for the sessions table.
type ColumnsConfig struct {
	Sessions SessionColumns `toml:"sessions"`
}

// SessionColumns lists the toggleable sessions-table columns.
type SessionColumns struct {
	ShowTitle     bool `toml:"show_title"`
	ShowDate      bool `toml:"show_date"`
	ShowProject   bool `toml:"show_project"`
	ShowModel     bool `toml:"show_model"`
	ShowTokens    bool `toml:"show_tokens"`
	ShowFavorites bool `toml:"show_favorites"`
	ShowPrompts   bool `toml:"show_prompts"`
	ShowDuration  bool `toml:"show_duration"`
}

// PricingConfig holds the default tier plus per-model overrides.
type PricingConfig struct {
	Default PricingTier            `toml:"default"`
	Models  map[string]PricingTier `toml:"models"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	SessionsDir string `toml:"sessions_dir"`
}

// Valid values for display enums.
var (
	SortModes  = []string{"date_desc", "date_asc", "tokens_desc", "tokens_asc", "duration_desc", "duration_asc"}
	GroupModes = []string{"none", "project", "group", "model"}
)

// DefaultConfig returns the built-in defaults, the lowest-priority
// configuration source.
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			DefaultTab:        "sessions",
			DefaultSort:       "date_desc",
			DefaultGroup:      "project",
			HideEmptySessions: true,
			DarkMode:          true,
			HeatmapWeeks:      20,
		},
		Columns: ColumnsConfig{
			Sessions: SessionColumns{
				ShowTitle: true, ShowDate: true, ShowProject: true,
				ShowModel: true, ShowTokens: true, ShowFavorites: true,
				ShowPrompts: true, ShowDuration: true,
			},
		},
		Pricing: PricingConfig{
			Default: PricingTier{
				InputPerMTok:      3.00,
				OutputPerMTok:     15.00,
				CacheWritePerMTok: 3.75,
				CacheReadPerMTok:  0.30,
			},
			Models: defaultModelPricing(),
		},
		Paths: PathsConfig{SessionsDir: "~/.factory/sessions"},
	}
}

// PrimaryConfigPath is the XDG-style location, the higher-priority of
// the two user config files. Save writes here.
func PrimaryConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dburn", "config.toml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dburn", "config.toml")
}

// SecondaryConfigPath is the legacy dotfile location.
func SecondaryConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".dburn.toml")
}

// Load resolves the effective configuration. Sources are merged in
// increasing priority: built-in defaults, the secondary dotfile, the
// primary config, then the explicit override path when non-empty. Each
// source overwrites only the keys it actually sets; unknown keys are
// ignored. A missing file is fine, an unreadable or malformed explicit
// override is an error.
func Load(overridePath string) (Config, error) {
	cfg := DefaultConfig()

	for _, path := range []string{SecondaryConfigPath(), PrimaryConfigPath()} {
		if err := mergeFile(&cfg, path); err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if overridePath != "" {
		if err := mergeFile(&cfg, overridePath); err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", overridePath, err)
		}
	}

	return cfg, nil
}

// mergeFile applies one TOML source on top of cfg.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return err
	}
	fc.apply(cfg)
	return nil
}

// Save writes the configuration to the primary path.
func Save(cfg Config) error {
	path := PrimaryConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// SessionsDir returns the sessions directory with ~ expanded. An explicit
// flag value wins over the configured path.
func (c Config) SessionsDir(flagValue string) string {
	dir := c.Paths.SessionsDir
	if flagValue != "" {
		dir = flagValue
	}
	if strings.HasPrefix(dir, "~") {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return dir
}

// fileConfig mirrors Config with pointer fields so an absent key is
// distinguishable from a zero value. Only set keys overwrite.
type fileConfig struct {
	Display struct {
		DefaultTab        *string `toml:"default_tab"`
		DefaultSort       *string `toml:"default_sort"`
		DefaultGroup      *string `toml:"default_group"`
		HideEmptySessions *bool   `toml:"hide_empty_sessions"`
		DarkMode          *bool   `toml:"dark_mode"`
		HeatmapWeeks      *int    `toml:"heatmap_weeks"`
	} `toml:"display"`
	Columns struct {
		Sessions struct {
			ShowTitle     *bool `toml:"show_title"`
			ShowDate      *bool `toml:"show_date"`
			ShowProject   *bool `toml:"show_project"`
			ShowModel     *bool `toml:"show_model"`
			ShowTokens    *bool `toml:"show_tokens"`
			ShowFavorites *bool `toml:"show_favorites"`
			ShowPrompts   *bool `toml:"show_prompts"`
			ShowDuration  *bool `toml:"show_duration"`
		} `toml:"sessions"`
	} `toml:"columns"`
	Pricing struct {
		Default *fileTier           `toml:"default"`
		Models  map[string]fileTier `toml:"models"`
	} `toml:"pricing"`
	Paths struct {
		SessionsDir *string `toml:"sessions_dir"`
	} `toml:"paths"`
}

type fileTier struct {
	InputPerMTok      *float64 `toml:"input_per_million"`
	OutputPerMTok     *float64 `toml:"output_per_million"`
	CacheWritePerMTok *float64 `toml:"cache_write_per_million"`
	CacheReadPerMTok  *float64 `toml:"cache_read_per_million"`
}

func (fc *fileConfig) apply(cfg *Config) {
	d := fc.Display
	setString(&cfg.Display.DefaultTab, d.DefaultTab)
	setString(&cfg.Display.DefaultSort, d.DefaultSort)
	setString(&cfg.Display.DefaultGroup, d.DefaultGroup)
	setBool(&cfg.Display.HideEmptySessions, d.HideEmptySessions)
	setBool(&cfg.Display.DarkMode, d.DarkMode)
	setInt(&cfg.Display.HeatmapWeeks, d.HeatmapWeeks)

	s := fc.Columns.Sessions
	setBool(&cfg.Columns.Sessions.ShowTitle, s.ShowTitle)
	setBool(&cfg.Columns.Sessions.ShowDate, s.ShowDate)
	setBool(&cfg.Columns.Sessions.ShowProject, s.ShowProject)
	setBool(&cfg.Columns.Sessions.ShowModel, s.ShowModel)
	setBool(&cfg.Columns.Sessions.ShowTokens, s.ShowTokens)
	setBool(&cfg.Columns.Sessions.ShowFavorites, s.ShowFavorites)
	setBool(&cfg.Columns.Sessions.ShowPrompts, s.ShowPrompts)
	setBool(&cfg.Columns.Sessions.ShowDuration, s.ShowDuration)

	if fc.Pricing.Default != nil {
		fc.Pricing.Default.applyTo(&cfg.Pricing.Default)
	}
	for name, ft := range fc.Pricing.Models {
		// Unset fields of a model tier fall back to the resolved default tier.
		tier := cfg.Pricing.Default
		if existing, ok := cfg.Pricing.Models[name]; ok {
			tier = existing
		}
		ft.applyTo(&tier)
		if cfg.Pricing.Models == nil {
			cfg.Pricing.Models = make(map[string]PricingTier)
		}
		cfg.Pricing.Models[name] = tier
	}

	setString(&cfg.Paths.SessionsDir, fc.Paths.SessionsDir)
}

func (ft fileTier) applyTo(dst *PricingTier) {
	setFloat(&dst.InputPerMTok, ft.InputPerMTok)
	setFloat(&dst.OutputPerMTok, ft.OutputPerMTok)
	setFloat(&dst.CacheWritePerMTok, ft.CacheWritePerMTok)
	setFloat(&dst.CacheReadPerMTok, ft.CacheReadPerMTok)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
