package model

import "time"

// ProjectStats holds aggregated metrics for a single project.
// Shares are ratios of this project's value to the grand total (0 when
// the total is 0).
type ProjectStats struct {
	Name       string
	Group      string
	Sessions   int
	Prompts    int
	Tokens     TokenUsage
	ActiveTime time.Duration

	EstimatedCost float64
	TokenShare    float64
	CostShare     float64
	TimeShare     float64
}

// GroupStats holds aggregated metrics for a project group.
type GroupStats struct {
	Name       string
	Projects   []string // member project names, sorted
	Sessions   int
	Tokens     TokenUsage
	ActiveTime time.Duration

	EstimatedCost float64
	TokenShare    float64
	CostShare     float64
	TimeShare     float64
}

// ModelCount is one entry of the model distribution.
type ModelCount struct {
	Model    string
	Sessions int
}

// HeatmapDay is one calendar-day bucket of the activity heatmap.
type HeatmapDay struct {
	Date     string // "2006-01-02", local time
	Sessions int
}

// DashboardStats is a complete aggregation snapshot. It is recomputed
// fresh on every pass and never mutated afterwards.
type DashboardStats struct {
	TotalSessions int
	TotalProjects int
	TotalGroups   int

	Tokens          TokenUsage
	TotalActiveTime time.Duration
	EstimatedCost   float64
	CacheHitRatio   float64

	FirstSession time.Time
	LastSession  time.Time

	Models      []ModelCount   // by sessions desc, then model name
	Projects    []ProjectStats // by tokens desc, sessions desc, name
	Groups      []GroupStats   // by tokens desc, sessions desc, name
	TopProjects []ProjectStats // first N of Projects
	Heatmap     []HeatmapDay   // trailing window, oldest first, zero-filled
}
