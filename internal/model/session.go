// Package model defines domain types for dburn sessions and statistics.
package model

import "time"

// TokenUsage holds the five token counters reported for a session.
// Values are immutable once constructed; combine with Add.
type TokenUsage struct {
	Input      int64
	Output     int64
	CacheWrite int64
	CacheRead  int64
	Thinking   int64
}

// Total returns the sum of all five token categories.
func (u TokenUsage) Total() int64 {
	return u.Input + u.Output + u.CacheWrite + u.CacheRead + u.Thinking
}

// Add returns the element-wise sum of two usages.
func (u TokenUsage) Add(o TokenUsage) TokenUsage {
	return TokenUsage{
		Input:      u.Input + o.Input,
		Output:     u.Output + o.Output,
		CacheWrite: u.CacheWrite + o.CacheWrite,
		CacheRead:  u.CacheRead + o.CacheRead,
		Thinking:   u.Thinking + o.Thinking,
	}
}

// CacheHitRatio is cache_read / (cache_read + input), 0 when the denominator is 0.
func (u TokenUsage) CacheHitRatio() float64 {
	denom := u.CacheRead + u.Input
	if denom == 0 {
		return 0
	}
	return float64(u.CacheRead) / float64(denom)
}

// UserPrompt is one user message extracted from a session event log.
type UserPrompt struct {
	SessionID string
	Index     int
	Timestamp time.Time
	Text      string
}

// Session is one recorded droid interaction, merged from its settings
// and event-log artifacts. Identity is ID; artifacts sharing an id merge
// into a single record.
type Session struct {
	ID           string
	Title        string
	StartedAt    time.Time
	Model        string
	AutonomyMode string
	ActiveTime   time.Duration
	Cwd          string

	// Set by grouping.Annotate after parsing.
	Project string
	Group   string

	Tokens       TokenUsage
	Prompts      []UserPrompt
	MessageCount int

	// Overlay from the favorites store; never feeds aggregation totals.
	IsFavorite bool
}
