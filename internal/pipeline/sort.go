package pipeline

import (
	"sort"

	"dburn/internal/model"
)

// SortSessions orders a session list in place by one of the configured
// sort modes. Unknown modes fall back to date_desc. Ties break on id so
// the order is stable across runs.
func SortSessions(sessions []model.Session, mode string) {
	less := func(a, b model.Session) bool { return byDate(a, b, true) }

	switch mode {
	case "date_asc":
		less = func(a, b model.Session) bool { return byDate(a, b, false) }
	case "tokens_desc":
		less = func(a, b model.Session) bool { return byTokens(a, b, true) }
	case "tokens_asc":
		less = func(a, b model.Session) bool { return byTokens(a, b, false) }
	case "duration_desc":
		less = func(a, b model.Session) bool { return byDuration(a, b, true) }
	case "duration_asc":
		less = func(a, b model.Session) bool { return byDuration(a, b, false) }
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return less(sessions[i], sessions[j])
	})
}

func byDate(a, b model.Session, desc bool) bool {
	if !a.StartedAt.Equal(b.StartedAt) {
		// Sessions without a timestamp sort last either way.
		if a.StartedAt.IsZero() {
			return false
		}
		if b.StartedAt.IsZero() {
			return true
		}
		if desc {
			return a.StartedAt.After(b.StartedAt)
		}
		return a.StartedAt.Before(b.StartedAt)
	}
	return a.ID < b.ID
}

func byTokens(a, b model.Session, desc bool) bool {
	at, bt := a.Tokens.Total(), b.Tokens.Total()
	if at != bt {
		if desc {
			return at > bt
		}
		return at < bt
	}
	return a.ID < b.ID
}

func byDuration(a, b model.Session, desc bool) bool {
	if a.ActiveTime != b.ActiveTime {
		if desc {
			return a.ActiveTime > b.ActiveTime
		}
		return a.ActiveTime < b.ActiveTime
	}
	return a.ID < b.ID
}

// GroupKey returns the bucket a session falls into under a display
// grouping mode ("none", "project", "group", "model").
func GroupKey(s model.Session, mode string) string {
	switch mode {
	case "project":
		return s.Project
	case "group":
		return s.Group
	case "model":
		return s.Model
	default:
		return ""
	}
}
