package pipeline

import (
	"testing"
	"time"

	"dburn/internal/model"
)

func TestSortSessions(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
	}
	base := []model.Session{
		{ID: "a", StartedAt: day(10), Tokens: model.TokenUsage{Input: 300}, ActiveTime: time.Minute},
		{ID: "b", StartedAt: day(12), Tokens: model.TokenUsage{Input: 100}, ActiveTime: 3 * time.Minute},
		{ID: "c", StartedAt: day(11), Tokens: model.TokenUsage{Input: 200}, ActiveTime: 2 * time.Minute},
		{ID: "d"}, // no timestamp, no tokens
	}

	tests := []struct {
		mode string
		want []string
	}{
		{"date_desc", []string{"b", "c", "a", "d"}},
		{"date_asc", []string{"a", "c", "b", "d"}},
		{"tokens_desc", []string{"a", "c", "b", "d"}},
		{"tokens_asc", []string{"d", "b", "c", "a"}},
		{"duration_desc", []string{"b", "c", "a", "d"}},
		{"duration_asc", []string{"d", "a", "c", "b"}},
		{"bogus", []string{"b", "c", "a", "d"}}, // falls back to date_desc
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			sessions := append([]model.Session(nil), base...)
			SortSessions(sessions, tt.mode)
			for i, want := range tt.want {
				if sessions[i].ID != want {
					t.Fatalf("position %d = %q, want %q", i, sessions[i].ID, want)
				}
			}
		})
	}
}

func TestSortSessions_TiesBreakOnID(t *testing.T) {
	same := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	sessions := []model.Session{
		{ID: "zzz", StartedAt: same},
		{ID: "aaa", StartedAt: same},
	}
	SortSessions(sessions, "date_desc")
	if sessions[0].ID != "aaa" {
		t.Errorf("tie order = %q, %q", sessions[0].ID, sessions[1].ID)
	}
}

func TestGroupKey(t *testing.T) {
	s := model.Session{Project: "api", Group: "acme", Model: "claude-sonnet-4"}

	tests := []struct{ mode, want string }{
		{"project", "api"},
		{"group", "acme"},
		{"model", "claude-sonnet-4"},
		{"none", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := GroupKey(s, tt.mode); got != tt.want {
			t.Errorf("GroupKey(%q) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
