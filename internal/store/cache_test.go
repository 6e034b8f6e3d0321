package store

import (
	"path/filepath"
	"testing"
	"time"

	"dburn/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleSession() model.Session {
	return model.Session{
		ID:           "abc123",
		Title:        "Refactor config loader",
		StartedAt:    time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC),
		Model:        "claude-sonnet-4",
		AutonomyMode: "auto",
		ActiveTime:   95 * time.Second,
		Cwd:          "/Users/alice/projects/blog",
		Tokens:       model.TokenUsage{Input: 100, Output: 50, CacheWrite: 10, CacheRead: 900, Thinking: 25},
		MessageCount: 4,
		Prompts: []model.UserPrompt{
			{SessionID: "abc123", Index: 1, Timestamp: time.Date(2025, 6, 10, 9, 30, 5, 0, time.UTC), Text: "please refactor the loader"},
			{SessionID: "abc123", Index: 2, Text: "now add tests for the merge"},
		},
	}
}

func TestCache_RoundTrip(t *testing.T) {
	c := openTestCache(t)
	want := sampleSession()
	fp := Fingerprint{
		Settings: ArtifactInfo{MtimeNs: 111, SizeBytes: 222},
		Log:      ArtifactInfo{MtimeNs: 333, SizeBytes: 444},
	}

	if err := c.SaveSession(want, 2, "-Users-alice-projects-blog", fp); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, err := c.LoadSessions(map[string]struct{}{"abc123": {}})
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d sessions, want 1", len(got))
	}

	s := got[0].Session
	if s.ID != want.ID || s.Title != want.Title || s.Model != want.Model {
		t.Errorf("identity fields = %q/%q/%q", s.ID, s.Title, s.Model)
	}
	if !s.StartedAt.Equal(want.StartedAt) {
		t.Errorf("started_at = %v, want %v", s.StartedAt, want.StartedAt)
	}
	if s.ActiveTime != want.ActiveTime {
		t.Errorf("active time = %v, want %v", s.ActiveTime, want.ActiveTime)
	}
	if s.Tokens != want.Tokens {
		t.Errorf("tokens = %+v, want %+v", s.Tokens, want.Tokens)
	}
	if s.Cwd != want.Cwd || s.MessageCount != want.MessageCount {
		t.Errorf("cwd/messages = %q/%d", s.Cwd, s.MessageCount)
	}
	if got[0].Skipped != 2 {
		t.Errorf("skipped = %d, want 2", got[0].Skipped)
	}
	if len(s.Prompts) != 2 || s.Prompts[0].Text != want.Prompts[0].Text {
		t.Errorf("prompts = %+v", s.Prompts)
	}
	if s.Prompts[1].Index != 2 || !s.Prompts[1].Timestamp.IsZero() {
		t.Errorf("prompt 2 = %+v", s.Prompts[1])
	}
}

func TestCache_Fingerprints(t *testing.T) {
	c := openTestCache(t)
	fp := Fingerprint{
		Settings: ArtifactInfo{MtimeNs: 1, SizeBytes: 2},
		Log:      ArtifactInfo{MtimeNs: 3, SizeBytes: 4},
	}
	if err := c.SaveSession(sampleSession(), 0, "-p", fp); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, err := c.Fingerprints()
	if err != nil {
		t.Fatalf("Fingerprints: %v", err)
	}
	if got["abc123"] != fp {
		t.Errorf("fingerprint = %+v, want %+v", got["abc123"], fp)
	}
}

func TestCache_ReplaceClearsOldPrompts(t *testing.T) {
	c := openTestCache(t)
	s := sampleSession()
	if err := c.SaveSession(s, 0, "-p", Fingerprint{}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	s.Prompts = s.Prompts[:1]
	if err := c.SaveSession(s, 0, "-p", Fingerprint{}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := c.LoadSessions(map[string]struct{}{s.ID: {}})
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if len(got[0].Session.Prompts) != 1 {
		t.Errorf("prompts after replace = %d, want 1", len(got[0].Session.Prompts))
	}
}

func TestCache_DeleteAndCount(t *testing.T) {
	c := openTestCache(t)
	if err := c.SaveSession(sampleSession(), 0, "-p", Fingerprint{}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	n, err := c.SessionCount()
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v", n, err)
	}

	if err := c.DeleteSession("abc123"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	n, err = c.SessionCount()
	if err != nil || n != 0 {
		t.Fatalf("count after delete = %d, %v", n, err)
	}
}

func TestCache_LoadSessionsFiltersByID(t *testing.T) {
	c := openTestCache(t)
	a := sampleSession()
	b := sampleSession()
	b.ID = "other"
	b.Prompts = nil
	if err := c.SaveSession(a, 0, "-p", Fingerprint{}); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveSession(b, 0, "-p", Fingerprint{}); err != nil {
		t.Fatal(err)
	}

	got, err := c.LoadSessions(map[string]struct{}{"other": {}})
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if len(got) != 1 || got[0].Session.ID != "other" {
		t.Errorf("loaded = %+v", got)
	}
}
