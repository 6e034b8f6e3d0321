package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dburn/internal/store"
)

func openTestCache(t *testing.T) *store.Cache {
	t.Helper()
	c, err := store.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLoadWithCache_SecondRunHitsCache(t *testing.T) {
	root := t.TempDir()
	writeSession(t, root, "-Users-alice-projects-blog", "aaa",
		`{"model":"claude-sonnet-4","tokenUsage":{"inputTokens":100}}`,
		`{"type":"message","timestamp":"2025-06-10T09:00:00Z","message":{"role":"assistant"}}`+"\n")
	writeSession(t, root, "-Users-alice-projects-blog", "bbb",
		`{"model":"claude-opus-4"}`, "")
	cache := openTestCache(t)

	first, err := LoadWithCache(root, cache, nil)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if first.Reparsed != 2 || first.CacheHits != 0 {
		t.Errorf("first run reparsed/hits = %d/%d", first.Reparsed, first.CacheHits)
	}

	second, err := LoadWithCache(root, cache, nil)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if second.Reparsed != 0 || second.CacheHits != 2 {
		t.Errorf("second run reparsed/hits = %d/%d", second.Reparsed, second.CacheHits)
	}
	if len(second.Sessions) != 2 {
		t.Fatalf("sessions = %d", len(second.Sessions))
	}
	for _, s := range second.Sessions {
		if s.ID == "aaa" && s.Tokens.Input != 100 {
			t.Errorf("cached session aaa tokens = %+v", s.Tokens)
		}
	}
}

func TestLoadWithCache_ChangedArtifactReparsed(t *testing.T) {
	root := t.TempDir()
	dir := "-Users-alice-projects-blog"
	writeSession(t, root, dir, "aaa", `{"model":"m","tokenUsage":{"inputTokens":1}}`, "")
	cache := openTestCache(t)

	if _, err := LoadWithCache(root, cache, nil); err != nil {
		t.Fatalf("first load: %v", err)
	}

	// Grow the settings file and push its mtime forward; size alone
	// would already trip the diff, the mtime bump mirrors a real edit.
	settings := filepath.Join(root, dir, "aaa.settings.json")
	if err := os.WriteFile(settings, []byte(`{"model":"m","tokenUsage":{"inputTokens":5000}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(settings, later, later); err != nil {
		t.Fatal(err)
	}

	result, err := LoadWithCache(root, cache, nil)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if result.Reparsed != 1 || result.CacheHits != 0 {
		t.Errorf("reparsed/hits = %d/%d", result.Reparsed, result.CacheHits)
	}
	if len(result.Sessions) != 1 || result.Sessions[0].Tokens.Input != 5000 {
		t.Errorf("sessions = %+v", result.Sessions)
	}
}

func TestLoadWithCache_NewArtifactAppearing(t *testing.T) {
	root := t.TempDir()
	dir := "-Users-alice-projects-blog"
	writeSession(t, root, dir, "aaa", `{"model":"m"}`, "")
	cache := openTestCache(t)

	if _, err := LoadWithCache(root, cache, nil); err != nil {
		t.Fatalf("first load: %v", err)
	}

	// The log artifact shows up after the settings were cached.
	writeSession(t, root, dir, "aaa", "",
		`{"type":"session_start","title":"Late log"}`+"\n")

	result, err := LoadWithCache(root, cache, nil)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if result.Reparsed != 1 {
		t.Errorf("reparsed = %d, want 1", result.Reparsed)
	}
	if len(result.Sessions) != 1 || result.Sessions[0].Title != "Late log" {
		t.Errorf("sessions = %+v", result.Sessions)
	}
}

func TestLoadWithCache_EmptyDir(t *testing.T) {
	cache := openTestCache(t)
	result, err := LoadWithCache(t.TempDir(), cache, nil)
	if err != nil {
		t.Fatalf("LoadWithCache: %v", err)
	}
	if result.TotalPairs != 0 || len(result.Sessions) != 0 {
		t.Errorf("result = %+v", result)
	}
}
