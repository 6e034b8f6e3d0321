package pipeline

import (
	"math"
	"reflect"
	"testing"
	"time"

	"dburn/internal/config"
	"dburn/internal/model"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testEstimator() *config.Estimator {
	return config.NewEstimator(config.PricingConfig{
		Default: config.PricingTier{
			InputPerMTok: 3.00, OutputPerMTok: 15.00,
			CacheWritePerMTok: 3.75, CacheReadPerMTok: 0.30,
		},
	})
}

func sess(id, project, group, mdl string, day int, tokens model.TokenUsage, active time.Duration) model.Session {
	return model.Session{
		ID:         id,
		Project:    project,
		Group:      group,
		Model:      mdl,
		StartedAt:  time.Date(2025, 6, day, 10, 0, 0, 0, time.UTC),
		Tokens:     tokens,
		ActiveTime: active,
	}
}

func TestAggregateAt_Totals(t *testing.T) {
	sessions := []model.Session{
		sess("a", "api", "acme", "m1", 10, model.TokenUsage{Input: 100, Output: 50}, time.Minute),
		sess("b", "api", "acme", "m1", 11, model.TokenUsage{Input: 200, CacheRead: 300}, 2*time.Minute),
		sess("c", "web", "acme", "m2", 12, model.TokenUsage{Output: 70, Thinking: 30}, 3*time.Minute),
	}

	stats := AggregateAt(sessions, testEstimator(), 4, testNow)

	if stats.TotalSessions != 3 || stats.TotalProjects != 2 || stats.TotalGroups != 1 {
		t.Errorf("counts = %d/%d/%d", stats.TotalSessions, stats.TotalProjects, stats.TotalGroups)
	}

	var wantTotal int64
	for _, s := range sessions {
		wantTotal += s.Tokens.Total()
	}
	if got := stats.Tokens.Total(); got != wantTotal {
		t.Errorf("total tokens = %d, want %d (sum of per-session totals)", got, wantTotal)
	}
	if stats.TotalActiveTime != 6*time.Minute {
		t.Errorf("active time = %v", stats.TotalActiveTime)
	}

	// cache_read / (cache_read + input)
	wantRatio := 300.0 / (300.0 + 300.0)
	if stats.CacheHitRatio != wantRatio {
		t.Errorf("cache hit ratio = %v, want %v", stats.CacheHitRatio, wantRatio)
	}
}

func TestAggregateAt_OrderIndependent(t *testing.T) {
	a := sess("a", "api", "acme", "m1", 10, model.TokenUsage{Input: 100}, time.Minute)
	b := sess("b", "web", "priv", "m2", 11, model.TokenUsage{Output: 999}, time.Hour)
	c := sess("c", "api", "acme", "m1", 12, model.TokenUsage{CacheRead: 5}, 0)

	s1 := AggregateAt([]model.Session{a, b, c}, testEstimator(), 4, testNow)
	s2 := AggregateAt([]model.Session{c, a, b}, testEstimator(), 4, testNow)

	if !reflect.DeepEqual(s1, s2) {
		t.Error("aggregation depends on input order")
	}
}

func TestAggregateAt_Idempotent(t *testing.T) {
	sessions := []model.Session{
		sess("a", "api", "acme", "m1", 10, model.TokenUsage{Input: 100, Output: 50}, time.Minute),
		sess("b", "web", "priv", "m2", 11, model.TokenUsage{CacheWrite: 10, CacheRead: 20}, time.Hour),
	}

	first := AggregateAt(sessions, testEstimator(), 8, testNow)
	second := AggregateAt(sessions, testEstimator(), 8, testNow)

	if !reflect.DeepEqual(first, second) {
		t.Error("two aggregations over unchanged input differ")
	}
}

func TestAggregateAt_EmptyInput(t *testing.T) {
	stats := AggregateAt(nil, testEstimator(), 4, testNow)

	if stats.TotalSessions != 0 || stats.EstimatedCost != 0 || stats.CacheHitRatio != 0 {
		t.Errorf("non-zero stats for empty input: %+v", stats)
	}
	if len(stats.Projects) != 0 || len(stats.Groups) != 0 || len(stats.TopProjects) != 0 {
		t.Error("expected empty breakdowns")
	}
	// Heatmap still covers the window, all zeros.
	if len(stats.Heatmap) != 4*7 {
		t.Errorf("heatmap days = %d, want 28", len(stats.Heatmap))
	}
	for _, d := range stats.Heatmap {
		if d.Sessions != 0 {
			t.Errorf("day %s = %d, want 0", d.Date, d.Sessions)
		}
	}
}

func TestAggregateAt_Shares(t *testing.T) {
	sessions := []model.Session{
		sess("a", "api", "acme", "m1", 10, model.TokenUsage{Input: 750}, 3*time.Minute),
		sess("b", "web", "priv", "m1", 11, model.TokenUsage{Input: 250}, time.Minute),
	}

	stats := AggregateAt(sessions, testEstimator(), 4, testNow)

	if len(stats.Projects) != 2 {
		t.Fatalf("projects = %d", len(stats.Projects))
	}
	api := stats.Projects[0] // 750 tokens sorts first
	if api.Name != "api" {
		t.Fatalf("first project = %q", api.Name)
	}
	if math.Abs(api.TokenShare-0.75) > 1e-12 {
		t.Errorf("api token share = %v, want 0.75", api.TokenShare)
	}
	if math.Abs(api.TimeShare-0.75) > 1e-12 {
		t.Errorf("api time share = %v, want 0.75", api.TimeShare)
	}
	if math.Abs(api.CostShare-0.75) > 1e-12 {
		t.Errorf("api cost share = %v, want 0.75 (same rate, same category)", api.CostShare)
	}

	var groupShare float64
	for _, g := range stats.Groups {
		groupShare += g.TokenShare
	}
	if math.Abs(groupShare-1.0) > 1e-12 {
		t.Errorf("group shares sum to %v, want 1", groupShare)
	}
}

func TestAggregateAt_TopProjectsOrdering(t *testing.T) {
	mk := func(id, project string, tokens int64, day int) model.Session {
		return sess(id, project, "g", "m", day, model.TokenUsage{Input: tokens}, 0)
	}
	sessions := []model.Session{
		mk("a1", "alpha", 500, 10),
		mk("b1", "beta", 500, 10),
		mk("b2", "beta", 0, 11), // beta ties on tokens but has more sessions
		mk("c1", "gamma", 900, 12),
	}

	stats := AggregateAt(sessions, testEstimator(), 4, testNow)

	got := make([]string, len(stats.TopProjects))
	for i, p := range stats.TopProjects {
		got[i] = p.Name
	}
	want := []string{"gamma", "beta", "alpha"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("top projects = %v, want %v", got, want)
	}
}

func TestAggregateAt_HeatmapWindow(t *testing.T) {
	inside := sess("in", "p", "g", "m", 14, model.TokenUsage{Input: 1}, 0)
	outside := model.Session{
		ID: "out", Project: "p", Group: "g", Model: "m",
		StartedAt: testNow.AddDate(0, 0, -100),
		Tokens:    model.TokenUsage{Input: 1},
	}
	noTime := model.Session{ID: "nt", Project: "p", Group: "g", Model: "m"}

	stats := AggregateAt([]model.Session{inside, outside, noTime}, testEstimator(), 2, testNow)

	if len(stats.Heatmap) != 14 {
		t.Fatalf("heatmap days = %d, want 14", len(stats.Heatmap))
	}
	var bucketed int
	for _, d := range stats.Heatmap {
		bucketed += d.Sessions
	}
	if bucketed != 1 {
		t.Errorf("bucketed sessions = %d, want 1 (outside window and missing timestamps excluded)", bucketed)
	}
	// Oldest first, contiguous.
	if stats.Heatmap[len(stats.Heatmap)-1].Date != testNow.Local().Format("2006-01-02") {
		t.Errorf("last day = %s", stats.Heatmap[len(stats.Heatmap)-1].Date)
	}
}

func TestAggregateAt_FavoritesDoNotAffectTotals(t *testing.T) {
	base := []model.Session{
		sess("a", "api", "acme", "m1", 10, model.TokenUsage{Input: 100}, time.Minute),
	}
	flagged := []model.Session{base[0]}
	flagged[0].IsFavorite = true

	s1 := AggregateAt(base, testEstimator(), 4, testNow)
	s2 := AggregateAt(flagged, testEstimator(), 4, testNow)

	if !reflect.DeepEqual(s1, s2) {
		t.Error("favorite overlay changed aggregation output")
	}
}
