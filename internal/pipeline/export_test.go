package pipeline

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"dburn/internal/model"
)

func exportFixture() []model.Session {
	return []model.Session{
		{
			ID:           "s1",
			Title:        "Fix flaky retry loop",
			StartedAt:    time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC),
			Project:      "api",
			Group:        "acme",
			Model:        "claude-sonnet-4",
			AutonomyMode: "auto",
			ActiveTime:   90 * time.Second,
			Tokens:       model.TokenUsage{Input: 100, Output: 50, CacheRead: 900},
			Prompts:      []model.UserPrompt{{SessionID: "s1", Text: "please fix the retry loop"}},
			IsFavorite:   true,
		},
		{
			ID:      "s2",
			Title:   "Untitled Session",
			Project: "unknown",
			Group:   "unknown",
			Model:   "unknown",
			Tokens:  model.TokenUsage{Thinking: 25},
		},
	}
}

func TestExportJSON_RoundTrip(t *testing.T) {
	sessions := exportFixture()

	var buf bytes.Buffer
	if err := ExportJSON(&buf, sessions, testEstimator()); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	records, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(records) != len(sessions) {
		t.Fatalf("records = %d, want %d", len(records), len(sessions))
	}

	for i, rec := range records {
		s := sessions[i]
		if rec.ID != s.ID {
			t.Errorf("record %d id = %q, want %q", i, rec.ID, s.ID)
		}
		if rec.TotalTokens != s.Tokens.Total() {
			t.Errorf("record %d total = %d, want %d", i, rec.TotalTokens, s.Tokens.Total())
		}
		if rec.Favorite != s.IsFavorite {
			t.Errorf("record %d favorite = %v, want %v", i, rec.Favorite, s.IsFavorite)
		}
	}

	if records[0].StartedAt != "2025-06-10T09:30:00Z" {
		t.Errorf("started_at = %q", records[0].StartedAt)
	}
	if records[1].StartedAt != "" {
		t.Errorf("missing timestamp exported as %q, want empty", records[1].StartedAt)
	}
	if records[0].Prompts != 1 {
		t.Errorf("prompts = %d", records[0].Prompts)
	}
}

func TestExportJSON_EmptyListIsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, nil, testEstimator()); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("empty export = %q, want []", got)
	}
}

func TestExportCSV_Shape(t *testing.T) {
	sessions := exportFixture()

	var buf bytes.Buffer
	if err := ExportCSV(&buf, sessions, testEstimator()); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading csv back: %v", err)
	}
	if len(rows) != len(sessions)+1 {
		t.Fatalf("rows = %d, want %d", len(rows), len(sessions)+1)
	}
	if len(rows[0]) != len(csvHeader) {
		t.Fatalf("header cols = %d, want %d", len(rows[0]), len(csvHeader))
	}
	if rows[0][0] != "id" || rows[0][len(rows[0])-1] != "favorite" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "s1" || rows[1][3] != "api" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[2][12] != "25" { // total_tokens includes thinking
		t.Errorf("s2 total_tokens = %q, want 25", rows[2][12])
	}
}
