package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"dburn/internal/config"
	"dburn/internal/model"
)

// ExportRecord is the flat per-session shape written by the JSON and CSV
// exporters, one record per session.
type ExportRecord struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	StartedAt     string  `json:"started_at,omitempty"`
	Project       string  `json:"project"`
	Group         string  `json:"group"`
	Model         string  `json:"model"`
	AutonomyMode  string  `json:"autonomy_mode"`
	InputTokens   int64   `json:"input_tokens"`
	OutputTokens  int64   `json:"output_tokens"`
	CacheWrite    int64   `json:"cache_write_tokens"`
	CacheRead     int64   `json:"cache_read_tokens"`
	Thinking      int64   `json:"thinking_tokens"`
	TotalTokens   int64   `json:"total_tokens"`
	ActiveSecs    int64   `json:"active_seconds"`
	EstimatedCost float64 `json:"estimated_cost"`
	Prompts       int     `json:"prompts"`
	Favorite      bool    `json:"favorite"`
}

func toRecord(s model.Session, est *config.Estimator) ExportRecord {
	rec := ExportRecord{
		ID:            s.ID,
		Title:         s.Title,
		Project:       s.Project,
		Group:         s.Group,
		Model:         s.Model,
		AutonomyMode:  s.AutonomyMode,
		InputTokens:   s.Tokens.Input,
		OutputTokens:  s.Tokens.Output,
		CacheWrite:    s.Tokens.CacheWrite,
		CacheRead:     s.Tokens.CacheRead,
		Thinking:      s.Tokens.Thinking,
		TotalTokens:   s.Tokens.Total(),
		ActiveSecs:    int64(s.ActiveTime / time.Second),
		EstimatedCost: est.SessionCost(s),
		Prompts:       len(s.Prompts),
		Favorite:      s.IsFavorite,
	}
	if !s.StartedAt.IsZero() {
		rec.StartedAt = s.StartedAt.UTC().Format(time.RFC3339)
	}
	return rec
}

// ExportJSON writes the session collection as a JSON array of records.
func ExportJSON(w io.Writer, sessions []model.Session, est *config.Estimator) error {
	records := make([]ExportRecord, 0, len(sessions))
	for _, s := range sessions {
		records = append(records, toRecord(s, est))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}

// ReadJSON parses a JSON export back into records, for round-trips and
// downstream tooling.
func ReadJSON(r io.Reader) ([]ExportRecord, error) {
	var records []ExportRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding export: %w", err)
	}
	return records, nil
}

var csvHeader = []string{
	"id", "title", "started_at", "project", "group", "model", "autonomy_mode",
	"input_tokens", "output_tokens", "cache_write_tokens", "cache_read_tokens",
	"thinking_tokens", "total_tokens", "active_seconds", "estimated_cost",
	"prompts", "favorite",
}

// ExportCSV writes the session collection as CSV, one row per session.
func ExportCSV(w io.Writer, sessions []model.Session, est *config.Estimator) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, s := range sessions {
		rec := toRecord(s, est)
		row := []string{
			rec.ID,
			rec.Title,
			rec.StartedAt,
			rec.Project,
			rec.Group,
			rec.Model,
			rec.AutonomyMode,
			strconv.FormatInt(rec.InputTokens, 10),
			strconv.FormatInt(rec.OutputTokens, 10),
			strconv.FormatInt(rec.CacheWrite, 10),
			strconv.FormatInt(rec.CacheRead, 10),
			strconv.FormatInt(rec.Thinking, 10),
			strconv.FormatInt(rec.TotalTokens, 10),
			strconv.FormatInt(rec.ActiveSecs, 10),
			strconv.FormatFloat(rec.EstimatedCost, 'f', -1, 64),
			strconv.Itoa(rec.Prompts),
			strconv.FormatBool(rec.Favorite),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
