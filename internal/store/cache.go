// Package store provides a SQLite-backed cache for parsed session data.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dburn/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed session caching keyed by session id. Each
// row carries the mtime and size of both artifacts at parse time, so a
// change to either artifact invalidates the cached row.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// ArtifactInfo holds the tracked mtime and size for one artifact file.
// Zero values mean the artifact was absent when the session was parsed.
type ArtifactInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// Fingerprint is the per-session change-detection key.
type Fingerprint struct {
	Settings ArtifactInfo
	Log      ArtifactInfo
}

// CachedSession pairs a parsed session with its skip count.
type CachedSession struct {
	Session model.Session
	Skipped int
}

// Fingerprints returns session_id -> Fingerprint for every cached session.
func (c *Cache) Fingerprints() (map[string]Fingerprint, error) {
	rows, err := c.db.Query(`SELECT session_id,
		settings_mtime_ns, settings_size, log_mtime_ns, log_size
		FROM sessions`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]Fingerprint)
	for rows.Next() {
		var id string
		var fp Fingerprint
		err := rows.Scan(&id, &fp.Settings.MtimeNs, &fp.Settings.SizeBytes,
			&fp.Log.MtimeNs, &fp.Log.SizeBytes)
		if err != nil {
			return nil, err
		}
		result[id] = fp
	}
	return result, rows.Err()
}

// SaveSession stores a parsed session with its artifact fingerprint,
// replacing any previous row for the same session id.
func (c *Cache) SaveSession(s model.Session, skipped int, projectDir string, fp Fingerprint) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	startedAt := ""
	if !s.StartedAt.IsZero() {
		startedAt = s.StartedAt.UTC().Format(time.RFC3339Nano)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err = tx.Exec(`INSERT OR REPLACE INTO sessions
		(session_id, project_dir, title, started_at, model, autonomy_mode,
		 active_ms, cwd, input_tokens, output_tokens, cache_write_tokens,
		 cache_read_tokens, thinking_tokens, message_count, skipped_units,
		 settings_mtime_ns, settings_size, log_mtime_ns, log_size, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, projectDir, s.Title, startedAt, s.Model, s.AutonomyMode,
		s.ActiveTime.Milliseconds(), s.Cwd,
		s.Tokens.Input, s.Tokens.Output, s.Tokens.CacheWrite,
		s.Tokens.CacheRead, s.Tokens.Thinking,
		s.MessageCount, skipped,
		fp.Settings.MtimeNs, fp.Settings.SizeBytes, fp.Log.MtimeNs, fp.Log.SizeBytes, now,
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM session_prompts WHERE session_id = ?", s.ID); err != nil {
		return err
	}
	for _, p := range s.Prompts {
		ts := ""
		if !p.Timestamp.IsZero() {
			ts = p.Timestamp.UTC().Format(time.RFC3339Nano)
		}
		_, err := tx.Exec(`INSERT INTO session_prompts (session_id, idx, timestamp, text)
			VALUES (?, ?, ?, ?)`, s.ID, p.Index, ts, p.Text)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadSessions reads the cached sessions for the given ids. Project and
// group annotation is not stored; callers re-derive it from cwd.
func (c *Cache) LoadSessions(ids map[string]struct{}) ([]CachedSession, error) {
	rows, err := c.db.Query(`SELECT
		session_id, title, started_at, model, autonomy_mode, active_ms, cwd,
		input_tokens, output_tokens, cache_write_tokens, cache_read_tokens,
		thinking_tokens, message_count, skipped_units
		FROM sessions ORDER BY session_id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []CachedSession
	idx := make(map[string]int)
	for rows.Next() {
		var cs CachedSession
		var startedAt, cwd sql.NullString
		var activeMs int64

		err := rows.Scan(&cs.Session.ID, &cs.Session.Title, &startedAt,
			&cs.Session.Model, &cs.Session.AutonomyMode, &activeMs, &cwd,
			&cs.Session.Tokens.Input, &cs.Session.Tokens.Output,
			&cs.Session.Tokens.CacheWrite, &cs.Session.Tokens.CacheRead,
			&cs.Session.Tokens.Thinking, &cs.Session.MessageCount, &cs.Skipped)
		if err != nil {
			return nil, err
		}
		if _, want := ids[cs.Session.ID]; !want {
			continue
		}

		cs.Session.ActiveTime = time.Duration(activeMs) * time.Millisecond
		if cwd.Valid {
			cs.Session.Cwd = cwd.String
		}
		if startedAt.Valid && startedAt.String != "" {
			cs.Session.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt.String)
		}

		idx[cs.Session.ID] = len(out)
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	promptRows, err := c.db.Query(`SELECT session_id, idx, timestamp, text
		FROM session_prompts ORDER BY session_id, idx`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = promptRows.Close() }()

	for promptRows.Next() {
		var sid, ts, text string
		var n int
		if err := promptRows.Scan(&sid, &n, &ts, &text); err != nil {
			return nil, err
		}
		i, ok := idx[sid]
		if !ok {
			continue
		}
		p := model.UserPrompt{SessionID: sid, Index: n, Text: text}
		if ts != "" {
			p.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		}
		out[i].Session.Prompts = append(out[i].Session.Prompts, p)
	}

	return out, promptRows.Err()
}

// DeleteSession removes a session and its prompts.
func (c *Cache) DeleteSession(sessionID string) error {
	_, err := c.db.Exec("DELETE FROM sessions WHERE session_id = ?", sessionID)
	return err
}

// SessionCount returns the number of cached sessions.
func (c *Cache) SessionCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count)
	return count, err
}
