// Package source discovers and parses droid session artifact pairs.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"dburn/internal/model"
)

// DefaultTitle is substituted when a session carries no usable title.
const DefaultTitle = "Untitled Session"

const maxTitleRunes = 80

// ParseResult holds the output of parsing one artifact pair.
type ParseResult struct {
	Session model.Session
	Skipped int // malformed artifacts and log lines, counted not fatal
}

// ParseSession merges a settings artifact and an event-log artifact into
// one Session. A missing or malformed artifact never drops the session:
// the fields it would supply take documented defaults (all-zero usage,
// "unknown" model/autonomy, empty cwd, placeholder title) and the skip
// counter records the damage. Each log line is parsed independently so a
// partially written or version-skewed file degrades line by line.
func ParseSession(sf SessionFiles) ParseResult {
	res := ParseResult{
		Session: model.Session{
			ID:           sf.SessionID,
			Title:        DefaultTitle,
			Model:        "unknown",
			AutonomyMode: "unknown",
		},
	}

	res.Skipped += applySettings(&res.Session, sf.SettingsPath)
	res.Skipped += applyLog(&res.Session, sf.SessionID, sf.LogPath)

	if res.Session.Cwd == "" && sf.ProjectDir != "" {
		res.Session.Cwd = DecodeDirPath(sf.ProjectDir)
	}

	return res
}

// applySettings reads the metadata artifact. Returns the number of
// skipped units (0 or 1).
func applySettings(s *model.Session, path string) int {
	if path == "" {
		return 0
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 1
	}

	var raw rawSettings
	if err := json.Unmarshal(data, &raw); err != nil {
		return 1
	}

	if raw.Model != "" {
		s.Model = raw.Model
	}
	if raw.AutonomyMode != "" {
		s.AutonomyMode = raw.AutonomyMode
	}
	if raw.AssistantActiveTimeMs > 0 {
		s.ActiveTime = time.Duration(raw.AssistantActiveTimeMs) * time.Millisecond
	}
	if u := raw.TokenUsage; u != nil {
		s.Tokens = model.TokenUsage{
			Input:      clampNonNegative(u.InputTokens),
			Output:     clampNonNegative(u.OutputTokens),
			CacheWrite: clampNonNegative(u.CacheCreationTokens),
			CacheRead:  clampNonNegative(u.CacheReadTokens),
			Thinking:   clampNonNegative(u.ThinkingTokens),
		}
	}
	return 0
}

// applyLog reads the event-log artifact line by line and returns the
// number of skipped lines.
func applyLog(s *model.Session, sessionID, path string) int {
	if path == "" {
		return 0
	}

	f, err := os.Open(path)
	if err != nil {
		return 1
	}
	defer func() { _ = f.Close() }()

	skipped := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		switch extractEventType(line) {
		case "session_start":
			var ev rawEvent
			if err := json.Unmarshal(line, &ev); err != nil {
				skipped++
				continue
			}
			raw := ev.SessionTitle
			if raw == "" {
				raw = ev.Title
			}
			s.Title = NormalizeTitle(raw)
			if ev.Cwd != "" {
				s.Cwd = ev.Cwd
			}

		case "message":
			var ev rawEvent
			if err := json.Unmarshal(line, &ev); err != nil {
				skipped++
				continue
			}
			s.MessageCount++
			ts := parseTimestamp(ev.Timestamp)
			if s.StartedAt.IsZero() && !ts.IsZero() {
				s.StartedAt = ts
			}
			if text, ok := userPromptText(&ev); ok {
				s.Prompts = append(s.Prompts, model.UserPrompt{
					SessionID: sessionID,
					Index:     len(s.Prompts) + 1,
					Timestamp: ts,
					Text:      text,
				})
			}

		default:
			// Unknown event types from newer droid versions are fine;
			// only lines that are not valid JSON count against the file.
			if !json.Valid(line) {
				skipped++
			}
		}
	}

	if scanner.Err() != nil {
		skipped++
	}

	return skipped
}

// NormalizeTitle trims a raw title, substituting DefaultTitle for empty
// input and capping length at 80 runes.
func NormalizeTitle(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return DefaultTitle
	}
	runes := []rune(t)
	if len(runes) > maxTitleRunes {
		t = string(runes[:maxTitleRunes])
	}
	return t
}

// userPromptText extracts the user prompt text from a message event.
// Tool results and system-reminder payloads do not qualify, nor do very
// short texts (droid injects short bookkeeping messages as the user role).
func userPromptText(ev *rawEvent) (string, bool) {
	if ev.Message == nil || ev.Message.Role != "user" {
		return "", false
	}
	for _, item := range ev.Message.Content {
		if item.Type != "text" {
			continue
		}
		if strings.HasPrefix(item.Text, "<system") {
			continue
		}
		text := strings.TrimSpace(item.Text)
		if len(text) > 10 {
			return text, true
		}
	}
	return "", false
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func clampNonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// typeKey is the byte sequence for a JSON key named "type" (with quotes).
var typeKey = []byte(`"type"`)

// extractEventType finds the top-level "type" field in a log line.
// Tracks brace depth and string boundaries so nested "type" keys (inside
// message content items) are ignored. Early-exits once found.
func extractEventType(line []byte) string {
	depth := 0
	for i := 0; i < len(line); {
		switch line[i] {
		case '"':
			if depth == 1 && bytes.HasPrefix(line[i:], typeKey) {
				val, isKey := classifyType(line, i+len(typeKey))
				if isKey {
					return val
				}
			}
			i = skipJSONString(line, i)
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
		default:
			i++
		}
	}
	return ""
}

// classifyType checks whether pos follows a JSON key (expects : then value).
// isKey=false means "type" appeared as a value; the caller keeps scanning.
func classifyType(line []byte, pos int) (val string, isKey bool) {
	i := skipSpaces(line, pos)
	if i >= len(line) || line[i] != ':' {
		return "", false
	}
	i = skipSpaces(line, i+1)
	if i >= len(line) || line[i] != '"' {
		return "", true // key with non-string value
	}
	i++

	end := bytes.IndexByte(line[i:], '"')
	if end < 0 || end > 24 {
		return "", true
	}
	v := string(line[i : i+end])
	switch v {
	case "session_start", "message":
		return v, true
	}
	return "", true // valid key but irrelevant event type
}

// skipJSONString advances past a JSON string starting at the opening quote.
func skipJSONString(line []byte, i int) int {
	i++
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipSpaces(line []byte, i int) int {
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i
}
