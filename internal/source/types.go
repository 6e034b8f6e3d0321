package source

// rawSettings mirrors the per-session metadata artifact (<id>.settings.json).
type rawSettings struct {
	Model                 string         `json:"model"`
	AutonomyMode          string         `json:"autonomyMode"`
	AssistantActiveTimeMs int64          `json:"assistantActiveTimeMs"`
	TokenUsage            *rawTokenUsage `json:"tokenUsage,omitempty"`
}

// rawTokenUsage holds the token counters from the settings artifact.
type rawTokenUsage struct {
	InputTokens         int64 `json:"inputTokens"`
	OutputTokens        int64 `json:"outputTokens"`
	CacheCreationTokens int64 `json:"cacheCreationTokens"`
	CacheReadTokens     int64 `json:"cacheReadTokens"`
	ThinkingTokens      int64 `json:"thinkingTokens"`
}

// rawEvent represents a single line in a session event log (<id>.jsonl).
type rawEvent struct {
	Type         string      `json:"type"`
	Title        string      `json:"title,omitempty"`
	SessionTitle string      `json:"sessionTitle,omitempty"`
	Cwd          string      `json:"cwd,omitempty"`
	Timestamp    string      `json:"timestamp,omitempty"`
	Message      *rawMessage `json:"message,omitempty"`
}

// rawMessage is the message envelope of a "message" event.
type rawMessage struct {
	Role    string       `json:"role"`
	Content []rawContent `json:"content"`
}

// rawContent is one content item of a message.
type rawContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// SessionFiles is one discovered artifact pair. Either path may be empty
// when the corresponding artifact is absent; the session is still parsed
// with documented defaults for the missing side.
type SessionFiles struct {
	SessionID    string
	ProjectDir   string // raw encoded directory name
	SettingsPath string
	LogPath      string
}
