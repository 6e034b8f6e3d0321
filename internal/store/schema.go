package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    session_id           TEXT PRIMARY KEY,
    project_dir          TEXT NOT NULL,
    title                TEXT NOT NULL,
    started_at           TEXT,
    model                TEXT NOT NULL,
    autonomy_mode        TEXT NOT NULL,
    active_ms            INTEGER NOT NULL,
    cwd                  TEXT,
    input_tokens         INTEGER NOT NULL,
    output_tokens        INTEGER NOT NULL,
    cache_write_tokens   INTEGER NOT NULL,
    cache_read_tokens    INTEGER NOT NULL,
    thinking_tokens      INTEGER NOT NULL,
    message_count        INTEGER NOT NULL,
    skipped_units        INTEGER NOT NULL,
    settings_mtime_ns    INTEGER NOT NULL,
    settings_size        INTEGER NOT NULL,
    log_mtime_ns         INTEGER NOT NULL,
    log_size             INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS session_prompts (
    session_id           TEXT NOT NULL REFERENCES sessions(session_id) ON DELETE CASCADE,
    idx                  INTEGER NOT NULL,
    timestamp            TEXT,
    text                 TEXT NOT NULL,
    PRIMARY KEY (session_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at);
CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project_dir);
`
