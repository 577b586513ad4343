package sqlite

// Schema mirrors the external declarative persistence schema: every table
// carries a constitutional_hash plus created/updated timestamps. Only the
// threads and messages tables have a write path in this service; the rest
// exist so the embedded store is column-compatible with the external
// collaborator.
const Schema = `
CREATE TABLE IF NOT EXISTS threads (
    id                  TEXT PRIMARY KEY,
    title               TEXT DEFAULT '',
    constitutional_hash TEXT NOT NULL,
    created_at          TEXT NOT NULL,
    updated_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
    id                  TEXT PRIMARY KEY,
    thread_id           TEXT NOT NULL REFERENCES threads(id),
    seq                 INTEGER NOT NULL,
    role                TEXT NOT NULL,
    agent               TEXT DEFAULT '',
    content             TEXT NOT NULL,
    constitutional_hash TEXT NOT NULL,
    created_at          TEXT NOT NULL,
    updated_at          TEXT NOT NULL,
    UNIQUE(thread_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id, seq);

CREATE TABLE IF NOT EXISTS memory_records (
    id                  TEXT PRIMARY KEY,
    thread_id           TEXT,
    agent               TEXT DEFAULT '',
    prompt              TEXT NOT NULL,
    response            TEXT NOT NULL,
    reflection          TEXT DEFAULT '',
    constitutional_hash TEXT NOT NULL,
    created_at          TEXT NOT NULL,
    updated_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cognitive_events (
    id                  TEXT PRIMARY KEY,
    event_type          TEXT NOT NULL,
    source_minister     TEXT NOT NULL,
    payload             TEXT NOT NULL,
    constitutional_hash TEXT NOT NULL,
    created_at          TEXT NOT NULL,
    updated_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_records (
    id                  TEXT PRIMARY KEY,
    thread_id           TEXT,
    action              TEXT NOT NULL,
    compliance_level    TEXT NOT NULL DEFAULT 'compliant',
    constitutional_hash TEXT NOT NULL,
    created_at          TEXT NOT NULL,
    updated_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS minister_config (
    name                TEXT PRIMARY KEY,
    role                TEXT NOT NULL,
    mandate             TEXT DEFAULT '',
    preamble            TEXT DEFAULT '',
    constitutional_hash TEXT NOT NULL,
    created_at          TEXT NOT NULL,
    updated_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS system_metrics (
    name                TEXT PRIMARY KEY,
    value               REAL NOT NULL DEFAULT 0,
    constitutional_hash TEXT NOT NULL,
    created_at          TEXT NOT NULL,
    updated_at          TEXT NOT NULL
);
`
