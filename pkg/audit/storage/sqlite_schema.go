package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the decision audit schema.
const Schema = `
-- Decision audit records
CREATE TABLE IF NOT EXISTS decisions (
    id TEXT PRIMARY KEY,
    correlation_id TEXT NOT NULL,

    -- Rule identity
    rule_path TEXT NOT NULL,
    rule_fingerprint TEXT,
    rule_version TEXT,

    -- Input snapshot
    facts TEXT NOT NULL,
    facts_hash TEXT NOT NULL,

    -- Outcome
    result TEXT,
    trace TEXT,
    error TEXT,
    error_type TEXT,

    -- Timing
    evaluated_at TIMESTAMP NOT NULL,
    recorded_at TIMESTAMP NOT NULL,
    eval_duration_ns INTEGER,

    -- Deployment metadata
    service TEXT,
    environment TEXT
);

CREATE INDEX IF NOT EXISTS idx_decisions_correlation ON decisions(correlation_id);
CREATE INDEX IF NOT EXISTS idx_decisions_rule_path ON decisions(rule_path);
CREATE INDEX IF NOT EXISTS idx_decisions_recorded_at ON decisions(recorded_at);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version, ignoring duplicates.
const InsertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?);`

// GetSchemaVersion reads the highest recorded schema version.
const GetSchemaVersion = `SELECT MAX(version) FROM schema_version;`
