package changelog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"decisionhq/meridian/pkg/audit"
)

const schema = `
CREATE TABLE IF NOT EXISTS rule_changes (
    id TEXT PRIMARY KEY,
    rule_path TEXT NOT NULL,
    action TEXT NOT NULL,
    author TEXT,
    old_fingerprint TEXT,
    new_fingerprint TEXT,
    changed_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rule_changes_path ON rule_changes(rule_path);
CREATE INDEX IF NOT EXISTS idx_rule_changes_changed_at ON rule_changes(changed_at);
`

// Store persists rule change records in SQLite.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore opens (or creates) the rule change database at path.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("changelog db path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d", path, (5 * time.Second).Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "open", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, audit.NewStorageError("sqlite", "create_schema", err)
	}

	logger.Info("rule changelog initialized", "path", path)
	return &Store{db: db, logger: logger}, nil
}

// Append records a rule change. A missing ID or timestamp is filled in.
func (s *Store) Append(ctx context.Context, change *audit.RuleChangeRecord) error {
	if change.ID == "" {
		change.ID = uuid.New().String()
	}
	if change.ChangedAt.IsZero() {
		change.ChangedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO rule_changes (id, rule_path, action, author, old_fingerprint, new_fingerprint, changed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		change.ID, change.RulePath, change.Action, change.Author,
		change.OldFingerprint, change.NewFingerprint, change.ChangedAt,
	)
	if err != nil {
		return audit.NewStorageError("sqlite", "append", err)
	}

	s.logger.Info("rule change recorded",
		"rule_path", change.RulePath,
		"action", change.Action,
		"author", change.Author,
	)
	return nil
}

// History returns the change records for a rule path, newest first. limit <= 0
// returns everything.
func (s *Store) History(ctx context.Context, rulePath string, limit int) ([]*audit.RuleChangeRecord, error) {
	query := `
		SELECT id, rule_path, action, author, old_fingerprint, new_fingerprint, changed_at
		FROM rule_changes WHERE rule_path = ? ORDER BY changed_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, rulePath)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "history", err)
	}
	defer rows.Close()

	var changes []*audit.RuleChangeRecord
	for rows.Next() {
		c := &audit.RuleChangeRecord{}
		if err := rows.Scan(&c.ID, &c.RulePath, &c.Action, &c.Author, &c.OldFingerprint, &c.NewFingerprint, &c.ChangedAt); err != nil {
			return nil, audit.NewStorageError("sqlite", "scan", err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError("sqlite", "history", err)
	}
	return changes, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
