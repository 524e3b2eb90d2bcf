package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"decisionhq/meridian/pkg/audit"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is how long a writer waits on a locked database.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements audit.Storage on SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens (or creates) the audit database and initializes its
// schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "audit.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "open", err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("audit storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return audit.NewStorageError("sqlite", "enable_wal", err)
		}
	}

	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return audit.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return audit.NewStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return audit.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil && err != sql.ErrNoRows {
		return audit.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return audit.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Store persists a decision record.
func (s *SQLiteStorage) Store(ctx context.Context, record *audit.DecisionRecord) error {
	const query = `
		INSERT INTO decisions (
			id, correlation_id,
			rule_path, rule_fingerprint, rule_version,
			facts, facts_hash,
			result, trace, error, error_type,
			evaluated_at, recorded_at, eval_duration_ns,
			service, environment
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var errorVal, errorTypeVal interface{}
	if record.Error != "" {
		errorVal = record.Error
		errorTypeVal = record.ErrorType
	}

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.CorrelationID,
		record.RulePath, record.RuleFingerprint, record.RuleVersion,
		record.Facts, record.FactsHash,
		record.Result, record.Trace, errorVal, errorTypeVal,
		record.EvaluatedAt, record.RecordedAt, record.EvalDuration.Nanoseconds(),
		record.Service, record.Environment,
	)
	if err != nil {
		return audit.NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Query returns matching records, newest first.
func (s *SQLiteStorage) Query(ctx context.Context, q *audit.Query) ([]*audit.DecisionRecord, error) {
	where, args := buildWhere(q)

	sqlQuery := `SELECT id, correlation_id, rule_path, rule_fingerprint, rule_version,
		facts, facts_hash, result, trace, error, error_type,
		evaluated_at, recorded_at, eval_duration_ns, service, environment
		FROM decisions` + where + " ORDER BY recorded_at DESC"

	if q != nil && q.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", q.Limit)
		if q.Offset > 0 {
			sqlQuery += fmt.Sprintf(" OFFSET %d", q.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, audit.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	var records []*audit.DecisionRecord
	for rows.Next() {
		r := &audit.DecisionRecord{}
		var errorVal, errorTypeVal sql.NullString
		var durationNs int64

		err := rows.Scan(
			&r.ID, &r.CorrelationID, &r.RulePath, &r.RuleFingerprint, &r.RuleVersion,
			&r.Facts, &r.FactsHash, &r.Result, &r.Trace, &errorVal, &errorTypeVal,
			&r.EvaluatedAt, &r.RecordedAt, &durationNs, &r.Service, &r.Environment,
		)
		if err != nil {
			return nil, audit.NewStorageError("sqlite", "scan", err)
		}
		r.Error = errorVal.String
		r.ErrorType = errorTypeVal.String
		r.EvalDuration = time.Duration(durationNs)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, audit.NewStorageError("sqlite", "query", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *SQLiteStorage) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM decisions").Scan(&n); err != nil {
		return 0, audit.NewStorageError("sqlite", "count", err)
	}
	return n, nil
}

// DeleteOlderThan removes records recorded before the cutoff.
func (s *SQLiteStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM decisions WHERE recorded_at < ?", cutoff)
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, audit.NewStorageError("sqlite", "delete", err)
	}
	return deleted, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func buildWhere(q *audit.Query) (string, []interface{}) {
	if q == nil {
		return "", nil
	}

	var clauses []string
	var args []interface{}

	if q.CorrelationID != "" {
		clauses = append(clauses, "correlation_id = ?")
		args = append(args, q.CorrelationID)
	}
	if q.RulePath != "" {
		clauses = append(clauses, "rule_path = ?")
		args = append(args, q.RulePath)
	}
	if !q.Since.IsZero() {
		clauses = append(clauses, "recorded_at >= ?")
		args = append(args, q.Since)
	}
	if !q.Until.IsZero() {
		clauses = append(clauses, "recorded_at <= ?")
		args = append(args, q.Until)
	}
	if q.OnlyErrors {
		clauses = append(clauses, "error IS NOT NULL")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
