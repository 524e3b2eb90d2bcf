package audit

import (
	"context"
	"time"
)

// DecisionRecord is the audit trail for a single decision evaluation. The
// fact snapshot, rule fingerprint, and trace make the decision reproducible:
// replaying the snapshot against the fingerprinted rule content must yield
// the recorded result.
type DecisionRecord struct {
	// Identity
	ID            string `json:"id"`             // UUID v4
	CorrelationID string `json:"correlation_id"` // Caller-supplied or generated

	// Rule identity
	RulePath        string `json:"rule_path"`
	RuleFingerprint string `json:"rule_fingerprint"`
	RuleVersion     string `json:"rule_version"`

	// Input
	Facts     string `json:"facts"`      // JSON snapshot of the caller's facts
	FactsHash string `json:"facts_hash"` // SHA-256 of the snapshot

	// Outcome. Result and Trace are JSON; Error is set instead of Result
	// when the evaluation failed.
	Result    string `json:"result"`
	Trace     string `json:"trace"`
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`

	// Timing
	EvaluatedAt  time.Time     `json:"evaluated_at"`
	RecordedAt   time.Time     `json:"recorded_at"`
	EvalDuration time.Duration `json:"eval_duration_ns"`

	// Deployment metadata
	Service     string `json:"service"`
	Environment string `json:"environment"`
}

// Query filters decision records. Zero values mean "no constraint".
type Query struct {
	CorrelationID string
	RulePath      string
	Since         time.Time
	Until         time.Time
	OnlyErrors    bool
	Limit         int
	Offset        int
}

// Storage persists decision records. Implementations must be safe for
// concurrent use; the recorder writes from a background goroutine while
// query endpoints read.
type Storage interface {
	// Store persists a decision record.
	Store(ctx context.Context, record *DecisionRecord) error

	// Query returns records matching the filters, newest first.
	Query(ctx context.Context, q *Query) ([]*DecisionRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// DeleteOlderThan removes records recorded before the cutoff and
	// returns how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases the backend's resources.
	Close() error
}

// RuleChangeRecord is the audit trail for a rule save or delete through the
// management API.
type RuleChangeRecord struct {
	ID             string    `json:"id"` // UUID v4
	RulePath       string    `json:"rule_path"`
	Action         string    `json:"action"` // "create", "update", "delete"
	Author         string    `json:"author"`
	OldFingerprint string    `json:"old_fingerprint,omitempty"`
	NewFingerprint string    `json:"new_fingerprint,omitempty"`
	ChangedAt      time.Time `json:"changed_at"`
}

// Rule change actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)
