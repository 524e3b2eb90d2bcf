package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"decisionhq/meridian/pkg/audit"
)

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	config := DefaultSQLiteConfig()
	config.Path = filepath.Join(t.TempDir(), "audit.db")

	s, err := NewSQLiteStorage(config)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() unexpected error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_RoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	want := &audit.DecisionRecord{
		ID:              "rec-1",
		CorrelationID:   "corr-1",
		RulePath:        "kyc/eligibility_v1.json",
		RuleFingerprint: "deadbeef",
		RuleVersion:     "3",
		Facts:           `{"cibil_score":750}`,
		FactsHash:       "hash-1",
		Result:          `{"eligibility_status":"APPROVED"}`,
		Trace:           `{"entries":[]}`,
		EvaluatedAt:     now,
		RecordedAt:      now,
		EvalDuration:    420 * time.Microsecond,
		Service:         "meridian",
		Environment:     "test",
	}

	if err := s.Store(ctx, want); err != nil {
		t.Fatalf("Store() unexpected error: %v", err)
	}

	got, err := s.Query(ctx, &audit.Query{CorrelationID: "corr-1"})
	if err != nil {
		t.Fatalf("Query() unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Query() returned %d records, want 1", len(got))
	}

	r := got[0]
	if r.ID != want.ID || r.RulePath != want.RulePath || r.RuleFingerprint != want.RuleFingerprint {
		t.Errorf("record identity = (%s, %s, %s), want (%s, %s, %s)",
			r.ID, r.RulePath, r.RuleFingerprint, want.ID, want.RulePath, want.RuleFingerprint)
	}
	if r.Facts != want.Facts || r.Result != want.Result {
		t.Errorf("record content mismatch: facts %q result %q", r.Facts, r.Result)
	}
	if r.EvalDuration != want.EvalDuration {
		t.Errorf("EvalDuration = %v, want %v", r.EvalDuration, want.EvalDuration)
	}
	if r.Error != "" {
		t.Errorf("Error = %q, want empty", r.Error)
	}
}

func TestSQLiteStorage_ErrorRecordsAndFilters(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	now := time.Now().UTC()

	ok := record("corr-ok", "kyc/a.json", now, "")
	failed := record("corr-fail", "kyc/a.json", now.Add(time.Second), "node \"t\": evaluation failed")
	failed.ErrorType = "*engine.NodeEvaluationError"

	for _, r := range []*audit.DecisionRecord{ok, failed} {
		if err := s.Store(ctx, r); err != nil {
			t.Fatalf("Store() unexpected error: %v", err)
		}
	}

	errs, err := s.Query(ctx, &audit.Query{OnlyErrors: true})
	if err != nil {
		t.Fatalf("Query() unexpected error: %v", err)
	}
	if len(errs) != 1 || errs[0].CorrelationID != "corr-fail" {
		t.Fatalf("OnlyErrors query = %v, want just corr-fail", errs)
	}
	if errs[0].ErrorType != "*engine.NodeEvaluationError" {
		t.Errorf("ErrorType = %q", errs[0].ErrorType)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestSQLiteStorage_DeleteOlderThan(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		r := record("corr", "kyc/a.json", base.Add(time.Duration(i)*time.Hour), "")
		r.ID = r.ID + string(rune('a'+i))
		if err := s.Store(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := s.DeleteOlderThan(ctx, base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("DeleteOlderThan() unexpected error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteOlderThan() = %d, want 2", deleted)
	}

	n, _ := s.Count(ctx)
	if n != 2 {
		t.Errorf("Count() = %d after pruning, want 2", n)
	}
}
