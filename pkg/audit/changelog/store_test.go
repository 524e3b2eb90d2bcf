package changelog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"decisionhq/meridian/pkg/audit"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "changes.db"), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAppendAndHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	changes := []*audit.RuleChangeRecord{
		{RulePath: "kyc/pan_eligibility_v1", Action: audit.ActionCreate, Author: "alice", NewFingerprint: "aaa", ChangedAt: base},
		{RulePath: "kyc/pan_eligibility_v1", Action: audit.ActionUpdate, Author: "bob", OldFingerprint: "aaa", NewFingerprint: "bbb", ChangedAt: base.Add(time.Hour)},
		{RulePath: "pricing/tier_v2", Action: audit.ActionCreate, Author: "alice", NewFingerprint: "ccc", ChangedAt: base.Add(2 * time.Hour)},
	}
	for _, c := range changes {
		if err := store.Append(ctx, c); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if c.ID == "" {
			t.Error("Append should assign an ID")
		}
	}

	got, err := store.History(ctx, "kyc/pan_eligibility_v1", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(got))
	}
	// Newest first.
	if got[0].Action != audit.ActionUpdate || got[0].Author != "bob" {
		t.Errorf("unexpected first record: %+v", got[0])
	}
	if got[1].Action != audit.ActionCreate {
		t.Errorf("unexpected second record: %+v", got[1])
	}
	if got[0].OldFingerprint != "aaa" || got[0].NewFingerprint != "bbb" {
		t.Errorf("fingerprints not round-tripped: %+v", got[0])
	}
}

func TestStoreHistoryLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := store.Append(ctx, &audit.RuleChangeRecord{
			RulePath:  "kyc/pan_eligibility_v1",
			Action:    audit.ActionUpdate,
			ChangedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := store.History(ctx, "kyc/pan_eligibility_v1", 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 changes with limit, got %d", len(got))
	}
	if !got[0].ChangedAt.After(got[1].ChangedAt) {
		t.Error("expected newest-first ordering")
	}
}

func TestStoreHistoryEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.History(context.Background(), "does/not/exist", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no changes, got %d", len(got))
	}
}

func TestStoreFillsTimestamp(t *testing.T) {
	store := newTestStore(t)

	c := &audit.RuleChangeRecord{RulePath: "kyc/x", Action: audit.ActionDelete}
	if err := store.Append(context.Background(), c); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if c.ChangedAt.IsZero() {
		t.Error("Append should assign a timestamp")
	}
}

func TestNewStoreEmptyPath(t *testing.T) {
	if _, err := NewStore("", nil); err == nil {
		t.Error("expected error for empty path")
	}
}
