package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"decisionhq/meridian/pkg/audit"
)

// MemoryStorage keeps decision records in memory. Records are lost on
// restart; use the SQLite backend when the audit trail must persist.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*audit.DecisionRecord
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Store persists the record.
func (s *MemoryStorage) Store(_ context.Context, record *audit.DecisionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Query returns matching records, newest first.
func (s *MemoryStorage) Query(_ context.Context, q *audit.Query) ([]*audit.DecisionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*audit.DecisionRecord
	for _, r := range s.records {
		if !matches(r, q) {
			continue
		}
		matched = append(matched, r)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RecordedAt.After(matched[j].RecordedAt)
	})

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Count returns the number of stored records.
func (s *MemoryStorage) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// DeleteOlderThan removes records recorded before the cutoff.
func (s *MemoryStorage) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, r := range s.records {
		if r.RecordedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	s.records = kept
	return deleted, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}

func matches(r *audit.DecisionRecord, q *audit.Query) bool {
	if q == nil {
		return true
	}
	if q.CorrelationID != "" && r.CorrelationID != q.CorrelationID {
		return false
	}
	if q.RulePath != "" && r.RulePath != q.RulePath {
		return false
	}
	if !q.Since.IsZero() && r.RecordedAt.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && r.RecordedAt.After(q.Until) {
		return false
	}
	if q.OnlyErrors && r.Error == "" {
		return false
	}
	return true
}
