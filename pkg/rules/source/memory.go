package source

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemorySource holds rule content in memory. Tests and embedded rule sets
// use it in place of a rules directory.
type MemorySource struct {
	mu    sync.RWMutex
	rules map[string][]byte
}

// NewMemorySource creates a memory source pre-loaded with the given rules.
func NewMemorySource(rules map[string][]byte) *MemorySource {
	copied := make(map[string][]byte, len(rules))
	for path, data := range rules {
		copied[path] = append([]byte(nil), data...)
	}
	return &MemorySource{rules: copied}
}

// Read returns the content of the rule at path.
func (s *MemorySource) Read(_ context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.rules[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return append([]byte(nil), data...), nil
}

// List returns every rule path, sorted.
func (s *MemorySource) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.rules))
	for path := range s.rules {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// Write stores content at path.
func (s *MemorySource) Write(_ context.Context, path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[path] = append([]byte(nil), data...)
	return nil
}

// Delete removes the rule at path.
func (s *MemorySource) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[path]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	delete(s.rules, path)
	return nil
}
