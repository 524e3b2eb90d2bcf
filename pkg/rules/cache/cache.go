package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"decisionhq/meridian/pkg/dgl"
	"decisionhq/meridian/pkg/rules/engine"
	"decisionhq/meridian/pkg/rules/source"
)

// RuleCache caches resolved graphs by rule path. It implements
// engine.GraphResolver.
type RuleCache struct {
	source source.Source
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]*engine.ResolvedGraph

	hits         atomic.Int64
	misses       atomic.Int64
	reloads      atomic.Int64
	loadFailures atomic.Int64
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Size         int
	Hits         int64
	Misses       int64
	Reloads      int64
	LoadFailures int64
}

// New creates a rule cache over the given source.
func New(src source.Source, logger *slog.Logger) *RuleCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleCache{
		source:  src,
		logger:  logger,
		entries: make(map[string]*engine.ResolvedGraph),
	}
}

// ResolveGraph returns the cached graph for path, loading it on first use.
func (c *RuleCache) ResolveGraph(ctx context.Context, path string) (*engine.ResolvedGraph, error) {
	c.mu.RLock()
	rg, ok := c.entries[path]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return rg, nil
	}

	c.misses.Add(1)
	return c.load(ctx, path)
}

// load reads, parses, validates, and publishes the graph at path. The
// expensive work happens outside the write lock; publication rechecks in
// case a concurrent load won.
func (c *RuleCache) load(ctx context.Context, path string) (*engine.ResolvedGraph, error) {
	data, err := c.source.Read(ctx, path)
	if err != nil {
		c.loadFailures.Add(1)
		return nil, err
	}

	rg, err := build(data, path)
	if err != nil {
		c.loadFailures.Add(1)
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.entries[path]; ok && existing.Fingerprint == rg.Fingerprint {
		// A concurrent load of the same content won the race.
		c.mu.Unlock()
		return existing, nil
	}
	c.entries[path] = rg
	c.mu.Unlock()

	c.logger.Info("rule loaded",
		"path", path,
		"graph", rg.Graph.Name,
		"version", rg.Graph.Version,
		"fingerprint", rg.Fingerprint[:12],
		"nodes", rg.Graph.NodeCount(),
	)
	return rg, nil
}

// Preload lists the source and loads every rule it names, so the first
// request after startup never pays the parse cost. Rules that fail to load
// are skipped and counted; the count of loaded graphs is returned along with
// the first load error, if any.
func (c *RuleCache) Preload(ctx context.Context) (int, error) {
	paths, err := c.source.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list rules: %w", err)
	}

	var loaded int
	var firstErr error
	for _, path := range paths {
		if _, err := c.ResolveGraph(ctx, path); err != nil {
			c.logger.Warn("rule failed to preload", "path", path, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		loaded++
	}
	return loaded, firstErr
}

// Invalidate drops the entry for path. The next lookup reloads from the
// source. Invalidating an uncached path is a no-op.
func (c *RuleCache) Invalidate(path string) {
	c.mu.Lock()
	_, ok := c.entries[path]
	delete(c.entries, path)
	c.mu.Unlock()

	if ok {
		c.logger.Info("rule invalidated", "path", path)
	}
}

// InvalidateAll drops every entry.
func (c *RuleCache) InvalidateAll() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]*engine.ResolvedGraph)
	c.mu.Unlock()

	c.logger.Info("rule cache cleared", "entries", n)
}

// Refresh reloads every cached entry whose source content changed and drops
// entries whose files are gone. An entry whose new content fails validation
// keeps serving the last good graph; the failure is logged and counted.
func (c *RuleCache) Refresh(ctx context.Context) error {
	c.mu.RLock()
	paths := make([]string, 0, len(c.entries))
	for path := range c.entries {
		paths = append(paths, path)
	}
	c.mu.RUnlock()

	var firstErr error
	for _, path := range paths {
		if err := c.refreshOne(ctx, path); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *RuleCache) refreshOne(ctx context.Context, path string) error {
	data, err := c.source.Read(ctx, path)
	if err != nil {
		if isNotFound(err) {
			c.Invalidate(path)
			return nil
		}
		c.loadFailures.Add(1)
		return err
	}

	fingerprint := Fingerprint(data)

	c.mu.RLock()
	existing, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && existing.Fingerprint == fingerprint {
		return nil
	}

	rg, err := build(data, path)
	if err != nil {
		c.loadFailures.Add(1)
		c.logger.Error("rule refresh failed, keeping previous version",
			"path", path,
			"error", err,
		)
		return fmt.Errorf("refresh rule %q: %w", path, err)
	}

	c.mu.Lock()
	c.entries[path] = rg
	c.mu.Unlock()

	c.reloads.Add(1)
	c.logger.Info("rule reloaded",
		"path", path,
		"version", rg.Graph.Version,
		"fingerprint", rg.Fingerprint[:12],
	)
	return nil
}

// Stats returns a snapshot of cache activity.
func (c *RuleCache) Stats() Stats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()

	return Stats{
		Size:         size,
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
		Reloads:      c.reloads.Load(),
		LoadFailures: c.loadFailures.Load(),
	}
}

// Fingerprint returns the hex SHA-256 of rule content. Two byte-identical
// rule files always share a fingerprint regardless of path or load time.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// build parses and validates rule content into an immutable resolved graph.
func build(data []byte, path string) (*engine.ResolvedGraph, error) {
	graph, topo, err := dgl.ParseAndValidate(data, path)
	if err != nil {
		return nil, err
	}
	return &engine.ResolvedGraph{
		Graph:       graph,
		TopoOrder:   topo,
		Fingerprint: Fingerprint(data),
		LoadedAt:    time.Now().UTC(),
	}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, source.ErrNotFound)
}
