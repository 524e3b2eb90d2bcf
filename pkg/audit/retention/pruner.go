package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"decisionhq/meridian/pkg/audit"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain decision records.
	// 0 keeps records forever (no pruning).
	RetentionDays int

	// PruneSchedule is a cron expression, e.g. "0 3 * * *" for daily at
	// 3 AM. Empty disables scheduled pruning; Prune can still be called
	// directly.
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 90,
		PruneSchedule: "0 3 * * *",
	}
}

// Pruner enforces the retention policy on decision records.
type Pruner struct {
	storage audit.Storage
	config  *Config
	logger  *slog.Logger

	// now is swapped in tests.
	now func() time.Time
}

// NewPruner creates a retention pruner.
func NewPruner(storage audit.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "audit.retention"),
		now:     time.Now,
	}
}

// Prune deletes records older than the retention window and returns how many
// were removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
	deleted, err := p.storage.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune by age: %w", err)
	}

	if deleted > 0 {
		p.logger.Info("pruned decision records",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
			"cutoff", cutoff.Format(time.RFC3339),
		)
	}
	return deleted, nil
}
