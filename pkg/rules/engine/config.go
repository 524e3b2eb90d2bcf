package engine

import (
	"fmt"
	"time"
)

// EngineConfig contains configuration for the decision evaluation engine.
type EngineConfig struct {
	// MaxSubgraphDepth is the maximum SUBGRAPH nesting depth. Per-graph
	// validation cannot detect reference cycles across rule files; this
	// bound catches them at evaluation time.
	// Default: 8.
	MaxSubgraphDepth int

	// EvaluationTimeout is the maximum wall time allowed for a single
	// graph evaluation, subgraphs included.
	// Default: 100ms.
	EvaluationTimeout time.Duration

	// MaxNodes is the maximum number of nodes accepted in a single graph.
	// This prevents abuse via pathological rule files.
	// Default: 500.
	MaxNodes int
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		MaxSubgraphDepth:  DefaultMaxSubgraphDepth,
		EvaluationTimeout: 100 * time.Millisecond,
		MaxNodes:          500,
	}
}

// Validate validates the engine configuration.
func (c *EngineConfig) Validate() error {
	if c.MaxSubgraphDepth <= 0 {
		return fmt.Errorf("max subgraph depth must be positive, got %d", c.MaxSubgraphDepth)
	}
	if c.EvaluationTimeout <= 0 {
		return fmt.Errorf("evaluation timeout must be positive, got %v", c.EvaluationTimeout)
	}
	if c.MaxNodes <= 0 {
		return fmt.Errorf("max nodes must be positive, got %d", c.MaxNodes)
	}
	return nil
}
