package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Decision is the outcome of one graph evaluation: the fields the terminal
// OUTPUT node selected, plus everything needed to reproduce the run.
type Decision struct {
	// Result holds the output fields and their final values.
	Result map[string]interface{} `json:"result"`

	// Trace records which nodes and rows fired.
	Trace *Trace `json:"trace"`

	// RulePath is the rule the decision was evaluated against.
	RulePath string `json:"rule_path"`

	// Fingerprint is the content fingerprint of the rule version used.
	Fingerprint string `json:"rule_fingerprint"`

	// Duration is the total evaluation wall time.
	Duration time.Duration `json:"duration_ns"`
}

// Engine evaluates decision graphs. It holds no per-evaluation state: every
// call resolves the graph, runs it against the caller's facts, and returns a
// self-contained decision. Concurrent evaluations never interact.
type Engine struct {
	resolver GraphResolver
	orch     *Orchestrator
	config   *EngineConfig
	logger   *slog.Logger
}

// New creates an evaluation engine backed by the given resolver.
func New(config *EngineConfig, resolver GraphResolver, logger *slog.Logger) (*Engine, error) {
	if config == nil {
		config = DefaultEngineConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if resolver == nil {
		return nil, fmt.Errorf("graph resolver cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		resolver: resolver,
		orch:     NewOrchestrator(resolver, config.MaxSubgraphDepth, logger),
		config:   config,
		logger:   logger,
	}, nil
}

// Evaluate resolves the rule at path and runs it against the caller's facts.
// The facts map is not mutated. Identical facts against identical rule
// content always produce an identical Result and Trace.
func (e *Engine) Evaluate(ctx context.Context, path string, facts map[string]interface{}) (*Decision, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.EvaluationTimeout)
	defer cancel()

	rg, err := e.resolver.ResolveGraph(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("resolve rule %q: %w", path, err)
	}

	return e.EvaluateGraph(ctx, rg, facts)
}

// EvaluateGraph runs an already-resolved graph. The CLI uses this to
// evaluate a rule file without a cache behind it.
func (e *Engine) EvaluateGraph(ctx context.Context, rg *ResolvedGraph, facts map[string]interface{}) (*Decision, error) {
	if n := rg.Graph.NodeCount(); n > e.config.MaxNodes {
		return nil, fmt.Errorf("rule %q: %d nodes exceeds limit of %d", rg.Graph.SourcePath, n, e.config.MaxNodes)
	}

	started := time.Now()
	result, trace, err := e.orch.Run(ctx, rg, facts)
	elapsed := time.Since(started)

	if err != nil {
		e.logger.Warn("evaluation failed",
			"rule_path", rg.Graph.SourcePath,
			"fingerprint", rg.Fingerprint,
			"duration_us", elapsed.Microseconds(),
			"error", err,
		)
		return nil, err
	}

	e.logger.Debug("evaluation complete",
		"rule_path", rg.Graph.SourcePath,
		"fingerprint", rg.Fingerprint,
		"duration_us", elapsed.Microseconds(),
		"nodes", len(trace.Entries),
	)

	return &Decision{
		Result:      result,
		Trace:       trace,
		RulePath:    rg.Graph.SourcePath,
		Fingerprint: rg.Fingerprint,
		Duration:    elapsed,
	}, nil
}
