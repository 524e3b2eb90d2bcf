package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"decisionhq/meridian/pkg/dgl/ast"
)

// DefaultMaxSubgraphDepth bounds SUBGRAPH nesting. Legitimate rule sets nest
// two or three levels; anything deeper is almost always a reference cycle
// across files, which per-graph validation cannot see.
const DefaultMaxSubgraphDepth = 8

// Orchestrator walks a resolved graph in topological order, threading the
// fact context through every node. It is stateless across evaluations and
// safe for concurrent use.
type Orchestrator struct {
	resolver GraphResolver
	tables   *TableEvaluator
	maxDepth int
	logger   *slog.Logger
}

// NewOrchestrator creates an orchestrator. resolver may be nil for graphs
// without SUBGRAPH nodes; maxDepth <= 0 selects DefaultMaxSubgraphDepth.
func NewOrchestrator(resolver GraphResolver, maxDepth int, logger *slog.Logger) *Orchestrator {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxSubgraphDepth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		resolver: resolver,
		tables:   NewTableEvaluator(logger),
		maxDepth: maxDepth,
		logger:   logger,
	}
}

// Run evaluates the graph against the caller's facts and returns the fields
// selected by the terminal OUTPUT node, plus the execution trace. The facts
// map is never mutated. Any node failure aborts the evaluation: the partial
// context is discarded and only the error escapes.
func (o *Orchestrator) Run(ctx context.Context, rg *ResolvedGraph, facts map[string]interface{}) (map[string]interface{}, *Trace, error) {
	return o.run(ctx, rg, facts, 0)
}

func (o *Orchestrator) run(ctx context.Context, rg *ResolvedGraph, facts map[string]interface{}, depth int) (map[string]interface{}, *Trace, error) {
	fctx := NewFactContext()
	trace := &Trace{}
	var result map[string]interface{}

	for _, id := range rg.TopoOrder {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		node := rg.Graph.Node(id)
		started := time.Now()
		entry := NodeTrace{NodeID: id, Kind: node.Kind}

		switch node.Kind {
		case ast.KindInput:
			seedInputs(node.Input, facts, fctx)

		case ast.KindDecisionTable:
			delta, hits, err := o.tables.Evaluate(id, node.Table, fctx)
			if err != nil {
				return nil, nil, &NodeEvaluationError{NodeID: id, Cause: err}
			}
			fctx.Merge(delta)
			entry.HitRows = hits

		case ast.KindFunction:
			delta, err := evalFunction(id, node.Function, fctx)
			if err != nil {
				return nil, nil, err
			}
			fctx.Merge(delta)

		case ast.KindSubgraph:
			nested, err := o.runSubgraph(ctx, node, fctx, depth)
			if err != nil {
				return nil, nil, err
			}
			entry.Elapsed = time.Since(started)
			trace.Add(entry)
			trace.Append(id, nested)
			continue

		case ast.KindOutput:
			result = selectOutputs(node.Output, fctx)

		default:
			return nil, nil, &NodeEvaluationError{NodeID: id, Cause: fmt.Errorf("unknown node kind %q", node.Kind)}
		}

		entry.Elapsed = time.Since(started)
		trace.Add(entry)
	}

	return result, trace, nil
}

// runSubgraph evaluates a nested graph with a restricted view of the context:
// only declared input bindings cross in, only declared output bindings cross
// back. The nested trace is returned for the caller to merge under the
// subgraph node's id.
func (o *Orchestrator) runSubgraph(ctx context.Context, node *ast.Node, fctx FactContext, depth int) (*Trace, error) {
	sub := node.Subgraph

	if depth+1 > o.maxDepth {
		return nil, &NodeEvaluationError{NodeID: node.ID, Cause: ErrSubgraphDepthExceeded}
	}
	if o.resolver == nil {
		return nil, &NodeEvaluationError{NodeID: node.ID, Cause: fmt.Errorf("subgraph %q: no graph resolver configured", sub.Ref)}
	}

	rg, err := o.resolver.ResolveGraph(ctx, sub.Ref)
	if err != nil {
		return nil, &NodeEvaluationError{NodeID: node.ID, Cause: fmt.Errorf("resolve subgraph %q: %w", sub.Ref, err)}
	}

	inner := make(map[string]interface{}, len(sub.Inputs))
	for _, b := range sub.Inputs {
		if v, ok := fctx.Get(b.Outer); ok {
			inner[b.Inner] = v
		}
	}

	result, nested, err := o.run(ctx, rg, inner, depth+1)
	if err != nil {
		return nil, &NodeEvaluationError{NodeID: node.ID, Cause: err}
	}

	for _, b := range sub.Outputs {
		fctx.Set(b.Outer, result[b.Inner])
	}
	return nested, nil
}

// seedInputs copies the declared fields from the caller's facts into the
// context. Undeclared facts never enter; a declared field the caller omits
// takes its default when one exists and otherwise stays absent, so expression
// matching sees it as null.
func seedInputs(in *ast.InputContent, facts map[string]interface{}, fctx FactContext) {
	for _, f := range in.Fields {
		if v, ok := facts[f.Field]; ok {
			fctx.Set(f.Field, v)
			continue
		}
		if f.HasDefault {
			fctx.Set(f.Field, f.Default)
		}
	}
}

// selectOutputs builds the decision result from the declared output fields.
// A field nothing emitted resolves to explicit null rather than being
// dropped, so callers see a stable result shape.
func selectOutputs(out *ast.OutputContent, fctx FactContext) map[string]interface{} {
	result := make(map[string]interface{}, len(out.Fields))
	for _, field := range out.Fields {
		v, _ := fctx.Get(field)
		result[field] = v
	}
	return result
}
