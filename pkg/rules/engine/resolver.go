package engine

import (
	"context"
	"time"

	"decisionhq/meridian/pkg/dgl/ast"
)

// ResolvedGraph is a parsed, validated graph ready for evaluation, together
// with the derived artifacts every evaluation needs. It is immutable once
// built; concurrent evaluations share one instance without locks.
type ResolvedGraph struct {
	// Graph is the validated AST.
	Graph *ast.Graph

	// TopoOrder is the deterministic execution order of node ids.
	TopoOrder []string

	// Fingerprint is the hex SHA-256 of the rule content this graph was
	// built from. Identical content always yields an identical fingerprint.
	Fingerprint string

	// LoadedAt is when this graph was built from source.
	LoadedAt time.Time
}

// GraphResolver supplies resolved graphs by rule path. The rule cache is the
// production implementation; tests substitute in-memory resolvers. The
// orchestrator resolves SUBGRAPH references through the same interface, so
// nested graphs get the same caching and validation as top-level ones.
type GraphResolver interface {
	ResolveGraph(ctx context.Context, path string) (*ResolvedGraph, error)
}
