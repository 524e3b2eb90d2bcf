// Package ast provides the Abstract Syntax Tree for the Meridian decision
// graph format (DGL).
//
// A decision graph is an immutable, versioned artifact consisting of typed
// nodes connected by directed data-dependency edges. The AST represents the
// parsed structure of a graph document, enabling validation, topological
// ordering, and evaluation.
//
// # Core Types
//
// Graph: Root node containing metadata, nodes, and edges
//
// Node: A single graph node; a tagged union over NodeKind with exactly one
// kind-specific content field populated
//
// DecisionTable: Content of a DECISION_TABLE node (hit policy, columns, rows)
//
// FunctionContent: Content of a FUNCTION node (pure field transformations)
//
// SubgraphContent: Content of a SUBGRAPH node (nested graph reference with
// explicit input/output bindings)
//
// Content shapes are validated once at parse time, not at every access.
package ast
