// Package validator performs load-time validation of decision graphs.
//
// Validation runs exactly once, when the rule cache parses a source
// document; evaluation assumes a valid graph and never re-checks structure.
// The pipeline has three phases:
//
//  1. Structural: unique node ids, edge endpoints exist, every non-INPUT
//     node has an inbound edge, exactly one terminal OUTPUT node.
//  2. Semantic: every field an OUTPUT or SUBGRAPH binding reads is produced
//     by some node in the graph.
//  3. Ordering: the edge relation is a DAG; a topological execution order is
//     computed here and cached alongside the graph so it is never recomputed
//     per evaluation.
//
// All problems in a phase are accumulated and reported together.
package validator
