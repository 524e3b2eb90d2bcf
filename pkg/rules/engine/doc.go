// Package engine implements the decision graph evaluation engine: expression
// matching, decision table hit policies, and graph orchestration.
//
// An evaluation is a pure, independent computation. Each call owns a private
// fact context, reads an immutable graph snapshot, and performs no I/O, so
// arbitrary evaluations run concurrently without locks. Steady-state latency
// is dominated by expression matching and stays in single-digit milliseconds.
//
// # Layers
//
// Matches: classifies and evaluates a single cell expression against a
// candidate value (comparisons, intervals, literals, null/wildcard, lists,
// negation).
//
// TableEvaluator: evaluates a decision table row by row under its hit policy
// (FIRST, COLLECT, RULE_ORDER), recording hit rows in the trace.
//
// Orchestrator: walks a graph in its cached topological order, feeding each
// node from the accumulated fact context and merging node outputs back,
// last-writer-wins.
//
// Engine: the evaluation entrypoint; resolves graphs through a GraphResolver
// (the rule cache) and returns the decision, trace, and timing.
package engine
