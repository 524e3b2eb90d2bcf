package engine

import (
	"errors"
	"fmt"
)

// ErrSubgraphDepthExceeded indicates nested subgraph references recursed past
// the configured limit, which usually means subgraphs reference each other.
var ErrSubgraphDepthExceeded = errors.New("subgraph nesting depth exceeded")

// MalformedExpressionError indicates a cell expression that cannot be
// classified. It is fatal to the evaluation and always reported to the
// caller; unparseable cells are never silently skipped.
type MalformedExpressionError struct {
	Expression string
	Reason     string
}

// Error returns the error message.
func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("malformed expression %q: %s", e.Expression, e.Reason)
}

// NoMatchingRuleError indicates that no row of a mandatory decision table
// matched the fact context.
type NoMatchingRuleError struct {
	NodeID string
	Rows   int
}

// Error returns the error message.
func (e *NoMatchingRuleError) Error() string {
	return fmt.Sprintf("table node %q: no matching rule across %d rows", e.NodeID, e.Rows)
}

// CellError locates an expression failure within a table for reproduction:
// node, row, and column field are enough to find the offending cell in the
// editor.
type CellError struct {
	NodeID string
	Row    int
	Field  string
	Cause  error
}

// Error returns the error message.
func (e *CellError) Error() string {
	return fmt.Sprintf("table node %q row %d field %q: %v", e.NodeID, e.Row, e.Field, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *CellError) Unwrap() error {
	return e.Cause
}

// NodeEvaluationError wraps any node-level failure with the failing node id.
// Orchestration aborts on the first node failure; the partially mutated
// context is discarded and never observed by the caller.
type NodeEvaluationError struct {
	NodeID string
	Cause  error
}

// Error returns the error message.
func (e *NodeEvaluationError) Error() string {
	return fmt.Sprintf("node %q: evaluation failed: %v", e.NodeID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *NodeEvaluationError) Unwrap() error {
	return e.Cause
}
