package engine

import (
	"log/slog"

	"decisionhq/meridian/pkg/dgl/ast"
)

// TableEvaluator evaluates decision tables against a fact context.
// It holds no per-evaluation state and is safe for concurrent use.
type TableEvaluator struct {
	logger *slog.Logger
}

// NewTableEvaluator creates a table evaluator.
func NewTableEvaluator(logger *slog.Logger) *TableEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableEvaluator{logger: logger}
}

// Evaluate runs the table against the context and returns the output delta
// to merge. Rows are evaluated strictly in source order; row order is the
// sole tie-break between matching rows, never specificity or any other
// heuristic. The returned indices list every row that hit, in order, so the
// caller can record them in the evaluation trace.
//
// Under FIRST and RULE_ORDER the delta holds the first hit's outputs; under
// COLLECT every hit's outputs accumulate into per-field slices. A mandatory
// table with no hits fails with *NoMatchingRuleError; a non-mandatory one
// returns an empty delta.
func (te *TableEvaluator) Evaluate(nodeID string, table *ast.DecisionTable, fctx FactContext) (FactContext, []int, error) {
	var hits []int
	delta := NewFactContext()

	for i, row := range table.Rows {
		matched, err := te.rowMatches(nodeID, i, table, row, fctx)
		if err != nil {
			return nil, nil, err
		}
		if !matched {
			continue
		}
		hits = append(hits, i)

		switch table.HitPolicy {
		case ast.HitPolicyFirst:
			if err := applyRowOutputs(nodeID, i, table, row, delta); err != nil {
				return nil, nil, err
			}
			return delta, hits, nil

		case ast.HitPolicyCollect:
			if err := collectRowOutputs(nodeID, i, table, row, delta); err != nil {
				return nil, nil, err
			}

		case ast.HitPolicyRuleOrder:
			// Only the first hit's outputs apply; later hits are recorded
			// for diagnostics.
			if len(hits) == 1 {
				if err := applyRowOutputs(nodeID, i, table, row, delta); err != nil {
					return nil, nil, err
				}
			}
		}
	}

	if len(hits) == 0 {
		if table.Mandatory {
			return nil, nil, &NoMatchingRuleError{NodeID: nodeID, Rows: len(table.Rows)}
		}
		te.logger.Debug("no row matched non-mandatory table", "node_id", nodeID)
	}

	return delta, hits, nil
}

// rowMatches reports whether every input column expression of the row
// matches the context. A field missing from the context is evaluated as the
// null candidate. A column id absent from the row's cells is a don't-care.
func (te *TableEvaluator) rowMatches(nodeID string, rowIndex int, table *ast.DecisionTable, row ast.Row, fctx FactContext) (bool, error) {
	for _, col := range table.Inputs {
		expr, ok := row.Inputs[col.ID]
		if !ok {
			continue
		}

		candidate, _ := fctx.Get(col.Field)
		matched, err := Matches(expr, candidate)
		if err != nil {
			return false, &CellError{NodeID: nodeID, Row: rowIndex, Field: col.Field, Cause: err}
		}
		if !matched {
			return false, nil
		}
	}
	return true, nil
}

// applyRowOutputs writes the row's output literals into the delta as
// scalars. Columns the row omits emit nothing.
func applyRowOutputs(nodeID string, rowIndex int, table *ast.DecisionTable, row ast.Row, delta FactContext) error {
	for _, col := range table.Outputs {
		value, emit, err := parseRowOutput(nodeID, rowIndex, col, row)
		if err != nil {
			return err
		}
		if emit {
			delta.Set(col.Field, value)
		}
	}
	return nil
}

// collectRowOutputs appends the row's output literals to per-field slices in
// the delta. A hit row that omits a column contributes nothing to that
// field's sequence.
func collectRowOutputs(nodeID string, rowIndex int, table *ast.DecisionTable, row ast.Row, delta FactContext) error {
	for _, col := range table.Outputs {
		value, emit, err := parseRowOutput(nodeID, rowIndex, col, row)
		if err != nil {
			return err
		}
		if !emit {
			continue
		}
		existing, _ := delta.Get(col.Field)
		seq, _ := existing.([]interface{})
		delta.Set(col.Field, append(seq, value))
	}
	return nil
}

func parseRowOutput(nodeID string, rowIndex int, col ast.Column, row ast.Row) (interface{}, bool, error) {
	cell, ok := row.Outputs[col.ID]
	if !ok {
		return nil, false, nil
	}
	value, emit, err := parseOutputLiteral(cell)
	if err != nil {
		return nil, false, &CellError{NodeID: nodeID, Row: rowIndex, Field: col.Field, Cause: err}
	}
	return value, emit, nil
}
