package engine

import (
	"fmt"
	"strings"

	"decisionhq/meridian/pkg/dgl/ast"
)

// evalFunction applies a FUNCTION node's assignments in declaration order and
// returns the resulting delta. Assignments within a node see the targets of
// earlier assignments through the delta before falling back to the context.
func evalFunction(nodeID string, fn *ast.FunctionContent, fctx FactContext) (FactContext, error) {
	delta := NewFactContext()

	for _, a := range fn.Assignments {
		value, err := evalAssignment(a, fctx, delta)
		if err != nil {
			return nil, &NodeEvaluationError{NodeID: nodeID, Cause: err}
		}
		delta.Set(a.Target, value)
	}
	return delta, nil
}

func evalAssignment(a ast.Assignment, fctx, delta FactContext) (interface{}, error) {
	operands := make([]interface{}, len(a.Operands))
	for i, op := range a.Operands {
		operands[i] = resolveOperand(op, fctx, delta)
	}

	switch a.Op {
	case ast.OpAdd, ast.OpSubtract, ast.OpMultiply, ast.OpDivide:
		return evalArithmetic(a.Op, a.Target, operands)

	case ast.OpConcat:
		var b strings.Builder
		for _, v := range operands {
			b.WriteString(stringify(v))
		}
		return b.String(), nil

	case ast.OpUppercase:
		if err := requireArity(a, 1, operands); err != nil {
			return nil, err
		}
		return strings.ToUpper(stringify(operands[0])), nil

	case ast.OpLowercase:
		if err := requireArity(a, 1, operands); err != nil {
			return nil, err
		}
		return strings.ToLower(stringify(operands[0])), nil

	case ast.OpCopy:
		if err := requireArity(a, 1, operands); err != nil {
			return nil, err
		}
		return operands[0], nil

	case ast.OpCoalesce:
		for _, v := range operands {
			if v != nil {
				return v, nil
			}
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("assignment %q: unknown operation %q", a.Target, a.Op)
	}
}

func evalArithmetic(op ast.FunctionOp, target string, operands []interface{}) (interface{}, error) {
	if len(operands) < 2 {
		return nil, fmt.Errorf("assignment %q: %s needs at least 2 operands, got %d", target, op, len(operands))
	}

	nums := make([]float64, len(operands))
	for i, v := range operands {
		n, ok := coerceNumber(v)
		if !ok {
			return nil, fmt.Errorf("assignment %q: operand %d is not numeric (%T)", target, i, v)
		}
		nums[i] = n
	}

	acc := nums[0]
	for _, n := range nums[1:] {
		switch op {
		case ast.OpAdd:
			acc += n
		case ast.OpSubtract:
			acc -= n
		case ast.OpMultiply:
			acc *= n
		case ast.OpDivide:
			if n == 0 {
				return nil, fmt.Errorf("assignment %q: division by zero", target)
			}
			acc /= n
		}
	}
	return acc, nil
}

// resolveOperand yields the operand's value. Field references read the
// current assignment's delta first so that assignments compose within one
// node; a field absent from both resolves to null.
func resolveOperand(op ast.Operand, fctx, delta FactContext) interface{} {
	if op.IsLiteral {
		return op.Literal
	}
	if v, ok := delta.Get(op.Field); ok {
		return v
	}
	v, _ := fctx.Get(op.Field)
	return v
}

func requireArity(a ast.Assignment, want int, operands []interface{}) error {
	if len(operands) != want {
		return fmt.Errorf("assignment %q: %s needs exactly %d operand(s), got %d", a.Target, a.Op, want, len(operands))
	}
	return nil
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// Trim the decimal point for whole numbers so concat reads naturally.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
