package engine

import (
	"strconv"
	"strings"
)

// parseOutputLiteral converts a raw output cell into a typed value:
// quoted string, numeric literal, true/false, or null. The second return
// reports whether the cell emits at all; an empty cell emits nothing, which
// is how a hit row skips an output column.
func parseOutputLiteral(raw string) (interface{}, bool, error) {
	cell := strings.TrimSpace(raw)

	if cell == "" {
		return nil, false, nil
	}
	if cell == "null" {
		return nil, true, nil
	}
	if cell == "true" {
		return true, true, nil
	}
	if cell == "false" {
		return false, true, nil
	}
	if strings.HasPrefix(cell, `"`) {
		s, err := strconv.Unquote(cell)
		if err != nil {
			return nil, false, &MalformedExpressionError{Expression: raw, Reason: "unterminated string literal"}
		}
		return s, true, nil
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f, true, nil
	}

	return nil, false, &MalformedExpressionError{Expression: raw, Reason: "output cell is not a literal"}
}
