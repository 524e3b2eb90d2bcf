package engine

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Matches evaluates a single cell expression against a candidate value.
// It is stateless and pure: the result is a function of the expression
// string and the candidate alone.
//
// Expression forms, classified at evaluation time:
//
//	""                 always matches (don't-care column)
//	null               matches an absent or null candidate, never the string "null"
//	>= 21, < 650, ...  numeric comparison
//	[21..60], (0..1]   interval; '[' ']' inclusive, '(' ')' exclusive per end
//	"VERIFIED"         exact, case-sensitive string equality
//	750, true, false   literal equality
//	"A", "B", 700      list: matches if any element matches
//	not(...), != 5     negation of the enclosed expression or list
//
// Numeric operators coerce the candidate to a number and fail closed: a
// candidate that cannot be coerced yields false, not an error. Content that
// cannot be classified yields a *MalformedExpressionError.
func Matches(expression string, value interface{}) (bool, error) {
	expr := strings.TrimSpace(expression)

	if expr == "" {
		return true, nil
	}

	if expr == "null" {
		return value == nil, nil
	}

	return matchList(expr, value)
}

// matchList evaluates a comma-separated list of expressions as a
// disjunction. A single expression is the one-element case. Every element is
// evaluated even after a match: a malformed element makes the whole cell
// malformed regardless of its position.
func matchList(expr string, value interface{}) (bool, error) {
	items := splitTopLevel(expr)
	if len(items) > 1 {
		matched := false
		for _, item := range items {
			item = strings.TrimSpace(item)
			if item == "" {
				return false, &MalformedExpressionError{Expression: expr, Reason: "empty list element"}
			}
			m, err := matchSingle(item, value)
			if err != nil {
				return false, err
			}
			matched = matched || m
		}
		return matched, nil
	}
	return matchSingle(expr, value)
}

// matchSingle evaluates one non-list expression.
func matchSingle(expr string, value interface{}) (bool, error) {
	expr = strings.TrimSpace(expr)

	if inner, ok := unwrapNegation(expr); ok {
		matched, err := matchList(inner, value)
		if err != nil {
			return false, err
		}
		return !matched, nil
	}

	// != is shorthand negation of a single expression.
	if rest, ok := strings.CutPrefix(expr, "!="); ok {
		matched, err := matchSingle(strings.TrimSpace(rest), value)
		if err != nil {
			return false, err
		}
		return !matched, nil
	}

	switch {
	case expr == "null":
		return value == nil, nil

	case strings.HasPrefix(expr, ">=") || strings.HasPrefix(expr, "<=") ||
		strings.HasPrefix(expr, ">") || strings.HasPrefix(expr, "<"):
		return matchComparison(expr, value)

	case strings.HasPrefix(expr, "[") || strings.HasPrefix(expr, "("):
		return matchInterval(expr, value)

	case strings.HasPrefix(expr, `"`):
		return matchString(expr, value)

	case expr == "true" || expr == "false":
		b, ok := value.(bool)
		if !ok {
			return false, nil
		}
		return b == (expr == "true"), nil

	default:
		if bound, err := strconv.ParseFloat(expr, 64); err == nil {
			candidate, ok := coerceNumber(value)
			if !ok {
				return false, nil
			}
			return candidate == bound, nil
		}
		return false, &MalformedExpressionError{Expression: expr, Reason: "unrecognized expression form"}
	}
}

// matchComparison handles the >, >=, <, <= operators against a numeric bound.
func matchComparison(expr string, value interface{}) (bool, error) {
	op := expr[:1]
	rest := expr[1:]
	if strings.HasPrefix(rest, "=") {
		op = expr[:2]
		rest = expr[2:]
	}

	bound, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return false, &MalformedExpressionError{Expression: expr, Reason: "comparison bound is not a number"}
	}

	candidate, ok := coerceNumber(value)
	if !ok {
		// Fail closed: non-numeric candidate against a numeric operator.
		return false, nil
	}

	switch op {
	case ">":
		return candidate > bound, nil
	case ">=":
		return candidate >= bound, nil
	case "<":
		return candidate < bound, nil
	case "<=":
		return candidate <= bound, nil
	}
	return false, &MalformedExpressionError{Expression: expr, Reason: "unknown comparison operator"}
}

// matchInterval handles [a..b], (a..b), and the mixed bracket forms.
// '[' and ']' are inclusive, '(' and ')' exclusive, independently per end.
func matchInterval(expr string, value interface{}) (bool, error) {
	if len(expr) < 5 {
		return false, &MalformedExpressionError{Expression: expr, Reason: "interval too short"}
	}

	open := expr[0]
	shut := expr[len(expr)-1]
	if (open != '[' && open != '(') || (shut != ']' && shut != ')') {
		return false, &MalformedExpressionError{Expression: expr, Reason: "interval must be delimited by brackets or parentheses"}
	}

	body := expr[1 : len(expr)-1]
	parts := strings.SplitN(body, "..", 2)
	if len(parts) != 2 {
		return false, &MalformedExpressionError{Expression: expr, Reason: "interval requires a '..' separator"}
	}

	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return false, &MalformedExpressionError{Expression: expr, Reason: "interval lower bound is not a number"}
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return false, &MalformedExpressionError{Expression: expr, Reason: "interval upper bound is not a number"}
	}

	candidate, ok := coerceNumber(value)
	if !ok {
		return false, nil
	}

	if open == '[' {
		if candidate < lo {
			return false, nil
		}
	} else if candidate <= lo {
		return false, nil
	}
	if shut == ']' {
		if candidate > hi {
			return false, nil
		}
	} else if candidate >= hi {
		return false, nil
	}
	return true, nil
}

// matchString handles a double-quoted string literal: exact, case-sensitive
// equality against a string candidate. Non-string candidates never match.
func matchString(expr string, value interface{}) (bool, error) {
	literal, err := strconv.Unquote(expr)
	if err != nil {
		return false, &MalformedExpressionError{Expression: expr, Reason: "unterminated string literal"}
	}
	s, ok := value.(string)
	if !ok {
		return false, nil
	}
	return s == literal, nil
}

// unwrapNegation returns the body of a not(...) expression, verifying the
// parentheses balance so that not(a), not(b) is read as a list of two
// negations rather than one.
func unwrapNegation(expr string) (string, bool) {
	if !strings.HasPrefix(expr, "not(") || !strings.HasSuffix(expr, ")") {
		return "", false
	}
	body := expr[len("not(") : len(expr)-1]
	depth := 0
	for _, r := range body {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", false
			}
		}
	}
	return body, depth == 0
}

// splitTopLevel splits on commas that are outside quotes, brackets, and
// parentheses, so `"a,b", [1..2]` splits into two elements.
func splitTopLevel(expr string) []string {
	var parts []string
	var depth int
	var inQuote bool
	start := 0

	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '"':
			if !inQuote || i == 0 || expr[i-1] != '\\' {
				inQuote = !inQuote
			}
		case '[', '(':
			if !inQuote {
				depth++
			}
		case ']', ')':
			if !inQuote {
				depth--
			}
		case ',':
			if !inQuote && depth == 0 {
				parts = append(parts, expr[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, expr[start:])
	return parts
}

// coerceNumber converts a candidate value to float64 for numeric operators.
// Strings holding numbers coerce; everything else fails.
func coerceNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
