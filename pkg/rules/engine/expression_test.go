package engine

import (
	"errors"
	"testing"
)

func TestMatches_BasicForms(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		value     interface{}
		wantMatch bool
		wantError bool
	}{
		{name: "empty expression is dont-care", expr: "", value: "anything", wantMatch: true},
		{name: "empty expression matches nil", expr: "", value: nil, wantMatch: true},
		{name: "whitespace-only is dont-care", expr: "   ", value: 42, wantMatch: true},

		{name: "null matches nil candidate", expr: "null", value: nil, wantMatch: true},
		{name: "null does not match string null", expr: "null", value: "null", wantMatch: false},
		{name: "null does not match zero", expr: "null", value: float64(0), wantMatch: false},
		{name: "null does not match false", expr: "null", value: false, wantMatch: false},

		{name: "string literal exact match", expr: `"VERIFIED"`, value: "VERIFIED", wantMatch: true},
		{name: "string literal is case-sensitive", expr: `"VERIFIED"`, value: "verified", wantMatch: false},
		{name: "string literal vs number", expr: `"750"`, value: float64(750), wantMatch: false},
		{name: "string literal with comma inside", expr: `"a,b"`, value: "a,b", wantMatch: true},

		{name: "boolean true", expr: "true", value: true, wantMatch: true},
		{name: "boolean false", expr: "false", value: false, wantMatch: true},
		{name: "boolean true vs false", expr: "true", value: false, wantMatch: false},
		{name: "boolean vs string candidate", expr: "true", value: "true", wantMatch: false},

		{name: "numeric literal equal", expr: "750", value: float64(750), wantMatch: true},
		{name: "numeric literal not equal", expr: "750", value: float64(749), wantMatch: false},
		{name: "numeric literal vs int candidate", expr: "750", value: 750, wantMatch: true},
		{name: "numeric literal vs numeric string", expr: "750", value: "750", wantMatch: true},
		{name: "negative numeric literal", expr: "-5", value: float64(-5), wantMatch: true},

		{name: "unclassifiable expression", expr: "VERIFIED", value: "VERIFIED", wantError: true},
		{name: "bareword yes", expr: "yes", value: true, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matches(tt.expr, tt.value)
			if tt.wantError {
				if err == nil {
					t.Fatalf("Matches(%q, %v) = %v, want error", tt.expr, tt.value, got)
				}
				var malformed *MalformedExpressionError
				if !errors.As(err, &malformed) {
					t.Fatalf("Matches(%q, %v) error = %v, want *MalformedExpressionError", tt.expr, tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Matches(%q, %v) unexpected error: %v", tt.expr, tt.value, err)
			}
			if got != tt.wantMatch {
				t.Errorf("Matches(%q, %v) = %v, want %v", tt.expr, tt.value, got, tt.wantMatch)
			}
		})
	}
}

func TestMatches_Comparisons(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		value     interface{}
		wantMatch bool
		wantError bool
	}{
		{name: "gte at boundary", expr: ">= 650", value: float64(650), wantMatch: true},
		{name: "gte above", expr: ">= 650", value: float64(651), wantMatch: true},
		{name: "gte below", expr: ">= 650", value: float64(649), wantMatch: false},
		{name: "gt at boundary", expr: "> 650", value: float64(650), wantMatch: false},
		{name: "lt below", expr: "< 650", value: float64(500), wantMatch: true},
		{name: "lt at boundary", expr: "< 650", value: float64(650), wantMatch: false},
		{name: "lte at boundary", expr: "<= 650", value: float64(650), wantMatch: true},
		{name: "no space after operator", expr: ">=21", value: float64(21), wantMatch: true},

		{name: "numeric string candidate coerces", expr: ">= 650", value: "700", wantMatch: true},
		{name: "non-numeric candidate fails closed", expr: ">= 650", value: "VERIFIED", wantMatch: false},
		{name: "nil candidate fails closed", expr: ">= 650", value: nil, wantMatch: false},
		{name: "bool candidate fails closed", expr: "< 10", value: true, wantMatch: false},

		{name: "garbage bound", expr: ">= abc", value: float64(1), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matches(tt.expr, tt.value)
			if tt.wantError {
				if err == nil {
					t.Fatalf("Matches(%q, %v) = %v, want error", tt.expr, tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Matches(%q, %v) unexpected error: %v", tt.expr, tt.value, err)
			}
			if got != tt.wantMatch {
				t.Errorf("Matches(%q, %v) = %v, want %v", tt.expr, tt.value, got, tt.wantMatch)
			}
		})
	}
}

func TestMatches_Intervals(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		value     interface{}
		wantMatch bool
		wantError bool
	}{
		{name: "closed interval inside", expr: "[21..60]", value: float64(30), wantMatch: true},
		{name: "closed interval lower boundary", expr: "[21..60]", value: float64(21), wantMatch: true},
		{name: "closed interval upper boundary", expr: "[21..60]", value: float64(60), wantMatch: true},
		{name: "closed interval below", expr: "[21..60]", value: float64(20), wantMatch: false},
		{name: "closed interval above", expr: "[21..60]", value: float64(61), wantMatch: false},

		{name: "open interval lower boundary", expr: "(21..60)", value: float64(21), wantMatch: false},
		{name: "open interval upper boundary", expr: "(21..60)", value: float64(60), wantMatch: false},
		{name: "open interval inside", expr: "(21..60)", value: float64(22), wantMatch: true},

		{name: "half-open lower boundary", expr: "(0..1]", value: float64(0), wantMatch: false},
		{name: "half-open upper boundary", expr: "(0..1]", value: float64(1), wantMatch: true},
		{name: "half-open other side", expr: "[0..1)", value: float64(0), wantMatch: true},
		{name: "half-open other side upper", expr: "[0..1)", value: float64(1), wantMatch: false},

		{name: "fractional bounds", expr: "[0.5..0.75]", value: float64(0.6), wantMatch: true},
		{name: "negative bounds", expr: "[-10..-5]", value: float64(-7), wantMatch: true},
		{name: "non-numeric candidate fails closed", expr: "[21..60]", value: "thirty", wantMatch: false},

		{name: "missing separator", expr: "[21-60]", value: float64(30), wantError: true},
		{name: "non-numeric bound", expr: "[a..60]", value: float64(30), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matches(tt.expr, tt.value)
			if tt.wantError {
				if err == nil {
					t.Fatalf("Matches(%q, %v) = %v, want error", tt.expr, tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Matches(%q, %v) unexpected error: %v", tt.expr, tt.value, err)
			}
			if got != tt.wantMatch {
				t.Errorf("Matches(%q, %v) = %v, want %v", tt.expr, tt.value, got, tt.wantMatch)
			}
		})
	}
}

func TestMatches_ListsAndNegation(t *testing.T) {
	tests := []struct {
		name      string
		expr      string
		value     interface{}
		wantMatch bool
		wantError bool
	}{
		{name: "list matches first element", expr: `"MH", "KA", "DL"`, value: "MH", wantMatch: true},
		{name: "list matches last element", expr: `"MH", "KA", "DL"`, value: "DL", wantMatch: true},
		{name: "list no match", expr: `"MH", "KA", "DL"`, value: "TN", wantMatch: false},
		{name: "mixed list numbers and interval", expr: "700, [750..800]", value: float64(760), wantMatch: true},
		{name: "mixed list exact element", expr: "700, [750..800]", value: float64(700), wantMatch: true},
		{name: "list with null element", expr: `null, "PENDING"`, value: nil, wantMatch: true},
		{name: "quoted comma not a separator", expr: `"a,b", "c"`, value: "a,b", wantMatch: true},
		{name: "empty list element", expr: `"a", , "b"`, value: "a", wantError: true},
		{name: "malformed element after match", expr: `"a", bareword`, value: "a", wantError: true},
		{name: "empty element after match", expr: `"a", `, value: "a", wantError: true},

		{name: "negated string no match", expr: `not("REJECTED")`, value: "VERIFIED", wantMatch: true},
		{name: "negated string match", expr: `not("REJECTED")`, value: "REJECTED", wantMatch: false},
		{name: "negated list matches none", expr: `not("A", "B")`, value: "C", wantMatch: true},
		{name: "negated list matches one", expr: `not("A", "B")`, value: "B", wantMatch: false},
		{name: "negated interval", expr: "not([21..60])", value: float64(61), wantMatch: true},
		{name: "negated null", expr: "not(null)", value: "x", wantMatch: true},
		{name: "negated null against nil", expr: "not(null)", value: nil, wantMatch: false},
		{name: "list of negations both pass", expr: `not("A"), not("B")`, value: "C", wantMatch: true},
		{name: "malformed inside negation", expr: "not(bareword)", value: "x", wantError: true},
		{name: "not-equal number no match", expr: "!= 650", value: float64(700), wantMatch: true},
		{name: "not-equal number match", expr: "!= 650", value: float64(650), wantMatch: false},
		{name: "not-equal string", expr: `!= "GOLD"`, value: "SILVER", wantMatch: true},
		{name: "not-equal against nil", expr: `!= "GOLD"`, value: nil, wantMatch: true},
		{name: "malformed after not-equal", expr: "!= bareword", value: "x", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matches(tt.expr, tt.value)
			if tt.wantError {
				if err == nil {
					t.Fatalf("Matches(%q, %v) = %v, want error", tt.expr, tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Matches(%q, %v) unexpected error: %v", tt.expr, tt.value, err)
			}
			if got != tt.wantMatch {
				t.Errorf("Matches(%q, %v) = %v, want %v", tt.expr, tt.value, got, tt.wantMatch)
			}
		})
	}
}

func TestParseOutputLiteral(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantValue interface{}
		wantEmit  bool
		wantError bool
	}{
		{name: "empty cell emits nothing", raw: "", wantEmit: false},
		{name: "whitespace cell emits nothing", raw: "  ", wantEmit: false},
		{name: "null emits nil", raw: "null", wantValue: nil, wantEmit: true},
		{name: "quoted string", raw: `"APPROVED"`, wantValue: "APPROVED", wantEmit: true},
		{name: "number", raw: "0.85", wantValue: float64(0.85), wantEmit: true},
		{name: "true", raw: "true", wantValue: true, wantEmit: true},
		{name: "false", raw: "false", wantValue: false, wantEmit: true},
		{name: "bareword is malformed", raw: "APPROVED", wantError: true},
		{name: "unterminated string", raw: `"APPROVED`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, emit, err := parseOutputLiteral(tt.raw)
			if tt.wantError {
				if err == nil {
					t.Fatalf("parseOutputLiteral(%q) = (%v, %v), want error", tt.raw, value, emit)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOutputLiteral(%q) unexpected error: %v", tt.raw, err)
			}
			if emit != tt.wantEmit {
				t.Fatalf("parseOutputLiteral(%q) emit = %v, want %v", tt.raw, emit, tt.wantEmit)
			}
			if emit && value != tt.wantValue {
				t.Errorf("parseOutputLiteral(%q) = %v, want %v", tt.raw, value, tt.wantValue)
			}
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		want   float64
		wantOK bool
	}{
		{name: "float64", value: float64(1.5), want: 1.5, wantOK: true},
		{name: "int", value: 42, want: 42, wantOK: true},
		{name: "int64", value: int64(-3), want: -3, wantOK: true},
		{name: "uint", value: uint(7), want: 7, wantOK: true},
		{name: "numeric string", value: " 650 ", want: 650, wantOK: true},
		{name: "non-numeric string", value: "abc", wantOK: false},
		{name: "nil", value: nil, wantOK: false},
		{name: "bool", value: true, wantOK: false},
		{name: "slice", value: []interface{}{1}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := coerceNumber(tt.value)
			if ok != tt.wantOK {
				t.Fatalf("coerceNumber(%v) ok = %v, want %v", tt.value, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("coerceNumber(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
