package errors

import (
	"fmt"
	"strings"
)

// ParseError reports a structurally invalid rule source: unreadable document,
// duplicate node id, missing terminal output, dangling edge, undeclared field
// reference, or a dependency cycle (see CycleError). It accumulates all
// problems found in the document.
type ParseError struct {
	// Path is the rule path of the offending source.
	Path string

	// Problems lists every validation failure found.
	Problems []string

	// Cause is the underlying error for syntax-level failures, if any.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("rule %q: invalid decision graph", e.Path))
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Cause))
	}
	if len(e.Problems) > 0 {
		sb.WriteString(fmt.Sprintf(" (%d problem(s))", len(e.Problems)))
		for _, p := range e.Problems {
			sb.WriteString("\n  - ")
			sb.WriteString(p)
		}
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a ParseError for the given rule path.
func NewParseError(path string, problems []string, cause error) *ParseError {
	return &ParseError{Path: path, Problems: problems, Cause: cause}
}

// CycleError reports a dependency cycle in a graph's edges. It unwraps to a
// ParseError so callers matching on the broader type catch it too.
type CycleError struct {
	// Path is the rule path of the offending source.
	Path string

	// Cycle holds the node ids that could not be topologically ordered.
	Cycle []string

	parse *ParseError
}

// NewCycleError creates a CycleError for the given rule path and cycle
// members.
func NewCycleError(path string, cycle []string) *CycleError {
	return &CycleError{
		Path:  path,
		Cycle: cycle,
		parse: &ParseError{
			Path:     path,
			Problems: []string{fmt.Sprintf("dependency cycle among nodes %v", cycle)},
		},
	}
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("rule %q: dependency cycle among nodes %v", e.Path, e.Cycle)
}

// Unwrap returns the ParseError this cycle error specializes.
func (e *CycleError) Unwrap() error {
	return e.parse
}
