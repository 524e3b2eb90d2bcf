// Package errors provides typed errors for decision graph parsing and
// validation.
//
// Load-time failures are reported through ParseError, which carries every
// problem found in a source document rather than just the first. A graph
// either fully loads or fully fails: a structurally invalid document never
// partially parses and silently serves incomplete behavior.
//
// CycleError is a subtype of ParseError: errors.As(err, **ParseError)
// matches it through unwrapping.
package errors
