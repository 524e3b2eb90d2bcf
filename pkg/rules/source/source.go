package source

import (
	"context"
	"errors"
)

// ErrNotFound indicates the rule path does not exist in the source.
var ErrNotFound = errors.New("rule not found")

// ErrInvalidPath indicates a rule path that escapes the source root or is
// otherwise malformed.
var ErrInvalidPath = errors.New("invalid rule path")

// Source provides rule content by path. Paths are slash-separated ids
// relative to the source root, e.g. "kyc/pan_eligibility_v1".
type Source interface {
	// Read returns the raw content of the rule at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns every rule path the source holds, sorted.
	List(ctx context.Context) ([]string, error)
}

// WritableSource is a source that also accepts rule updates. The rule
// management API requires one; a read-only deployment can serve evaluation
// traffic from a plain Source.
type WritableSource interface {
	Source

	// Write stores content at path, creating or replacing the rule.
	Write(ctx context.Context, path string, data []byte) error

	// Delete removes the rule at path. Deleting a missing rule returns
	// ErrNotFound.
	Delete(ctx context.Context, path string) error
}
