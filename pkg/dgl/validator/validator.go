package validator

import (
	"decisionhq/meridian/pkg/dgl/ast"
	dglerrors "decisionhq/meridian/pkg/dgl/errors"
)

// Validator checks graph invariants that the parser cannot: structural
// integrity, field references, and acyclicity. A single Validator is safe
// for concurrent use.
type Validator struct{}

// New creates a new validator.
func New() *Validator {
	return &Validator{}
}

// Validate checks the graph and returns its topological execution order.
// On failure it returns a *dglerrors.ParseError (or *dglerrors.CycleError
// for dependency cycles) and a nil order. A graph that fails validation must
// not be evaluated or cached.
func (v *Validator) Validate(g *ast.Graph) ([]string, error) {
	if problems := checkStructure(g); len(problems) > 0 {
		return nil, dglerrors.NewParseError(g.SourcePath, problems, nil)
	}

	if problems := checkFieldReferences(g); len(problems) > 0 {
		return nil, dglerrors.NewParseError(g.SourcePath, problems, nil)
	}

	order, cycle := topoSort(g)
	if cycle != nil {
		return nil, dglerrors.NewCycleError(g.SourcePath, cycle)
	}

	return order, nil
}
