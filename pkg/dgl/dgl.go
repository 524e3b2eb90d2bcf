// Package dgl is the facade over the decision graph format: parsing,
// validation, and serialization in one call. The rule cache and the CLI lint
// command are the main consumers; code that needs finer control uses the
// parser and validator packages directly.
package dgl

import (
	"decisionhq/meridian/pkg/dgl/ast"
	"decisionhq/meridian/pkg/dgl/parser"
	"decisionhq/meridian/pkg/dgl/validator"
)

// ParseAndValidate parses a graph document and validates it, returning the
// graph together with its cached topological execution order.
func ParseAndValidate(data []byte, path string) (*ast.Graph, []string, error) {
	p := parser.New()
	graph, err := p.Parse(data, path)
	if err != nil {
		return nil, nil, err
	}

	v := validator.New()
	order, err := v.Validate(graph)
	if err != nil {
		return nil, nil, err
	}

	return graph, order, nil
}

// Parse parses a graph document without validation.
// Use this to inspect the AST of a document that may not be wellformed.
func Parse(data []byte, path string) (*ast.Graph, error) {
	return parser.New().Parse(data, path)
}

// Serialize encodes a graph back into the editor's JSON document format.
func Serialize(g *ast.Graph) ([]byte, error) {
	return parser.New().Serialize(g)
}
