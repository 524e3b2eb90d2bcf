package parser

import (
	"encoding/json"
	"fmt"

	"decisionhq/meridian/pkg/dgl/ast"
)

// Serialize encodes a graph back into the editor's JSON document format.
// Parsing the returned bytes yields a graph equivalent to the input, so
// load and save round-trip without loss.
func (p *Parser) Serialize(g *ast.Graph) ([]byte, error) {
	doc := graphDoc{
		Name:    g.Name,
		Version: g.Version,
	}

	for _, n := range g.Nodes {
		nd, err := serializeNode(n)
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, nd)
	}

	for _, e := range g.Edges {
		doc.Edges = append(doc.Edges, edgeDoc{Source: e.Source, Target: e.Target})
	}

	return json.MarshalIndent(doc, "", "  ")
}

func serializeNode(n *ast.Node) (nodeDoc, error) {
	nd := nodeDoc{
		ID:   n.ID,
		Kind: string(n.Kind),
		Name: n.Name,
	}

	var content interface{}
	switch n.Kind {
	case ast.KindInput:
		content = serializeInput(n.Input)
	case ast.KindDecisionTable:
		content = serializeTable(n.Table)
	case ast.KindFunction:
		content = serializeFunction(n.Function)
	case ast.KindSubgraph:
		content = serializeSubgraph(n.Subgraph)
	case ast.KindOutput:
		content = outputContentDoc{Fields: n.Output.Fields}
	default:
		return nd, fmt.Errorf("node %q: unknown kind %q", n.ID, n.Kind)
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return nd, fmt.Errorf("node %q: %w", n.ID, err)
	}
	nd.Content = raw
	return nd, nil
}

func serializeInput(c *ast.InputContent) inputContentDoc {
	doc := inputContentDoc{}
	for _, f := range c.Fields {
		fd := inputFieldDoc{Field: f.Field}
		if f.HasDefault {
			// Marshal of any JSON value, including nil, cannot fail.
			fd.Default, _ = json.Marshal(f.Default)
		}
		doc.Fields = append(doc.Fields, fd)
	}
	return doc
}

func serializeTable(t *ast.DecisionTable) tableContentDoc {
	doc := tableContentDoc{
		HitPolicy: string(t.HitPolicy),
		Mandatory: t.Mandatory,
	}
	for _, c := range t.Inputs {
		doc.Inputs = append(doc.Inputs, columnDoc{ID: c.ID, Field: c.Field})
	}
	for _, c := range t.Outputs {
		doc.Outputs = append(doc.Outputs, columnDoc{ID: c.ID, Field: c.Field})
	}
	for _, r := range t.Rows {
		doc.Rows = append(doc.Rows, rowDoc{Inputs: r.Inputs, Outputs: r.Outputs})
	}
	return doc
}

func serializeFunction(c *ast.FunctionContent) functionContentDoc {
	doc := functionContentDoc{}
	for _, a := range c.Assignments {
		ad := assignmentDoc{Target: a.Target, Op: string(a.Op)}
		for _, o := range a.Operands {
			if o.IsLiteral {
				raw, _ := json.Marshal(o.Literal)
				ad.Operands = append(ad.Operands, operandDoc{Value: raw})
			} else {
				ad.Operands = append(ad.Operands, operandDoc{Field: o.Field})
			}
		}
		doc.Assignments = append(doc.Assignments, ad)
	}
	return doc
}

func serializeSubgraph(c *ast.SubgraphContent) subgraphContentDoc {
	doc := subgraphContentDoc{Ref: c.Ref}
	for _, b := range c.Inputs {
		doc.Inputs = append(doc.Inputs, bindingDoc{Outer: b.Outer, Inner: b.Inner})
	}
	for _, b := range c.Outputs {
		doc.Outputs = append(doc.Outputs, bindingDoc{Outer: b.Outer, Inner: b.Inner})
	}
	return doc
}
