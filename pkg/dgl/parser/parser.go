package parser

import (
	"encoding/json"
	"fmt"

	"decisionhq/meridian/pkg/dgl/ast"
	dglerrors "decisionhq/meridian/pkg/dgl/errors"
)

// Parser converts decision graph documents between JSON and the AST.
// A single Parser is safe for concurrent use.
type Parser struct{}

// New creates a new parser.
func New() *Parser {
	return &Parser{}
}

// Parse decodes a JSON graph document into the AST. The path identifies the
// rule source for error reporting; it is recorded on the returned graph.
//
// Parse performs syntax and content-shape checking only. Graph-level
// structural validation (duplicate ids, dangling edges, cycles, terminal
// output) belongs to the validator package and runs at cache-load time.
func (p *Parser) Parse(data []byte, path string) (*ast.Graph, error) {
	var doc graphDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, dglerrors.NewParseError(path, nil, fmt.Errorf("malformed JSON: %w", err))
	}

	var problems []string

	graph := &ast.Graph{
		Name:       doc.Name,
		Version:    doc.Version,
		SourcePath: path,
	}

	for i, nd := range doc.Nodes {
		node, errs := buildNode(nd, i)
		problems = append(problems, errs...)
		if node != nil {
			graph.Nodes = append(graph.Nodes, node)
		}
	}

	for i, ed := range doc.Edges {
		if ed.Source == "" || ed.Target == "" {
			problems = append(problems, fmt.Sprintf("edge %d: source and target are required", i))
			continue
		}
		graph.Edges = append(graph.Edges, ast.Edge{Source: ed.Source, Target: ed.Target})
	}

	if len(problems) > 0 {
		return nil, dglerrors.NewParseError(path, problems, nil)
	}

	return graph, nil
}

// buildNode converts one document node into an AST node, decoding and
// shape-checking its kind-specific content.
func buildNode(nd nodeDoc, index int) (*ast.Node, []string) {
	var problems []string

	if nd.ID == "" {
		problems = append(problems, fmt.Sprintf("node %d: id is required", index))
	}

	kind := ast.NodeKind(nd.Kind)
	if !kind.IsValid() {
		problems = append(problems, fmt.Sprintf("node %q: unknown kind %q", nd.ID, nd.Kind))
		return nil, problems
	}

	node := &ast.Node{
		ID:   nd.ID,
		Kind: kind,
		Name: nd.Name,
	}

	if len(nd.Content) == 0 {
		problems = append(problems, fmt.Sprintf("node %q: missing content for kind %s", nd.ID, kind))
		return nil, problems
	}

	var err error
	switch kind {
	case ast.KindInput:
		node.Input, err = decodeInput(nd.Content)
	case ast.KindDecisionTable:
		node.Table, err = decodeTable(nd.Content)
	case ast.KindFunction:
		node.Function, err = decodeFunction(nd.Content)
	case ast.KindSubgraph:
		node.Subgraph, err = decodeSubgraph(nd.Content)
	case ast.KindOutput:
		node.Output, err = decodeOutput(nd.Content)
	}
	if err != nil {
		problems = append(problems, fmt.Sprintf("node %q: %v", nd.ID, err))
		return nil, problems
	}

	return node, problems
}

func decodeInput(raw json.RawMessage) (*ast.InputContent, error) {
	var doc inputContentDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid INPUT content: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("INPUT content declares no fields")
	}

	content := &ast.InputContent{}
	for i, f := range doc.Fields {
		if f.Field == "" {
			return nil, fmt.Errorf("INPUT field %d: field name is required", i)
		}
		field := ast.InputField{Field: f.Field}
		if len(f.Default) > 0 {
			field.HasDefault = true
			if err := json.Unmarshal(f.Default, &field.Default); err != nil {
				return nil, fmt.Errorf("INPUT field %q: invalid default: %w", f.Field, err)
			}
		}
		content.Fields = append(content.Fields, field)
	}
	return content, nil
}

func decodeTable(raw json.RawMessage) (*ast.DecisionTable, error) {
	var doc tableContentDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid DECISION_TABLE content: %w", err)
	}

	policy := ast.HitPolicy(doc.HitPolicy)
	if !policy.IsValid() {
		return nil, fmt.Errorf("unknown hit policy %q", doc.HitPolicy)
	}
	if len(doc.Outputs) == 0 {
		return nil, fmt.Errorf("DECISION_TABLE declares no output columns")
	}

	table := &ast.DecisionTable{
		HitPolicy: policy,
		Mandatory: doc.Mandatory,
	}
	for i, c := range doc.Inputs {
		if c.ID == "" || c.Field == "" {
			return nil, fmt.Errorf("input column %d: id and field are required", i)
		}
		table.Inputs = append(table.Inputs, ast.Column{ID: c.ID, Field: c.Field})
	}
	for i, c := range doc.Outputs {
		if c.ID == "" || c.Field == "" {
			return nil, fmt.Errorf("output column %d: id and field are required", i)
		}
		table.Outputs = append(table.Outputs, ast.Column{ID: c.ID, Field: c.Field})
	}

	for i, r := range doc.Rows {
		for id := range r.Inputs {
			if table.InputColumn(id) == nil {
				return nil, fmt.Errorf("row %d references unknown input column %q", i, id)
			}
		}
		for id := range r.Outputs {
			if table.OutputColumn(id) == nil {
				return nil, fmt.Errorf("row %d references unknown output column %q", i, id)
			}
		}
		table.Rows = append(table.Rows, ast.Row{Inputs: r.Inputs, Outputs: r.Outputs})
	}

	return table, nil
}

func decodeFunction(raw json.RawMessage) (*ast.FunctionContent, error) {
	var doc functionContentDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid FUNCTION content: %w", err)
	}
	if len(doc.Assignments) == 0 {
		return nil, fmt.Errorf("FUNCTION content declares no assignments")
	}

	content := &ast.FunctionContent{}
	for i, a := range doc.Assignments {
		if a.Target == "" {
			return nil, fmt.Errorf("assignment %d: target is required", i)
		}
		op := ast.FunctionOp(a.Op)
		if !op.IsValid() {
			return nil, fmt.Errorf("assignment %q: unknown op %q", a.Target, a.Op)
		}
		if len(a.Operands) == 0 {
			return nil, fmt.Errorf("assignment %q: at least one operand is required", a.Target)
		}

		assignment := ast.Assignment{Target: a.Target, Op: op}
		for j, o := range a.Operands {
			switch {
			case o.Field != "" && len(o.Value) > 0:
				return nil, fmt.Errorf("assignment %q operand %d: field and value are mutually exclusive", a.Target, j)
			case o.Field != "":
				assignment.Operands = append(assignment.Operands, ast.Operand{Field: o.Field})
			case len(o.Value) > 0:
				operand := ast.Operand{IsLiteral: true}
				if err := json.Unmarshal(o.Value, &operand.Literal); err != nil {
					return nil, fmt.Errorf("assignment %q operand %d: invalid literal: %w", a.Target, j, err)
				}
				assignment.Operands = append(assignment.Operands, operand)
			default:
				return nil, fmt.Errorf("assignment %q operand %d: field or value is required", a.Target, j)
			}
		}
		content.Assignments = append(content.Assignments, assignment)
	}
	return content, nil
}

func decodeSubgraph(raw json.RawMessage) (*ast.SubgraphContent, error) {
	var doc subgraphContentDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid SUBGRAPH content: %w", err)
	}
	if doc.Ref == "" {
		return nil, fmt.Errorf("SUBGRAPH content requires a ref")
	}

	content := &ast.SubgraphContent{Ref: doc.Ref}
	for i, b := range doc.Inputs {
		if b.Outer == "" || b.Inner == "" {
			return nil, fmt.Errorf("input binding %d: outer and inner are required", i)
		}
		content.Inputs = append(content.Inputs, ast.Binding{Outer: b.Outer, Inner: b.Inner})
	}
	for i, b := range doc.Outputs {
		if b.Outer == "" || b.Inner == "" {
			return nil, fmt.Errorf("output binding %d: outer and inner are required", i)
		}
		content.Outputs = append(content.Outputs, ast.Binding{Outer: b.Outer, Inner: b.Inner})
	}
	return content, nil
}

func decodeOutput(raw json.RawMessage) (*ast.OutputContent, error) {
	var doc outputContentDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid OUTPUT content: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, fmt.Errorf("OUTPUT content declares no fields")
	}
	for i, f := range doc.Fields {
		if f == "" {
			return nil, fmt.Errorf("OUTPUT field %d: field name is required", i)
		}
	}
	return &ast.OutputContent{Fields: doc.Fields}, nil
}
