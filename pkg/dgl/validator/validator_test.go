package validator

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"decisionhq/meridian/pkg/dgl/ast"
	dglerrors "decisionhq/meridian/pkg/dgl/errors"
)

// linearGraph builds a valid INPUT -> FUNCTION -> OUTPUT graph that tests
// mutate to provoke specific failures.
func linearGraph() *ast.Graph {
	return &ast.Graph{
		Name:       "linear",
		SourcePath: "test/linear",
		Nodes: []*ast.Node{
			{
				ID: "in", Kind: ast.KindInput,
				Input: &ast.InputContent{Fields: []ast.InputField{{Field: "x"}}},
			},
			{
				ID: "double", Kind: ast.KindFunction,
				Function: &ast.FunctionContent{Assignments: []ast.Assignment{
					{Target: "y", Op: ast.OpMultiply, Operands: []ast.Operand{
						{Field: "x"},
						{IsLiteral: true, Literal: float64(2)},
					}},
				}},
			},
			{
				ID: "out", Kind: ast.KindOutput,
				Output: &ast.OutputContent{Fields: []string{"y"}},
			},
		},
		Edges: []ast.Edge{
			{Source: "in", Target: "double"},
			{Source: "double", Target: "out"},
		},
	}
}

func TestValidateReturnsTopoOrder(t *testing.T) {
	order, err := New().Validate(linearGraph())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"in", "double", "out"}) {
		t.Errorf("order = %v", order)
	}
}

func TestValidateStructuralProblems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *ast.Graph)
		want   string
	}{
		{
			"empty graph",
			func(g *ast.Graph) { g.Nodes = nil; g.Edges = nil },
			"no nodes",
		},
		{
			"duplicate node id",
			func(g *ast.Graph) { g.Nodes = append(g.Nodes, g.Nodes[0]) },
			"duplicate node id",
		},
		{
			"dangling edge source",
			func(g *ast.Graph) { g.Edges[0].Source = "ghost" },
			"unknown source node",
		},
		{
			"dangling edge target",
			func(g *ast.Graph) { g.Edges[1].Target = "ghost" },
			"unknown target node",
		},
		{
			"self edge",
			func(g *ast.Graph) { g.Edges = append(g.Edges, ast.Edge{Source: "double", Target: "double"}) },
			"depends on itself",
		},
		{
			"orphan node",
			func(g *ast.Graph) { g.Edges = g.Edges[1:] },
			"no inbound edge",
		},
		{
			"no output node",
			func(g *ast.Graph) {
				g.Nodes = g.Nodes[:2]
				g.Edges = g.Edges[:1]
			},
			"no OUTPUT node",
		},
		{
			"dead end before output",
			func(g *ast.Graph) {
				g.Nodes = append(g.Nodes, &ast.Node{
					ID: "stray", Kind: ast.KindFunction,
					Function: &ast.FunctionContent{Assignments: []ast.Assignment{
						{Target: "z", Op: ast.OpCopy, Operands: []ast.Operand{{Field: "x"}}},
					}},
				})
				g.Edges = append(g.Edges, ast.Edge{Source: "in", Target: "stray"})
			},
			"dead end",
		},
		{
			"missing content",
			func(g *ast.Graph) { g.Nodes[1].Function = nil },
			"no content",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := linearGraph()
			tt.mutate(g)

			_, err := New().Validate(g)

			var parseErr *dglerrors.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error = %T (%v), want *ParseError", err, err)
			}
			joined := strings.Join(parseErr.Problems, "\n")
			if !strings.Contains(joined, tt.want) {
				t.Errorf("problems missing %q:\n%s", tt.want, joined)
			}
		})
	}
}

func TestValidateFieldReferences(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *ast.Graph)
		want   string
	}{
		{
			"output selects unproduced field",
			func(g *ast.Graph) { g.Nodes[2].Output.Fields = []string{"y", "never_written"} },
			"OUTPUT selects undeclared field",
		},
		{
			"function reads unproduced field",
			func(g *ast.Graph) { g.Nodes[1].Function.Assignments[0].Operands[0].Field = "never_written" },
			"FUNCTION operand reads undeclared field",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := linearGraph()
			tt.mutate(g)

			_, err := New().Validate(g)

			var parseErr *dglerrors.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error = %T (%v), want *ParseError", err, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestValidateTableInputColumnsExempt(t *testing.T) {
	// A table may match on facts nothing in the graph produces: a missing
	// fact is a legal null candidate at evaluation time.
	g := linearGraph()
	g.Nodes[1] = &ast.Node{
		ID: "double", Kind: ast.KindDecisionTable,
		Table: &ast.DecisionTable{
			HitPolicy: ast.HitPolicyFirst,
			Inputs:    []ast.Column{{ID: "c_ext", Field: "external_flag"}},
			Outputs:   []ast.Column{{ID: "c_y", Field: "y"}},
			Rows: []ast.Row{
				{Inputs: map[string]string{"c_ext": "true"}, Outputs: map[string]string{"c_y": "1"}},
				{Inputs: map[string]string{}, Outputs: map[string]string{"c_y": "0"}},
			},
		},
	}

	if _, err := New().Validate(g); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateCycle(t *testing.T) {
	g := linearGraph()
	g.Nodes = append(g.Nodes, &ast.Node{
		ID: "loop", Kind: ast.KindFunction,
		Function: &ast.FunctionContent{Assignments: []ast.Assignment{
			{Target: "w", Op: ast.OpCopy, Operands: []ast.Operand{{Field: "y"}}},
		}},
	})
	// double -> loop -> double forms a cycle that still reaches the output.
	g.Edges = append(g.Edges,
		ast.Edge{Source: "double", Target: "loop"},
		ast.Edge{Source: "loop", Target: "double"},
	)

	_, err := New().Validate(g)

	var cycleErr *dglerrors.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("error = %T (%v), want *CycleError", err, err)
	}
	if len(cycleErr.Cycle) == 0 {
		t.Error("cycle members not reported")
	}
}

func TestValidateDiamondTopoOrder(t *testing.T) {
	// in -> a, in -> b, a -> out, b -> out: both orders of a and b are
	// legal, but in must come first and out last.
	g := &ast.Graph{
		Name:       "diamond",
		SourcePath: "test/diamond",
		Nodes: []*ast.Node{
			{ID: "in", Kind: ast.KindInput, Input: &ast.InputContent{Fields: []ast.InputField{{Field: "x"}}}},
			{ID: "a", Kind: ast.KindFunction, Function: &ast.FunctionContent{Assignments: []ast.Assignment{
				{Target: "p", Op: ast.OpCopy, Operands: []ast.Operand{{Field: "x"}}},
			}}},
			{ID: "b", Kind: ast.KindFunction, Function: &ast.FunctionContent{Assignments: []ast.Assignment{
				{Target: "q", Op: ast.OpCopy, Operands: []ast.Operand{{Field: "x"}}},
			}}},
			{ID: "out", Kind: ast.KindOutput, Output: &ast.OutputContent{Fields: []string{"p", "q"}}},
		},
		Edges: []ast.Edge{
			{Source: "in", Target: "a"},
			{Source: "in", Target: "b"},
			{Source: "a", Target: "out"},
			{Source: "b", Target: "out"},
		},
	}

	order, err := New().Validate(g)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(order) != 4 || order[0] != "in" || order[3] != "out" {
		t.Errorf("order = %v", order)
	}
}
