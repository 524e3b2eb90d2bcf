package validator

import (
	"fmt"

	"decisionhq/meridian/pkg/dgl/ast"
)

// checkFieldReferences verifies that every field a node reads as part of its
// declared result contract is produced somewhere in the graph. Table input
// columns are exempt: a missing fact is a legal null candidate at evaluation
// time, not a structural defect.
func checkFieldReferences(g *ast.Graph) []string {
	var problems []string

	produced := producedFields(g)

	for _, n := range g.Nodes {
		switch n.Kind {
		case ast.KindOutput:
			for _, f := range n.Output.Fields {
				if !produced[f] {
					problems = append(problems, fmt.Sprintf("node %q: OUTPUT selects undeclared field %q", n.ID, f))
				}
			}
		case ast.KindSubgraph:
			for _, b := range n.Subgraph.Inputs {
				if !produced[b.Outer] {
					problems = append(problems, fmt.Sprintf("node %q: SUBGRAPH input binding reads undeclared field %q", n.ID, b.Outer))
				}
			}
		case ast.KindFunction:
			for _, a := range n.Function.Assignments {
				for _, o := range a.Operands {
					if !o.IsLiteral && !produced[o.Field] {
						problems = append(problems, fmt.Sprintf("node %q: FUNCTION operand reads undeclared field %q", n.ID, o.Field))
					}
				}
			}
		}
	}

	return problems
}

// producedFields collects every field name some node can write into the
// evaluation context. Function targets count as produced for later
// assignments in the same node, which is why ordering within a node is not
// checked here.
func producedFields(g *ast.Graph) map[string]bool {
	produced := make(map[string]bool)
	for _, n := range g.Nodes {
		switch n.Kind {
		case ast.KindInput:
			for _, f := range n.Input.Fields {
				produced[f.Field] = true
			}
		case ast.KindDecisionTable:
			for _, c := range n.Table.Outputs {
				produced[c.Field] = true
			}
		case ast.KindFunction:
			for _, a := range n.Function.Assignments {
				produced[a.Target] = true
			}
		case ast.KindSubgraph:
			for _, b := range n.Subgraph.Outputs {
				produced[b.Outer] = true
			}
		}
	}
	return produced
}
