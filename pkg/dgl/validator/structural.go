package validator

import (
	"fmt"

	"decisionhq/meridian/pkg/dgl/ast"
)

// checkStructure validates node and edge integrity.
func checkStructure(g *ast.Graph) []string {
	var problems []string

	if len(g.Nodes) == 0 {
		return []string{"graph has no nodes"}
	}

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] {
			problems = append(problems, fmt.Sprintf("duplicate node id %q", n.ID))
			continue
		}
		seen[n.ID] = true

		if n.Content() == nil {
			problems = append(problems, fmt.Sprintf("node %q: no content for kind %s", n.ID, n.Kind))
		}
	}

	for i, e := range g.Edges {
		if !seen[e.Source] {
			problems = append(problems, fmt.Sprintf("edge %d references unknown source node %q", i, e.Source))
		}
		if !seen[e.Target] {
			problems = append(problems, fmt.Sprintf("edge %d references unknown target node %q", i, e.Target))
		}
		if e.Source == e.Target {
			problems = append(problems, fmt.Sprintf("edge %d: node %q depends on itself", i, e.Source))
		}
	}
	if len(problems) > 0 {
		// Inbound/terminal checks below assume wellformed edges.
		return problems
	}

	// Every non-INPUT node must be fed by at least one edge.
	for _, n := range g.Nodes {
		if n.Kind == ast.KindInput {
			continue
		}
		if len(g.Inbound(n.ID)) == 0 {
			problems = append(problems, fmt.Sprintf("node %q (%s) has no inbound edge", n.ID, n.Kind))
		}
	}

	// Exactly one terminal OUTPUT node, and every sink must be it: any leaf
	// path must end in the decision result.
	outputs := g.NodesOfKind(ast.KindOutput)
	if len(outputs) == 0 {
		problems = append(problems, "graph has no OUTPUT node")
	}
	var terminals []string
	for _, n := range g.Nodes {
		if len(g.Outbound(n.ID)) == 0 {
			terminals = append(terminals, n.ID)
			if n.Kind != ast.KindOutput {
				problems = append(problems, fmt.Sprintf("node %q (%s) is a dead end; every path must reach the OUTPUT node", n.ID, n.Kind))
			}
		}
	}
	if len(terminals) > 1 {
		problems = append(problems, fmt.Sprintf("graph has %d terminal nodes %v, want exactly one terminal OUTPUT", len(terminals), terminals))
	}

	return problems
}
