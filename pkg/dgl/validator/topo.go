package validator

import "decisionhq/meridian/pkg/dgl/ast"

// topoSort computes a deterministic topological execution order over the
// graph's edges. Ties are broken by node declaration order, so the same
// document always yields the same traversal. If the edges contain a cycle it
// returns a nil order and the ids of the nodes that could not be ordered.
func topoSort(g *ast.Graph) (order []string, cycle []string) {
	indegree := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		indegree[n.ID] = 0
	}
	for _, e := range g.Edges {
		indegree[e.Target]++
	}

	placed := make(map[string]bool, len(g.Nodes))
	order = make([]string, 0, len(g.Nodes))

	// Repeatedly take the first unplaced zero-indegree node in declaration
	// order. Graphs are small (tens of nodes), so the quadratic scan is
	// cheaper than maintaining a priority structure.
	for len(order) < len(g.Nodes) {
		progress := false
		for _, n := range g.Nodes {
			if placed[n.ID] || indegree[n.ID] != 0 {
				continue
			}
			placed[n.ID] = true
			order = append(order, n.ID)
			for _, target := range g.Outbound(n.ID) {
				indegree[target]--
			}
			progress = true
			break
		}
		if !progress {
			for _, n := range g.Nodes {
				if !placed[n.ID] {
					cycle = append(cycle, n.ID)
				}
			}
			return nil, cycle
		}
	}

	return order, nil
}
