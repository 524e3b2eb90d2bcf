package ast

// NodeKind identifies the type of a decision graph node.
type NodeKind string

const (
	// KindInput seeds the fact context from caller-supplied facts.
	KindInput NodeKind = "INPUT"

	// KindDecisionTable evaluates a decision table against the fact context.
	KindDecisionTable NodeKind = "DECISION_TABLE"

	// KindFunction applies pure, declared transformations to context fields.
	KindFunction NodeKind = "FUNCTION"

	// KindSubgraph recursively evaluates a referenced nested graph.
	KindSubgraph NodeKind = "SUBGRAPH"

	// KindOutput selects the declared subset of context fields as the result.
	KindOutput NodeKind = "OUTPUT"
)

// ValidKinds lists every recognized node kind.
var ValidKinds = []NodeKind{
	KindInput,
	KindDecisionTable,
	KindFunction,
	KindSubgraph,
	KindOutput,
}

// IsValid returns true if the kind is one of the recognized node kinds.
func (k NodeKind) IsValid() bool {
	for _, v := range ValidKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Graph is the root AST node for a decision graph. Once parsed and validated
// it is treated as immutable: evaluations read it concurrently without locks.
type Graph struct {
	// Metadata
	Name    string // Graph name
	Version string // Graph version (editor-managed, opaque to the engine)

	// Content
	Nodes []*Node // Nodes in declaration order
	Edges []Edge  // Ordered data-dependency edges

	// SourcePath is the rule path this graph was loaded from.
	SourcePath string
}

// Edge is a directed data dependency between two nodes. Edges declare which
// node's outputs feed another node's inputs; execution order is derived from
// them via topological sort, they are not themselves an execution sequence.
type Edge struct {
	Source string // Source node id
	Target string // Target node id
}

// Node returns the node with the given id, or nil if not found.
func (g *Graph) Node(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NodesOfKind returns all nodes of the given kind in declaration order.
func (g *Graph) NodesOfKind(kind NodeKind) []*Node {
	var nodes []*Node
	for _, n := range g.Nodes {
		if n.Kind == kind {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Inbound returns the ids of nodes with an edge into the given node,
// in edge declaration order.
func (g *Graph) Inbound(id string) []string {
	var sources []string
	for _, e := range g.Edges {
		if e.Target == id {
			sources = append(sources, e.Source)
		}
	}
	return sources
}

// Outbound returns the ids of nodes the given node feeds,
// in edge declaration order.
func (g *Graph) Outbound(id string) []string {
	var targets []string
	for _, e := range g.Edges {
		if e.Source == id {
			targets = append(targets, e.Target)
		}
	}
	return targets
}

// TerminalOutput returns the single OUTPUT node with no outbound edges, or
// nil if the graph does not have exactly one. Validation guarantees a
// non-nil result for loaded graphs.
func (g *Graph) TerminalOutput() *Node {
	var terminal *Node
	for _, n := range g.NodesOfKind(KindOutput) {
		if len(g.Outbound(n.ID)) == 0 {
			if terminal != nil {
				return nil
			}
			terminal = n
		}
	}
	return terminal
}

// NodeCount returns the total number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}
