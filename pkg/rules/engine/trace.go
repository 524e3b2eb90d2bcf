package engine

import (
	"time"

	"decisionhq/meridian/pkg/dgl/ast"
)

// Trace records which nodes and rows fired during an evaluation. Its format
// is stable: together with the input fact snapshot and the rule fingerprint
// it is sufficient to reconstruct why a decision was made, and the audit
// boundary persists it verbatim.
type Trace struct {
	Entries []NodeTrace `json:"entries"`
}

// NodeTrace is one node's execution record.
type NodeTrace struct {
	// NodeID is the graph node id. Nodes executed inside a subgraph are
	// recorded as "<subgraph id>/<inner id>".
	NodeID string `json:"node_id"`

	// Kind is the node kind.
	Kind ast.NodeKind `json:"kind"`

	// HitRows lists the matching row indices for DECISION_TABLE nodes.
	// Under FIRST it has at most one element; under COLLECT and RULE_ORDER
	// it lists every hit in row order. Empty for other kinds.
	HitRows []int `json:"hit_rows,omitempty"`

	// Elapsed is the node's evaluation time.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Add appends a node entry and returns its index.
func (t *Trace) Add(entry NodeTrace) int {
	t.Entries = append(t.Entries, entry)
	return len(t.Entries) - 1
}

// Append merges a nested trace, prefixing every entry's node id with the
// enclosing subgraph node id.
func (t *Trace) Append(prefix string, nested *Trace) {
	for _, e := range nested.Entries {
		e.NodeID = prefix + "/" + e.NodeID
		t.Entries = append(t.Entries, e)
	}
}

// TableHits returns the hit rows recorded for the given node id, and whether
// the node appears in the trace at all.
func (t *Trace) TableHits(nodeID string) ([]int, bool) {
	for _, e := range t.Entries {
		if e.NodeID == nodeID && e.Kind == ast.KindDecisionTable {
			return e.HitRows, true
		}
	}
	return nil, false
}
