package ast

// HitPolicy governs how multiple matching rows in a decision table combine
// into a result.
type HitPolicy string

const (
	// HitPolicyFirst stops at the first matching row and applies its outputs.
	HitPolicyFirst HitPolicy = "FIRST"

	// HitPolicyCollect evaluates every row and accumulates each hit's outputs
	// into per-field sequences.
	HitPolicyCollect HitPolicy = "COLLECT"

	// HitPolicyRuleOrder applies the first hit's outputs like FIRST but
	// records every hit row in the trace for diagnostics.
	HitPolicyRuleOrder HitPolicy = "RULE_ORDER"
)

// ValidHitPolicies lists every recognized hit policy.
var ValidHitPolicies = []HitPolicy{
	HitPolicyFirst,
	HitPolicyCollect,
	HitPolicyRuleOrder,
}

// IsValid returns true if the policy is one of the recognized hit policies.
func (p HitPolicy) IsValid() bool {
	for _, v := range ValidHitPolicies {
		if p == v {
			return true
		}
	}
	return false
}

// DecisionTable is the content of a DECISION_TABLE node. Row order is part of
// the table's identity: under FIRST, reordering rows changes behavior, and
// the evaluator never reorders rows on specificity or any other heuristic.
type DecisionTable struct {
	HitPolicy HitPolicy

	// Mandatory tables fail the evaluation when no row hits. Non-mandatory
	// tables yield an empty output delta instead.
	Mandatory bool

	// Inputs and Outputs bind column ids to fact context field names,
	// in declared column order.
	Inputs  []Column
	Outputs []Column

	// Rows in source order.
	Rows []Row
}

// Column binds a table column id to a fact context field name.
type Column struct {
	ID    string // Column id referenced by row cells
	Field string // Fact context field the column reads or writes
}

// Row maps column ids to raw cell strings. Input cells hold match
// expressions; output cells hold literals. A column id absent from a row's
// map means "don't care" for inputs and "no emission" for outputs.
type Row struct {
	Inputs  map[string]string
	Outputs map[string]string
}

// InputColumn returns the input column with the given id, or nil.
func (t *DecisionTable) InputColumn(id string) *Column {
	for i := range t.Inputs {
		if t.Inputs[i].ID == id {
			return &t.Inputs[i]
		}
	}
	return nil
}

// OutputColumn returns the output column with the given id, or nil.
func (t *DecisionTable) OutputColumn(id string) *Column {
	for i := range t.Outputs {
		if t.Outputs[i].ID == id {
			return &t.Outputs[i]
		}
	}
	return nil
}

// RowCount returns the number of rows in the table.
func (t *DecisionTable) RowCount() int {
	return len(t.Rows)
}
