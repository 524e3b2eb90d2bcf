package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"decisionhq/meridian/pkg/dgl/ast"
	dglerrors "decisionhq/meridian/pkg/dgl/errors"
)

// fullDoc exercises every node kind the format supports.
const fullDoc = `{
	"name": "loan_scoring",
	"version": "3",
	"nodes": [
		{
			"id": "input", "kind": "INPUT",
			"content": {"fields": [
				{"field": "income"},
				{"field": "existing_emi", "default": 0},
				{"field": "segment", "default": null}
			]}
		},
		{
			"id": "derive", "kind": "FUNCTION",
			"content": {"assignments": [
				{"target": "disposable", "op": "subtract", "operands": [{"field": "income"}, {"field": "existing_emi"}]},
				{"target": "band", "op": "coalesce", "operands": [{"field": "segment"}, {"value": "RETAIL"}]}
			]}
		},
		{
			"id": "score", "kind": "DECISION_TABLE",
			"content": {
				"hitPolicy": "FIRST",
				"inputs": [{"id": "c_disp", "field": "disposable"}],
				"outputs": [{"id": "c_grade", "field": "grade"}],
				"rows": [
					{"inputs": {"c_disp": ">= 50000"}, "outputs": {"c_grade": "\"A\""}},
					{"inputs": {"c_disp": "< 50000"}, "outputs": {"c_grade": "\"B\""}}
				]
			}
		},
		{
			"id": "fraud", "kind": "SUBGRAPH",
			"content": {
				"ref": "fraud/velocity_v2",
				"inputs": [{"outer": "income", "inner": "declared_income"}],
				"outputs": [{"outer": "fraud_flag", "inner": "flag"}]
			}
		},
		{
			"id": "output", "kind": "OUTPUT",
			"content": {"fields": ["grade", "band", "fraud_flag"]}
		}
	],
	"edges": [
		{"source": "input", "target": "derive"},
		{"source": "derive", "target": "score"},
		{"source": "score", "target": "fraud"},
		{"source": "fraud", "target": "output"}
	]
}`

func TestParseFullDocument(t *testing.T) {
	g, err := New().Parse([]byte(fullDoc), "loan/scoring_v3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if g.Name != "loan_scoring" || g.Version != "3" {
		t.Errorf("name/version = %q/%q", g.Name, g.Version)
	}
	if g.SourcePath != "loan/scoring_v3" {
		t.Errorf("source path = %q", g.SourcePath)
	}
	if len(g.Nodes) != 5 || len(g.Edges) != 4 {
		t.Fatalf("nodes/edges = %d/%d", len(g.Nodes), len(g.Edges))
	}

	input := g.Nodes[0]
	if input.Kind != ast.KindInput || len(input.Input.Fields) != 3 {
		t.Fatalf("input node = %+v", input)
	}
	// "default": 0 and "default": null both count as defaults; a missing
	// key does not.
	if input.Input.Fields[0].HasDefault {
		t.Error("field without default reports HasDefault")
	}
	if !input.Input.Fields[1].HasDefault || input.Input.Fields[1].Default != float64(0) {
		t.Errorf("numeric default = %+v", input.Input.Fields[1])
	}
	if !input.Input.Fields[2].HasDefault || input.Input.Fields[2].Default != nil {
		t.Errorf("explicit null default = %+v", input.Input.Fields[2])
	}

	fn := g.Nodes[1]
	if fn.Kind != ast.KindFunction || len(fn.Function.Assignments) != 2 {
		t.Fatalf("function node = %+v", fn)
	}
	coalesce := fn.Function.Assignments[1]
	if coalesce.Op != ast.OpCoalesce {
		t.Errorf("op = %q", coalesce.Op)
	}
	if !coalesce.Operands[1].IsLiteral || coalesce.Operands[1].Literal != "RETAIL" {
		t.Errorf("literal operand = %+v", coalesce.Operands[1])
	}

	table := g.Nodes[2].Table
	if table.HitPolicy != ast.HitPolicyFirst || len(table.Rows) != 2 {
		t.Fatalf("table = %+v", table)
	}
	if table.Rows[0].Inputs["c_disp"] != ">= 50000" {
		t.Errorf("cell = %q", table.Rows[0].Inputs["c_disp"])
	}

	sub := g.Nodes[3].Subgraph
	if sub.Ref != "fraud/velocity_v2" || len(sub.Inputs) != 1 || len(sub.Outputs) != 1 {
		t.Fatalf("subgraph = %+v", sub)
	}

	if !reflect.DeepEqual(g.Nodes[4].Output.Fields, []string{"grade", "band", "fraud_flag"}) {
		t.Errorf("output fields = %v", g.Nodes[4].Output.Fields)
	}
}

func TestParseMalformedJSON(t *testing.T) {
	_, err := New().Parse([]byte(`{"name":`), "bad")

	var parseErr *dglerrors.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %T, want *ParseError", err)
	}
	if parseErr.Path != "bad" {
		t.Errorf("path = %q", parseErr.Path)
	}
}

func TestParseAccumulatesProblems(t *testing.T) {
	doc := `{
		"name": "broken",
		"nodes": [
			{"id": "", "kind": "INPUT", "content": {"fields": [{"field": "x"}]}},
			{"id": "mystery", "kind": "LOOKUP", "content": {}},
			{"id": "empty_table", "kind": "DECISION_TABLE", "content": {"hitPolicy": "FIRST", "inputs": [], "outputs": [], "rows": []}}
		],
		"edges": [{"source": "a", "target": ""}]
	}`

	_, err := New().Parse([]byte(doc), "broken")

	var parseErr *dglerrors.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %T, want *ParseError", err)
	}
	if len(parseErr.Problems) < 4 {
		t.Fatalf("problems = %v, want all four reported", parseErr.Problems)
	}
	joined := strings.Join(parseErr.Problems, "\n")
	for _, want := range []string{"id is required", "unknown kind", "no output columns", "source and target"} {
		if !strings.Contains(joined, want) {
			t.Errorf("problems missing %q:\n%s", want, joined)
		}
	}
}

func TestParseRejectsBadContent(t *testing.T) {
	tests := []struct {
		name string
		node string
		want string
	}{
		{
			"row references unknown column",
			`{"id": "t", "kind": "DECISION_TABLE", "content": {"hitPolicy": "FIRST", "inputs": [{"id": "a", "field": "x"}], "outputs": [{"id": "b", "field": "y"}], "rows": [{"inputs": {"nope": "1"}, "outputs": {}}]}}`,
			"unknown input column",
		},
		{
			"unknown hit policy",
			`{"id": "t", "kind": "DECISION_TABLE", "content": {"hitPolicy": "ANY", "outputs": [{"id": "b", "field": "y"}], "rows": []}}`,
			"unknown hit policy",
		},
		{
			"operand with field and value",
			`{"id": "f", "kind": "FUNCTION", "content": {"assignments": [{"target": "y", "op": "copy", "operands": [{"field": "x", "value": 1}]}]}}`,
			"mutually exclusive",
		},
		{
			"subgraph without ref",
			`{"id": "s", "kind": "SUBGRAPH", "content": {"inputs": []}}`,
			"requires a ref",
		},
		{
			"empty output fields",
			`{"id": "o", "kind": "OUTPUT", "content": {"fields": []}}`,
			"no fields",
		},
		{
			"missing content",
			`{"id": "i", "kind": "INPUT"}`,
			"missing content",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"name": "x", "nodes": [` + tt.node + `], "edges": []}`
			_, err := New().Parse([]byte(doc), "x")
			if err == nil {
				t.Fatal("bad content accepted")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	p := New()
	original, err := p.Parse([]byte(fullDoc), "loan/scoring_v3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	data, err := p.Serialize(original)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	reparsed, err := p.Parse(data, "loan/scoring_v3")
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(original, reparsed) {
		t.Error("serialize/parse round trip changed the graph")
	}
}
