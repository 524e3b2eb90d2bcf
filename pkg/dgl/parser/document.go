package parser

import "encoding/json"

// graphDoc is the intermediate structure for the on-disk JSON document.
// It matches the editor's format before transformation to the AST.
type graphDoc struct {
	Name    string    `json:"name"`
	Version string    `json:"version,omitempty"`
	Nodes   []nodeDoc `json:"nodes"`
	Edges   []edgeDoc `json:"edges"`
}

// nodeDoc is the intermediate node structure. Content stays raw until the
// node kind is known.
type nodeDoc struct {
	ID      string          `json:"id"`
	Kind    string          `json:"kind"`
	Name    string          `json:"name,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

type edgeDoc struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// inputContentDoc matches the content of an INPUT node.
type inputContentDoc struct {
	Fields []inputFieldDoc `json:"fields"`
}

// inputFieldDoc keeps the default as a raw message so that an explicit
// "default": null is distinguishable from no default at all.
type inputFieldDoc struct {
	Field   string          `json:"field"`
	Default json.RawMessage `json:"default,omitempty"`
}

// tableContentDoc matches the content of a DECISION_TABLE node.
type tableContentDoc struct {
	HitPolicy string      `json:"hitPolicy"`
	Mandatory bool        `json:"mandatory,omitempty"`
	Inputs    []columnDoc `json:"inputs"`
	Outputs   []columnDoc `json:"outputs"`
	Rows      []rowDoc    `json:"rows"`
}

type columnDoc struct {
	ID    string `json:"id"`
	Field string `json:"field"`
}

type rowDoc struct {
	Inputs  map[string]string `json:"inputs,omitempty"`
	Outputs map[string]string `json:"outputs,omitempty"`
}

// functionContentDoc matches the content of a FUNCTION node.
type functionContentDoc struct {
	Assignments []assignmentDoc `json:"assignments"`
}

type assignmentDoc struct {
	Target   string       `json:"target"`
	Op       string       `json:"op"`
	Operands []operandDoc `json:"operands"`
}

// operandDoc is either a field reference or an inline literal. The raw value
// keeps "value": null distinguishable from a field reference.
type operandDoc struct {
	Field string          `json:"field,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// subgraphContentDoc matches the content of a SUBGRAPH node.
type subgraphContentDoc struct {
	Ref     string       `json:"ref"`
	Inputs  []bindingDoc `json:"inputs,omitempty"`
	Outputs []bindingDoc `json:"outputs,omitempty"`
}

type bindingDoc struct {
	Outer string `json:"outer"`
	Inner string `json:"inner"`
}

// outputContentDoc matches the content of an OUTPUT node.
type outputContentDoc struct {
	Fields []string `json:"fields"`
}
