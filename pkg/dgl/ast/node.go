package ast

// Node is a single decision graph node. It is a tagged union: Kind selects
// which of the content fields is populated, and the parser guarantees that
// exactly one is non-nil for the node's kind.
type Node struct {
	ID   string   // Unique node id within the graph
	Kind NodeKind // Node kind (tag)
	Name string   // Human-readable name from the editor

	// Kind-specific content; exactly one is set.
	Input    *InputContent    // KindInput
	Table    *DecisionTable   // KindDecisionTable
	Function *FunctionContent // KindFunction
	Subgraph *SubgraphContent // KindSubgraph
	Output   *OutputContent   // KindOutput
}

// Content returns the populated content field as an untyped value, or nil if
// the node carries no content for its kind.
func (n *Node) Content() interface{} {
	switch n.Kind {
	case KindInput:
		if n.Input != nil {
			return n.Input
		}
	case KindDecisionTable:
		if n.Table != nil {
			return n.Table
		}
	case KindFunction:
		if n.Function != nil {
			return n.Function
		}
	case KindSubgraph:
		if n.Subgraph != nil {
			return n.Subgraph
		}
	case KindOutput:
		if n.Output != nil {
			return n.Output
		}
	}
	return nil
}

// InputContent declares the fields an INPUT node seeds from the caller's
// facts. Fields not declared here never enter the evaluation context.
type InputContent struct {
	Fields []InputField
}

// InputField binds one caller-supplied fact to the evaluation context.
type InputField struct {
	// Field is the fact name.
	Field string

	// Default is applied when the caller's facts omit the field. A nil
	// default seeds the field as null.
	Default interface{}

	// HasDefault distinguishes "default: null" from no default at all.
	// Without a default a missing fact stays absent from the context.
	HasDefault bool
}

// FunctionContent declares the pure transformations a FUNCTION node applies.
// Functions add or overwrite fields; they must not branch. Conditional
// behavior belongs in decision tables.
type FunctionContent struct {
	Assignments []Assignment
}

// FunctionOp identifies a pure transformation applied by an Assignment.
type FunctionOp string

const (
	OpAdd       FunctionOp = "add"       // Numeric sum of all operands
	OpSubtract  FunctionOp = "subtract"  // First operand minus the rest
	OpMultiply  FunctionOp = "multiply"  // Numeric product of all operands
	OpDivide    FunctionOp = "divide"    // First operand divided by the rest
	OpConcat    FunctionOp = "concat"    // String concatenation of all operands
	OpUppercase FunctionOp = "uppercase" // Uppercase of the single operand
	OpLowercase FunctionOp = "lowercase" // Lowercase of the single operand
	OpCopy      FunctionOp = "copy"      // Value of the single operand
	OpCoalesce  FunctionOp = "coalesce"  // First non-null operand
)

// ValidOps lists every recognized function operation.
var ValidOps = []FunctionOp{
	OpAdd, OpSubtract, OpMultiply, OpDivide,
	OpConcat, OpUppercase, OpLowercase, OpCopy, OpCoalesce,
}

// IsValid returns true if the op is one of the recognized operations.
func (op FunctionOp) IsValid() bool {
	for _, v := range ValidOps {
		if op == v {
			return true
		}
	}
	return false
}

// Assignment computes one target field from operands. Evaluation order is
// declaration order; later assignments see earlier targets.
type Assignment struct {
	Target   string     // Field to write
	Op       FunctionOp // Transformation
	Operands []Operand  // Inputs to the transformation
}

// Operand is either a reference to a context field or an inline literal.
// Exactly one of Field or Literal is meaningful; IsLiteral selects which.
type Operand struct {
	Field     string
	Literal   interface{}
	IsLiteral bool
}

// SubgraphContent references a nested graph evaluated with a restricted view
// of the context: only declared input bindings are passed in, only declared
// output bindings are passed back. Undeclared fields never leak across the
// boundary in either direction.
type SubgraphContent struct {
	// Ref is the rule path of the nested graph.
	Ref string

	// Inputs map outer context fields to the nested graph's fact names.
	Inputs []Binding

	// Outputs map the nested graph's result fields back to outer fields.
	Outputs []Binding
}

// Binding maps a field name across the subgraph boundary.
type Binding struct {
	Outer string // Field name in the enclosing graph's context
	Inner string // Field name inside the nested graph
}

// OutputContent declares the subset of context fields an OUTPUT node selects
// as the final decision result.
type OutputContent struct {
	Fields []string
}
