package engine

// FactContext is the evolving field-to-value state threaded through a graph
// evaluation. Values are the JSON primitives: string, float64, bool, nil,
// plus nested map[string]interface{} and []interface{}.
//
// A context belongs to exactly one evaluation and is never shared across
// concurrent calls, so no synchronization is needed. Nodes mutate it only by
// adding or overwriting fields.
type FactContext map[string]interface{}

// NewFactContext creates an empty fact context.
func NewFactContext() FactContext {
	return make(FactContext)
}

// Get returns the value bound to the field and whether the field is present.
// An absent field and a field explicitly bound to null are distinguishable
// here; expression matching treats both as the null candidate.
func (f FactContext) Get(field string) (interface{}, bool) {
	v, ok := f[field]
	return v, ok
}

// Set binds a field, overwriting any previous value.
func (f FactContext) Set(field string, value interface{}) {
	f[field] = value
}

// Merge copies every field of delta into the context, overwriting existing
// bindings. Later graph nodes overwrite earlier ones this way:
// last-writer-wins by traversal order.
func (f FactContext) Merge(delta FactContext) {
	for k, v := range delta {
		f[k] = v
	}
}

// Clone returns a shallow copy. Nested objects are shared; nodes treat
// values as immutable, so sharing is safe.
func (f FactContext) Clone() FactContext {
	out := make(FactContext, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
