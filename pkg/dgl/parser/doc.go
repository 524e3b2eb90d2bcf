// Package parser converts decision graph JSON documents to and from the AST.
//
// The wire format is the structured document produced by the visual graph
// editor: a JSON object with "nodes" and "edges" arrays, where each node
// carries kind-specific "content". Node content is decoded and shape-checked
// once here, at parse time; downstream consumers never re-validate it.
//
// Serialize is the inverse of Parse: a graph loaded from a document and
// serialized again yields an equivalent document, which keeps saved rules
// compatible with the editor.
package parser
