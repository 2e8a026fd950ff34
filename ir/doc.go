// Package ir provides the document tree that sits between the parser,
// the emitter and the binding pipeline.
//
// A Node is a recursive tagged union: null, bool, number, string,
// array or object. Scalars keep their resolved value plus a Quoted
// flag recording whether the input spelled them with quotes. Every
// node carries a Span locating it in the source text; spans are used
// only for diagnostics.
//
// Nodes are mutable. Seasoning hooks rewrite them in place, so a tree
// belongs to exactly one load or dump call and is never shared across
// goroutines. Clone a node if you need an independent copy.
//
// For ObjectType nodes, Fields[i] is the key for the value at
// Values[i], so there are always as many fields as values. Keys are
// string typed.
package ir
