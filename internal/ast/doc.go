// Package ast holds Ember's syntax tree.
//
// Every node lives in a per-kind Arena owned by a Builder. A Builder is the
// allocation region of one pipeline invocation: the parser, the prelude
// loader and semantic analysis all allocate into the same Builder, and
// nothing derived from it may be kept after the invocation returns.
//
// Nodes are addressed by 1-based IDs; the zero ID of every kind means
// "absent". Kind-specific data sits in side arenas and is reached through the
// node's Payload.
package ast
