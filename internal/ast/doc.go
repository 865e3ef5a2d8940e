// Package ast defines the node stream produced by both mini-parsers.
//
// There are only three node shapes: function declarations captured from an
// allow-list, call expressions, and assignment statements. A node stream is
// not a syntax tree; nodes are emitted in source order and may overlap (a
// `set x = f()` line yields both a CallExpr and an AssignStmt wrapping it).
package ast
