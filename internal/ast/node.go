package ast

import (
	"evergreen/internal/dialect"
	"evergreen/internal/source"
)

type NodeKind uint8

const (
	NodeFuncDecl NodeKind = iota + 1
	NodeCall
	NodeAssign
)

func (k NodeKind) String() string {
	switch k {
	case NodeFuncDecl:
		return "FunctionDeclaration"
	case NodeCall:
		return "CallExpression"
	case NodeAssign:
		return "AssignmentStatement"
	}
	return "Unknown"
}

// Node is one element of the stream. The concrete types are *FuncDecl,
// *CallExpr and *AssignStmt.
type Node interface {
	Kind() NodeKind
	Span() source.Span
}

// FuncDecl is a captured function. Dialect tells how Source must be treated:
// Jass bodies are spliced almost verbatim (declaration line through
// "endfunction"), Lua bodies are the exact source range of the function and
// go through the transpiler first.
type FuncDecl struct {
	Name    string
	Dialect dialect.Kind
	Source  string
	Loc     source.Span
}

func (*FuncDecl) Kind() NodeKind { return NodeFuncDecl }
func (n *FuncDecl) Span() source.Span { return n.Loc }

// NeedsTranspile reports whether Source is Dialect-L text.
func (n *FuncDecl) NeedsTranspile() bool {
	return n.Dialect == dialect.Lua
}

// CallExpr is a call to a plain identifier.
type CallExpr struct {
	Callee string
	Args   []Arg
	Loc    source.Span
}

func (*CallExpr) Kind() NodeKind { return NodeCall }
func (n *CallExpr) Span() source.Span { return n.Loc }

// Arg returns the i-th argument, or false when the call has fewer.
func (n *CallExpr) Arg(i int) (Arg, bool) {
	if n == nil || i < 0 || i >= len(n.Args) {
		return Arg{}, false
	}
	return n.Args[i], true
}

// AssignStmt assigns to Target (optionally indexed). Init is set when the
// right-hand side is a recognised call; Value when it is a bare literal.
type AssignStmt struct {
	Target string
	Index  string // "" when not indexed
	Init   *CallExpr
	Value  *Arg
	Loc    source.Span
}

func (*AssignStmt) Kind() NodeKind { return NodeAssign }
func (n *AssignStmt) Span() source.Span { return n.Loc }

func (n *AssignStmt) Indexed() bool {
	return n.Index != ""
}
