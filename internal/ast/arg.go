package ast

import (
	"evergreen/internal/source"
)

type ArgKind uint8

const (
	ArgNumber ArgKind = iota + 1
	ArgString
	ArgIdent
	ArgCall
	// ArgNeg is a unary minus applied to Operand. Only the Dialect-L walker
	// produces it; Dialect-J literals keep their sign in Value.
	ArgNeg
	// ArgExpr is any other expression, kept as source text only.
	ArgExpr
)

func (k ArgKind) String() string {
	switch k {
	case ArgNumber:
		return "NumericLiteral"
	case ArgString:
		return "StringLiteral"
	case ArgIdent:
		return "Identifier"
	case ArgCall:
		return "CallExpression"
	case ArgNeg:
		return "UnaryMinus"
	case ArgExpr:
		return "Expression"
	}
	return "Unknown"
}

// Arg is one call argument. Source is always the verbatim argument text;
// for string literals it keeps the surrounding quotes.
type Arg struct {
	Kind    ArgKind
	Source  string
	Value   float64   // ArgNumber
	Name    string    // ArgIdent
	Call    *CallExpr // ArgCall
	Operand *Arg      // ArgNeg
	Loc     source.Span
}

func Number(src string, v float64) Arg {
	return Arg{Kind: ArgNumber, Source: src, Value: v}
}

func String(src string) Arg {
	return Arg{Kind: ArgString, Source: src}
}

func Ident(name string) Arg {
	return Arg{Kind: ArgIdent, Source: name, Name: name}
}

func Call(src string, c *CallExpr) Arg {
	return Arg{Kind: ArgCall, Source: src, Call: c}
}

func Neg(src string, operand Arg) Arg {
	return Arg{Kind: ArgNeg, Source: src, Operand: &operand}
}

// Sources returns the verbatim text of every argument.
func Sources(args []Arg) []string {
	out := make([]string, len(args))
	for i := range args {
		out[i] = args[i].Source
	}
	return out
}
