package ast

import (
	"testing"

	"evergreen/internal/dialect"
)

func TestNodeKinds(t *testing.T) {
	nodes := []Node{
		&FuncDecl{Name: "CreateAllUnits", Dialect: dialect.Lua},
		&CallExpr{Callee: "SetPlayers"},
		&AssignStmt{Target: "gg_rct_Center"},
	}
	want := []NodeKind{NodeFuncDecl, NodeCall, NodeAssign}
	for i, n := range nodes {
		if n.Kind() != want[i] {
			t.Fatalf("node %d kind = %v, want %v", i, n.Kind(), want[i])
		}
	}
	if !nodes[0].(*FuncDecl).NeedsTranspile() {
		t.Fatalf("Lua function should need transpiling")
	}
}

func TestCallArgBounds(t *testing.T) {
	c := &CallExpr{Callee: "SetTeams", Args: []Arg{Number("2", 2)}}
	if a, ok := c.Arg(0); !ok || a.Value != 2 {
		t.Fatalf("Arg(0) = %+v, %v", a, ok)
	}
	if _, ok := c.Arg(1); ok {
		t.Fatalf("Arg(1) should be missing")
	}
	var nilCall *CallExpr
	if _, ok := nilCall.Arg(0); ok {
		t.Fatalf("nil call has no args")
	}
}

func TestSources(t *testing.T) {
	args := []Arg{String(`"LordaeronSummerDay"`), Ident("bj_MAX_PLAYERS"), Neg("-3", Number("3", 3))}
	got := Sources(args)
	want := []string{`"LordaeronSummerDay"`, "bj_MAX_PLAYERS", "-3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sources[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
