package parser

import (
	"errors"
	"strings"
	"testing"

	"evergreen/internal/ast"
	"evergreen/internal/diag"
	"evergreen/internal/dialect"
)

const jassModule = "function CreateRegions takes nothing returns nothing\r\n" +
	"    set gg_rct_R1 = Rect( -128.0, -128.0, 128.0, 128.0 )\r\n" +
	"endfunction\r\n" +
	"function main takes nothing returns nothing\r\n" +
	"    call SetCameraBounds( -1.0 + GetCameraMargin(CAMERA_MARGIN_LEFT), 2.0 )\r\n" +
	"    call SetPlayerSlotAvailable( Player(3), MAP_CONTROL_USER )\r\n" +
	"    set x = ( 1 + 2 )\r\n" +
	"endfunction\r\n"

func kinds(nodes []ast.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind().String()
	}
	return out
}

func TestJassCaptureAndResidual(t *testing.T) {
	bag := diag.NewBag(0)
	p, err := For(dialect.Jass, Options{Reporter: diag.NewBagReporter(bag)})
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	nodes, residual, err := Collect(p, jassModule)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"CallExpression", "AssignmentStatement", "FunctionDeclaration", "CallExpression", "CallExpression"}
	if got := kinds(nodes); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("node kinds = %v, want %v", got, want)
	}
	fn := nodes[2].(*ast.FuncDecl)
	if fn.Name != "CreateRegions" || fn.NeedsTranspile() {
		t.Fatalf("unexpected decl %+v", fn)
	}
	if !strings.HasPrefix(fn.Source, "function CreateRegions") || !strings.HasSuffix(fn.Source, "\r\nendfunction") {
		t.Fatalf("body = %q", fn.Source)
	}
	if strings.Contains(residual, "CreateRegions") {
		t.Fatalf("captured function left in residual:\n%s", residual)
	}
	if !strings.HasPrefix(residual, "function main takes nothing returns nothing\r\n") {
		t.Fatalf("residual = %q", residual)
	}
	if got := bag.Count(diag.PrsRecognitionGap); got != 1 {
		t.Fatalf("gaps = %d, want 1", got)
	}
}

func TestJassArguments(t *testing.T) {
	nodes, _, _ := Collect(&Jass{}, jassModule)

	rect := nodes[0].(*ast.CallExpr)
	if rect.Callee != "Rect" || len(rect.Args) != 4 {
		t.Fatalf("rect = %+v", rect)
	}
	if a, _ := rect.Arg(0); a.Kind != ast.ArgNumber || a.Value != -128 {
		t.Fatalf("arg0 = %+v", a)
	}
	assign := nodes[1].(*ast.AssignStmt)
	if assign.Target != "gg_rct_R1" || assign.Init != rect {
		t.Fatalf("assign = %+v", assign)
	}

	camera := nodes[3].(*ast.CallExpr)
	if got := ast.Sources(camera.Args); len(got) != 2 || got[0] != "-1.0 + GetCameraMargin(CAMERA_MARGIN_LEFT)" {
		t.Fatalf("camera args = %q", got)
	}
	if a, _ := camera.Arg(0); a.Kind != ast.ArgIdent {
		t.Fatalf("expression arg kind = %v", a.Kind)
	}

	slot := nodes[4].(*ast.CallExpr)
	player, _ := slot.Arg(0)
	if player.Kind != ast.ArgCall || player.Call.Callee != "Player" {
		t.Fatalf("slot arg = %+v", player)
	}
	if idx, _ := player.Call.Arg(0); idx.Value != 3 {
		t.Fatalf("player index = %+v", idx)
	}
}

func TestJassUnterminatedCaptureReturnsLines(t *testing.T) {
	src := "function CreateAllUnits takes nothing returns nothing\n    call CreatePlayerUnits(  )\n"
	nodes, residual, _ := Collect(&Jass{}, src)
	for _, n := range nodes {
		if n.Kind() == ast.NodeFuncDecl {
			t.Fatalf("unterminated function emitted")
		}
	}
	if !strings.Contains(residual, "function CreateAllUnits") {
		t.Fatalf("residual lost lines: %q", residual)
	}
}

func TestCapturedDecl(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"function CreateAllUnits takes nothing returns nothing", true},
		{"function Unit000012_DropItems takes nothing returns nothing", true},
		{"function ItemTable3_DropItems takes nothing returns nothing", true},
		{"function main takes nothing returns nothing", false},
		{"  function CreateAllUnits takes nothing returns nothing", false},
		{"function CreateAllUnits takes nothing returns nothing ", false},
		{"function UnitX_DropItems takes nothing returns nothing", false},
	}
	for _, tt := range tests {
		if _, got := CapturedDecl(tt.line); got != tt.want {
			t.Errorf("CapturedDecl(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		in   string
		want []string
		ok   bool
	}{
		{"", nil, true},
		{" a, b ", []string{"a", "b"}, true},
		{"F(a, b), c", []string{"F(a, b)", "c"}, true},
		{`"x, y", 1`, []string{`"x, y"`, "1"}, true},
		{`"a\"b", 2`, []string{`"a\"b"`, "2"}, true},
		{"F(a, b", nil, false},
		{"a), b", nil, false},
	}
	for _, tt := range tests {
		got, ok := splitTopLevel(tt.in)
		if ok != tt.ok || strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("splitTopLevel(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestUnbalancedArgsDegradeToIdent(t *testing.T) {
	bag := diag.NewBag(0)
	j := &Jass{Options{Reporter: diag.NewBagReporter(bag)}}
	nodes, _, _ := Collect(j, "    call Foo(Bar(1, 2)\n")
	if len(nodes) != 1 {
		t.Fatalf("nodes = %d", len(nodes))
	}
	call := nodes[0].(*ast.CallExpr)
	if len(call.Args) != 1 || call.Args[0].Kind != ast.ArgIdent {
		t.Fatalf("args = %+v", call.Args)
	}
	if bag.Count(diag.PrsRecognitionGap) != 1 {
		t.Fatalf("expected a recognition gap")
	}
}

const luaModule = `function CreateRegions()
    local we
    gg_rct_R1 = Rect(-128.0, -128.0, 128.0, 128.0)
    gg_rg_000[0] = 1
end

function main()
    SetPlayers(2)
    SetAmbientDaySound("LordaeronSummerDay")
    u:Kill()
end
`

func TestLuaWalk(t *testing.T) {
	p, _ := For(dialect.Lua, Options{})
	nodes, residual, err := Collect(p, luaModule)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if residual != luaModule {
		t.Fatalf("lua residual must be the input")
	}

	var decls []*ast.FuncDecl
	calls := map[string]*ast.CallExpr{}
	var assigns []*ast.AssignStmt
	for _, n := range nodes {
		switch n := n.(type) {
		case *ast.FuncDecl:
			decls = append(decls, n)
		case *ast.CallExpr:
			calls[n.Callee] = n
		case *ast.AssignStmt:
			assigns = append(assigns, n)
		}
	}

	if len(decls) != 1 || decls[0].Name != "CreateRegions" || !decls[0].NeedsTranspile() {
		t.Fatalf("decls = %+v", decls)
	}
	if !strings.HasPrefix(decls[0].Source, "function CreateRegions()") || !strings.HasSuffix(decls[0].Source, "end") {
		t.Fatalf("source range = %q", decls[0].Source)
	}
	if strings.Contains(decls[0].Source, "main") {
		t.Fatalf("source range runs past the function: %q", decls[0].Source)
	}

	rect := calls["Rect"]
	if rect == nil {
		t.Fatalf("Rect call not emitted")
	}
	if got := ast.Sources(rect.Args); strings.Join(got, ",") != "-128.0,-128.0,128.0,128.0" {
		t.Fatalf("rect args = %q", got)
	}
	if calls["Kill"] != nil {
		t.Fatalf("method call must be skipped")
	}
	sound, _ := calls["SetAmbientDaySound"].Arg(0)
	if sound.Kind != ast.ArgString || sound.Source != `"LordaeronSummerDay"` {
		t.Fatalf("sound arg = %+v", sound)
	}
	count, _ := calls["SetPlayers"].Arg(0)
	if count.Kind != ast.ArgNumber || count.Value != 2 {
		t.Fatalf("player count arg = %+v", count)
	}

	if len(assigns) != 2 {
		t.Fatalf("assigns = %d, want 2", len(assigns))
	}
	if assigns[0].Target != "gg_rct_R1" || assigns[0].Init == nil || assigns[0].Init.Callee != "Rect" {
		t.Fatalf("region assign = %+v", assigns[0])
	}
	if assigns[1].Target != "gg_rg_000" || assigns[1].Index != "0" || assigns[1].Value == nil {
		t.Fatalf("group assign = %+v", assigns[1])
	}
}

func TestLuaSyntaxError(t *testing.T) {
	_, _, err := Collect(&Lua{}, "function (\n")
	if !errors.Is(err, ErrLuaSyntax) {
		t.Fatalf("err = %v, want ErrLuaSyntax", err)
	}
}

func TestForUnknownDialect(t *testing.T) {
	if _, err := For(dialect.Unknown, Options{}); err == nil {
		t.Fatalf("expected error")
	}
}
