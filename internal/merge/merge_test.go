package merge

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"evergreen/internal/codegen"
	"evergreen/internal/dialect"
	"evergreen/internal/ir"
	"evergreen/internal/objdata"
	"evergreen/internal/observ"
)

func lf(lines ...string) string { return strings.Join(lines, "\n") + "\n" }

func crlf(lines ...string) string { return strings.Join(lines, "\r\n") }

func readTemplate(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("testdata/template.j")
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	return string(b)
}

func buildModule(t *testing.T, src string) *ir.Module {
	t.Helper()
	m, err := ir.Build(src, dialect.Jass, ir.Options{})
	if err != nil {
		t.Fatalf("ir.Build: %v", err)
	}
	return m
}

func testBlocks(t *testing.T) *codegen.Blocks {
	t.Helper()
	tbl, err := objdata.Flatten("UnitBalance", []objdata.Layer{{
		Name:    "UnitBalance",
		Records: []objdata.Record{{"unitBalanceID": "hfoo", "goldcost": 135.0, "lumbercost": 0.0}},
	}})
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	return codegen.Generate(objdata.NewSet(tbl), codegen.Options{})
}

func TestDeadCodeAlwaysFalseFunction(t *testing.T) {
	in := lf(
		"function Trig_X_Func001C takes nothing returns boolean",
		"    if ( udg_DEAD_CODE == true ) then",
		"        return true",
		"    endif",
		"    return false",
		"endfunction",
		"function Trig_X_Actions takes nothing returns nothing",
		"    if ( Trig_X_Func001C() ) then",
		"        call A(  )",
		"        if ( true ) then",
		"            call B(  )",
		"        endif",
		"    endif",
		"    call C(  )",
		"endfunction",
	)
	want := lf(
		"function Trig_X_Actions takes nothing returns nothing",
		"    call C(  )",
		"endfunction",
	)
	if got := DeadCode(in); got != want {
		t.Fatalf("DeadCode:\n%s\nwant:\n%s", got, want)
	}
}

func TestDeadCodeNegatedAndNested(t *testing.T) {
	in := lf(
		"function F takes nothing returns boolean",
		"    if ( not ( udg_DEAD_CODE == true ) ) then",
		"        return false",
		"    endif",
		"    return true",
		"endfunction",
		"function G takes nothing returns nothing",
		"    if ( a ) then",
		"        if false then",
		"            call X(  )",
		"        endif",
		"        call Y(  )",
		"    endif",
		"endfunction",
	)
	want := lf(
		"function G takes nothing returns nothing",
		"    if ( a ) then",
		"        call Y(  )",
		"    endif",
		"endfunction",
	)
	if got := DeadCode(in); got != want {
		t.Fatalf("DeadCode:\n%s\nwant:\n%s", got, want)
	}
}

func TestFindAlwaysFalseRejectsOtherBodies(t *testing.T) {
	lines := strings.Split(lf(
		"function H takes nothing returns boolean",
		"    if ( udg_DEAD_CODE == true ) then",
		"        return true",
		"    endif",
		"    return true",
		"endfunction",
	), "\n")
	if af := FindAlwaysFalse(lines); len(af.Names) != 0 {
		t.Fatalf("names = %v, want none", af.Names)
	}
}

func TestInsertInSectionOrder(t *testing.T) {
	box := crlf(
		"//***************************************************************************",
		"//*",
		"//*  Unit Creation",
		"//*",
		"//***************************************************************************",
		"",
		"rest",
	)
	got, err := InsertInSection(box, "Unit Creation", []string{"A", "", "B"})
	if err != nil {
		t.Fatalf("InsertInSection: %v", err)
	}
	want := crlf(
		"//***************************************************************************",
		"//*",
		"//*  Unit Creation",
		"//*",
		"//***************************************************************************",
		"",
		"A",
		"B",
		"",
		"rest",
	)
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestInsertInSectionMissingHeader(t *testing.T) {
	for _, bodies := range [][]string{nil, {""}, {"body"}} {
		_, err := InsertInSection("text", "Players", bodies)
		if !errors.Is(err, ErrSectionNotFound) {
			t.Fatalf("bodies %q: err = %v, want ErrSectionNotFound", bodies, err)
		}
	}
	box := "//*  Players\r\n//*\r\n//***\r\nrest"
	if got, err := InsertInSection(box, "Players", nil); err != nil || got != box {
		t.Fatalf("empty bodies: got %q, %v", got, err)
	}
}

func testMeta() Metadata {
	return Metadata{
		Name:          `Turtle "Rock"`,
		Author:        "Blizzard",
		EditorVersion: "6072",
		HashDisplay:   "|cff00ff00deadbeef|r",
		Generator:     "evergreen 0.1.0",
		Version:       "Evergreen 10",
		Date:          "Mon Oct 19 14:03:22 2026",
		ProjectAuthor: "Slayer95",
		Language:      "English",
		AIVersion:     "AMAI 3.2.2",
	}
}

func TestMeta(t *testing.T) {
	out, err := Meta(StripTemplate(readTemplate(t)), testMeta())
	if err != nil {
		t.Fatalf("Meta: %v", err)
	}
	for _, want := range []string{
		`// Turtle "Rock" Evergreen 10 (for 1.26)`,
		"Generated by evergreen 0.1.0",
		"Date: Mon Oct 19 14:03:22 2026",
		"Map Author: Slayer95",
		`set udg_MetaTextQuestAuthor[5] = "- |cffffcc00English|r localization."`,
		`set udg_MetaTextQuestCredits[1] = "|cffffcc00Turtle \"Rock\"|r is a map made by |cffffcc00Blizzard|r."`,
		`set udg_MetaTextQuestCredits[2] = "|cff32cd32Project Evergreen|r |cffffcc00v10|r includes:"`,
		`set udg_MetaTextQuestCredits[11] = "|cff00ff00deadbeef|r"`,
		`set udg_MetaTextQuestCredits[14] = "AMAI 3.2.2"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestMetaMissingAnchor(t *testing.T) {
	text := strings.Replace(readTemplate(t), "//   Map Author: Prototype\r\n", "", 1)
	_, err := Meta(text, testMeta())
	if !errors.Is(err, ErrMarkerCardinality) {
		t.Fatalf("err = %v, want ErrMarkerCardinality", err)
	}
	var se *StepError
	if !errors.As(err, &se) || se.Anchor != "Map Author" {
		t.Fatalf("err = %#v, want anchor Map Author", err)
	}
}

func TestTableBlocks(t *testing.T) {
	text := crlf(
		"a",
		"    // BEGIN udg_RFObjectCost",
		"    call SaveInteger(udg_RFObjectCost, 0, 'xxxx', 1)",
		"    // END udg_RFObjectCost",
		"b",
	)
	out, err := TableBlocks(text, testBlocks(t))
	if err != nil {
		t.Fatalf("TableBlocks: %v", err)
	}
	if strings.Contains(out, "BEGIN") || strings.Contains(out, "'xxxx'") {
		t.Fatalf("markers kept:\n%s", out)
	}
	if !strings.Contains(out, "a\r\n    call SaveInteger(udg_RFObjectCost, 0, 'hfoo', 135)") || !strings.HasSuffix(out, "\r\nb") {
		t.Fatalf("unexpected output:\n%q", out)
	}

	dup := text + "\r\n" + text
	if _, err := TableBlocks(dup, testBlocks(t)); !errors.Is(err, ErrMarkerCardinality) {
		t.Fatalf("duplicate markers: err = %v", err)
	}
}

func TestStripTemplate(t *testing.T) {
	in := lf(
		"function CreateAllUnits takes nothing returns nothing",
		"    call X(  )",
		"endfunction",
		"function main takes nothing returns nothing",
		"endfunction",
	)
	out := StripTemplate(in)
	if strings.Contains(out, "CreateAllUnits") {
		t.Fatalf("captured function kept:\n%s", out)
	}
	if !strings.Contains(out, "function main takes nothing returns nothing\r\nendfunction") {
		t.Fatalf("main lost:\n%q", out)
	}
	if strings.Count(out, "\n") != strings.Count(out, "\r\n") {
		t.Fatalf("bare LF in %q", out)
	}
}

const regionModule = `function CreateRegions takes nothing returns nothing
    set gg_rct_R1 = Rect( -128.0, -128.0, 128.0, 128.0 )
endfunction
function main takes nothing returns nothing
    call SetCameraBounds( -1.0, -2.0, 3.0, 4.0, -5.0, 6.0, 7.0, -8.0 )
    call SetAmbientDaySound( "AshenvaleDay" )
endfunction
`

func TestRegionScenario(t *testing.T) {
	m := buildModule(t, regionModule)
	text, err := MainConfig(readTemplate(t), m.Main)
	if err != nil {
		t.Fatalf("MainConfig: %v", err)
	}
	if text, err = Globals(text, m.Main); err != nil {
		t.Fatalf("Globals: %v", err)
	}
	for _, want := range []string{
		"    rect                    gg_rct_R1            = null\r\nendglobals",
		"    call CreateRegions(  )\r\n    call CreateAllUnits(  )",
		"call SetCameraBounds(-1.0, -2.0, 3.0, 4.0, -5.0, 6.0, 7.0, -8.0)",
		`call SetAmbientDaySound("AshenvaleDay")`,
		`call SetAmbientNightSound( "LordaeronSummerNight" )`,
		`call SetDayNightModels( "a.mdl", "b.mdl" )`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q", want)
		}
	}

	again, err := MainConfig(text, m.Main)
	if err != nil {
		t.Fatalf("MainConfig again: %v", err)
	}
	if n := strings.Count(again, "call CreateRegions("); n != 1 {
		t.Fatalf("CreateRegions calls = %d, want 1", n)
	}
	if again, err = Globals(again, m.Main); err != nil || strings.Count(again, "gg_rct_R1") != 1 {
		t.Fatalf("region declared twice (err %v)", err)
	}
}

func TestGlobalsRandomGroups(t *testing.T) {
	text := crlf("globals", "endglobals", "")
	out, err := Globals(text, ir.MainRecord{RandomGroups: []string{"gg_rg_000"}})
	if err != nil {
		t.Fatalf("Globals: %v", err)
	}
	if want := crlf("globals", "    integer array gg_rg_000", "endglobals", ""); out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

const playerModule = `function config takes nothing returns nothing
    call SetPlayers( 4 )
    call SetTeams( 2 )
    call DefineStartLocation( 3, -1408.0, 1600.5 )
    call DefineStartLocation( 1, 512.0, -64.0 )
    call SetPlayerSlotAvailable( Player(1), MAP_CONTROL_USER )
    call SetPlayerSlotAvailable( Player(3), MAP_CONTROL_COMPUTER )
endfunction
`

func TestPlayerConfig(t *testing.T) {
	m := buildModule(t, playerModule)
	out, err := PlayerConfig(readTemplate(t), m.Players)
	if err != nil {
		t.Fatalf("PlayerConfig: %v", err)
	}
	want := crlf(
		"    call SetPlayers( 4 )",
		"    call SetTeams( 2 )",
	)
	if !strings.Contains(out, want) {
		t.Fatalf("counts not rewritten:\n%s", out)
	}
	want = crlf(
		"    // Player setup",
		"    call InitCustomPlayerSlots(  )",
		"    call DefineStartLocation( 1, 512.0, -64.0 )",
		"    call DefineStartLocation( 3, -1408.0, 1600.5 )",
		"    call SetPlayerSlotAvailable( Player(1), MAP_CONTROL_USER )",
		"    call SetPlayerSlotAvailable( Player(3), MAP_CONTROL_COMPUTER )",
		"    call InitGenericPlayerSlots(  )",
	)
	if !strings.Contains(out, want) {
		t.Fatalf("player setup:\n%s", out)
	}
	if n := strings.Count(out, "DefineStartLocation"); n != 2 {
		t.Fatalf("DefineStartLocation lines = %d, want 2", n)
	}
}

func TestPlayerConfigMissingAnchor(t *testing.T) {
	_, err := PlayerConfig("call SetTeams( 2 )", ir.PlayerConfig{Players: 2, Teams: 2})
	var se *StepError
	if !errors.As(err, &se) || se.Step != "players" || !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{512, "512.0"},
		{-3, "-3.0"},
		{0.25, "0.25"},
		{1600.5, "1600.5"},
	}
	for _, tt := range tests {
		if got := Float(tt.in); got != tt.want {
			t.Errorf("Float(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheckPatterns(t *testing.T) {
	if err := CheckPatterns("call DoNothing(  )", "set i = GetConvertedPlayerId(p) - 1"); err != nil {
		t.Fatalf("clean text: %v", err)
	}
	err := CheckPatterns("x", "set i = GetConvertedPlayerId(GetTriggerPlayer()) + 1")
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("err = %v, want ErrInvalidPattern", err)
	}
}

func TestReadability(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"set i = ( GetConvertedPlayerId(GetTriggerPlayer()) - 1 )", "set i = ( GetPlayerId(GetTriggerPlayer()) )"},
		{`set s = "EVAL(1 + 2)"`, "set s = 1 + 2"},
		{`if ( GetPlayerName(Player(0)) == "WorldEdit" ) then`, "if ( false ) then"},
		{"GetUnitName(u) GetUnitName(v)", "LoadStringBJ(GetUnitTypeId(u), 0, udg_RFObjectName) GetUnitName(v)"},
	}
	for _, tt := range tests {
		if got := Readability(tt.in); got != tt.want {
			t.Errorf("Readability(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaxPlayers(t *testing.T) {
	in := "    integer                 udg_RFMaxPlayerIndex       = 0\r\n"
	want := "    integer                 udg_RFMaxPlayerIndex       = bj_MAX_PLAYERS\r\n"
	if got := MaxPlayers(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLibrary(t *testing.T) {
	text := crlf(
		"globals",
		"endglobals",
		"// BEGIN MMD LIBRARY",
		"// END MMD LIBRARY",
		"// BEGIN MMD API",
		"// END MMD API",
		"function main takes nothing returns nothing",
		"    call InitGlobals(  )",
		"endfunction",
		"",
	)
	out, err := Library(text)
	if err != nil {
		t.Fatalf("Library: %v", err)
	}
	if strings.Contains(out, "BEGIN MMD") {
		t.Fatalf("markers kept")
	}
	for _, want := range []string{
		"function MMD_FlagPlayer",
		"    call ExecuteFunc( \"MMD__init\" )\r\n    call InitGlobals(  )",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Count(out, "\n") != strings.Count(out, "\r\n") {
		t.Fatalf("bare LF in library output")
	}

	_, err = Library(strings.Replace(text, "// BEGIN MMD API", "", 1))
	if !errors.Is(err, ErrMarkerCardinality) {
		t.Fatalf("missing API block: err = %v", err)
	}
}

const engineModule = `function CreateRegions takes nothing returns nothing
    set gg_rct_R1 = Rect( -128.0, -128.0, 128.0, 128.0 )
endfunction
function CreateAllUnits takes nothing returns nothing
    local unit u
    set u = CreateUnit( Player(0), 'hfoo', 0.0, 0.0, 270.0 )
endfunction
function main takes nothing returns nothing
    call SetCameraBounds( -1.0, -2.0, 3.0, 4.0, -5.0, 6.0, 7.0, -8.0 )
endfunction
function config takes nothing returns nothing
    call SetPlayers( 3 )
    call SetTeams( 3 )
    call DefineStartLocation( 2, 10.0, 20.0 )
    call SetPlayerSlotAvailable( Player(2), MAP_CONTROL_USER )
endfunction
`

func TestEngineMerge(t *testing.T) {
	e := &Engine{Blocks: testBlocks(t), Options: Options{Lint: true}}
	timer := observ.NewTimer()
	out, err := e.Merge(context.Background(), Input{
		Template: readTemplate(t),
		Module:   buildModule(t, engineModule),
		Meta:     testMeta(),
		Timer:    timer,
	})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	for _, want := range []string{
		`// Turtle "Rock" Evergreen 10 (for 1.26)`,
		"    call SaveInteger(udg_RFObjectCost, 0, 'hfoo', 135)",
		"function CreateRegions takes nothing returns nothing",
		"    set u = CreateUnit( Player(0), 'hfoo', 0.0, 0.0, 270.0 )",
		"    call CreateRegions(  )\r\n    call CreateAllUnits(  )",
		"    rect                    gg_rct_R1            = null\r\nendglobals",
		"    call InitCustomPlayerSlots(  )\r\n    call DefineStartLocation( 2, 10.0, 20.0 )\r\n    call SetPlayerSlotAvailable( Player(2), MAP_CONTROL_USER )\r\n    call InitGenericPlayerSlots(  )",
		"udg_RFMaxPlayerIndex       = bj_MAX_PLAYERS",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(out, "Trig_Init_Func001C") {
		t.Errorf("always-false function kept")
	}
	if n := strings.Count(out, "call DoNothing"); n != 1 {
		t.Errorf("DoNothing calls = %d, want 1", n)
	}
	if strings.Count(out, "\n") != strings.Count(out, "\r\n") {
		t.Errorf("bare LF in output")
	}
	if got, want := len(timer.Phases()), len(StepNames())-1; got != want {
		t.Errorf("timed phases = %d, want %d", got, want)
	}
}

func TestEngineMergeFailures(t *testing.T) {
	e := &Engine{Options: Options{Lint: true}}
	m := buildModule(t, engineModule)

	bad := strings.Replace(readTemplate(t), "call DoNothing(  )", "set i = GetConvertedPlayerId(GetTriggerPlayer()) + 1", 1)
	_, err := e.Merge(context.Background(), Input{Template: bad, Module: m, Meta: testMeta()})
	var se *StepError
	if !errors.As(err, &se) || se.Step != "patterns" || !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("deny-listed idiom: err = %v", err)
	}

	noAuthor := strings.Replace(readTemplate(t), "//   Map Author: Prototype\r\n", "", 1)
	_, err = e.Merge(context.Background(), Input{Template: noAuthor, Module: m, Meta: testMeta()})
	if !errors.As(err, &se) || se.Step != "metadata" || se.Anchor != "Map Author" {
		t.Fatalf("missing anchor: err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err = e.Merge(ctx, Input{Template: readTemplate(t), Module: m}); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled: err = %v", err)
	}
}
