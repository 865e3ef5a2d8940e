package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"evergreen/internal/codegen"
	"evergreen/internal/driver"
	"evergreen/internal/project"
)

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		input string
		want  uiMode
		err   bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tc := range cases {
		got, err := readUIMode("ui", tc.input)
		if (err != nil) != tc.err {
			t.Fatalf("readUIMode(%q) error = %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("readUIMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
	if _, err := readUIMode("color", "x"); err == nil || !strings.Contains(err.Error(), "--color") {
		t.Fatalf("error does not name the flag: %v", err)
	}
	if !uiModeOn.resolve(nil) || uiModeOff.resolve(nil) {
		t.Fatalf("explicit modes must not look at the terminal")
	}
}

func TestSelectModules(t *testing.T) {
	mods := []*project.Module{{Name: "(2)Alpha"}, {Name: "(2)Beta"}, {Name: "(4)Gamma"}}
	got, err := selectModules(mods, []string{"(4)Gamma", "(2)Alpha"})
	if err != nil {
		t.Fatalf("selectModules: %v", err)
	}
	if len(got) != 2 || got[0].Name != "(4)Gamma" || got[1].Name != "(2)Alpha" {
		t.Fatalf("selected = %v", got)
	}
	if all, _ := selectModules(mods, nil); len(all) != 3 {
		t.Fatalf("no names should keep every module")
	}
	if _, err := selectModules(mods, []string{"(2)Delta"}); err == nil {
		t.Fatalf("unknown module accepted")
	}
}

func TestWriteSummary(t *testing.T) {
	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = true

	results := []driver.Result{
		{Module: &project.Module{Name: "(2)Alpha"}, OutputName: "2_Alpha.w3x", OutputPath: "/out/2_Alpha/war3map.j"},
		{Module: &project.Module{Name: "(12)Long Name"}, Err: errors.New("boom")},
		{Module: &project.Module{Name: "(2)Dry"}, OutputName: "2_Dry.w3x"},
	}
	var buf bytes.Buffer
	writeSummary(&buf, results)
	want := "ported (2)Alpha       2_Alpha.w3x -> /out/2_Alpha/war3map.j\n" +
		"failed (12)Long Name  boom\n" +
		"merged (2)Dry         2_Dry.w3x (dry run)\n"
	if buf.String() != want {
		t.Fatalf("summary:\n%s\nwant:\n%s", buf.String(), want)
	}

	if err := failureError(results); err == nil || err.Error() != "1 of 3 modules failed" {
		t.Fatalf("failureError = %v", err)
	}
	if err := failureError(results[1:2]); err == nil || err.Error() != "boom" {
		t.Fatalf("single failure = %v", err)
	}
	if err := failureError(results[:1]); err != nil {
		t.Fatalf("no failures = %v", err)
	}
}

func TestWriteDiagnosticsJSONWithoutBags(t *testing.T) {
	var out, errOut bytes.Buffer
	results := []driver.Result{{Module: &project.Module{Name: "(2)Alpha"}}}
	if err := writeDiagnostics(&out, &errOut, results, formatJSON); err != nil {
		t.Fatalf("writeDiagnostics: %v", err)
	}
	var doc struct {
		Diagnostics []json.RawMessage `json:"diagnostics"`
		Count       int               `json:"count"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if doc.Diagnostics == nil || doc.Count != 0 || errOut.Len() != 0 {
		t.Fatalf("doc = %+v, stderr %q", doc, errOut.String())
	}
}

func TestWriteBlocks(t *testing.T) {
	blocks := []codegen.Block{
		{Marker: "udg_RFObjectCost", Text: "    call A()\n    call B()\n"},
		{Marker: "udg_RFMeleeUnits", Text: "    call C()", Optional: true},
	}
	var list bytes.Buffer
	writeBlocks(&list, blocks, true)
	if got, want := list.String(), "udg_RFObjectCost\t2 lines\nudg_RFMeleeUnits\t0 lines (optional)\n"; got != want {
		t.Fatalf("list = %q, want %q", got, want)
	}
	var full bytes.Buffer
	writeBlocks(&full, blocks[1:], false)
	if got, want := full.String(), "// BEGIN udg_RFMeleeUnits\n    call C()\n// END udg_RFMeleeUnits\n"; got != want {
		t.Fatalf("blocks = %q, want %q", got, want)
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf, versionInfo{Version: "1.0.0"}, true); err != nil {
		t.Fatalf("renderVersionJSON: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "evergreen" || payload.GitCommit != "unknown" || payload.BuildDate != "unknown" {
		t.Fatalf("payload = %+v", payload)
	}
}
