package parser

import (
	"fmt"
	"regexp"

	"evergreen/internal/ast"
	"evergreen/internal/diag"
	"evergreen/internal/dialect"
	"evergreen/internal/source"
)

// NodeSource is the capability both dialect parsers share. Parse calls emit
// for every recognised node in source order and returns the text that was
// not absorbed into a captured function.
type NodeSource interface {
	Parse(src string, emit func(ast.Node)) (residual string, err error)
}

// Options are shared by both parsers.
type Options struct {
	// File is used for the spans of emitted nodes and diagnostics.
	File source.FileID
	// Reporter receives recognition gaps; nil drops them.
	Reporter diag.Reporter
}

// For returns the parser for a dialect.
func For(kind dialect.Kind, opts Options) (NodeSource, error) {
	switch kind {
	case dialect.Jass:
		return &Jass{Options: opts}, nil
	case dialect.Lua:
		return &Lua{Options: opts}, nil
	}
	return nil, fmt.Errorf("no parser for dialect %s", kind)
}

// capturedNames is the closed set of functions that are carried from a
// module into the template.
var capturedNames = regexp.MustCompile(`^(Unit\d+_DropItems|ItemTable\d+_DropItems|CreateNeutralHostile|CreateNeutralPassiveBuildings|CreateNeutralPassive|CreatePlayerBuildings|CreatePlayerUnits|CreateAllUnits|CreateRegions|InitCustomPlayerSlots|InitCustomTeams|InitAllyPriorities)$`)

var jassDecl = regexp.MustCompile(`^function (\w+) takes nothing returns nothing$`)

// IsCaptured reports whether name is on the function allow-list.
func IsCaptured(name string) bool {
	return capturedNames.MatchString(name)
}

// CapturedDecl reports whether a Jass line declares an allow-listed function
// and returns its name. The line must match exactly, without indentation or
// trailing blanks.
func CapturedDecl(line string) (string, bool) {
	m := jassDecl.FindStringSubmatch(line)
	if m == nil || !IsCaptured(m[1]) {
		return "", false
	}
	return m[1], true
}

// Collect runs a NodeSource and returns the nodes as a slice.
func Collect(p NodeSource, src string) ([]ast.Node, string, error) {
	var nodes []ast.Node
	residual, err := p.Parse(src, func(n ast.Node) {
		nodes = append(nodes, n)
	})
	return nodes, residual, err
}
