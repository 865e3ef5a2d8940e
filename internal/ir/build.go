package ir

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"evergreen/internal/ast"
	"evergreen/internal/diag"
	"evergreen/internal/dialect"
	"evergreen/internal/parser"
	"evergreen/internal/source"
)

var dropTrigger = regexp.MustCompile(`^(Unit|ItemTable)\d+_DropItems$`)

// randomGroupPrefix names the integer arrays WorldEdit generates for random
// unit groups.
const randomGroupPrefix = "gg_rg_"

// Module is the IR of one script.
type Module struct {
	Dialect   dialect.Kind
	Functions *FunctionTable
	Main      MainRecord
	Players   PlayerConfig
	// DropTriggers lists the captured drop-table functions in discovery order.
	DropTriggers []string
	// Residual is the script text not absorbed into captured functions.
	Residual string
}

type Options struct {
	File     source.FileID
	Reporter diag.Reporter
}

// Build parses src with the parser for kind and folds the nodes. The first
// malformed integer aborts the build.
func Build(src string, kind dialect.Kind, opts Options) (*Module, error) {
	p, err := parser.For(kind, parser.Options{File: opts.File, Reporter: opts.Reporter})
	if err != nil {
		return nil, err
	}
	b := NewBuilder(kind, opts.Reporter)
	residual, err := p.Parse(src, b.Add)
	if err != nil {
		return nil, fmt.Errorf("parse %s script: %w", kind, err)
	}
	m, err := b.Module()
	if err != nil {
		return nil, err
	}
	m.Residual = residual
	return m, nil
}

// Builder folds nodes one at a time. After the first error Add is a no-op.
type Builder struct {
	m        *Module
	reporter diag.Reporter
	err      error
}

func NewBuilder(kind dialect.Kind, r diag.Reporter) *Builder {
	return &Builder{
		reporter: r,
		m: &Module{
			Dialect:   kind,
			Functions: newFunctionTable(),
			Players:   PlayerConfig{Players: defaultPlayers, Teams: defaultTeams},
		},
	}
}

func (b *Builder) Add(n ast.Node) {
	if b.err != nil {
		return
	}
	switch n := n.(type) {
	case *ast.FuncDecl:
		b.function(n)
	case *ast.CallExpr:
		b.err = b.call(n)
	case *ast.AssignStmt:
		b.assign(n)
	}
}

// Module returns the folded IR or the error that stopped folding.
func (b *Builder) Module() (*Module, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.m, nil
}

func (b *Builder) function(fn *ast.FuncDecl) {
	if _, seen := b.m.Functions.Get(fn.Name); !seen && dropTrigger.MatchString(fn.Name) {
		b.m.DropTriggers = append(b.m.DropTriggers, fn.Name)
	}
	b.m.Functions.put(fn)
}

func (b *Builder) call(c *ast.CallExpr) error {
	switch c.Callee {
	case "SetCameraBounds":
		b.m.Main.Camera = b.sources(c, 8)
	case "SetDayNightModels":
		b.m.Main.DayNightModels = b.sources(c, 2)
	case "SetAmbientDaySound":
		if a, ok := b.arg(c, 0); ok {
			b.m.Main.DaySound = a.Source
		}
	case "SetAmbientNightSound":
		if a, ok := b.arg(c, 0); ok {
			b.m.Main.NightSound = a.Source
		}
	case "SetPlayers":
		n, err := b.count(c)
		if err != nil {
			return err
		}
		b.m.Players.Players = n
	case "SetTeams":
		n, err := b.count(c)
		if err != nil {
			return err
		}
		b.m.Players.Teams = n
	case "DefineStartLocation":
		return b.startLocation(c)
	case "SetPlayerSlotAvailable":
		return b.slot(c)
	}
	return nil
}

func (b *Builder) sources(c *ast.CallExpr, want int) []string {
	if len(c.Args) != want {
		diag.ReportWarning(b.reporter, diag.IRMissingArgument, c.Loc,
			fmt.Sprintf("%s has %d arguments, expected %d", c.Callee, len(c.Args), want)).Emit()
	}
	return ast.Sources(c.Args)
}

func (b *Builder) arg(c *ast.CallExpr, i int) (ast.Arg, bool) {
	a, ok := c.Arg(i)
	if !ok {
		diag.ReportWarning(b.reporter, diag.IRMissingArgument, c.Loc,
			fmt.Sprintf("%s is missing argument %d", c.Callee, i+1)).Emit()
	}
	return a, ok
}

func (b *Builder) integer(c *ast.CallExpr, i int) (int, error) {
	a, ok := c.Arg(i)
	if !ok {
		return 0, &IntegerError{Callee: c.Callee, Reason: fmt.Sprintf("argument %d missing", i+1)}
	}
	n, err := GetInteger(a)
	return n, withCallee(err, c.Callee)
}

func (b *Builder) count(c *ast.CallExpr) (int, error) {
	n, err := b.integer(c, 0)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		a, _ := c.Arg(0)
		return 0, &IntegerError{Callee: c.Callee, Node: a, Reason: "must be at least 1"}
	}
	return n, nil
}

func (b *Builder) startLocation(c *ast.CallExpr) error {
	slot, err := b.integer(c, 0)
	if err != nil {
		return err
	}
	var xy [2]float64
	for i := range xy {
		a, ok := c.Arg(i + 1)
		if !ok {
			return &IntegerError{Callee: c.Callee, Reason: fmt.Sprintf("argument %d missing", i+2)}
		}
		if xy[i], err = GetNumber(a); err != nil {
			return withCallee(err, c.Callee)
		}
	}
	b.m.Players.StartLocations.Set(slot, StartLocation{X: xy[0], Y: xy[1]})
	return nil
}

// slot handles SetPlayerSlotAvailable(Player(i), CONTROL); the index is the
// single argument of the nested call.
func (b *Builder) slot(c *ast.CallExpr) error {
	player, ok := c.Arg(0)
	if !ok || player.Kind != ast.ArgCall {
		return &IntegerError{Callee: c.Callee, Node: player, Reason: "first argument must be Player(i)"}
	}
	idx, err := b.integer(player.Call, 0)
	if err != nil {
		return withCallee(err, c.Callee)
	}
	ctrl, ok := b.arg(c, 1)
	if !ok {
		return nil
	}
	b.m.Players.Slots.Set(idx, ctrl.Source)
	return nil
}

func (b *Builder) assign(a *ast.AssignStmt) {
	if a.Init != nil && a.Init.Callee == "Rect" && !a.Indexed() {
		b.m.Main.Regions = appendUnique(b.m.Main.Regions, a.Target)
		return
	}
	if strings.HasPrefix(a.Target, randomGroupPrefix) && a.Indexed() {
		b.m.Main.RandomGroups = appendUnique(b.m.Main.RandomGroups, a.Target)
	}
}

func appendUnique(list []string, name string) []string {
	if slices.Contains(list, name) {
		return list
	}
	return append(list, name)
}

func withCallee(err error, callee string) error {
	var ie *IntegerError
	if errors.As(err, &ie) && ie.Callee == "" {
		ie.Callee = callee
	}
	return err
}
