package ir

import (
	"slices"

	"evergreen/internal/ast"
)

// FunctionTable maps captured function names to their declarations. Names
// keep the order in which they were first seen.
type FunctionTable struct {
	byName map[string]*ast.FuncDecl
	order  []string
}

func newFunctionTable() *FunctionTable {
	return &FunctionTable{byName: make(map[string]*ast.FuncDecl)}
}

// put stores fn; a later declaration with the same name replaces the body
// but keeps the original position.
func (t *FunctionTable) put(fn *ast.FuncDecl) {
	if _, ok := t.byName[fn.Name]; !ok {
		t.order = append(t.order, fn.Name)
	}
	t.byName[fn.Name] = fn
}

func (t *FunctionTable) Get(name string) (*ast.FuncDecl, bool) {
	if t == nil {
		return nil, false
	}
	fn, ok := t.byName[name]
	return fn, ok
}

// Names returns the function names in discovery order.
func (t *FunctionTable) Names() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.order)
}

func (t *FunctionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// MainRecord holds the configuration calls of the module's main function.
// Argument strings are verbatim source text.
type MainRecord struct {
	Camera         []string
	DayNightModels []string
	// DaySound and NightSound keep their quotes; "" means the call was absent.
	DaySound   string
	NightSound string
	// Regions and RandomGroups are deduplicated, in discovery order.
	Regions      []string
	RandomGroups []string
}

// StartLocation is one DefineStartLocation call.
type StartLocation struct {
	X, Y float64
}

// Sparse is a slot-indexed list. Unset indices are absent, never zero.
type Sparse[T any] struct {
	m map[int]T
}

func (s *Sparse[T]) Set(i int, v T) {
	if s.m == nil {
		s.m = make(map[int]T)
	}
	s.m[i] = v
}

func (s Sparse[T]) Get(i int) (T, bool) {
	v, ok := s.m[i]
	return v, ok
}

func (s Sparse[T]) Len() int { return len(s.m) }

// Indices returns the set indices in ascending order.
func (s Sparse[T]) Indices() []int {
	out := make([]int, 0, len(s.m))
	for i := range s.m {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// PlayerConfig is the player/team/slot setup of a module.
type PlayerConfig struct {
	Players        int
	Teams          int
	StartLocations Sparse[StartLocation]
	// Slots maps a slot to its controller identifier, e.g. MAP_CONTROL_USER.
	Slots Sparse[string]
}

const (
	defaultPlayers = 2
	defaultTeams   = 2
)
