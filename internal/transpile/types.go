package transpile

import (
	"errors"
	"fmt"
	"maps"
)

// ErrUnknownLocalType is wrapped by LocalTypeError.
var ErrUnknownLocalType = errors.New("unknown local type")

// LocalTypeError names the local whose type could not be inferred.
type LocalTypeError struct {
	Name string
	Line int // 1-based, within the function
}

func (e *LocalTypeError) Error() string {
	return fmt.Sprintf("%s for identifier %q (line %d)", ErrUnknownLocalType, e.Name, e.Line)
}

func (e *LocalTypeError) Unwrap() error { return ErrUnknownLocalType }

// LocalTypes maps a local variable name to its Dialect-J type. Generated
// scripts use a fixed naming convention, so the table is closed: a name
// that is not listed is an error, not a guess.
type LocalTypes map[string]string

var defaultLocalTypes = LocalTypes{
	"p":          "player",
	"u":          "unit",
	"trigUnit":   "unit",
	"unitID":     "integer",
	"itemID":     "integer",
	"t":          "trigger",
	"we":         "weathereffect",
	"life":       "real",
	"trigWidget": "widget",
	"canDrop":    "boolean",
}

// DefaultLocalTypes returns a copy of the names WorldEdit emits.
func DefaultLocalTypes() LocalTypes {
	return maps.Clone(defaultLocalTypes)
}

// With returns a copy extended by extra; entries in extra win.
func (lt LocalTypes) With(extra map[string]string) LocalTypes {
	out := maps.Clone(lt)
	if out == nil {
		out = make(LocalTypes, len(extra))
	}
	maps.Copy(out, extra)
	return out
}

func (lt LocalTypes) lookup(name string) (string, bool) {
	typ, ok := lt[name]
	return typ, ok
}
