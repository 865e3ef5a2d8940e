package ir

import (
	"errors"
	"fmt"

	"evergreen/internal/ast"
)

// ErrMalformedInteger is wrapped by every IntegerError.
var ErrMalformedInteger = errors.New("malformed integer argument")

// IntegerError identifies the argument that did not resolve to a constant.
type IntegerError struct {
	Callee string // call the argument belongs to, "" when unknown
	Node   ast.Arg
	Reason string
}

func (e *IntegerError) Error() string {
	where := ""
	if e.Callee != "" {
		where = " in " + e.Callee
	}
	return fmt.Sprintf("%s%s: %q (%s)", ErrMalformedInteger, where, e.Node.Source, e.Reason)
}

func (e *IntegerError) Unwrap() error { return ErrMalformedInteger }
