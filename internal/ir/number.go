package ir

import (
	"math"

	"fortio.org/safecast"

	"evergreen/internal/ast"
)

// GetNumber resolves a numeric literal, optionally wrapped in unary minus.
// Dialect-J literals carry their sign already; Dialect-L produces ArgNeg.
func GetNumber(a ast.Arg) (float64, error) {
	switch a.Kind {
	case ast.ArgNumber:
		return a.Value, nil
	case ast.ArgNeg:
		if a.Operand == nil || a.Operand.Kind != ast.ArgNumber {
			return 0, &IntegerError{Node: a, Reason: "unary minus must wrap a literal"}
		}
		return -a.Operand.Value, nil
	}
	return 0, &IntegerError{Node: a, Reason: "not a numeric literal"}
}

// GetInteger is GetNumber restricted to integral values that fit in int.
func GetInteger(a ast.Arg) (int, error) {
	v, err := GetNumber(a)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, &IntegerError{Node: a, Reason: "not integral"}
	}
	if math.Abs(v) > 1<<53 {
		return 0, &IntegerError{Node: a, Reason: "out of range"}
	}
	n, err := safecast.Conv[int](int64(v))
	if err != nil || float64(n) != v {
		return 0, &IntegerError{Node: a, Reason: "out of range"}
	}
	return n, nil
}
