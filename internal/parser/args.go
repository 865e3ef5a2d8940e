package parser

import (
	"regexp"
	"strconv"
	"strings"

	"evergreen/internal/ast"
	"evergreen/internal/source"
)

var (
	numericArg = regexp.MustCompile(`^-?\d+(\.\d*)?$`)
	nestedCall = regexp.MustCompile(`^(\w+)\s*\((.*)\)$`)
)

// splitTopLevel splits an argument list on commas that are outside
// parentheses and string literals. ok is false when parentheses or quotes do
// not balance.
func splitTopLevel(s string) (parts []string, ok bool) {
	if strings.TrimSpace(s) == "" {
		return nil, true
	}
	depth := 0
	inString := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, false
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 || inString {
		return nil, false
	}
	return append(parts, strings.TrimSpace(s[start:])), true
}

// parseArgs classifies the comma separated arguments of a call. Malformed
// nesting degrades to a single identifier holding the whole text; the
// second result is false in that case so the caller can report a gap.
func parseArgs(text string, loc source.Span) ([]ast.Arg, bool) {
	parts, ok := splitTopLevel(text)
	if !ok {
		a := ast.Ident(strings.TrimSpace(text))
		a.Loc = loc
		return []ast.Arg{a}, false
	}
	args := make([]ast.Arg, 0, len(parts))
	clean := true
	for _, p := range parts {
		a, argOK := classifyArg(p, loc)
		clean = clean && argOK
		args = append(args, a)
	}
	return args, clean
}

func classifyArg(p string, loc source.Span) (ast.Arg, bool) {
	var a ast.Arg
	ok := true
	switch {
	case numericArg.MatchString(p):
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			a = ast.Ident(p)
			break
		}
		a = ast.Number(p, v)
	case strings.HasPrefix(p, `"`):
		a = ast.String(p)
	case strings.Contains(p, "(") && strings.HasSuffix(p, ")"):
		m := nestedCall.FindStringSubmatch(p)
		if m == nil {
			// e.g. "-5120.0 + GetCameraMargin(CAMERA_MARGIN_LEFT)"
			a = ast.Ident(p)
			break
		}
		if _, balanced := splitTopLevel(m[2]); !balanced {
			// "F(x) + G(y)": an expression, not a single call
			a = ast.Ident(p)
			break
		}
		inner, innerOK := parseArgs(m[2], loc)
		ok = innerOK
		a = ast.Call(p, &ast.CallExpr{Callee: m[1], Args: inner, Loc: loc})
	default:
		a = ast.Ident(p)
	}
	a.Loc = loc
	return a, ok
}
