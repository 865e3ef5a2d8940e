package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	luaast "github.com/yuin/gopher-lua/ast"
	luaparse "github.com/yuin/gopher-lua/parse"

	"evergreen/internal/ast"
	"evergreen/internal/dialect"
	"evergreen/internal/source"
)

// ErrLuaSyntax wraps every gopher-lua parse failure.
var ErrLuaSyntax = errors.New("dialect-L syntax error")

// Lua walks a gopher-lua syntax tree and emits the same node shapes as Jass.
// Lua scripts are not split into captured and residual text: the residual
// is the input unchanged.
type Lua struct {
	Options
}

type luaWalk struct {
	opts  Options
	emit  func(ast.Node)
	src   string
	lines []lineRange
}

// lineRange is the byte range of one line without its terminator.
type lineRange struct {
	start, end int
}

func (l *Lua) Parse(src string, emit func(ast.Node)) (string, error) {
	chunk, err := luaparse.Parse(strings.NewReader(src), "war3map.lua")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLuaSyntax, err)
	}
	w := &luaWalk{opts: l.Options, emit: emit, src: src, lines: indexLines(src)}
	w.stmts(chunk)
	return src, nil
}

func indexLines(src string) []lineRange {
	var out []lineRange
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			end := i
			if end > start && src[end-1] == '\r' {
				end--
			}
			out = append(out, lineRange{start, end})
			start = i + 1
		}
	}
	return append(out, lineRange{start, len(src)})
}

// span covers lines first..last (1-based, inclusive).
func (w *luaWalk) span(first, last int) source.Span {
	if first < 1 || first > len(w.lines) {
		return source.Span{File: w.opts.File}
	}
	if last < first {
		last = first
	}
	if last > len(w.lines) {
		last = len(w.lines)
	}
	return source.Span{
		File:  w.opts.File,
		Start: uint32(w.lines[first-1].start), // #nosec G115
		End:   uint32(w.lines[last-1].end),    // #nosec G115
	}
}

func (w *luaWalk) text(sp source.Span) string {
	return w.src[sp.Start:sp.End]
}

func (w *luaWalk) stmts(list []luaast.Stmt) {
	for _, st := range list {
		w.stmt(st)
	}
}

func (w *luaWalk) stmt(st luaast.Stmt) {
	switch s := st.(type) {
	case *luaast.FuncDefStmt:
		if id, ok := s.Name.Func.(*luaast.IdentExpr); ok && s.Name.Receiver == nil && IsCaptured(id.Value) {
			sp := w.span(s.Line(), max(s.LastLine(), s.Func.LastLine()))
			w.emit(&ast.FuncDecl{
				Name:    id.Value,
				Dialect: dialect.Lua,
				Source:  w.text(sp),
				Loc:     sp,
			})
		}
		w.stmts(s.Func.Stmts)
	case *luaast.FuncCallStmt:
		w.expr(s.Expr, s.Line(), s.LastLine())
	case *luaast.AssignStmt:
		w.assign(s)
		for _, e := range s.Rhs {
			w.expr(e, s.Line(), s.LastLine())
		}
	case *luaast.LocalAssignStmt:
		for _, e := range s.Exprs {
			w.expr(e, s.Line(), s.LastLine())
		}
	case *luaast.IfStmt:
		w.expr(s.Condition, s.Line(), s.Line())
		w.stmts(s.Then)
		w.stmts(s.Else)
	case *luaast.WhileStmt:
		w.stmts(s.Stmts)
	case *luaast.RepeatStmt:
		w.stmts(s.Stmts)
	case *luaast.NumberForStmt:
		w.stmts(s.Stmts)
	case *luaast.GenericForStmt:
		w.stmts(s.Stmts)
	case *luaast.DoBlockStmt:
		w.stmts(s.Stmts)
	case *luaast.ReturnStmt:
		for _, e := range s.Exprs {
			w.expr(e, s.Line(), s.LastLine())
		}
	}
}

// expr emits every plain-identifier call inside e. first..last are the
// lines of the enclosing statement; the argument text is recovered from them.
func (w *luaWalk) expr(e luaast.Expr, first, last int) {
	switch x := e.(type) {
	case *luaast.FuncCallExpr:
		if call := w.call(x, first, last); call != nil {
			w.emit(call)
		}
		for _, a := range x.Args {
			w.expr(a, first, last)
		}
	case *luaast.FunctionExpr:
		w.stmts(x.Stmts)
	case *luaast.ArithmeticOpExpr:
		w.expr(x.Lhs, first, last)
		w.expr(x.Rhs, first, last)
	case *luaast.LogicalOpExpr:
		w.expr(x.Lhs, first, last)
		w.expr(x.Rhs, first, last)
	case *luaast.RelationalOpExpr:
		w.expr(x.Lhs, first, last)
		w.expr(x.Rhs, first, last)
	case *luaast.StringConcatOpExpr:
		w.expr(x.Lhs, first, last)
		w.expr(x.Rhs, first, last)
	case *luaast.UnaryMinusOpExpr:
		w.expr(x.Expr, first, last)
	case *luaast.UnaryNotOpExpr:
		w.expr(x.Expr, first, last)
	}
}

// call converts a call to a plain identifier; method calls and calls through
// tables are skipped.
func (w *luaWalk) call(x *luaast.FuncCallExpr, first, last int) *ast.CallExpr {
	id, ok := x.Func.(*luaast.IdentExpr)
	if !ok || x.Receiver != nil {
		return nil
	}
	loc := w.span(first, last)
	texts := argTexts(w.text(loc), id.Value, len(x.Args))
	return w.callWithTexts(id.Value, x.Args, texts, loc)
}

func (w *luaWalk) callWithTexts(callee string, args []luaast.Expr, texts []string, loc source.Span) *ast.CallExpr {
	out := &ast.CallExpr{Callee: callee, Args: make([]ast.Arg, 0, len(args)), Loc: loc}
	for i, a := range args {
		text := ""
		if i < len(texts) {
			text = texts[i]
		}
		out.Args = append(out.Args, w.arg(a, text, loc))
	}
	return out
}

func (w *luaWalk) arg(e luaast.Expr, text string, loc source.Span) ast.Arg {
	if text == "" {
		text = render(e)
	}
	var a ast.Arg
	switch x := e.(type) {
	case *luaast.NumberExpr:
		v, err := luaNumber(x.Value)
		if err != nil {
			a = ast.Arg{Kind: ast.ArgExpr, Source: text}
			break
		}
		a = ast.Number(text, v)
	case *luaast.StringExpr:
		a = ast.String(text)
	case *luaast.IdentExpr:
		a = ast.Ident(x.Value)
		a.Source = text
	case *luaast.UnaryMinusOpExpr:
		inner := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "-"))
		a = ast.Neg(text, w.arg(x.Expr, inner, loc))
	case *luaast.FuncCallExpr:
		id, ok := x.Func.(*luaast.IdentExpr)
		if !ok || x.Receiver != nil {
			a = ast.Arg{Kind: ast.ArgExpr, Source: text}
			break
		}
		a = ast.Call(text, w.callWithTexts(id.Value, x.Args, argTexts(text, id.Value, len(x.Args)), loc))
	default:
		a = ast.Arg{Kind: ast.ArgExpr, Source: text}
	}
	a.Loc = loc
	return a
}

// argTexts finds "callee(" in text and splits the balanced argument list
// that follows. It returns nil when the text cannot be matched to n
// arguments; callers then fall back to rendering the syntax tree.
func argTexts(text, callee string, n int) []string {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], callee)
		if i < 0 {
			return nil
		}
		i += from
		from = i + len(callee)
		if i > 0 && isIdentByte(text[i-1]) {
			continue
		}
		rest := strings.TrimLeft(text[from:], " \t")
		if !strings.HasPrefix(rest, "(") {
			continue
		}
		inner, ok := balancedArgs(rest)
		if !ok {
			return nil
		}
		parts, ok := splitTopLevel(inner)
		if !ok || len(parts) != n {
			return nil
		}
		return parts
	}
	return nil
}

// balancedArgs returns the text between s[0] == '(' and its matching ')'.
func balancedArgs(s string) (string, bool) {
	depth := 0
	inString := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString != 0 {
			switch c {
			case '\\':
				i++
			case inString:
				inString = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inString = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], true
			}
		}
	}
	return "", false
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func luaNumber(s string) (float64, error) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	i, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return float64(i), nil
}

// assign emits AssignStmt nodes for `name = Call(...)` and `name[k] = v`.
func (w *luaWalk) assign(s *luaast.AssignStmt) {
	loc := w.span(s.Line(), s.LastLine())
	for i, lhs := range s.Lhs {
		if i >= len(s.Rhs) {
			break
		}
		target, index := "", ""
		switch l := lhs.(type) {
		case *luaast.IdentExpr:
			target = l.Value
		case *luaast.AttrGetExpr:
			obj, ok := l.Object.(*luaast.IdentExpr)
			if !ok {
				continue
			}
			target, index = obj.Value, render(l.Key)
		default:
			continue
		}
		st := &ast.AssignStmt{Target: target, Index: index, Loc: loc}
		switch r := s.Rhs[i].(type) {
		case *luaast.FuncCallExpr:
			st.Init = w.call(r, s.Line(), s.LastLine())
		default:
			v := w.arg(r, "", loc)
			st.Value = &v
		}
		w.emit(st)
	}
}

// render prints an expression back as Lua source. It is only used when the
// original text cannot be located.
func render(e luaast.Expr) string {
	switch x := e.(type) {
	case *luaast.NumberExpr:
		return x.Value
	case *luaast.StringExpr:
		return strconv.Quote(x.Value)
	case *luaast.IdentExpr:
		return x.Value
	case *luaast.TrueExpr:
		return "true"
	case *luaast.FalseExpr:
		return "false"
	case *luaast.NilExpr:
		return "nil"
	case *luaast.UnaryMinusOpExpr:
		return "-" + render(x.Expr)
	case *luaast.UnaryNotOpExpr:
		return "not " + render(x.Expr)
	case *luaast.ArithmeticOpExpr:
		return render(x.Lhs) + " " + x.Operator + " " + render(x.Rhs)
	case *luaast.RelationalOpExpr:
		return render(x.Lhs) + " " + x.Operator + " " + render(x.Rhs)
	case *luaast.LogicalOpExpr:
		return render(x.Lhs) + " " + x.Operator + " " + render(x.Rhs)
	case *luaast.StringConcatOpExpr:
		return render(x.Lhs) + " .. " + render(x.Rhs)
	case *luaast.AttrGetExpr:
		if k, ok := x.Key.(*luaast.StringExpr); ok {
			return render(x.Object) + "." + k.Value
		}
		return render(x.Object) + "[" + render(x.Key) + "]"
	case *luaast.FuncCallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = render(a)
		}
		fn := render(x.Func)
		if x.Receiver != nil {
			fn = render(x.Receiver) + ":" + x.Method
		}
		return fn + "(" + strings.Join(args, ", ") + ")"
	}
	return "?"
}
