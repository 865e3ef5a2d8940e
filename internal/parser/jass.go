package parser

import (
	"regexp"
	"strings"

	"evergreen/internal/ast"
	"evergreen/internal/diag"
	"evergreen/internal/dialect"
	"evergreen/internal/source"
)

var (
	jassCall    = regexp.MustCompile(`^\s*call (\w+)\((.*)\)\s*$`)
	jassSetCall = regexp.MustCompile(`^\s*set (\w+)(?:\[([^\]]+)\])?\s*=\s*(\w+)\((.*)\)\s*$`)
	jassSetLit  = regexp.MustCompile(`^\s*set (\w+)\[([^\]]+)\]\s*=\s*('[^']{4}'|-?\d+)\s*$`)
	// statements we expect to understand; anything else is not a gap
	jassStmt = regexp.MustCompile(`^\s*(call|set)\s`)
)

type jassState uint8

const (
	jassScanning jassState = iota
	jassInFunction
)

// Jass is the line-oriented Dialect-J recogniser. It never returns an error.
type Jass struct {
	Options
}

// jassScan holds the state of one Parse call.
type jassScan struct {
	opts  Options
	emit  func(ast.Node)
	state jassState

	fnName  string
	fnLines []string
	fnStart uint32

	residual []string
}

func (j *Jass) Parse(src string, emit func(ast.Node)) (string, error) {
	s := &jassScan{opts: j.Options, emit: emit}
	var off uint32
	for _, raw := range strings.SplitAfter(src, "\n") {
		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		lineLen := uint32(len(raw)) // #nosec G115 -- source.FileSet bounds script size
		s.line(line, source.Span{File: j.File, Start: off, End: off + uint32(len(line))}) // #nosec G115
		off += lineLen
	}
	if s.state == jassInFunction {
		// unterminated capture: hand the lines back
		s.residual = append(s.residual, s.fnLines...)
	}
	return strings.Join(s.residual, source.CRLF), nil
}

func (s *jassScan) line(line string, loc source.Span) {
	switch s.state {
	case jassInFunction:
		s.fnLines = append(s.fnLines, line)
		if line == "endfunction" {
			s.emit(&ast.FuncDecl{
				Name:    s.fnName,
				Dialect: dialect.Jass,
				Source:  strings.Join(s.fnLines, source.CRLF),
				Loc:     source.Span{File: loc.File, Start: s.fnStart, End: loc.End},
			})
			s.state = jassScanning
			s.fnName, s.fnLines = "", nil
		}
	default:
		if name, ok := CapturedDecl(line); ok {
			s.state = jassInFunction
			s.fnName = name
			s.fnLines = []string{line}
			s.fnStart = loc.Start
		} else {
			s.residual = append(s.residual, line)
		}
	}
	s.statement(line, loc)
}

// statement recognises call/set lines regardless of the capture state.
func (s *jassScan) statement(line string, loc source.Span) {
	if m := jassCall.FindStringSubmatch(line); m != nil {
		s.emit(s.call(m[1], m[2], loc))
		return
	}
	if m := jassSetCall.FindStringSubmatch(line); m != nil {
		call := s.call(m[3], m[4], loc)
		s.emit(call)
		s.emit(&ast.AssignStmt{Target: m[1], Index: m[2], Init: call, Loc: loc})
		return
	}
	if m := jassSetLit.FindStringSubmatch(line); m != nil {
		v, _ := classifyArg(m[3], loc)
		s.emit(&ast.AssignStmt{Target: m[1], Index: m[2], Value: &v, Loc: loc})
		return
	}
	if jassStmt.MatchString(line) && strings.Contains(line, "(") {
		s.gap(loc, "statement not recognised: "+strings.TrimSpace(line))
	}
}

func (s *jassScan) call(callee, args string, loc source.Span) *ast.CallExpr {
	parsed, ok := parseArgs(args, loc)
	if !ok {
		s.gap(loc, "unbalanced arguments in call to "+callee)
	}
	return &ast.CallExpr{Callee: callee, Args: parsed, Loc: loc}
}

func (s *jassScan) gap(loc source.Span, msg string) {
	diag.ReportInfo(s.opts.Reporter, diag.PrsRecognitionGap, loc, msg).Emit()
}
