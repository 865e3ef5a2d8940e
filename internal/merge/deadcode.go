package merge

import (
	"regexp"
	"strings"
)

// contradictions are the guards WorldEdit emits for disabled code.
var contradictions = map[string]bool{
	"if false then":                     true,
	"if true == false then":             true,
	"if false == true then":             true,
	"if ( true == false ) then":         true,
	"if ( false == true ) then":         true,
	"if udg_DEAD_CODE then":             true,
	"if udg_DEAD_CODE == true then":     true,
	"if ( udg_DEAD_CODE == true ) then": true,
}

// negatedContradictions holds "if ( not ( X ) ) then" for every X above.
var negatedContradictions = func() map[string]bool {
	out := make(map[string]bool, len(contradictions))
	for c := range contradictions {
		cond := strings.TrimSuffix(strings.TrimPrefix(c, "if "), " then")
		out["if ( not ( "+cond+" ) ) then"] = true
	}
	return out
}()

var zeroArgGuard = regexp.MustCompile(`^if \( (\w+)\(\) \) then$`)

// alwaysFalseBody reports whether the four trimmed body lines of a
// condition function can only return false.
func alwaysFalseBody(body []string) bool {
	if len(body) != 4 {
		return false
	}
	switch {
	case contradictions[body[0]]:
		return body[1] == "return true" && body[2] == "endif" && body[3] == "return false"
	case negatedContradictions[body[0]]:
		return body[1] == "return false" && body[2] == "endif" && body[3] == "return true"
	}
	return false
}

// AlwaysFalse holds the result of the detection pass.
type AlwaysFalse struct {
	Names map[string]bool
	// Decls are the line indices of the recorded declarations. Each
	// declaration spans six lines.
	Decls map[int]bool
}

// FindAlwaysFalse scans lines for condition functions whose whole body is
// a contradiction-guarded return pair.
func FindAlwaysFalse(lines []string) AlwaysFalse {
	af := AlwaysFalse{Names: map[string]bool{}, Decls: map[int]bool{}}
	name := ""
	var body []string
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "function "):
			name, _, _ = strings.Cut(strings.TrimPrefix(trimmed, "function "), " takes ")
			body = body[:0]
			continue
		case strings.HasPrefix(trimmed, "endfunction"):
			if name != "" && alwaysFalseBody(body) {
				af.Names[name] = true
				af.Decls[i-5] = true
			}
			name = ""
			body = body[:0]
			continue
		}
		if name != "" {
			body = append(body, trimmed)
		}
	}
	return af
}

// deadScan is the state of the elimination pass.
type deadScan struct {
	ifDepth int
	// deadDepth is the ifDepth of the dead block being dropped, 0 if none.
	deadDepth int
	af        AlwaysFalse
}

// keep consumes one trimmed line and reports whether it survives.
func (s *deadScan) keep(trimmed string) bool {
	switch {
	case strings.HasPrefix(trimmed, "if "):
		s.ifDepth++
	case strings.HasPrefix(trimmed, "endif"):
		if s.deadDepth != 0 && s.deadDepth == s.ifDepth {
			s.deadDepth = 0
			s.ifDepth--
			return false
		}
		s.ifDepth--
	}
	if s.deadDepth == 0 && s.deadGuard(trimmed) {
		s.deadDepth = s.ifDepth
	}
	return s.deadDepth == 0
}

func (s *deadScan) deadGuard(trimmed string) bool {
	if contradictions[trimmed] {
		return true
	}
	m := zeroArgGuard.FindStringSubmatch(trimmed)
	return m != nil && s.af.Names[m[1]]
}

// DeadCode removes always-false condition functions and every if-block
// guarded by a contradiction or by a call to such a function. Lines are
// split on "\n" so CRLF endings are kept.
func DeadCode(text string) string {
	lines := strings.Split(text, "\n")
	s := &deadScan{af: FindAlwaysFalse(lines)}
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		if s.af.Decls[i] {
			i += 5
			continue
		}
		if s.keep(strings.TrimSpace(lines[i])) {
			out = append(out, lines[i])
		}
	}
	return strings.Join(out, "\n")
}
