package dialect

import (
	"regexp"
	"strings"

	"evergreen/internal/source"
)

type lineSignal struct {
	re      *regexp.Regexp
	dialect Kind
	score   int
	reason  string
}

// Scores favour constructs that World Editor emits in every script of the
// dialect, so a few hundred lines settle the question.
var lineSignals = []lineSignal{
	{regexp.MustCompile(`^endfunction\s*$`), Jass, 6, "`endfunction`"},
	{regexp.MustCompile(`^function \w+ takes `), Jass, 6, "`function ... takes` declaration"},
	{regexp.MustCompile(`^\s*endglobals\s*$`), Jass, 8, "`endglobals`"},
	{regexp.MustCompile(`^\s*call \w+\(`), Jass, 2, "`call` statement"},
	{regexp.MustCompile(`^\s*set \w+(\[[^\]]*\])?\s*=`), Jass, 2, "`set` statement"},
	{regexp.MustCompile(`^\s*endif\s*$`), Jass, 3, "`endif`"},
	{regexp.MustCompile(`^function \w+\(.*\)\s*$`), Lua, 6, "parenthesised function header"},
	{regexp.MustCompile(`^\s*end\s*$`), Lua, 3, "`end`"},
	{regexp.MustCompile(`^\s*local \w+\s*(=|$)`), Lua, 2, "untyped `local`"},
	{regexp.MustCompile(`FourCC\("`), Lua, 4, "`FourCC` literal"},
	{regexp.MustCompile(`~=`), Lua, 3, "`~=` operator"},
	{regexp.MustCompile(`^\s*--`), Lua, 1, "`--` comment"},
	{regexp.MustCompile(`\bnil\b`), Lua, 2, "`nil` literal"},
}

// Observe records the evidence a single line provides. off is the byte
// offset of the line within file.
func Observe(e *Evidence, file source.FileID, off uint32, line string) {
	if e == nil {
		return
	}
	line = strings.TrimSuffix(line, "\r")
	for _, sig := range lineSignals {
		loc := sig.re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		e.Add(Hint{
			Dialect: sig.dialect,
			Score:   sig.score,
			Reason:  sig.reason,
			Span:    source.Span{File: file, Start: off + uint32(loc[0]), End: off + uint32(loc[1])}, // #nosec G115
		})
	}
}
