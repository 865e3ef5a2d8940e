package merge

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"evergreen/internal/ir"
	"evergreen/internal/source"
)

var (
	setPlayers     = regexp.MustCompile(`(?m)^([ \t]*)call SetPlayers\(\s*\d+\s*\)`)
	setTeams       = regexp.MustCompile(`(?m)^([ \t]*)call SetTeams\(\s*\d+\s*\)`)
	startLocLine   = regexp.MustCompile(`(?m)^[ \t]*call DefineStartLocation\([^\r\n]*\r?\n`)
	slotLine       = regexp.MustCompile(`(?m)^[ \t]*call SetPlayerSlotAvailable\(\s*Player\(\d+\)\s*,[^\r\n]*\r?\n`)
	playerSetupAnc = regexp.MustCompile(`(?m)^[ \t]+// Player setup\r?\n[ \t]+call InitCustomPlayerSlots\(  \)`)
)

// Float renders a coordinate the way WorldEdit writes it: integral values
// get a ".0" suffix, others use the shortest exact form.
func Float(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func replaceCount(text string, re *regexp.Regexp, name string, n int) (string, error) {
	m := re.FindStringSubmatchIndex(text)
	if m == nil {
		return "", anchorError("players", "call "+name, ErrSectionNotFound)
	}
	indent := text[m[2]:m[3]]
	return text[:m[0]] + fmt.Sprintf("%scall %s( %d )", indent, name, n) + text[m[1]:], nil
}

// PlayerConfig rewrites the player and team counts and replaces the
// template's start locations and slot availability with the module's.
func PlayerConfig(text string, cfg ir.PlayerConfig) (string, error) {
	text, err := replaceCount(text, setPlayers, "SetPlayers", cfg.Players)
	if err != nil {
		return "", err
	}
	if text, err = replaceCount(text, setTeams, "SetTeams", cfg.Teams); err != nil {
		return "", err
	}
	text = startLocLine.ReplaceAllLiteralString(text, "")
	text = slotLine.ReplaceAllLiteralString(text, "")

	loc := playerSetupAnc.FindStringIndex(text)
	if loc == nil {
		return "", anchorError("players", "// Player setup", ErrSectionNotFound)
	}
	var b strings.Builder
	for _, i := range cfg.StartLocations.Indices() {
		sl, _ := cfg.StartLocations.Get(i)
		fmt.Fprintf(&b, "%s    call DefineStartLocation( %d, %s, %s )", source.CRLF, i, Float(sl.X), Float(sl.Y))
	}
	for _, i := range cfg.Slots.Indices() {
		ctrl, _ := cfg.Slots.Get(i)
		fmt.Fprintf(&b, "%s    call SetPlayerSlotAvailable( Player(%d), %s )", source.CRLF, i, ctrl)
	}
	return text[:loc[1]] + b.String() + text[loc[1]:], nil
}
