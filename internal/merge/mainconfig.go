package merge

import (
	"regexp"
	"strings"

	"evergreen/internal/ir"
	"evergreen/internal/source"
)

var (
	cameraCall     = regexp.MustCompile(`call SetCameraBounds[^\r\n]*`)
	dayNightCall   = regexp.MustCompile(`call SetDayNightModels[^\r\n]*`)
	daySoundCall   = regexp.MustCompile(`call SetAmbientDaySound\([^)]+\)`)
	nightSoundCall = regexp.MustCompile(`call SetAmbientNightSound\([^)]+\)`)
	createAllUnits = regexp.MustCompile(`(?m)^([ \t]*)call CreateAllUnits\b`)
	endGlobals     = regexp.MustCompile(`(?m)^endglobals\b`)
)

// replaceOnce replaces the first match of re with the literal repl. ok is
// false when re does not match.
func replaceOnce(text string, re *regexp.Regexp, repl string) (string, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return text, false
	}
	return text[:loc[0]] + repl + text[loc[1]:], true
}

// MainConfig rewrites the environment calls of the template's main function
// with the module's arguments. Calls the module did not make are left
// alone. With regions present, "call CreateRegions(  )" is inserted before
// "call CreateAllUnits(  )".
func MainConfig(text string, main ir.MainRecord) (string, error) {
	if len(main.Camera) > 0 {
		text, _ = replaceOnce(text, cameraCall, "call SetCameraBounds("+strings.Join(main.Camera, ", ")+")")
	}
	if len(main.DayNightModels) > 0 {
		text, _ = replaceOnce(text, dayNightCall, "call SetDayNightModels("+strings.Join(main.DayNightModels, ", ")+")")
	}
	if main.DaySound != "" {
		text, _ = replaceOnce(text, daySoundCall, "call SetAmbientDaySound("+main.DaySound+")")
	}
	if main.NightSound != "" {
		text, _ = replaceOnce(text, nightSoundCall, "call SetAmbientNightSound("+main.NightSound+")")
	}
	if len(main.Regions) == 0 || strings.Contains(text, "call CreateRegions(") {
		return text, nil
	}
	m := createAllUnits.FindStringSubmatchIndex(text)
	if m == nil {
		return "", anchorError("main", "call CreateAllUnits", ErrSectionNotFound)
	}
	indent := text[m[2]:m[3]]
	return text[:m[0]] + indent + "call CreateRegions(  )" + source.CRLF + text[m[0]:], nil
}

// Globals declares the module's regions and random groups before
// "endglobals". Names the template already declares are skipped.
func Globals(text string, main ir.MainRecord) (string, error) {
	var b strings.Builder
	for _, name := range main.Regions {
		if !declared(text, name) {
			b.WriteString("    rect                    " + name + "            = null" + source.CRLF)
		}
	}
	for _, name := range main.RandomGroups {
		if !declared(text, name) {
			b.WriteString("    integer array " + name + source.CRLF)
		}
	}
	if b.Len() == 0 {
		return text, nil
	}
	loc := endGlobals.FindStringIndex(text)
	if loc == nil {
		return "", anchorError("main", "endglobals", ErrSectionNotFound)
	}
	return text[:loc[0]] + b.String() + text[loc[0]:], nil
}

// declared reports whether a globals line already names the variable.
func declared(text, name string) bool {
	end := strings.Index(text, "endglobals")
	if end < 0 {
		end = len(text)
	}
	re := regexp.MustCompile(`(?m)^\s*(?:constant\s+)?\w+(?:\s+array)?\s+` + regexp.QuoteMeta(name) + `\b`)
	return re.MatchString(text[:end])
}
