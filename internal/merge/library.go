package merge

import (
	_ "embed"
	"regexp"
	"strings"

	"evergreen/internal/source"
)

var (
	//go:embed library/library.j
	libraryBody string
	//go:embed library/api.j
	libraryAPI string
	//go:embed library/globals.j
	libraryGlobals string
	//go:embed library/deps.j
	libraryDeps string
)

var (
	libraryBlock = regexp.MustCompile(`(?s) *// BEGIN MMD LIBRARY.*?// END MMD LIBRARY`)
	apiBlock     = regexp.MustCompile(`(?s) *// BEGIN MMD API.*?// END MMD API`)
)

const (
	initGlobalsCall = "    call InitGlobals(  )"
	libraryInit     = "    call ExecuteFunc( \"jasshelper__initstructs33761985\" )" + source.CRLF +
		"    call ExecuteFunc( \"MMD__init\" )" + source.CRLF
)

// Library injects the telemetry library: the function bodies replace the
// BEGIN/END MMD LIBRARY and MMD API blocks, its globals go before
// "endglobals", struct initialisers are appended and the init calls are
// scheduled before InitGlobals.
func Library(text string) (string, error) {
	for _, blk := range []struct {
		re     *regexp.Regexp
		anchor string
		body   string
	}{
		{libraryBlock, "// BEGIN MMD LIBRARY", libraryBody},
		{apiBlock, "// BEGIN MMD API", libraryAPI},
	} {
		locs := blk.re.FindAllStringIndex(text, -1)
		if len(locs) != 1 {
			return "", cardinalityError("library", blk.anchor, len(locs))
		}
		body := source.NormalizeCRLF(strings.TrimRight(blk.body, "\r\n"))
		text = text[:locs[0][0]] + body + text[locs[0][1]:]
	}

	var globals strings.Builder
	for _, line := range source.SplitLines(libraryGlobals) {
		if line = strings.TrimSpace(line); line != "" {
			globals.WriteString("    " + line + source.CRLF)
		}
	}
	loc := endGlobals.FindStringIndex(text)
	if loc == nil {
		return "", anchorError("library", "endglobals", ErrSectionNotFound)
	}
	text = text[:loc[0]] + globals.String() + text[loc[0]:]

	at := strings.Index(text, initGlobalsCall)
	if at < 0 {
		return "", anchorError("library", strings.TrimSpace(initGlobalsCall), ErrSectionNotFound)
	}
	text = text[:at] + libraryInit + text[at:]

	return text + source.NormalizeCRLF(libraryDeps), nil
}
