package merge

import (
	"regexp"
	"strings"

	"evergreen/internal/codegen"
)

// blockPattern matches one BEGIN/END pair, markers included, with the
// indentation of the BEGIN line.
func blockPattern(marker string) *regexp.Regexp {
	m := regexp.QuoteMeta(marker)
	return regexp.MustCompile(`(?s) *// BEGIN ` + m + `\b.*?// END ` + m + `\b`)
}

// TableBlocks replaces every BEGIN/END marker pair with its generated block.
// A missing pair is left alone; a pair present more than once is an error.
func TableBlocks(text string, blocks *codegen.Blocks) (string, error) {
	for _, blk := range blocks.List() {
		re := blockPattern(blk.Marker)
		locs := re.FindAllStringIndex(text, 2)
		switch len(locs) {
		case 0:
			continue
		case 1:
			text = text[:locs[0][0]] + strings.TrimRight(blk.Text, "\r\n") + text[locs[0][1]:]
		default:
			return "", cardinalityError("tables", "BEGIN "+blk.Marker, len(re.FindAllStringIndex(text, -1)))
		}
	}
	return text, nil
}
