package merge

import (
	"strings"

	"evergreen/internal/parser"
	"evergreen/internal/source"
)

// StripTemplate removes the template's own copies of every captured
// function, declaration line through "endfunction". Line breaks are
// normalised to CRLF.
func StripTemplate(template string) string {
	lines := source.SplitLines(template)
	out := make([]string, 0, len(lines))
	skipping := false
	for _, line := range lines {
		if skipping {
			if line == "endfunction" {
				skipping = false
			}
			continue
		}
		if _, ok := parser.CapturedDecl(line); ok {
			skipping = true
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, source.CRLF)
}
