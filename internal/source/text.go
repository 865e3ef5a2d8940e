package source

import (
	"bytes"
	"strings"
)

// CRLF is the line terminator used for every generated script fragment.
const CRLF = "\r\n"

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}
	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- FileSet.Add rejects content over 4GiB
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// бинпоиск: первая '\n' не левее off
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	var start uint32
	if lo > 0 {
		start = lineIdx[lo-1] + 1
	}
	return LineCol{Line: uint32(lo + 1), Col: off - start + 1} // #nosec G115
}

// SplitLines splits text on "\n" or "\r\n" and drops the terminators.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// NormalizeCRLF rewrites every line break to "\r\n".
func NormalizeCRLF(text string) string {
	return strings.Join(SplitLines(text), CRLF)
}
