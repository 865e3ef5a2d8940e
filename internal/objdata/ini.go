package objdata

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadINI reads a UnitFunc-style INI file. Every section becomes a record
// whose idKey column holds the section name. Keys outside a section are
// ignored; values keep their raw text with one pair of surrounding quotes
// removed.
func ReadINI(r io.Reader, idKey string) ([]Record, error) {
	var (
		out     []Record
		current Record
		lineNo  int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		switch {
		case line == "", strings.HasPrefix(line, ";"), strings.HasPrefix(line, "//"):
			continue
		case strings.HasPrefix(line, "["):
			end := strings.IndexByte(line, ']')
			if end < 0 {
				return nil, fmt.Errorf("ini line %d: unterminated section", lineNo)
			}
			current = Record{idKey: line[1:end]}
			out = append(out, current)
		default:
			if current == nil {
				continue
			}
			k, v, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			current[strings.TrimSpace(k)] = unquote(strings.TrimSpace(v))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ini: %w", err)
	}
	return out, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
