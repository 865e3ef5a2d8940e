package transpile

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// alwaysPresent are unit codes the target engine knows even when they are
// missing from the unit list.
var alwaysPresent = []string{"sloc", "bDNR"}

var defaultReplacements = map[string]string{
	"nech": "ndog",
	"necr": "npig",
	"nfro": "ncrb",
	"nrac": "nder",
}

// UnitCatalog is the set of unit types available on the target engine plus
// substitutes for a few critters that were added later.
type UnitCatalog struct {
	known        map[string]struct{}
	replacements map[string]string
}

// Resolution is the outcome of UnitCatalog.Resolve.
type Resolution uint8

const (
	UnitKnown Resolution = iota
	UnitReplaced
	UnitMissing
)

func NewUnitCatalog(codes []string) *UnitCatalog {
	c := &UnitCatalog{
		known:        make(map[string]struct{}, len(codes)+len(alwaysPresent)),
		replacements: defaultReplacements,
	}
	for _, code := range alwaysPresent {
		c.known[code] = struct{}{}
	}
	for _, code := range codes {
		c.known[code] = struct{}{}
	}
	return c
}

// ReadUnitCatalog reads one unit code per line. Blank lines and lines
// starting with '#' or "//" are ignored.
func ReadUnitCatalog(r io.Reader) (*UnitCatalog, error) {
	var codes []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if len(line) != 4 {
			return nil, fmt.Errorf("unit list: %q is not a four character code", line)
		}
		codes = append(codes, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("unit list: %w", err)
	}
	return NewUnitCatalog(codes), nil
}

func (c *UnitCatalog) Exists(code string) bool {
	if c == nil {
		return true
	}
	_, ok := c.known[code]
	return ok
}

func (c *UnitCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.known)
}

// Resolve returns the code to use on the target engine. A nil catalog
// accepts every code.
func (c *UnitCatalog) Resolve(code string) (string, Resolution) {
	if c.Exists(code) {
		return code, UnitKnown
	}
	if sub, ok := c.replacements[code]; ok {
		return sub, UnitReplaced
	}
	return code, UnitMissing
}
