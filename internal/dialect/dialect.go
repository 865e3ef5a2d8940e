package dialect

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is a script dialect.
type Kind uint8

const (
	Unknown Kind = iota
	// Jass is Dialect-J, the language of the template and of the output.
	Jass
	// Lua is Dialect-L; its function bodies are transpiled to Jass.
	Lua

	kindCount
)

func (k Kind) String() string {
	switch k {
	case Jass:
		return "jass"
	case Lua:
		return "lua"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}

// ScriptName is the script file name a module folder holds for the dialect.
func (k Kind) ScriptName() string {
	switch k {
	case Lua:
		return "war3map.lua"
	case Jass:
		return "war3map.j"
	}
	return ""
}

// Parse accepts the names used on the command line and in meta.toml.
func Parse(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jass", "jass2", "j":
		return Jass, nil
	case "lua":
		return Lua, nil
	case "", "auto":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("unknown dialect %q (expected: jass|lua|auto)", s)
}

// FromFileName maps a script file extension to its dialect.
func FromFileName(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".j", ".jass":
		return Jass
	case ".lua":
		return Lua
	}
	return Unknown
}
