package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"evergreen/internal/dialect"
)

var (
	// ErrNoScript indicates a module folder without war3map.j or war3map.lua.
	ErrNoScript = errors.New("module folder has no script")
	// ErrDialectConflict indicates a module folder holding both scripts
	// without a dialect chosen in meta.toml.
	ErrDialectConflict = errors.New("module folder has scripts in both dialects")
)

// ModuleMetaName is the optional per-module metadata file.
const ModuleMetaName = "meta.toml"

// ModuleMeta are the texts of one module. Fields left empty in meta.toml
// fall back to the folder name or stay empty.
type ModuleMeta struct {
	Name          string `toml:"name"`
	Author        string `toml:"author"`
	EditorVersion string `toml:"editor_version"`
	Dialect       string `toml:"dialect"`
}

type moduleMetaFile struct {
	Map ModuleMeta `toml:"map"`
}

// Module is one module folder ready to be ported.
type Module struct {
	// Name is the folder name.
	Name    string
	Dir     string
	Script  string
	Dialect dialect.Kind
	// Archive is the packed module next to the folder, <Dir>.w3x, when present.
	// Its digest is shown in the credits; otherwise the script is hashed.
	Archive string
	Meta    ModuleMeta
}

// HashPath is the file whose digest identifies the module.
func (m *Module) HashPath() string {
	if m.Archive != "" {
		return m.Archive
	}
	return m.Script
}

// OpenModule inspects one module folder. explicit overrides the dialect
// from meta.toml; Unknown means auto.
func OpenModule(dir string, explicit dialect.Kind) (*Module, error) {
	dir = filepath.Clean(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("module %s: not a directory", dir)
	}
	m := &Module{Name: filepath.Base(dir), Dir: dir}

	metaPath := filepath.Join(dir, ModuleMetaName)
	if _, err := os.Stat(metaPath); err == nil {
		var f moduleMetaFile
		if _, err := toml.DecodeFile(metaPath, &f); err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", metaPath, err)
		}
		m.Meta = f.Map
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat %q: %w", metaPath, err)
	}
	if strings.TrimSpace(m.Meta.Name) == "" {
		m.Meta.Name = m.Name
	}

	kind := explicit
	if kind == dialect.Unknown {
		if kind, err = dialect.Parse(m.Meta.Dialect); err != nil {
			return nil, fmt.Errorf("%s: %w", metaPath, err)
		}
	}
	if m.Script, m.Dialect, err = findScript(dir, kind); err != nil {
		return nil, fmt.Errorf("module %s: %w", m.Name, err)
	}

	archive := dir + ".w3x"
	if st, err := os.Stat(archive); err == nil && !st.IsDir() {
		m.Archive = archive
	}
	return m, nil
}

func findScript(dir string, kind dialect.Kind) (string, dialect.Kind, error) {
	if kind != dialect.Unknown {
		p := filepath.Join(dir, kind.ScriptName())
		if !fileExists(p) {
			return "", kind, fmt.Errorf("%w: %s", ErrNoScript, kind.ScriptName())
		}
		return p, kind, nil
	}
	jass := filepath.Join(dir, dialect.Jass.ScriptName())
	lua := filepath.Join(dir, dialect.Lua.ScriptName())
	hasJass, hasLua := fileExists(jass), fileExists(lua)
	switch {
	case hasJass && hasLua:
		return "", dialect.Unknown, ErrDialectConflict
	case hasLua:
		return lua, dialect.Lua, nil
	case hasJass:
		return jass, dialect.Jass, nil
	}
	return "", dialect.Unknown, ErrNoScript
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// DiscoverModules opens every sub-folder of dir that holds a script, sorted
// by name. Folders without a script are skipped; any other failure is
// returned together with the modules that did open.
func DiscoverModules(dir string) ([]*Module, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read modules dir: %w", err)
	}
	var (
		out  []*Module
		errs []error
	)
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		m, err := OpenModule(filepath.Join(dir, e.Name()), dialect.Unknown)
		if errors.Is(err, ErrNoScript) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *Module) int { return strings.Compare(a.Name, b.Name) })
	return out, errors.Join(errs...)
}
