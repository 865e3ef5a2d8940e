package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrTemplateMissing indicates that [project].template is missing.
	ErrTemplateMissing = errors.New("missing [project].template")
	// ErrPathEscapes indicates a manifest path that leaves the project root.
	ErrPathEscapes = errors.New("path escapes project root")
)

// Defaults for optional manifest values.
const (
	DefaultModulesDir = "latest-maps"
	DefaultOutputDir  = "backports"
	DefaultAuthor     = "IceSandslash"
	DefaultGenerator  = "the Evergreen Project"
	DefaultVersion    = "Evergreen 10"
	DefaultLanguage   = "English"
)

// Manifest is a loaded evergreen.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest sections.
type Config struct {
	Project ProjectConfig `toml:"project"`
	Meta    MetaConfig    `toml:"meta"`
	Data    DataConfig    `toml:"data"`
	Merge   MergeConfig   `toml:"merge"`
}

type ProjectConfig struct {
	Template string `toml:"template"`
	Modules  string `toml:"modules"`
	Output   string `toml:"output"`
}

type MetaConfig struct {
	Author    string `toml:"author"`
	Generator string `toml:"generator"`
	Version   string `toml:"version"`
	Language  string `toml:"language"`
	AIVersion string `toml:"ai_version"`
}

type DataConfig struct {
	Dir      string `toml:"dir"`
	UnitList string `toml:"unit_list"`
	// Cache enables the flattened table cache; on unless set to false.
	Cache *bool `toml:"cache"`
}

type MergeConfig struct {
	Library    bool `toml:"library"`
	Lint       bool `toml:"lint"`
	MeleeUnits bool `toml:"melee_units"`
}

// LoadManifest locates evergreen.toml from startDir and loads it. ok is
// false when no manifest exists.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := ReadManifest(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// ReadManifest parses the manifest at path and fills in defaults.
func ReadManifest(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if !meta.IsDefined("project", "template") || strings.TrimSpace(cfg.Project.Template) == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrTemplateMissing)
	}
	cfg.defaults()
	m := &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}
	for _, p := range []string{cfg.Project.Template, cfg.Project.Modules, cfg.Project.Output, cfg.Data.Dir, cfg.Data.UnitList} {
		if p == "" {
			continue
		}
		if _, err := m.Resolve(p); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return m, nil
}

func (c *Config) defaults() {
	set := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	set(&c.Project.Modules, DefaultModulesDir)
	set(&c.Project.Output, DefaultOutputDir)
	set(&c.Meta.Author, DefaultAuthor)
	set(&c.Meta.Generator, DefaultGenerator)
	set(&c.Meta.Version, DefaultVersion)
	set(&c.Meta.Language, DefaultLanguage)
}

// CacheEnabled reports whether [data].cache is on.
func (c DataConfig) CacheEnabled() bool { return c.Cache == nil || *c.Cache }

// Resolve joins a manifest-relative path onto the project root.
func (m *Manifest) Resolve(rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel), nil
	}
	p := filepath.Join(m.Root, filepath.FromSlash(rel))
	if !pathWithin(m.Root, p) {
		return "", fmt.Errorf("%q: %w", rel, ErrPathEscapes)
	}
	return p, nil
}

func (m *Manifest) mustResolve(rel string) string {
	if rel == "" {
		return ""
	}
	p, err := m.Resolve(rel)
	if err != nil {
		// ReadManifest validated every path
		return ""
	}
	return p
}

func (m *Manifest) TemplatePath() string { return m.mustResolve(m.Config.Project.Template) }
func (m *Manifest) ModulesDir() string   { return m.mustResolve(m.Config.Project.Modules) }
func (m *Manifest) OutputDir() string    { return m.mustResolve(m.Config.Project.Output) }
func (m *Manifest) DataDir() string      { return m.mustResolve(m.Config.Data.Dir) }
func (m *Manifest) UnitList() string     { return m.mustResolve(m.Config.Data.UnitList) }
