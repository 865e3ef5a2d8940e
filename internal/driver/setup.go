package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"evergreen/internal/codegen"
	"evergreen/internal/merge"
	"evergreen/internal/objdata"
	"evergreen/internal/pipeline"
	"evergreen/internal/project"
	"evergreen/internal/source"
	"evergreen/internal/trace"
	"evergreen/internal/transpile"
)

// cacheApp names the per-user cache directory.
const cacheApp = "evergreen"

// Options are the run settings that do not come from the manifest.
type Options struct {
	MaxDiagnostics int
	// Timings appends a timing diagnostic to every module bag.
	Timings bool
	// DryRun merges without writing output.
	DryRun bool
	// CacheDir overrides the table cache location; empty means the user cache.
	CacheDir string
	Progress pipeline.ProgressSink
	// Now stamps the generation date; zero means time.Now.
	Now time.Time
}

// Config is everything shared by the modules of one run. It is built once by
// Setup and read concurrently by Port.
type Config struct {
	Template     string
	TemplatePath string
	Engine       *merge.Engine
	// Meta holds the project texts; module texts are filled in per port.
	Meta      merge.Metadata
	OutputDir string
	// TablesCached reports whether the object tables came from the cache.
	TablesCached bool
	// Warnings are non-fatal setup problems, e.g. a failed cache write.
	Warnings []string
	Options  Options
}

// Setup reads the template, loads the unit catalog and object tables and
// generates the constant blocks once for the whole run.
func Setup(ctx context.Context, m *project.Manifest, opts Options) (*Config, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "setup", trace.ParentFrom(ctx))
	defer span.End("")
	parent := span.ID()

	cfg := &Config{TemplatePath: m.TemplatePath(), OutputDir: m.OutputDir(), Options: opts}
	if opts.DryRun {
		cfg.OutputDir = ""
	}

	files := source.NewFileSet()
	id, err := files.Load(cfg.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	cfg.Template = files.Get(id).Text()

	var units *transpile.UnitCatalog
	if path := m.UnitList(); path != "" {
		units, err = readUnits(path)
		if err != nil {
			return nil, err
		}
	}

	set := objdata.NewSet()
	if dir := m.DataDir(); dir != "" {
		tspan := trace.Begin(tracer, trace.ScopeStep, "tables", parent)
		set, cfg.TablesCached, err = loadTables(dir, m.Config.Data.CacheEnabled(), opts.CacheDir, &cfg.Warnings)
		if err != nil {
			tspan.End("failed")
			return nil, err
		}
		tspan.End(fmt.Sprintf("cached=%t", cfg.TablesCached))
	}

	cfg.Engine = &merge.Engine{
		Blocks:     codegen.Generate(set, codegen.Options{MeleeUnits: m.Config.Merge.MeleeUnits}),
		Transpiler: transpile.New(units, nil),
		Options: merge.Options{
			Lint:    m.Config.Merge.Lint,
			Library: m.Config.Merge.Library,
		},
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	meta := m.Config.Meta
	cfg.Meta = merge.Metadata{
		Generator:     meta.Generator,
		Version:       meta.Version,
		Date:          project.Date(now),
		ProjectAuthor: meta.Author,
		Language:      meta.Language,
		AIVersion:     meta.AIVersion,
	}
	return cfg, nil
}

func readUnits(path string) (*transpile.UnitCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unit list: %w", err)
	}
	defer f.Close()
	units, err := transpile.ReadUnitCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("unit list %s: %w", path, err)
	}
	return units, nil
}

func loadTables(dir string, useCache bool, cacheDir string, warnings *[]string) (*objdata.Set, bool, error) {
	var cache *objdata.Cache
	if useCache {
		var err error
		if cacheDir != "" {
			cache, err = objdata.OpenCacheDir(cacheDir)
		} else {
			cache, err = objdata.OpenCache(cacheApp)
		}
		if err != nil {
			*warnings = append(*warnings, "table cache disabled: "+err.Error())
			cache = nil
		}
	}
	set, hit, err := objdata.Load(dir, codegen.Tables, cache)
	if err != nil && set == nil {
		return nil, false, fmt.Errorf("object tables: %w", err)
	}
	if err != nil {
		*warnings = append(*warnings, err.Error())
	}
	return set, hit, nil
}

// DropCache removes every cached table set.
func DropCache(cacheDir string) error {
	var (
		cache *objdata.Cache
		err   error
	)
	if cacheDir != "" {
		cache, err = objdata.OpenCacheDir(cacheDir)
	} else {
		cache, err = objdata.OpenCache(cacheApp)
	}
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
