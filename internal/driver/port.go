package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fortio.org/safecast"

	"evergreen/internal/diag"
	"evergreen/internal/dialect"
	"evergreen/internal/ir"
	"evergreen/internal/merge"
	"evergreen/internal/observ"
	"evergreen/internal/parser"
	"evergreen/internal/pipeline"
	"evergreen/internal/project"
	"evergreen/internal/source"
	"evergreen/internal/trace"
	"evergreen/internal/transpile"
)

// Request ports one module with a prepared Config.
type Request struct {
	Config *Config
	Module *project.Module
}

// Result is the outcome of one port. Bag always holds the module's
// diagnostics, including the fatal one when Err is set.
type Result struct {
	Module *project.Module
	Files  *source.FileSet
	Bag    *diag.Bag
	Timer  *observ.Timer

	Timings pipeline.Timings
	Digest  project.Digest
	// PlayerCount is the value stored in the map header.
	PlayerCount uint8
	// OutputName is the branded, sanitized archive name.
	OutputName string
	// OutputPath is the written script; empty on dry runs.
	OutputPath string
	Script     string
	Err        error
}

// Port runs load, parse, merge and write for one module. A fatal failure is
// returned as error and also recorded in the result; no output is written.
func Port(ctx context.Context, req Request) (*Result, error) {
	cfg, mod := req.Config, req.Module
	if cfg == nil || mod == nil {
		return nil, errors.New("driver: incomplete port request")
	}
	res := &Result{
		Module: mod,
		Files:  source.NewFileSet(),
		Bag:    diag.NewBag(cfg.Options.MaxDiagnostics),
		Timer:  observ.NewTimer(),
	}
	reporter := diag.NewDedupReporter(diag.NewBagReporter(res.Bag))

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeModule, mod.Name, trace.ParentFrom(ctx))
	ctx = trace.WithParent(ctx, span.ID())

	err := port(ctx, cfg, res, reporter)
	final := pipeline.Event{Module: mod.Name, Status: pipeline.StatusDone, Err: err, Elapsed: res.Timings.Sum(pipeline.Stages...)}
	if err != nil {
		final.Status = pipeline.StatusError
	}
	pipeline.Notify(cfg.Options.Progress, final)
	if cfg.Options.Timings {
		appendTimingDiagnostic(res.Bag, timingPayload{Kind: "port", Path: mod.Name, Report: res.Timer.Report()})
	}
	if err != nil {
		span.End("failed")
		res.Err = err
		return res, err
	}
	span.End(res.OutputName)
	return res, nil
}

func port(ctx context.Context, cfg *Config, res *Result, r diag.Reporter) error {
	mod := res.Module
	sink := cfg.Options.Progress

	stage := func(st pipeline.Stage, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		pipeline.Notify(sink, pipeline.Event{Module: mod.Name, Stage: st, Status: pipeline.StatusWorking})
		start := time.Now()
		err := res.Timer.Track(string(st), fn)
		elapsed := time.Since(start)
		res.Timings.Set(st, elapsed)
		status := pipeline.StatusDone
		if err != nil {
			status = pipeline.StatusError
		}
		pipeline.Notify(sink, pipeline.Event{Module: mod.Name, Stage: st, Status: status, Err: err, Elapsed: elapsed})
		return err
	}

	var (
		file   *source.File
		module *ir.Module
	)
	if err := stage(pipeline.StageLoad, func() error {
		id, err := res.Files.Load(mod.Script)
		if err != nil {
			diag.ReportError(r, diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error()).Emit()
			return err
		}
		file = res.Files.Get(id)
		if res.Digest, err = project.HashFile(mod.HashPath()); err != nil {
			diag.ReportError(r, diag.IOLoadFileError, source.Span{}, err.Error()).Emit()
			return err
		}
		return nil
	}); err != nil {
		return err
	}

	if err := stage(pipeline.StageParse, func() error {
		kind := dialect.Resolve(mod.Dialect, mod.Script, file.Text())
		m, err := ir.Build(file.Text(), kind, ir.Options{File: file.ID, Reporter: r})
		if err != nil {
			reportFatal(r, err)
			return err
		}
		module = m
		return nil
	}); err != nil {
		return err
	}

	res.PlayerCount = playerCount(module.Players.Players, r)

	var text string
	if err := stage(pipeline.StageMerge, func() error {
		out, err := engineFor(cfg, r).Merge(ctx, merge.Input{
			Template: cfg.Template,
			Module:   module,
			Meta:     moduleMeta(cfg.Meta, mod, res.Digest),
			Timer:    res.Timer,
		})
		if err != nil {
			reportFatal(r, err)
			return err
		}
		text = out
		return nil
	}); err != nil {
		return err
	}
	res.Script = text
	res.OutputName = project.SanitizeName(project.BrandName(mod.Name, cfg.Meta.Version))

	if cfg.OutputDir == "" {
		return nil
	}
	return stage(pipeline.StageWrite, func() error {
		dir := filepath.Join(cfg.OutputDir, strings.TrimSuffix(res.OutputName, ".w3x"))
		path, err := writeScript(dir, dialect.Jass.ScriptName(), text)
		if err != nil {
			diag.ReportError(r, diag.IOWriteFileError, source.Span{}, err.Error()).Emit()
			return err
		}
		res.OutputPath = path
		return nil
	})
}

// engineFor gives the module its own transpiler reporter. The shared engine
// is copied, not modified.
func engineFor(cfg *Config, r diag.Reporter) *merge.Engine {
	e := *cfg.Engine
	tr := transpile.New(nil, r)
	if e.Transpiler != nil {
		cp := *e.Transpiler
		cp.Reporter = r
		tr = &cp
	}
	e.Transpiler = tr
	return &e
}

func moduleMeta(base merge.Metadata, mod *project.Module, digest project.Digest) merge.Metadata {
	base.Name = mod.Meta.Name
	base.Author = mod.Meta.Author
	base.EditorVersion = mod.Meta.EditorVersion
	base.HashDisplay = project.ColoredHash(digest)
	return base
}

func playerCount(n int, r diag.Reporter) uint8 {
	c, err := safecast.Conv[uint8](n)
	if err != nil {
		diag.ReportWarning(r, diag.IRMissingArgument, source.Span{},
			fmt.Sprintf("player count %d does not fit the map header", n)).Emit()
		return 0
	}
	return c
}

// writeScript writes text to dir/name through a temporary file.
func writeScript(dir, name, text string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// codeFor maps a fatal error to its diagnostic code.
func codeFor(err error) diag.Code {
	switch {
	case errors.Is(err, ir.ErrMalformedInteger):
		return diag.IRMalformedInteger
	case errors.Is(err, parser.ErrLuaSyntax):
		return diag.PrsLuaSyntax
	case errors.Is(err, transpile.ErrUnknownLocalType):
		return diag.TrnUnknownLocalType
	case errors.Is(err, merge.ErrSectionNotFound):
		return diag.MrgSectionNotFound
	case errors.Is(err, merge.ErrMarkerCardinality):
		return diag.MrgMarkerCardinality
	case errors.Is(err, merge.ErrInvalidPattern):
		return diag.MrgInvalidPattern
	}
	return diag.MrgStepFailed
}

func reportFatal(r diag.Reporter, err error) {
	var span source.Span
	var ie *ir.IntegerError
	if errors.As(err, &ie) {
		span = ie.Node.Loc
	}
	diag.ReportError(r, codeFor(err), span, err.Error()).Emit()
}
