package merge

import (
	"context"
	"errors"

	"evergreen/internal/codegen"
	"evergreen/internal/ir"
	"evergreen/internal/observ"
	"evergreen/internal/trace"
	"evergreen/internal/transpile"
)

type Options struct {
	// Lint enables the deny-list check and the readability rewrites.
	Lint bool
	// Library injects the telemetry library.
	Library bool
}

// Engine holds what is shared by every module merge. It is not modified by
// Merge and may be used concurrently.
type Engine struct {
	Blocks     *codegen.Blocks
	Transpiler *transpile.Transpiler
	Options    Options
}

// Input is one module merge.
type Input struct {
	Template string
	Module   *ir.Module
	Meta     Metadata
	// Timer receives one phase per step; nil disables timing.
	Timer *observ.Timer

	tracer trace.Tracer
	span   uint64
}

type step struct {
	name    string
	enabled func(Options) bool
	run     func(e *Engine, in *Input, text string) (string, error)
}

func always(Options) bool { return true }

func pure(fn func(string) string) func(*Engine, *Input, string) (string, error) {
	return func(_ *Engine, _ *Input, text string) (string, error) { return fn(text), nil }
}

var steps = []step{
	{"patterns", func(o Options) bool { return o.Lint }, (*Engine).checkPatterns},
	{"strip", always, pure(StripTemplate)},
	{"metadata", always, func(_ *Engine, in *Input, text string) (string, error) {
		return Meta(text, in.Meta)
	}},
	{"tables", always, func(e *Engine, _ *Input, text string) (string, error) {
		return TableBlocks(text, e.Blocks)
	}},
	{"deadcode", always, pure(DeadCode)},
	{"sections", always, (*Engine).sections},
	{"main", always, func(_ *Engine, in *Input, text string) (string, error) {
		text, err := MainConfig(text, in.Module.Main)
		if err != nil {
			return "", err
		}
		return Globals(text, in.Module.Main)
	}},
	{"players", always, func(_ *Engine, in *Input, text string) (string, error) {
		return PlayerConfig(text, in.Module.Players)
	}},
	{"library", func(o Options) bool { return o.Library }, func(_ *Engine, _ *Input, text string) (string, error) {
		return Library(text)
	}},
	{"maxplayers", always, pure(MaxPlayers)},
	{"readability", func(o Options) bool { return o.Lint }, pure(Readability)},
}

// StepNames lists the steps in execution order.
func StepNames() []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.name
	}
	return out
}

// Merge runs every enabled step over the template. The first failure is
// returned as a *StepError and no text is produced.
func (e *Engine) Merge(ctx context.Context, in Input) (string, error) {
	if in.Module == nil {
		return "", errors.New("merge: no module")
	}
	tracer := trace.FromContext(ctx)
	parent := trace.ParentFrom(ctx)
	text := in.Template
	for _, s := range steps {
		if !s.enabled(e.Options) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		span := trace.Begin(tracer, trace.ScopeStep, s.name, parent)
		in.tracer, in.span = tracer, span.ID()
		err := in.Timer.Track(s.name, func() error {
			out, err := s.run(e, &in, text)
			if err != nil {
				return err
			}
			text = out
			return nil
		})
		if err != nil {
			span.End("failed")
			var se *StepError
			if !errors.As(err, &se) {
				err = &StepError{Step: s.name, Err: err}
			}
			return "", err
		}
		span.End("")
	}
	return text, nil
}

func (e *Engine) checkPatterns(in *Input, text string) (string, error) {
	texts := []string{text}
	for _, name := range in.Module.Functions.Names() {
		fn, _ := in.Module.Functions.Get(name)
		texts = append(texts, fn.Source)
	}
	return text, CheckPatterns(texts...)
}

func (e *Engine) sections(in *Input, text string) (string, error) {
	tr := e.Transpiler
	if tr == nil {
		tr = transpile.New(nil, nil)
	}
	for _, sec := range Sections {
		var bodies []string
		for _, name := range sec.Functions(in.Module) {
			fn, ok := in.Module.Functions.Get(name)
			if !ok {
				continue
			}
			fspan := trace.Begin(in.tracer, trace.ScopeFunction, name, in.span)
			body, err := tr.Function(fn)
			if err != nil {
				fspan.End("failed")
				return "", anchorError("sections", name, err)
			}
			fspan.End("")
			bodies = append(bodies, body)
		}
		var err error
		if text, err = InsertInSection(text, sec.Header, bodies); err != nil {
			return "", err
		}
	}
	return text, nil
}
