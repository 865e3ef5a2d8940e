package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"evergreen/internal/observ"
	"evergreen/internal/pipeline"
	"evergreen/internal/project"
	"evergreen/internal/trace"
)

// BatchRequest ports several modules with one Config.
type BatchRequest struct {
	Config  *Config
	Modules []*project.Module
	// Jobs limits the number of concurrent ports; <= 0 means GOMAXPROCS.
	Jobs int
}

// PortAll ports every module in parallel. Results keep the order of
// Modules. A failing module does not stop the others; its error is in its
// Result. The returned error is only set when ctx ends the batch.
func PortAll(ctx context.Context, req BatchRequest) ([]Result, error) {
	results := make([]Result, len(req.Modules))
	if len(req.Modules) == 0 {
		return results, nil
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "batch", trace.ParentFrom(ctx))
	defer span.End("")
	ctx = trace.WithParent(ctx, span.ID())

	sink := req.Config.Options.Progress
	for _, m := range req.Modules {
		pipeline.Notify(sink, pipeline.Event{Module: m.Name, Status: pipeline.StatusQueued})
	}

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Modules)))

	for i, m := range req.Modules {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = Result{Module: m, Err: gctx.Err()}
				return gctx.Err()
			default:
			}
			// индекс i уникален, мьютекс не нужен
			res, err := Port(gctx, Request{Config: req.Config, Module: m})
			if res != nil {
				results[i] = *res
			} else {
				results[i] = Result{Module: m, Err: err}
			}
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return nil
		})
	}
	err := g.Wait()
	pipeline.Notify(sink, pipeline.Event{Status: pipeline.StatusDone})
	return results, err
}

// Failed counts results with an error.
func Failed(results []Result) int {
	n := 0
	for i := range results {
		if results[i].Err != nil {
			n++
		}
	}
	return n
}

// BatchTimer sums the per-module timers of a batch.
func BatchTimer(results []Result) *observ.Timer {
	timers := make([]*observ.Timer, 0, len(results))
	for i := range results {
		timers = append(timers, results[i].Timer)
	}
	return observ.Aggregate(timers...)
}
