// Package trace records where time goes while modules are ported.
//
// Enable it from the command line:
//
//	evergreen batch --trace=- --trace-level=detail
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only failed steps
//   - LevelPhase: batch and module boundaries
//   - LevelDetail: every parse, build and merge step
//   - LevelDebug: everything, including per-function transpilation
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeStep, "dead-code", parentID)
//	defer span.End("")
package trace
