package pipeline

import "time"

// Stage describes a phase of porting one module.
type Stage string

const (
	// StageLoad reads the module script and hashes the module.
	StageLoad Stage = "load"
	// StageParse recognises the script and builds the IR.
	StageParse Stage = "parse"
	// StageMerge runs the merge transforms over the template.
	StageMerge Stage = "merge"
	// StageWrite writes the ported script.
	StageWrite Stage = "write"
)

// Stages lists the stages in execution order.
var Stages = []Stage{StageLoad, StageParse, StageMerge, StageWrite}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a module (or for the whole batch when Module is empty).
type Event struct {
	Module  string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; batch workers report from several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
	t.stages[stage] = dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
