package merge

import (
	"errors"
	"fmt"
)

var (
	// ErrSectionNotFound means a required template anchor is missing.
	ErrSectionNotFound = errors.New("section not found")
	// ErrMarkerCardinality means an anchor matched zero or several times.
	ErrMarkerCardinality = errors.New("marker must match exactly once")
	// ErrInvalidPattern means the script contains a deny-listed idiom.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// StepError identifies the failing transform and, when known, the anchor.
type StepError struct {
	Step   string
	Anchor string
	Err    error
}

func (e *StepError) Error() string {
	if e.Anchor == "" {
		return fmt.Sprintf("merge step %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("merge step %s: %q: %v", e.Step, e.Anchor, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

func anchorError(step, anchor string, err error) *StepError {
	return &StepError{Step: step, Anchor: anchor, Err: err}
}

// cardinalityError reports how many times anchor matched.
func cardinalityError(step, anchor string, n int) *StepError {
	return anchorError(step, anchor, fmt.Errorf("%w (found %d)", ErrMarkerCardinality, n))
}
