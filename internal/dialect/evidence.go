package dialect

import "evergreen/internal/source"

// Hint is one piece of evidence for a dialect.
type Hint struct {
	Dialect Kind
	Score   int
	Reason  string
	Span    source.Span
}

// Evidence aggregates hints for one script.
type Evidence struct {
	hints []Hint
}

func NewEvidence() *Evidence {
	return &Evidence{
		hints: make([]Hint, 0, 16),
	}
}

func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}
