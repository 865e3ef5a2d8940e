package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	// KindPoint is an instant event, e.g. a failed step.
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeDriver   Scope = iota + 1 // one batch or one CLI command
	ScopeModule                    // one ported map
	ScopeStep                      // parse, IR build, one merge transform
	ScopeFunction                  // one transpiled function body
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeModule:
		return "module"
	case ScopeStep:
		return "step"
	case ScopeFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // e.g. "module:(2)EchoIsles", "sections"
	Detail   string
	Extra    map[string]string
}
