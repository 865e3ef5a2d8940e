package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is used for recognition gaps and audited substitutions.
	SevInfo Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}
