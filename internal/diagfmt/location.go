package diagfmt

import (
	"path/filepath"

	"evergreen/internal/source"
)

// location is a resolved span. Known is false when the span does not point
// into the file set; Positioned is false for whole-file diagnostics.
type location struct {
	Path       string
	Start, End source.LineCol
	Known      bool
	Positioned bool
}

func locate(span source.Span, fs *source.FileSet, mode PathMode) location {
	if fs == nil || int(span.File) >= fs.Len() {
		return location{}
	}
	f := fs.Get(span.File)
	loc := location{Path: formatPath(f.Path, mode), Known: true}
	// An empty span at offset zero is how file-level problems are reported.
	if span.Empty() && span.Start == 0 {
		return loc
	}
	loc.Start, loc.End = fs.Resolve(span)
	loc.Positioned = true
	return loc
}

func formatPath(path string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	case PathModeBasename:
		return filepath.Base(path)
	}
	return path
}
