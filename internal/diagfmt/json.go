package diagfmt

import (
	"encoding/json"
	"io"

	"evergreen/internal/diag"
	"evergreen/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Module   string       `json:"module,omitempty"`
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(span source.Span, fs *source.FileSet, opts JSONOpts) LocationJSON {
	loc := locate(span, fs, opts.PathMode)
	out := LocationJSON{File: loc.Path, StartByte: span.Start, EndByte: span.End}
	if opts.IncludePositions && loc.Positioned {
		out.StartLine, out.StartCol = loc.Start.Line, loc.Start.Col
		out.EndLine, out.EndCol = loc.End.Line, loc.End.Col
	}
	return out
}

// Collect appends the bag's diagnostics to out, tagged with module. Timing
// notes are always kept since they carry the report.
func Collect(out *DiagnosticsOutput, module string, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) {
	if bag == nil {
		return
	}
	for _, d := range bag.Items() {
		if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
			break
		}
		dj := DiagnosticJSON{
			Module:   module,
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts),
		}
		if opts.IncludeNotes || d.Code == diag.ObsTimings {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Span, fs, opts)})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
}

// JSON форматирует диагностики одного модуля в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	Collect(&out, "", bag, fs, opts)
	return Encode(w, out)
}

func Encode(w io.Writer, out DiagnosticsOutput) error {
	if out.Diagnostics == nil {
		out.Diagnostics = []DiagnosticJSON{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
