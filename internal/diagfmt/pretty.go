package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"evergreen/internal/diag"
	"evergreen/internal/source"
)

type palette struct {
	sev   map[diag.Severity]*color.Color
	code  *color.Color
	path  *color.Color
	caret *color.Color
	note  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan),
		},
		code:  color.New(color.Faint),
		path:  color.New(color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
		note:  color.New(color.FgBlue),
	}
	all := []*color.Color{p.code, p.path, p.caret, p.note}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
//
//	<path>:<line>:<col>: <SEV> [CODE]: <Message>
//
// затем строку контекста с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		loc := locate(d.Primary, fs, opts.PathMode)
		fmt.Fprintf(w, "%s%s %s: %s\n",
			p.path.Sprint(header(loc)),
			p.sev[d.Severity].Sprint(d.Severity.String()),
			p.code.Sprint("["+d.Code.ID()+"]"),
			d.Message)
		if loc.Positioned {
			writeContext(w, fs.Get(d.Primary.File), loc, opts.Width, p)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nloc := locate(n.Span, fs, opts.PathMode)
			prefix := ""
			if nloc.Positioned {
				prefix = header(nloc)
			}
			fmt.Fprintf(w, "  %s %s%s\n", p.note.Sprint("note:"), prefix, n.Msg)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "... %d more diagnostics not shown\n", dropped)
	}
}

func header(loc location) string {
	switch {
	case loc.Positioned:
		return fmt.Sprintf("%s:%d:%d: ", loc.Path, loc.Start.Line, loc.Start.Col)
	case loc.Known:
		return loc.Path + ": "
	}
	return ""
}

func writeContext(w io.Writer, f *source.File, loc location, width int, p palette) {
	line := strings.ReplaceAll(f.Line(loc.Start.Line), "\t", " ")
	gutter := fmt.Sprintf("%d", loc.Start.Line)
	pad := strings.Repeat(" ", len(gutter))

	start := int(loc.Start.Col) - 1
	start = max(min(start, len(line)), 0)
	end := len(line)
	if loc.End.Line == loc.Start.Line {
		end = max(min(int(loc.End.Col)-1, len(line)), start+1)
	}
	if width > 0 && runewidth.StringWidth(line) > width {
		line = runewidth.Truncate(line, width, "...")
	}
	indent := runewidth.StringWidth(prefixOf(line, start))
	mark := "^" + strings.Repeat("~", max(end-start-1, 0))

	fmt.Fprintf(w, " %s | %s\n", gutter, line)
	fmt.Fprintf(w, " %s | %s%s\n", pad, strings.Repeat(" ", indent), p.caret.Sprint(mark))
}

func prefixOf(s string, n int) string {
	if n > len(s) {
		return s
	}
	return s[:n]
}
