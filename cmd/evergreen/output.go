package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"evergreen/internal/diagfmt"
	"evergreen/internal/driver"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatJSON   outputFormat = "json"
)

func readFormat(cmd *cobra.Command) (outputFormat, error) {
	value, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case formatPretty, formatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (expected pretty|json)", value)
}

// writeDiagnostics prints every module's diagnostics. Pretty output goes to
// errOut; JSON is one document on out.
func writeDiagnostics(out, errOut io.Writer, results []driver.Result, format outputFormat) error {
	if format == formatJSON {
		doc := diagfmt.DiagnosticsOutput{}
		for i := range results {
			r := &results[i]
			diagfmt.Collect(&doc, moduleName(r), r.Bag, r.Files, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true})
		}
		return diagfmt.Encode(out, doc)
	}
	opts := diagfmt.PrettyOpts{Color: colorEnabled(), ShowNotes: true, Width: 120}
	for i := range results {
		r := &results[i]
		if r.Bag == nil || r.Bag.Len() == 0 {
			continue
		}
		r.Bag.Sort()
		diagfmt.Pretty(errOut, r.Bag, r.Files, opts)
	}
	return nil
}

func moduleName(r *driver.Result) string {
	if r.Module == nil {
		return ""
	}
	return r.Module.Name
}

// writeSummary prints one line per module: status, name and output.
func writeSummary(out io.Writer, results []driver.Result) {
	width := 0
	for i := range results {
		width = max(width, runewidth.StringWidth(moduleName(&results[i])))
	}
	ok := color.New(color.FgGreen, color.Bold)
	failed := color.New(color.FgRed, color.Bold)
	for i := range results {
		r := &results[i]
		name := runewidth.FillRight(moduleName(r), width)
		switch {
		case r.Err != nil:
			fmt.Fprintf(out, "%s %s  %v\n", failed.Sprint("failed"), name, r.Err)
		case r.OutputPath != "":
			fmt.Fprintf(out, "%s %s  %s -> %s\n", ok.Sprint("ported"), name, r.OutputName, r.OutputPath)
		default:
			fmt.Fprintf(out, "%s %s  %s (dry run)\n", ok.Sprint("merged"), name, r.OutputName)
		}
	}
}

// failureError summarises failed modules as the command error.
func failureError(results []driver.Result) error {
	n := driver.Failed(results)
	if n == 0 {
		return nil
	}
	if len(results) == 1 {
		return results[0].Err
	}
	return fmt.Errorf("%d of %d modules failed", n, len(results))
}
