package main

import (
	"fmt"
	"io"
	"time"

	"evergreen/internal/driver"
	"evergreen/internal/pipeline"
)

func printStageTimings(out io.Writer, name string, timings pipeline.Timings) {
	if out == nil {
		return
	}
	var parts []string
	for _, st := range pipeline.Stages {
		if timings.Has(st) {
			parts = append(parts, fmt.Sprintf("%s %.1f ms", st, toMillis(timings.Duration(st))))
		}
	}
	if len(parts) == 0 {
		return
	}
	fmt.Fprintf(out, "%s: ", name)
	for i, p := range parts {
		if i > 0 {
			fmt.Fprint(out, ", ")
		}
		fmt.Fprint(out, p)
	}
	fmt.Fprintln(out)
}

// printBatchTimings prints each module's stages and the summed merge phases.
func printBatchTimings(out io.Writer, results []driver.Result) {
	for i := range results {
		printStageTimings(out, moduleName(&results[i]), results[i].Timings)
	}
	if len(results) > 1 {
		fmt.Fprint(out, driver.BatchTimer(results).Summary())
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
