package main

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"evergreen/internal/driver"
	"evergreen/internal/pipeline"
	"evergreen/internal/ui"
)

type batchOutcome struct {
	results []driver.Result
	err     error
}

// runBatchWithUI ports the batch while a Bubble Tea progress view follows
// its events. The shared Config is copied so the sink stays local.
func runBatchWithUI(ctx context.Context, title string, names []string, req driver.BatchRequest, out io.Writer) ([]driver.Result, error) {
	if req.Config == nil {
		return nil, errors.New("missing batch config")
	}
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		cfg := *req.Config
		cfg.Options.Progress = pipeline.ChannelSink{Ch: events}
		reqCopy := req
		reqCopy.Config = &cfg
		results, err := driver.PortAll(ctx, reqCopy)
		outcomeCh <- batchOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(out))
	_, uiErr := program.Run()
	// a failed UI stops reading; drain so the ports can finish
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
