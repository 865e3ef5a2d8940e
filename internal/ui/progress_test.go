package ui

import (
	"errors"
	"strings"
	"testing"

	"evergreen/internal/pipeline"
)

func TestProgressModelTracksModules(t *testing.T) {
	m := NewProgressModel("porting", []string{"(2)Alpha", "(2)Broken"}, nil).(*progressModel)

	m.applyEvent(pipeline.Event{Module: "(2)Alpha", Stage: pipeline.StageMerge, Status: pipeline.StatusWorking})
	if got := m.items[0].status; got != "merging" {
		t.Fatalf("status = %q, want merging", got)
	}
	// a finished stage is not a finished module
	m.applyEvent(pipeline.Event{Module: "(2)Alpha", Stage: pipeline.StageMerge, Status: pipeline.StatusDone})
	if m.items[0].finished {
		t.Fatalf("module finished after one stage")
	}
	m.applyEvent(pipeline.Event{Module: "(2)Alpha", Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{Module: "(2)Broken", Status: pipeline.StatusError, Err: errors.New("malformed integer argument")})
	m.applyEvent(pipeline.Event{Module: "unknown", Status: pipeline.StatusDone})

	finished, failed := m.counts()
	if finished != 2 || failed != 1 {
		t.Fatalf("finished/failed = %d/%d", finished, failed)
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}
	view := m.View()
	if !strings.Contains(view, "porting (2/2, 1 failed)") || !strings.Contains(view, "(2)Broken: malformed integer argument") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 6, "abc..."},
		{"abcdef", 2, "ab"},
		{"日本語テキスト", 7, "日本..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
