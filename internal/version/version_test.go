package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColoredWithoutEscapes(t *testing.T) {
	prevNoColor, prevVersion := color.NoColor, Version
	defer func() { color.NoColor, Version = prevNoColor, prevVersion }()
	color.NoColor = true

	tests := []struct {
		version string
		want    string
	}{
		{"0.4.0-dev", "0.4.0-dev"},
		{"1.2.3", "1.2.3"},
		{"2.0.0-rc.1", "2.0.0-rc.1"},
	}
	for _, tt := range tests {
		Version = tt.version
		if got := Colored(); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestLineIncludesCommit(t *testing.T) {
	prevNoColor, prevCommit, prevDate := color.NoColor, GitCommit, BuildDate
	defer func() { color.NoColor, GitCommit, BuildDate = prevNoColor, prevCommit, prevDate }()
	color.NoColor = true
	GitCommit, BuildDate = "abc123", "2026-01-15"

	want := "evergreen " + Version + " (abc123) built 2026-01-15"
	if got := Line(); got != want {
		t.Fatalf("Line() = %q, want %q", got, want)
	}
}
