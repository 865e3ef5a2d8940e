package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(flag, value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

// resolve turns auto into on or off depending on whether f is a terminal.
func (m uiMode) resolve(f *os.File) bool {
	switch m {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(f)
	}
}

func shouldUseTUI(mode uiMode) bool {
	return mode.resolve(os.Stdout)
}

// applyColorFlag sets the global fatih/color switch from --color.
func applyColorFlag(cmd *cobra.Command) error {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readUIMode("color", value)
	if err != nil {
		return err
	}
	color.NoColor = !mode.resolve(os.Stdout)
	return nil
}

// colorEnabled reports the state applyColorFlag left behind.
func colorEnabled() bool {
	return !color.NoColor
}
