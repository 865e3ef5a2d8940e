package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"evergreen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "evergreen",
	Short: "Port melee maps onto the Evergreen prototype",
	Long: `Evergreen ports Warcraft III melee map scripts (Jass or Lua) onto a shared
prototype script and writes the branded backport scripts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return applyColorFlag(cmd)
	},
}

// main registers subcommands and persistent flags, then executes the root
// command. Any command error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(portCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(stripCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics kept per module")
	rootCmd.PersistentFlags().String("project", "", "project directory or evergreen.toml (default: search upwards from cwd)")
	rootCmd.PersistentFlags().String("cache-dir", "", "object table cache directory (default: user cache)")
	rootCmd.PersistentFlags().String("trace", "", "write trace events to file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
