package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"evergreen/internal/dialect"
	"evergreen/internal/driver"
	"evergreen/internal/project"
)

var portCmd = &cobra.Command{
	Use:   "port [flags] <module-dir>",
	Short: "Port one map module onto the prototype",
	Long: `Port reads the module's war3map.j or war3map.lua, merges it into the project
template and writes <output>/<branded name>/war3map.j.`,
	Args: cobra.ExactArgs(1),
	RunE: runPort,
}

func init() {
	portCmd.Flags().String("dialect", "auto", "module script dialect (auto|jass|lua)")
	mergeFlags(portCmd)
}

func runPort(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	dialectStr, err := cmd.Flags().GetString("dialect")
	if err != nil {
		return fmt.Errorf("failed to get dialect flag: %w", err)
	}
	kind, err := dialect.Parse(dialectStr)
	if err != nil {
		return err
	}
	format, err := readFormat(cmd)
	if err != nil {
		return err
	}

	mod, err := project.OpenModule(args[0], kind)
	if err != nil {
		return err
	}
	m, err := loadProject(cmd, mod.Dir)
	if err != nil {
		return err
	}
	if err := applyMergeFlags(cmd, m); err != nil {
		return err
	}
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg, err := driver.Setup(ctx, m, opts)
	if err != nil {
		return err
	}
	printWarnings(cmd, cfg.Warnings)

	res, _ := driver.Port(ctx, driver.Request{Config: cfg, Module: mod})
	results := []driver.Result{*res}
	if err := writeDiagnostics(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, format); err != nil {
		return err
	}
	if format == formatPretty && !quietFlag(cmd) {
		writeSummary(cmd.OutOrStdout(), results)
	}
	if timingsFlag(cmd) && format == formatPretty {
		printStageTimings(cmd.OutOrStdout(), mod.Name, res.Timings)
	}
	return failureError(results)
}

func printWarnings(cmd *cobra.Command, warnings []string) {
	if quietFlag(cmd) {
		return
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
}
