package main

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"evergreen/internal/driver"
	"evergreen/internal/project"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] [module...]",
	Short: "Port every module of the project",
	Long: `Batch discovers the module folders under [project].modules and ports them in
parallel. Naming modules limits the run to those folders.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Int("jobs", 0, "max parallel ports (0=auto)")
	batchCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	mergeFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode("ui", uiValue)
	if err != nil {
		return err
	}
	format, err := readFormat(cmd)
	if err != nil {
		return err
	}

	m, err := loadProject(cmd, ".")
	if err != nil {
		return err
	}
	if err := applyMergeFlags(cmd, m); err != nil {
		return err
	}
	mods, discoverErr := project.DiscoverModules(m.ModulesDir())
	if discoverErr != nil && len(mods) == 0 {
		return discoverErr
	}
	if discoverErr != nil && !quietFlag(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", discoverErr)
	}
	mods, err = selectModules(mods, args)
	if err != nil {
		return err
	}
	if len(mods) == 0 {
		return errors.New("no modules to port in " + m.ModulesDir())
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

	req := driver.BatchRequest{Config: cfg, Modules: mods, Jobs: jobs}
	var results []driver.Result
	if format == formatPretty && !quietFlag(cmd) && shouldUseTUI(mode) {
		names := make([]string, len(mods))
		for i, mod := range mods {
			names[i] = mod.Name
		}
		results, err = runBatchWithUI(ctx, fmt.Sprintf("porting %d modules", len(mods)), names, req, os.Stdout)
	} else {
		results, err = driver.PortAll(ctx, req)
	}
	if err != nil {
		return err
	}

	if err := writeDiagnostics(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, format); err != nil {
		return err
	}
	if format == formatPretty && !quietFlag(cmd) {
		writeSummary(cmd.OutOrStdout(), results)
	}
	if timingsFlag(cmd) && format == formatPretty {
		printBatchTimings(cmd.OutOrStdout(), results)
	}
	return failureError(results)
}

// selectModules keeps the named modules, in the order given.
func selectModules(mods []*project.Module, names []string) ([]*project.Module, error) {
	if len(names) == 0 {
		return mods, nil
	}
	out := make([]*project.Module, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(mods, func(m *project.Module) bool { return m.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("unknown module %q", name)
		}
		out = append(out, mods[i])
	}
	return out, nil
}
