package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"evergreen/internal/driver"
	"evergreen/internal/project"
)

const noManifestMessage = "no " + project.ManifestName + " found\nrun inside a project or point at one, e.g.:\n  evergreen --project path/to/project batch"

var errNoManifest = errors.New(noManifestMessage)

// loadProject reads the manifest named by --project, or searches upwards from
// startDir when the flag is empty.
func loadProject(cmd *cobra.Command, startDir string) (*project.Manifest, error) {
	flag, err := cmd.Root().PersistentFlags().GetString("project")
	if err != nil {
		return nil, fmt.Errorf("failed to get project flag: %w", err)
	}
	if flag != "" {
		info, err := os.Stat(flag)
		if err != nil {
			return nil, fmt.Errorf("project: %w", err)
		}
		if !info.IsDir() {
			return project.ReadManifest(flag)
		}
		startDir = flag
	}
	m, ok, err := project.LoadManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errNoManifest
	}
	return m, nil
}

// mergeFlags lets the command line override the [merge] section.
func mergeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("lint", false, "run the source pattern and readability checks")
	cmd.Flags().Bool("library", false, "append the shared function library")
	cmd.Flags().Bool("melee-units", false, "generate the melee unit tables")
	cmd.Flags().String("output", "", "output directory (default: [project].output)")
	cmd.Flags().Bool("dry-run", false, "merge without writing output")
	cmd.Flags().String("format", "pretty", "diagnostic format (pretty|json)")
}

func applyMergeFlags(cmd *cobra.Command, m *project.Manifest) error {
	overrides := []struct {
		name string
		dst  *bool
	}{
		{"lint", &m.Config.Merge.Lint},
		{"library", &m.Config.Merge.Library},
		{"melee-units", &m.Config.Merge.MeleeUnits},
	}
	for _, o := range overrides {
		if !cmd.Flags().Changed(o.name) {
			continue
		}
		v, err := cmd.Flags().GetBool(o.name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", o.name, err)
		}
		*o.dst = v
	}
	if cmd.Flags().Changed("output") {
		out, err := cmd.Flags().GetString("output")
		if err != nil {
			return fmt.Errorf("failed to get output flag: %w", err)
		}
		abs, err := filepath.Abs(out)
		if err != nil {
			return fmt.Errorf("output: %w", err)
		}
		m.Config.Project.Output = abs
	}
	return nil
}

// driverOptions collects the run options shared by port and batch.
func driverOptions(cmd *cobra.Command) (driver.Options, error) {
	root := cmd.Root().PersistentFlags()
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	timings, err := root.GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	cacheDir, err := root.GetString("cache-dir")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	opts := driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Timings:        timings,
		CacheDir:       cacheDir,
		Now:            time.Now(),
	}
	if cmd.Flags().Lookup("dry-run") != nil {
		if opts.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
			return driver.Options{}, fmt.Errorf("failed to get dry-run flag: %w", err)
		}
	}
	return opts, nil
}

func quietFlag(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}

func timingsFlag(cmd *cobra.Command) bool {
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	return err == nil && timings
}
