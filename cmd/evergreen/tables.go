package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"evergreen/internal/codegen"
	"evergreen/internal/driver"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [flags] [marker...]",
	Short: "Print the generated object table blocks",
	Long: `Tables loads the project's object data (through the cache) and prints the
constant blocks that replace the BEGIN/END markers of the template.`,
	RunE: runTables,
}

func init() {
	tablesCmd.Flags().Bool("list", false, "list block markers only")
	tablesCmd.Flags().Bool("drop-cache", false, "remove every cached table set and exit")
	tablesCmd.Flags().Bool("melee-units", false, "generate the melee unit tables")
}

func runTables(cmd *cobra.Command, args []string) error {
	root := cmd.Root().PersistentFlags()
	cacheDir, err := root.GetString("cache-dir")
	if err != nil {
		return fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	drop, err := cmd.Flags().GetBool("drop-cache")
	if err != nil {
		return fmt.Errorf("failed to get drop-cache flag: %w", err)
	}
	if drop {
		if err := driver.DropCache(cacheDir); err != nil {
			return fmt.Errorf("drop cache: %w", err)
		}
		if !quietFlag(cmd) {
			fmt.Fprintln(cmd.OutOrStdout(), "table cache dropped")
		}
		return nil
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	m, err := loadProject(cmd, ".")
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("melee-units") {
		if m.Config.Merge.MeleeUnits, err = cmd.Flags().GetBool("melee-units"); err != nil {
			return fmt.Errorf("failed to get melee-units flag: %w", err)
		}
	}
	cfg, err := driver.Setup(cmd.Context(), m, driver.Options{CacheDir: cacheDir, DryRun: true})
	if err != nil {
		return err
	}
	printWarnings(cmd, cfg.Warnings)

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return fmt.Errorf("failed to get list flag: %w", err)
	}
	blocks, err := selectBlocks(cfg.Engine.Blocks, args)
	if err != nil {
		return err
	}
	writeBlocks(cmd.OutOrStdout(), blocks, list)
	return nil
}

func selectBlocks(all *codegen.Blocks, markers []string) ([]codegen.Block, error) {
	if len(markers) == 0 {
		return all.List(), nil
	}
	out := make([]codegen.Block, 0, len(markers))
	for _, name := range markers {
		blk, ok := all.Get(name)
		if !ok {
			return nil, fmt.Errorf("no generated block for marker %q", name)
		}
		out = append(out, blk)
	}
	return out, nil
}

func writeBlocks(w io.Writer, blocks []codegen.Block, list bool) {
	for _, blk := range blocks {
		lines := strings.Count(blk.Text, "\n")
		if list {
			opt := ""
			if blk.Optional {
				opt = " (optional)"
			}
			fmt.Fprintf(w, "%s\t%d lines%s\n", blk.Marker, lines, opt)
			continue
		}
		fmt.Fprintf(w, "// BEGIN %s\n%s", blk.Marker, blk.Text)
		if !strings.HasSuffix(blk.Text, "\n") {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "// END %s\n", blk.Marker)
	}
}
