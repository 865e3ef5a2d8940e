package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"evergreen/internal/merge"
	"evergreen/internal/source"
)

var stripCmd = &cobra.Command{
	Use:   "strip [flags] [template]",
	Short: "Print the template with its generated blocks removed",
	Long: `Strip empties every BEGIN/END block of a template script so it can be kept
under version control without generated tables. Without an argument the
project template is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStrip,
}

func init() {
	stripCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
}

func runStrip(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		m, err := loadProject(cmd, ".")
		if err != nil {
			return err
		}
		path = m.TemplatePath()
	}

	files := source.NewFileSet()
	id, err := files.Load(path)
	if err != nil {
		return fmt.Errorf("template: %w", err)
	}
	stripped := merge.StripTemplate(files.Get(id).Text())

	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if out == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), stripped)
		return err
	}
	if err := os.WriteFile(out, []byte(stripped), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}
