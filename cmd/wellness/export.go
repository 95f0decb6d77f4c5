// ABOUTME: export and import commands for wellness backups.
// ABOUTME: JSON round-trips through import; YAML is a per-user digest for reading.
package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/spf13/cobra"
)

var exportOutput string

// exporters maps an export format to the function that renders it.
var exporters = map[string]func(storage.Repository) ([]byte, error){
	"json": storage.ExportJSON,
	"yaml": storage.ExportYAML,
}

func exportFormats() []string {
	formats := make([]string, 0, len(exporters))
	for f := range exporters {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

var exportCmd = &cobra.Command{
	Use:   "export <json|yaml>",
	Short: "Write every user, day and analysis to stdout or a file",
	Long: `Write the whole store in one of two formats.

  json   versioned backup that 'wellness import' reads back
  yaml   digest grouped by user, meant for reading

EXAMPLES:

  wellness export json -o backup.json
  wellness export yaml | less`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: exportFormats(),
	RunE: func(cmd *cobra.Command, args []string) error {
		render, ok := exporters[args[0]]
		if !ok {
			return fmt.Errorf("unknown format %q (want one of: %s)", args[0], strings.Join(exportFormats(), ", "))
		}
		data, err := render(repo)
		if err != nil {
			return fmt.Errorf("export %s: %w", args[0], err)
		}

		if exportOutput == "" || exportOutput == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(exportOutput, data, 0600); err != nil {
			return fmt.Errorf("write %s: %w", exportOutput, err)
		}
		logger.Debug("export written", "format", args[0], "path", exportOutput, "bytes", len(data))
		color.Green("✓ Wrote %s", exportOutput)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <backup.json>",
	Short: "Load a JSON backup into the current backend",
	Long: `Load a backup produced by 'wellness export json'.

Running it twice is harmless: users and analyses that already exist
are skipped, and daily records are replaced date by date.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read backup: %w", err)
		}

		sum, err := storage.ImportJSON(repo, raw)
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}

		color.Green("✓ Imported %s", args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "  %d users, %d days, %d analyses\n", sum.Users, sum.DailyMetrics, sum.Analyses)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd, importCmd)
}
