// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Reads everything from the active backend and imports it into another.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/config"
	"github.com/harperreed/wellness/internal/kvstore"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy all users, daily records, and analyses from the active backend
into another one.

BACKENDS:

  sqlite   ~/.local/share/wellness/wellness.db
  badger   ~/.local/share/wellness/wellness.badger/
  charm    Charm KV with cloud sync

The copy is idempotent; running it twice does not duplicate anything.
Switch the active backend afterwards with "backend" in config.json or
WELLNESS_BACKEND.

USAGE:

  wellness migrate --to charm --dry-run   # Preview
  wellness migrate --to charm             # Copy sqlite -> charm
  wellness --backend charm migrate --to sqlite`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateTo == cfg.GetBackend() {
			return fmt.Errorf("source and destination are both %s", migrateTo)
		}

		data, err := repo.GetAllData()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", cfg.GetBackend(), err)
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Printf("Would copy from %s to %s:\n", cfg.GetBackend(), migrateTo)
			fmt.Printf("  Users: %d\n", len(data.Users))
			fmt.Printf("  Daily records: %d\n", len(data.DailyMetrics))
			fmt.Printf("  Analyses: %d\n", len(data.Analyses))
			return nil
		}

		if migrateTo == config.BackendBadger {
			nonEmpty, err := storage.IsDirNonEmpty(filepath.Join(cfg.GetDataDir(), kvstore.BadgerDir))
			if err != nil {
				return err
			}
			if nonEmpty {
				color.Yellow("Destination already has data; merging.")
			}
		}

		dst, err := cfg.OpenBackend(migrateTo)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateTo, err)
		}
		defer dst.Close()

		summary, err := storage.MigrateData(repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s → %s", cfg.GetBackend(), migrateTo)
		fmt.Printf("  Users: %d\n", summary.Users)
		fmt.Printf("  Daily records: %d\n", summary.DailyMetrics)
		fmt.Printf("  Analyses: %d\n", summary.Analyses)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite, charm, or badger")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
