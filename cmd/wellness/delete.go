// ABOUTME: CLI command for deleting a daily record.
// ABOUTME: Identifies the record by user (ID or prefix) and date.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/models"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <user> <date>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a daily record",
	Long: `Delete one day's record for a user.

EXAMPLES:

  wellness delete abc123 2025-03-10

CAUTION:

  This permanently deletes the record. There is no undo.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := lookupUser(args[0])
		if err != nil {
			return err
		}
		date, err := models.ParseDate(args[1])
		if err != nil {
			return err
		}

		day, err := repo.GetDailyMetrics(u.ID, date)
		if err != nil {
			return fmt.Errorf("no record for %s on %s", shortID(u.ID.String()), args[1])
		}
		if err := repo.DeleteDailyMetrics(u.ID, date); err != nil {
			return fmt.Errorf("failed to delete day: %w", err)
		}

		color.Yellow("✗ Deleted %s for %s", day.DateString(), shortID(u.ID.String()))
		printDay(day)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
