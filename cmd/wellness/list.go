// ABOUTME: CLI command for listing a user's daily records.
// ABOUTME: Supports date range filters and limiting results.
package main

import (
	"fmt"

	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/spf13/cobra"
)

var (
	listFrom  string
	listTo    string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:     "list <user>",
	Aliases: []string{"ls", "l"},
	Short:   "List daily records",
	Long: `List a user's daily records, most recent first.

OUTPUT FORMAT:

  DATE  sleep  steps  exercise  kcal  mood  stress  hr  (NOTES)

  Missing values are shown as "-".

EXAMPLES:

  wellness list abc123                              # Last 30 days recorded
  wellness list abc123 --from 2025-03-01            # Since March 1st
  wellness list abc123 --from 2025-03-01 --to 2025-03-07
  wellness list abc123 -n 7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := lookupUser(args[0])
		if err != nil {
			return err
		}

		filter := storage.DailyFilter{Limit: listLimit}
		if listFrom != "" {
			from, err := models.ParseDate(listFrom)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			filter.From = &from
		}
		if listTo != "" {
			to, err := models.ParseDate(listTo)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}
			filter.To = &to
		}

		days, err := repo.ListDailyMetrics(u.ID, filter)
		if err != nil {
			return fmt.Errorf("failed to list days: %w", err)
		}
		if len(days) == 0 {
			fmt.Println("No daily records found.")
			return nil
		}
		for _, d := range days {
			printDay(d)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFrom, "from", "", "only days on or after this date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "only days on or before this date (YYYY-MM-DD)")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 30, "max number of results")
	rootCmd.AddCommand(listCmd)
}
