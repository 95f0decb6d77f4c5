// ABOUTME: CLI commands for managing user profiles.
// ABOUTME: Supports add, list, show, and delete with ID prefixes.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/models"
	"github.com/spf13/cobra"
)

var (
	userAge    int
	userGender string
	userHeight float64
	userWeight float64
	userGoal   string
)

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"u"},
	Short:   "Manage user profiles",
	Long: `Manage the people whose daily metrics are tracked.

COMMANDS:

  add      Create a profile (age, gender, height, weight, optional goal)
  list     List all profiles
  show     Show one profile with its latest day
  delete   Delete a profile and all of its data

The ID shown in the first column is an 8-character prefix usable anywhere
a user is expected.`,
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user profile",
	Long: `Create a user profile.

Accepted ranges: age 1-120, height 50-250 cm, weight 20-300 kg.

Examples:
  wellness user add --age 34 --gender f --height 168 --weight 61
  wellness user add --age 52 --gender m --height 180 --weight 90 --goal "sleep more"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u := models.NewUser(userAge, userGender, userHeight, userWeight)
		if userGoal != "" {
			u.WithGoal(userGoal)
		}
		if err := u.Validate(); err != nil {
			return err
		}
		if err := repo.CreateUser(u); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		color.Green("✓ Added user")
		printUser(u)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List user profiles",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := repo.ListUsers()
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			fmt.Println("No users found.")
			return nil
		}
		for _, u := range users {
			printUser(u)
		}
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <user>",
	Short: "Show a user profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := lookupUser(args[0])
		if err != nil {
			return err
		}
		printUser(u)

		latest, err := repo.RecentDailyMetrics(u.ID, 1)
		if err != nil {
			return fmt.Errorf("failed to load latest day: %w", err)
		}
		if len(latest) == 0 {
			fmt.Println(faint.Sprint("  no daily data yet"))
			return nil
		}
		fmt.Print("  latest: ")
		printDay(latest[0])
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:     "delete <user>",
	Aliases: []string{"rm"},
	Short:   "Delete a user and all their data",
	Long: `Delete a user profile together with every daily record and analysis.

CAUTION:

  This permanently deletes the data. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := lookupUser(args[0])
		if err != nil {
			return err
		}
		if err := repo.DeleteUser(u.ID.String()); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		color.Yellow("✗ Deleted user")
		printUser(u)
		return nil
	},
}

func init() {
	userAddCmd.Flags().IntVar(&userAge, "age", 0, "age in years")
	userAddCmd.Flags().StringVar(&userGender, "gender", "", "gender")
	userAddCmd.Flags().Float64Var(&userHeight, "height", 0, "height in cm")
	userAddCmd.Flags().Float64Var(&userWeight, "weight", 0, "weight in kg")
	userAddCmd.Flags().StringVar(&userGoal, "goal", "", "wellness goal")
	for _, name := range []string{"age", "gender", "height", "weight"} {
		_ = userAddCmd.MarkFlagRequired(name)
	}

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}
