// ABOUTME: CLI command for recording a day's metrics.
// ABOUTME: Upserts one record per user and date; only the given flags are set.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/models"
	"github.com/spf13/cobra"
)

var (
	addDate     string
	addSleep    float64
	addSteps    int
	addExercise float64
	addCalories float64
	addMood     float64
	addStress   float64
	addHR       float64
	addNotes    string
)

var addCmd = &cobra.Command{
	Use:     "add <user>",
	Aliases: []string{"a", "record"},
	Short:   "Record a day's metrics",
	Long: `Record one day's metrics for a user. Recording the same date again
replaces that day's record.

Unset flags are stored as missing; scoring fills them with neutral defaults.

FLAGS:

  --date       YYYY-MM-DD (default today, UTC)
  --sleep      hours of sleep (0-24)
  --steps      step count
  --exercise   exercise minutes
  --calories   calories consumed
  --mood       mood 0-5
  --stress     stress 0-5
  --hr         resting heart rate (bpm)

Examples:
  wellness add abc123 --sleep 7.5 --steps 9000 --exercise 30
  wellness add abc123 --date 2025-03-10 --mood 2 --stress 4 --notes "deadline"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := lookupUser(args[0])
		if err != nil {
			return err
		}

		in := models.DailyInput{Date: addDate, Notes: addNotes}
		flags := cmd.Flags()
		if flags.Changed("sleep") {
			in.SleepHours = &addSleep
		}
		if flags.Changed("steps") {
			in.Steps = &addSteps
		}
		if flags.Changed("exercise") {
			in.ExerciseMinutes = &addExercise
		}
		if flags.Changed("calories") {
			in.Calories = &addCalories
		}
		if flags.Changed("mood") {
			in.Mood = &addMood
		}
		if flags.Changed("stress") {
			in.Stress = &addStress
		}
		if flags.Changed("hr") {
			in.RestingHR = &addHR
		}

		m, err := in.ToDailyMetrics(u.ID)
		if err != nil {
			return err
		}
		if err := repo.UpsertDailyMetrics(m); err != nil {
			return fmt.Errorf("failed to record day: %w", err)
		}

		color.Green("✓ Recorded %s for %s", m.DateString(), shortID(u.ID.String()))
		printDay(m)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addDate, "date", "", "date (YYYY-MM-DD, default today)")
	addCmd.Flags().Float64Var(&addSleep, "sleep", 0, "hours of sleep")
	addCmd.Flags().IntVar(&addSteps, "steps", 0, "step count")
	addCmd.Flags().Float64Var(&addExercise, "exercise", 0, "exercise minutes")
	addCmd.Flags().Float64Var(&addCalories, "calories", 0, "calories consumed")
	addCmd.Flags().Float64Var(&addMood, "mood", 0, "mood 0-5")
	addCmd.Flags().Float64Var(&addStress, "stress", 0, "stress 0-5")
	addCmd.Flags().Float64Var(&addHR, "hr", 0, "resting heart rate (bpm)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "notes for the day")
	rootCmd.AddCommand(addCmd)
}
