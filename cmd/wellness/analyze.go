// ABOUTME: CLI commands for scoring, recommendations, and analysis history.
// ABOUTME: analyze --all scores every user concurrently with a bounded errgroup.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/engine"
	"github.com/harperreed/wellness/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	analyzeAll         bool
	analyzeConcurrency int
	historyLimit       int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [user]",
	Short: "Score a user's recent days",
	Long: `Analyze a user's most recent day against their recent history.

Prints the 0-100 wellness score, its category, where the score came from
(a trained model when one is configured, otherwise the formula), a
per-metric explanation (+ good, = neutral, - poor), any stress risk note,
and up to five recommendations. Each analysis is saved to history.

EXAMPLES:

  wellness analyze abc123
  wellness analyze --all          # Every user with data`,
	Args: func(cmd *cobra.Command, args []string) error {
		if analyzeAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeAll {
			return analyzeEveryone()
		}

		u, err := lookupUser(args[0])
		if err != nil {
			return err
		}
		res, err := analyzer.Analyze(u.ID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("no daily data for %s; record a day with 'wellness add'", shortID(u.ID.String()))
			}
			return fmt.Errorf("analysis failed: %w", err)
		}
		printAnalysis(shortID(u.ID.String()), res)
		return nil
	},
}

// analyzeEveryone runs Analyze for every user. Users without data are skipped.
func analyzeEveryone() error {
	users, err := repo.ListUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	results := make([]*engine.AnalysisResult, len(users))
	var g errgroup.Group
	g.SetLimit(max(analyzeConcurrency, 1))
	for i, u := range users {
		g.Go(func() error {
			res, err := analyzer.Analyze(u.ID)
			if errors.Is(err, models.ErrNotFound) {
				logger.Debug("skipping user without data", "user", u.ID)
				return nil
			}
			if err != nil {
				return fmt.Errorf("analyze %s: %w", shortID(u.ID.String()), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	analyzed := 0
	for i, res := range results {
		if res == nil {
			continue
		}
		if analyzed > 0 {
			fmt.Println()
		}
		printAnalysis(shortID(users[i].ID.String()), res)
		analyzed++
	}
	if analyzed == 0 {
		fmt.Println("No users have daily data yet.")
	}
	return nil
}

var recommendCmd = &cobra.Command{
	Use:     "recommend <user>",
	Aliases: []string{"rec"},
	Short:   "Show recommendations without saving an analysis",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := lookupUser(args[0])
		if err != nil {
			return err
		}
		res, err := analyzer.Recommend(u.ID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("no daily data for %s; record a day with 'wellness add'", shortID(u.ID.String()))
			}
			return fmt.Errorf("recommend failed: %w", err)
		}

		c := categoryColor(engine.CategoryFor(res.Score))
		fmt.Printf("%s %s\n", faint.Sprint(shortID(u.ID.String())), c.Sprintf("%.1f", res.Score))
		printExplanations(res.Explanations.Strings())
		fmt.Println("Recommendations:")
		printRecommendations(res.Recommendations)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:     "history <user>",
	Aliases: []string{"hist"},
	Short:   "List past analyses",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := lookupUser(args[0])
		if err != nil {
			return err
		}
		records, err := repo.ListAnalyses(u.ID, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list analyses: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No analyses found.")
			return nil
		}
		for _, r := range records {
			risk := ""
			if r.RiskPrediction != nil && *r.RiskPrediction != "" {
				risk = color.YellowString("  ⚠ %s", *r.RiskPrediction)
			}
			fmt.Printf("%s %s %s %s%s\n",
				faint.Sprint(shortID(r.ID.String())),
				faint.Sprint(r.CreatedAt.Local().Format("2006-01-02 15:04")),
				categoryColor(engine.Category(r.Category)).Sprintf("%5.1f", r.Score),
				padRight(r.Category, 18),
				risk)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeAll, "all", false, "analyze every user")
	analyzeCmd.Flags().IntVar(&analyzeConcurrency, "concurrency", 4, "parallel analyses with --all")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "max number of results")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(historyCmd)
}
