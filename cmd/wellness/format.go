// ABOUTME: Output helpers shared by the CLI commands.
// ABOUTME: Formats optional values, IDs, and analysis results for the terminal.
package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/wellness/internal/engine"
	"github.com/harperreed/wellness/internal/models"
)

var faint = color.New(color.Faint)

func shortID(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[:8]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// optFloat renders a nullable value, "-" when unset.
func optFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// categoryColor picks a color for the score band.
func categoryColor(c engine.Category) *color.Color {
	switch c {
	case engine.CategoryExcellent:
		return color.New(color.FgGreen, color.Bold)
	case engine.CategoryGood:
		return color.New(color.FgGreen)
	case engine.CategoryAverage:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func symbolColor(s string) *color.Color {
	switch s {
	case string(engine.SymbolGood):
		return color.New(color.FgGreen)
	case string(engine.SymbolPoor):
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

func printUser(u *models.User) {
	goal := ""
	if u.Goal != nil && *u.Goal != "" {
		goal = faint.Sprintf(" (%s)", truncate(*u.Goal, 40))
	}
	fmt.Printf("%s age %d  %s  %.0f cm  %.1f kg%s\n",
		faint.Sprint(shortID(u.ID.String())),
		u.Age, padRight(u.Gender, 6), u.HeightCM, u.WeightKG, goal)
}

func printDay(d *models.DailyMetrics) {
	notes := ""
	if d.Notes != nil && *d.Notes != "" {
		notes = faint.Sprintf(" (%s)", truncate(*d.Notes, 30))
	}
	fmt.Printf("%s sleep %-4s steps %-6s exercise %-4s kcal %-5s mood %-3s stress %-3s hr %-4s%s\n",
		faint.Sprint(d.DateString()),
		optFloat(d.SleepHours), optInt(d.Steps), optFloat(d.ExerciseMinutes),
		optFloat(d.Calories), optFloat(d.Mood), optFloat(d.Stress), optFloat(d.RestingHR),
		notes)
}

func printExplanations(expl map[string]string) {
	for _, k := range slices.Sorted(maps.Keys(expl)) {
		fmt.Printf("  %s %s\n", padRight(k, 10), symbolColor(expl[k]).Sprint(expl[k]))
	}
}

func printRecommendations(recs []string) {
	if len(recs) == 0 {
		fmt.Println("  Keep doing what you're doing.")
		return
	}
	for i, r := range recs {
		fmt.Printf("  %d. %s\n", i+1, r)
	}
}

func printAnalysis(label string, res *engine.AnalysisResult) {
	c := categoryColor(res.Category)
	fmt.Printf("%s %s %s %s\n",
		faint.Sprint(label),
		c.Sprintf("%.1f", res.Score),
		c.Sprint(res.Category),
		faint.Sprintf("[%s]", res.Source))
	if res.RiskPrediction != engine.RiskNone {
		color.Yellow("  ⚠ %s", res.RiskPrediction)
	}
	printExplanations(res.Explanations.Strings())
	fmt.Println("Recommendations:")
	printRecommendations(res.Recommendations)
}
