// ABOUTME: Priority-ordered recommendation rules.
// ABOUTME: Sleep comes first, then activity, stress, and general advice, capped at five.
package engine

import (
	"fmt"
	"math"

	"github.com/harperreed/wellness/internal/models"
)

// Recommendation texts.
const (
	RecReduceSleep    = "Reduce your sleep slightly to optimize recovery"
	RecWalkAfterLunch = "Walk 20 minutes after lunch"
	RecAddActivity    = "Add 30 minutes of moderate activity 3 times a week"
	RecMeditation     = "Practice 10 minutes of meditation or deep breathing daily"
	RecHydration      = "Hydration: target 2 L/day"
	RecSleepRoutine   = "Establish a regular sleep routine"
	RecKeepHabits     = "Keep up your good habits!"
	RecMaintainPace   = "Maintain this pace, you're on track"
)

// Rule thresholds.
const (
	TargetSleepHours   = 7.0
	MaxSleepHours      = 9.0
	MinDailySteps      = 6000
	MinExerciseMinutes = 20.0
	HighStress         = 4.0
	LowScore           = 60.0
)

// AdvanceBedtime returns the bedtime recommendation for the given shift.
func AdvanceBedtime(minutes int) string {
	return fmt.Sprintf("Advance your bedtime by %d minutes for 3 days", minutes)
}

// Recommend builds at most MaxRecommendations suggestions for latest.
// recent and expl are accepted for callers that already computed them;
// the current rules read only the score and the latest raw values.
func Recommend(score float64, latest *models.DailyMetrics, recent []*models.DailyMetrics, expl Explanation) []string {
	v := rawValues(latest)
	var recs []string

	switch {
	case v.sleep < TargetSleepHours:
		recs = append(recs, AdvanceBedtime(bedtimeShift(v.sleep)))
	case v.sleep > MaxSleepHours:
		recs = append(recs, RecReduceSleep)
	}

	if v.steps < MinDailySteps {
		recs = append(recs, RecWalkAfterLunch)
	}
	if v.exercise < MinExerciseMinutes {
		recs = append(recs, RecAddActivity)
	}
	if v.stress >= HighStress {
		recs = append(recs, RecMeditation)
	}

	if score < LowScore {
		recs = append(recs, RecHydration, RecSleepRoutine)
	}

	if len(recs) < 2 {
		recs = append(recs, RecKeepHabits)
		if score >= ExcellentThreshold {
			recs = append(recs, RecMaintainPace)
		}
	}

	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

// bedtimeShift is the whole number of minutes, rounded up, needed to reach
// TargetSleepHours. The epsilon keeps values like 6.9h from rounding to 7.
func bedtimeShift(sleep float64) int {
	return int(math.Ceil((TargetSleepHours-sleep)*60 - 1e-9))
}
