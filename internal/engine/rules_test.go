// ABOUTME: Tests for risk prediction, explanations, and recommendations.
// ABOUTME: Checks band edges, rule ordering, and the five-entry cap.
package engine

import (
	"testing"

	"github.com/harperreed/wellness/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stressDays(values ...float64) []*models.DailyMetrics {
	out := make([]*models.DailyMetrics, len(values))
	for i, v := range values {
		out[i] = day(i).WithStress(v)
	}
	return out
}

func TestPredictRisk(t *testing.T) {
	tests := []struct {
		name   string
		recent []*models.DailyMetrics
		want   RiskNote
	}{
		{"no records", nil, RiskNone},
		{"two records", stressDays(5, 5), RiskNone},
		{"high stress", stressDays(4, 4, 3), RiskRisingStress},
		{"exactly 3.5 is not high", stressDays(4, 3, 3.5), RiskNone},
		{"low stress", stressDays(1, 2, 2), RiskPositiveTrend},
		{"exactly 2 is not low", stressDays(2, 2, 2), RiskNone},
		{"only first three count", stressDays(1, 1, 1, 5, 5, 5), RiskPositiveTrend},
		{"missing stress everywhere", []*models.DailyMetrics{day(0), day(1), day(2)}, RiskNone},
		{"missing values ignored", []*models.DailyMetrics{day(0).WithStress(5), day(1), day(2).WithStress(4)}, RiskRisingStress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PredictRisk(tt.recent))
		})
	}
}

func TestExplainWorkedExample(t *testing.T) {
	got := Explain(workedExample())

	require.Len(t, got, 5)
	for _, dim := range ExplainedDimensions {
		assert.Equal(t, SymbolPoor, got[dim], dim)
	}
}

func TestExplainBands(t *testing.T) {
	tests := []struct {
		name string
		d    *models.DailyMetrics
		dim  string
		want Symbol
	}{
		{"sleep 7 good", day(0).WithSleepHours(7), models.FieldSleepHours, SymbolGood},
		{"sleep 9 good", day(0).WithSleepHours(9), models.FieldSleepHours, SymbolGood},
		{"sleep 9.5 neutral", day(0).WithSleepHours(9.5), models.FieldSleepHours, SymbolNeutral},
		{"sleep 6 neutral", day(0).WithSleepHours(6), models.FieldSleepHours, SymbolNeutral},
		{"sleep 5.9 poor", day(0).WithSleepHours(5.9), models.FieldSleepHours, SymbolPoor},
		{"exercise 30 good", day(0).WithExerciseMinutes(30), models.FieldExerciseMinutes, SymbolGood},
		{"exercise 15 neutral", day(0).WithExerciseMinutes(15), models.FieldExerciseMinutes, SymbolNeutral},
		{"exercise 14 poor", day(0).WithExerciseMinutes(14), models.FieldExerciseMinutes, SymbolPoor},
		{"stress 2 good", day(0).WithStress(2), models.FieldStress, SymbolGood},
		{"stress 3 neutral", day(0).WithStress(3), models.FieldStress, SymbolNeutral},
		{"stress 4 poor", day(0).WithStress(4), models.FieldStress, SymbolPoor},
		{"mood 4 good", day(0).WithMood(4), models.FieldMood, SymbolGood},
		{"mood 3 neutral", day(0).WithMood(3), models.FieldMood, SymbolNeutral},
		{"mood 2 poor", day(0).WithMood(2), models.FieldMood, SymbolPoor},
		{"steps 8000 good", day(0).WithSteps(8000), models.FieldSteps, SymbolGood},
		{"steps 5000 neutral", day(0).WithSteps(5000), models.FieldSteps, SymbolNeutral},
		{"steps 4999 poor", day(0).WithSteps(4999), models.FieldSteps, SymbolPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Explain(tt.d)[tt.dim])
		})
	}
}

func TestExplainMissingValuesCountAsZero(t *testing.T) {
	got := Explain(day(0))

	require.Len(t, got, 5)
	assert.Equal(t, SymbolPoor, got[models.FieldSleepHours])
	assert.Equal(t, SymbolPoor, got[models.FieldExerciseMinutes])
	assert.Equal(t, SymbolGood, got[models.FieldStress])
	assert.Equal(t, SymbolPoor, got[models.FieldMood])
	assert.Equal(t, SymbolPoor, got[models.FieldSteps])

	assert.Len(t, Explain(nil), 5)
}

func TestRecommendWorkedExample(t *testing.T) {
	d := workedExample()
	score := EstimateScore(d, nil, nil).Score

	got := Recommend(score, d, nil, Explain(d))

	assert.Equal(t, []string{
		AdvanceBedtime(120),
		RecWalkAfterLunch,
		RecAddActivity,
		RecMeditation,
		RecHydration,
	}, got)
}

func TestRecommendRules(t *testing.T) {
	healthy := func() *models.DailyMetrics {
		return day(0).WithSleepHours(8).WithSteps(10000).WithExerciseMinutes(45).WithStress(2)
	}

	tests := []struct {
		name  string
		score float64
		d     *models.DailyMetrics
		want  []string
	}{
		{"healthy average day", 70, healthy(), []string{RecKeepHabits}},
		{"healthy excellent day", 85, healthy(), []string{RecKeepHabits, RecMaintainPace}},
		{"oversleeping", 70, healthy().WithSleepHours(10), []string{RecReduceSleep, RecKeepHabits}},
		{"rounds bedtime shift up", 70, healthy().WithSleepHours(6.9), []string{AdvanceBedtime(6), RecKeepHabits}},
		{"partial minutes", 70, healthy().WithSleepHours(6.25), []string{AdvanceBedtime(45), RecKeepHabits}},
		{"two rules skip generic advice", 85, healthy().WithSteps(1000).WithStress(4),
			[]string{RecWalkAfterLunch, RecMeditation}},
		{"low score adds two entries", 55, healthy(), []string{RecHydration, RecSleepRoutine}},
		{"low score with one rule", 59.9, healthy().WithExerciseMinutes(0),
			[]string{RecAddActivity, RecHydration, RecSleepRoutine}},
		{"missing sleep reads as zero", 70, day(0).WithSteps(10000).WithExerciseMinutes(45),
			[]string{AdvanceBedtime(420), RecKeepHabits}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.score, tt.d, nil, Explain(tt.d))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecommendCapsAtFive(t *testing.T) {
	d := day(0).WithSleepHours(4).WithSteps(100).WithExerciseMinutes(0).WithStress(5)

	got := Recommend(10, d, nil, Explain(d))

	require.Len(t, got, MaxRecommendations)
	assert.Equal(t, AdvanceBedtime(180), got[0])
	assert.Equal(t, RecHydration, got[4])
	assert.NotContains(t, got, RecSleepRoutine)
}

func TestAdvanceBedtimeText(t *testing.T) {
	assert.Equal(t, "Advance your bedtime by 30 minutes for 3 days", AdvanceBedtime(30))
}
