// ABOUTME: Per-dimension explanations of a day's metrics.
// ABOUTME: Classifies raw values as above, within, or below a healthy band.
package engine

import "github.com/harperreed/wellness/internal/models"

// Symbol marks where a raw value sits relative to its healthy band.
type Symbol string

const (
	SymbolGood    Symbol = "+"
	SymbolNeutral Symbol = "="
	SymbolPoor    Symbol = "-"
)

// Explanation maps a dimension name to its symbol.
type Explanation map[string]Symbol

// ExplainedDimensions lists the dimensions every Explanation contains.
var ExplainedDimensions = []string{
	models.FieldSleepHours,
	models.FieldExerciseMinutes,
	models.FieldStress,
	models.FieldMood,
	models.FieldSteps,
}

// Explain classifies the raw values of latest. Missing values count as 0
// here, not as the normalization defaults.
func Explain(latest *models.DailyMetrics) Explanation {
	v := rawValues(latest)

	return Explanation{
		models.FieldSleepHours:      band(v.sleep >= 7 && v.sleep <= 9, v.sleep < 6),
		models.FieldExerciseMinutes: band(v.exercise >= 30, v.exercise < 15),
		models.FieldStress:          band(v.stress <= 2, v.stress >= 4),
		models.FieldMood:            band(v.mood >= 4, v.mood <= 2),
		models.FieldSteps:           band(v.steps >= 8000, v.steps < 5000),
	}
}

// Strings returns the explanation with plain string values.
func (e Explanation) Strings() map[string]string {
	out := make(map[string]string, len(e))
	for k, v := range e {
		out[k] = string(v)
	}
	return out
}

func band(good, poor bool) Symbol {
	switch {
	case good:
		return SymbolGood
	case poor:
		return SymbolPoor
	default:
		return SymbolNeutral
	}
}

// raw holds the latest values with missing metrics read as zero.
type raw struct {
	sleep, steps, exercise, stress, mood float64
}

func rawValues(d *models.DailyMetrics) raw {
	var r raw
	if d == nil {
		return r
	}
	r.sleep = deref(d.SleepHours)
	r.exercise = deref(d.ExerciseMinutes)
	r.stress = deref(d.Stress)
	r.mood = deref(d.Mood)
	if d.Steps != nil {
		r.steps = float64(*d.Steps)
	}
	return r
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
