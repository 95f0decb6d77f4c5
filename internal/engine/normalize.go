// ABOUTME: Feature normalization for wellness scoring.
// ABOUTME: Maps a raw daily record to a fixed 7-slot vector of values in [0,1].
package engine

import (
	"math"

	"github.com/harperreed/wellness/internal/models"
)

// Feature slots in vector order.
const (
	FeatureSleep = iota
	FeatureSteps
	FeatureExercise
	FeatureCalories
	FeatureMood
	FeatureStress
	FeatureHeartRate

	NumFeatures
)

// FeatureVector is the normalized input to scoring. Stress is inverted so
// that higher is always better.
type FeatureVector [NumFeatures]float64

// Defaults substituted for missing or out-of-range raw values.
const (
	DefaultSleepHours      = 7.0
	DefaultSteps           = 5000
	DefaultExerciseMinutes = 0.0
	DefaultCalories        = 2000.0
	DefaultMood            = 3.0
	DefaultStress          = 3.0
	DefaultRestingHR       = 70.0
)

// Normalize converts a daily record into a FeatureVector. A nil record
// normalizes as if every metric were missing.
func Normalize(d *models.DailyMetrics) FeatureVector {
	var fv FeatureVector
	r := resolve(d)

	fv[FeatureSleep] = normSleep(r.sleep)
	fv[FeatureSteps] = clamp01(r.steps / 12000.0)
	fv[FeatureExercise] = normExercise(r.exercise)
	fv[FeatureCalories] = clamp01(r.calories / 3000.0)
	fv[FeatureMood] = clamp01(r.mood / 5.0)
	fv[FeatureStress] = normStress(r.stress)
	fv[FeatureHeartRate] = normHeartRate(r.restingHR)

	return fv
}

// resolved holds raw values after defaults have been applied.
type resolved struct {
	sleep, steps, exercise, calories, mood, stress, restingHR float64
}

func resolve(d *models.DailyMetrics) resolved {
	r := resolved{
		sleep:     DefaultSleepHours,
		steps:     DefaultSteps,
		exercise:  DefaultExerciseMinutes,
		calories:  DefaultCalories,
		mood:      DefaultMood,
		stress:    DefaultStress,
		restingHR: DefaultRestingHR,
	}
	if d == nil {
		return r
	}

	r.sleep = orDefault(d.SleepHours, 0, 24, DefaultSleepHours)
	if d.Steps != nil && *d.Steps >= 0 {
		r.steps = float64(*d.Steps)
	}
	r.exercise = orDefault(d.ExerciseMinutes, 0, math.Inf(1), DefaultExerciseMinutes)
	r.calories = orDefault(d.Calories, 0, math.Inf(1), DefaultCalories)
	r.mood = orDefault(d.Mood, 0, 5, DefaultMood)
	r.stress = orDefault(d.Stress, 0, 5, DefaultStress)
	r.restingHR = orDefault(d.RestingHR, 30, 200, DefaultRestingHR)
	return r
}

// orDefault returns *v when it is a finite number within [lo, hi], else def.
func orDefault(v *float64, lo, hi, def float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return def
	}
	if *v < lo || *v > hi {
		return def
	}
	return *v
}

func normSleep(hours float64) float64 {
	return clamp01(hours / 9.0)
}

func normExercise(minutes float64) float64 {
	return clamp01(minutes / 90.0)
}

func normStress(stress float64) float64 {
	return clamp01(1.0 - stress/5.0)
}

func normHeartRate(bpm float64) float64 {
	switch {
	case bpm < 50:
		return 0.5
	case bpm > 100:
		return 0.3
	default:
		return clamp01(1.0 - (bpm-50)/50.0)
	}
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
