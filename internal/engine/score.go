// ABOUTME: Wellness score estimation with an optional trained regressor.
// ABOUTME: Falls back to a fixed weighted formula whenever the regressor is absent or fails.
package engine

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/harperreed/wellness/internal/models"
)

// Regressor is a trained model that maps a FeatureVector to a raw score.
// Implementations must be safe for concurrent use.
type Regressor interface {
	Predict(fv FeatureVector) (float64, error)
}

// RegressorFunc adapts a plain function to the Regressor interface.
type RegressorFunc func(fv FeatureVector) (float64, error)

// Predict calls f(fv).
func (f RegressorFunc) Predict(fv FeatureVector) (float64, error) {
	return f(fv)
}

// Category is a qualitative band for a wellness score.
type Category string

const (
	CategoryExcellent        Category = "Excellent balance"
	CategoryGood             Category = "Good balance"
	CategoryAverage          Category = "Average balance"
	CategoryNeedsImprovement Category = "Needs improvement"
)

// Category thresholds are inclusive lower bounds.
const (
	ExcellentThreshold = 80.0
	GoodThreshold      = 65.0
	AverageThreshold   = 50.0
)

// Score sources.
const (
	SourceModel   = "model"
	SourceFormula = "formula"
)

// FormulaWeights are applied to the feature vector by the fallback formula.
var FormulaWeights = FeatureVector{0.20, 0.15, 0.15, 0.10, 0.20, 0.15, 0.05}

// ScoreResult is a computed score with its category.
type ScoreResult struct {
	Score    float64  `json:"score"`
	Category Category `json:"category"`
	Source   string   `json:"source"`
}

// CategoryFor maps a score to its category.
func CategoryFor(score float64) Category {
	switch {
	case score >= ExcellentThreshold:
		return CategoryExcellent
	case score >= GoodThreshold:
		return CategoryGood
	case score >= AverageThreshold:
		return CategoryAverage
	default:
		return CategoryNeedsImprovement
	}
}

// FormulaScore computes the deterministic weighted score for fv, clamped to [0,100].
func FormulaScore(fv FeatureVector) float64 {
	var sum float64
	for i, w := range FormulaWeights {
		sum += fv[i] * w
	}
	return clamp(sum*100, 0, 100)
}

// Estimator scores daily records. The zero value scores with the formula only.
type Estimator struct {
	Regressor Regressor
	Logger    *log.Logger
}

// EstimateScore scores latest using recent for smoothing and reg when non-nil.
func EstimateScore(latest *models.DailyMetrics, recent []*models.DailyMetrics, reg Regressor) ScoreResult {
	return Estimator{Regressor: reg}.Estimate(latest, recent)
}

// Estimate scores latest. When recent holds at least SmoothingWindow records,
// the sleep, exercise and stress slots are replaced by their mean over the
// first SmoothingWindow of them.
func (e Estimator) Estimate(latest *models.DailyMetrics, recent []*models.DailyMetrics) ScoreResult {
	fv := Smooth(Normalize(latest), recent)

	score, source := FormulaScore(fv), SourceFormula
	if e.Regressor != nil {
		if raw, err := e.predict(fv); err != nil {
			if e.Logger != nil {
				e.Logger.Debug("regressor failed, using formula score", "err", err)
			}
		} else {
			score, source = clamp(raw, 0, 100), SourceModel
		}
	}

	score = math.Round(score*10) / 10
	return ScoreResult{
		Score:    score,
		Category: CategoryFor(score),
		Source:   source,
	}
}

// predict calls the regressor, converting panics and non-finite output into errors.
func (e Estimator) predict(fv FeatureVector) (raw float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("regressor panic: %v", r)
		}
	}()

	raw, err = e.Regressor.Predict(fv)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("regressor returned non-finite value %v", raw)
	}
	return raw, nil
}

// Smooth overrides the sleep, exercise and stress slots of fv with the mean
// of the first SmoothingWindow records of recent. fv is returned unchanged
// when fewer records are available.
func Smooth(fv FeatureVector, recent []*models.DailyMetrics) FeatureVector {
	if len(recent) < SmoothingWindow {
		return fv
	}

	var sleep, exercise, stress float64
	for _, d := range recent[:SmoothingWindow] {
		r := resolve(d)
		sleep += r.sleep
		exercise += r.exercise
		stress += r.stress
	}
	n := float64(SmoothingWindow)

	fv[FeatureSleep] = normSleep(sleep / n)
	fv[FeatureExercise] = normExercise(exercise / n)
	fv[FeatureStress] = normStress(stress / n)
	return fv
}
