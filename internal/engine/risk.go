// ABOUTME: Short-term risk prediction from recent stress levels.
// ABOUTME: Emits a qualitative note when the 3-day stress average is high or low.
package engine

import (
	"math"

	"github.com/harperreed/wellness/internal/models"
)

// RiskNote is a qualitative trend signal. RiskNone means no signal.
type RiskNote string

const (
	RiskNone          RiskNote = ""
	RiskRisingStress  RiskNote = "Stress likely to rise over the next 3 days"
	RiskPositiveTrend RiskNote = "Positive trend maintained"
)

// Stress averages above RiskHighStress or below RiskLowStress produce a note.
const (
	RiskHighStress = 3.5
	RiskLowStress  = 2.0
)

// PredictRisk inspects the stress values of the first SmoothingWindow records.
func PredictRisk(recent []*models.DailyMetrics) RiskNote {
	if len(recent) < SmoothingWindow {
		return RiskNone
	}

	var sum float64
	var n int
	for _, d := range recent[:SmoothingWindow] {
		if d == nil || d.Stress == nil || math.IsNaN(*d.Stress) || math.IsInf(*d.Stress, 0) {
			continue
		}
		sum += *d.Stress
		n++
	}
	if n == 0 {
		return RiskNone
	}

	avg := sum / float64(n)
	switch {
	case avg > RiskHighStress:
		return RiskRisingStress
	case avg < RiskLowStress:
		return RiskPositiveTrend
	default:
		return RiskNone
	}
}
