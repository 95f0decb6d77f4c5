// ABOUTME: Wire form of a daily record as submitted over HTTP and MCP.
// ABOUTME: Converts and validates the submission into a DailyMetrics.
package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyInput is one day's submission. Date defaults to today (UTC).
type DailyInput struct {
	Date            string   `json:"date,omitempty"`
	SleepHours      *float64 `json:"sleep_hours,omitempty"`
	Steps           *int     `json:"steps,omitempty"`
	ExerciseMinutes *float64 `json:"exercise_minutes,omitempty"`
	Calories        *float64 `json:"calories,omitempty"`
	Mood            *float64 `json:"mood_0_5,omitempty"`
	Stress          *float64 `json:"stress_0_5,omitempty"`
	RestingHR       *float64 `json:"resting_hr,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// ToDailyMetrics builds a validated record for userID.
func (in DailyInput) ToDailyMetrics(userID uuid.UUID) (*DailyMetrics, error) {
	date := time.Now().UTC()
	if in.Date != "" {
		d, err := ParseDate(in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}

	m := NewDailyMetrics(userID, date)
	m.SleepHours = in.SleepHours
	m.Steps = in.Steps
	m.ExerciseMinutes = in.ExerciseMinutes
	m.Calories = in.Calories
	m.Mood = in.Mood
	m.Stress = in.Stress
	m.RestingHR = in.RestingHR
	if in.Notes != "" {
		m.WithNotes(in.Notes)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
