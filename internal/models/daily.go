// ABOUTME: DailyMetrics model for one user's self-reported day.
// ABOUTME: All metrics are optional; a (user, date) pair holds at most one record.
package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DateFormat is the canonical calendar-day format used for keys and storage.
const DateFormat = "2006-01-02"

// Field names of the monitored daily metrics.
const (
	FieldSleepHours      = "sleep_hours"
	FieldSteps           = "steps"
	FieldExerciseMinutes = "exercise_minutes"
	FieldCalories        = "calories"
	FieldMood            = "mood_0_5"
	FieldStress          = "stress_0_5"
	FieldRestingHR       = "resting_hr"
)

// DailyMetrics is a single day of self-reported wellness data.
type DailyMetrics struct {
	ID              uuid.UUID `json:"id" yaml:"id"`
	UserID          uuid.UUID `json:"user_id" yaml:"user_id"`
	Date            time.Time `json:"date" yaml:"date"`
	SleepHours      *float64  `json:"sleep_hours,omitempty" yaml:"sleep_hours,omitempty"`
	Steps           *int      `json:"steps,omitempty" yaml:"steps,omitempty"`
	ExerciseMinutes *float64  `json:"exercise_minutes,omitempty" yaml:"exercise_minutes,omitempty"`
	Calories        *float64  `json:"calories,omitempty" yaml:"calories,omitempty"`
	Mood            *float64  `json:"mood_0_5,omitempty" yaml:"mood_0_5,omitempty"`
	Stress          *float64  `json:"stress_0_5,omitempty" yaml:"stress_0_5,omitempty"`
	RestingHR       *float64  `json:"resting_hr,omitempty" yaml:"resting_hr,omitempty"`
	Notes           *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewDailyMetrics creates an empty record for the given user and day.
func NewDailyMetrics(userID uuid.UUID, date time.Time) *DailyMetrics {
	now := time.Now()
	return &DailyMetrics{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      TruncateDay(date),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TruncateDay returns midnight UTC of the calendar day t falls on.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// DateString returns the record's day formatted as YYYY-MM-DD.
func (d *DailyMetrics) DateString() string {
	return d.Date.Format(DateFormat)
}

// WithSleepHours sets hours slept.
func (d *DailyMetrics) WithSleepHours(h float64) *DailyMetrics {
	d.SleepHours = &h
	return d
}

// WithSteps sets the step count.
func (d *DailyMetrics) WithSteps(n int) *DailyMetrics {
	d.Steps = &n
	return d
}

// WithExerciseMinutes sets minutes of exercise.
func (d *DailyMetrics) WithExerciseMinutes(m float64) *DailyMetrics {
	d.ExerciseMinutes = &m
	return d
}

// WithCalories sets calories consumed.
func (d *DailyMetrics) WithCalories(c float64) *DailyMetrics {
	d.Calories = &c
	return d
}

// WithMood sets mood on a 0-5 scale.
func (d *DailyMetrics) WithMood(m float64) *DailyMetrics {
	d.Mood = &m
	return d
}

// WithStress sets stress on a 0-5 scale.
func (d *DailyMetrics) WithStress(s float64) *DailyMetrics {
	d.Stress = &s
	return d
}

// WithRestingHR sets resting heart rate in bpm.
func (d *DailyMetrics) WithRestingHR(hr float64) *DailyMetrics {
	d.RestingHR = &hr
	return d
}

// WithNotes sets notes on the record.
func (d *DailyMetrics) WithNotes(notes string) *DailyMetrics {
	d.Notes = &notes
	return d
}

// Validate checks present values against the accepted input ranges.
// Missing values are always valid.
func (d *DailyMetrics) Validate() error {
	checks := []struct {
		name     string
		value    *float64
		min, max float64
	}{
		{FieldSleepHours, d.SleepHours, 0, 24},
		{FieldExerciseMinutes, d.ExerciseMinutes, 0, math.MaxFloat64},
		{FieldCalories, d.Calories, 0, math.MaxFloat64},
		{FieldMood, d.Mood, 0, 5},
		{FieldStress, d.Stress, 0, 5},
		{FieldRestingHR, d.RestingHR, 30, 200},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		v := *c.value
		if math.IsNaN(v) || v < c.min || v > c.max {
			if c.max == math.MaxFloat64 {
				return fmt.Errorf("%s must be >= %g, got %g", c.name, c.min, v)
			}
			return fmt.Errorf("%s must be between %g and %g, got %g", c.name, c.min, c.max, v)
		}
	}
	if d.Steps != nil && *d.Steps < 0 {
		return fmt.Errorf("%s must be >= 0, got %d", FieldSteps, *d.Steps)
	}
	return nil
}
