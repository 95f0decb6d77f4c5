// ABOUTME: Tests for DailyMetrics and User models.
// ABOUTME: Validates constructors, day truncation, and range validation.
package models

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewDailyMetrics(t *testing.T) {
	userID := uuid.New()
	at := time.Date(2025, 3, 14, 22, 45, 0, 0, time.UTC)

	d := NewDailyMetrics(userID, at)

	if d.ID == uuid.Nil {
		t.Error("expected UUID to be set")
	}
	if d.UserID != userID {
		t.Errorf("UserID = %s, want %s", d.UserID, userID)
	}
	if d.DateString() != "2025-03-14" {
		t.Errorf("DateString() = %s, want 2025-03-14", d.DateString())
	}
	if d.Date.Hour() != 0 || d.Date.Minute() != 0 {
		t.Errorf("expected date truncated to midnight, got %s", d.Date)
	}
	if d.SleepHours != nil || d.Steps != nil || d.Stress != nil {
		t.Error("expected metrics to start empty")
	}
}

func TestDailyMetricsBuilders(t *testing.T) {
	d := NewDailyMetrics(uuid.New(), time.Now()).
		WithSleepHours(7.5).
		WithSteps(9000).
		WithExerciseMinutes(30).
		WithCalories(2100).
		WithMood(4).
		WithStress(2).
		WithRestingHR(60).
		WithNotes("good day")

	if *d.SleepHours != 7.5 || *d.Steps != 9000 || *d.ExerciseMinutes != 30 {
		t.Error("activity builders did not set values")
	}
	if *d.Calories != 2100 || *d.Mood != 4 || *d.Stress != 2 || *d.RestingHR != 60 {
		t.Error("builders did not set values")
	}
	if d.Notes == nil || *d.Notes != "good day" {
		t.Error("expected notes to be set")
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-01-31")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.January || got.Day() != 31 {
		t.Errorf("ParseDate = %s", got)
	}

	if _, err := ParseDate("31/01/2025"); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestDailyMetricsValidate(t *testing.T) {
	base := func() *DailyMetrics { return NewDailyMetrics(uuid.New(), time.Now()) }

	tests := []struct {
		name    string
		record  *DailyMetrics
		wantErr bool
	}{
		{"empty record", base(), false},
		{"full valid record", base().WithSleepHours(8).WithSteps(10000).WithExerciseMinutes(45).
			WithCalories(2200).WithMood(4).WithStress(1).WithRestingHR(58), false},
		{"zero values are valid", base().WithSleepHours(0).WithSteps(0).WithMood(0).WithStress(0), false},
		{"sleep above 24", base().WithSleepHours(25), true},
		{"negative steps", base().WithSteps(-1), true},
		{"negative exercise", base().WithExerciseMinutes(-5), true},
		{"negative calories", base().WithCalories(-100), true},
		{"mood above 5", base().WithMood(6), true},
		{"stress below 0", base().WithStress(-1), true},
		{"resting hr too low", base().WithRestingHR(20), true},
		{"resting hr too high", base().WithRestingHR(250), true},
		{"NaN sleep", base().WithSleepHours(math.NaN()), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    *User
		wantErr bool
	}{
		{"valid", NewUser(34, "F", 168, 61), false},
		{"valid with goal", NewUser(50, "M", 180, 90).WithGoal("sleep better"), false},
		{"age zero", NewUser(0, "F", 168, 61), true},
		{"age too high", NewUser(121, "F", 168, 61), true},
		{"missing gender", NewUser(30, "", 168, 61), true},
		{"height too low", NewUser(30, "M", 40, 61), true},
		{"weight too high", NewUser(30, "M", 180, 350), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewAnalysisRecord(t *testing.T) {
	userID := uuid.New()
	at := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

	r := NewAnalysisRecord(userID, at).WithRiskPrediction("Positive trend maintained")

	if r.ID == uuid.Nil {
		t.Error("expected UUID to be set")
	}
	if r.UserID != userID {
		t.Errorf("UserID = %s, want %s", r.UserID, userID)
	}
	if !r.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %s, want %s", r.CreatedAt, at)
	}
	if r.RiskPrediction == nil || *r.RiskPrediction != "Positive trend maintained" {
		t.Error("expected risk prediction to be set")
	}
}

func TestDailyInputToDailyMetrics(t *testing.T) {
	sleep, stress := 6.5, 3.0
	steps := 4200
	userID := uuid.New()

	in := DailyInput{Date: "2025-03-01", SleepHours: &sleep, Steps: &steps, Stress: &stress, Notes: "late night"}
	m, err := in.ToDailyMetrics(userID)
	if err != nil {
		t.Fatalf("ToDailyMetrics failed: %v", err)
	}
	if m.UserID != userID {
		t.Errorf("UserID = %s, want %s", m.UserID, userID)
	}
	if m.DateString() != "2025-03-01" {
		t.Errorf("Date = %s", m.DateString())
	}
	if *m.SleepHours != 6.5 || *m.Steps != 4200 || *m.Stress != 3 {
		t.Errorf("values not copied: %+v", m)
	}
	if m.Mood != nil {
		t.Errorf("Mood should stay nil")
	}
	if m.Notes == nil || *m.Notes != "late night" {
		t.Errorf("Notes = %v", m.Notes)
	}
}

func TestDailyInputRejectsBadValues(t *testing.T) {
	mood := 7.0
	if _, err := (DailyInput{Mood: &mood}).ToDailyMetrics(uuid.New()); err == nil {
		t.Error("Expected error for mood above 5")
	}
	if _, err := (DailyInput{Date: "03/01/2025"}).ToDailyMetrics(uuid.New()); err == nil {
		t.Error("Expected error for malformed date")
	}
}

func TestDailyInputDefaultsToToday(t *testing.T) {
	m, err := DailyInput{}.ToDailyMetrics(uuid.New())
	if err != nil {
		t.Fatalf("ToDailyMetrics failed: %v", err)
	}
	if m.DateString() != time.Now().UTC().Format(DateFormat) {
		t.Errorf("Date = %s, want today", m.DateString())
	}
}
