// ABOUTME: User profile model for wellness tracking.
// ABOUTME: Holds the demographic fields collected at signup and their validation.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is a person whose daily metrics are tracked.
type User struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Age       int       `json:"age" yaml:"age"`
	Gender    string    `json:"gender" yaml:"gender"`
	HeightCM  float64   `json:"height_cm" yaml:"height_cm"`
	WeightKG  float64   `json:"weight_kg" yaml:"weight_kg"`
	Goal      *string   `json:"goal,omitempty" yaml:"goal,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewUser creates a new User with generated UUID and current timestamp.
func NewUser(age int, gender string, heightCM, weightKG float64) *User {
	return &User{
		ID:        uuid.New(),
		Age:       age,
		Gender:    gender,
		HeightCM:  heightCM,
		WeightKG:  weightKG,
		CreatedAt: time.Now(),
	}
}

// WithGoal sets the user's wellness goal.
func (u *User) WithGoal(goal string) *User {
	u.Goal = &goal
	return u
}

// Validate checks the profile fields against accepted ranges.
func (u *User) Validate() error {
	if u.Age < 1 || u.Age > 120 {
		return fmt.Errorf("age must be between 1 and 120, got %d", u.Age)
	}
	if u.Gender == "" {
		return fmt.Errorf("gender is required")
	}
	if u.HeightCM < 50 || u.HeightCM > 250 {
		return fmt.Errorf("height must be between 50 and 250 cm, got %g", u.HeightCM)
	}
	if u.WeightKG < 20 || u.WeightKG > 300 {
		return fmt.Errorf("weight must be between 20 and 300 kg, got %g", u.WeightKG)
	}
	return nil
}
