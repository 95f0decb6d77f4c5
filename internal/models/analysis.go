// ABOUTME: AnalysisRecord model, the persisted outcome of one wellness analysis.
// ABOUTME: Records are append-only and never mutated after creation.
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a user or the data requested for them does not exist.
var ErrNotFound = errors.New("not found")

// ErrAmbiguousID is returned when an ID prefix matches more than one record.
var ErrAmbiguousID = errors.New("ambiguous ID prefix")

// AnalysisRecord is the stored result of analyzing a user's recent history.
type AnalysisRecord struct {
	ID              uuid.UUID         `json:"id" yaml:"id"`
	UserID          uuid.UUID         `json:"user_id" yaml:"user_id"`
	Score           float64           `json:"score" yaml:"score"`
	Category        string            `json:"category" yaml:"category"`
	Source          string            `json:"source" yaml:"source"`
	RiskPrediction  *string           `json:"risk_prediction,omitempty" yaml:"risk_prediction,omitempty"`
	Explanations    map[string]string `json:"explanations" yaml:"explanations"`
	Recommendations []string          `json:"recommendations" yaml:"recommendations"`
	CreatedAt       time.Time         `json:"created_at" yaml:"created_at"`
}

// NewAnalysisRecord creates a record for userID stamped with createdAt.
func NewAnalysisRecord(userID uuid.UUID, createdAt time.Time) *AnalysisRecord {
	return &AnalysisRecord{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: createdAt,
	}
}

// WithRiskPrediction sets the risk note.
func (r *AnalysisRecord) WithRiskPrediction(note string) *AnalysisRecord {
	r.RiskPrediction = &note
	return r
}
