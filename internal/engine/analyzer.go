// ABOUTME: Analyzer composes scoring, explanations, risk and recommendations.
// ABOUTME: Reads a user's recent history and appends one AnalysisRecord per analysis.
package engine

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/wellness/internal/models"
)

// History windows, in days of records.
const (
	// HistoryWindow is how many records an analysis fetches.
	HistoryWindow = 30
	// RecentWindow is how many of those feed recency-dependent rules.
	RecentWindow = 7
	// SmoothingWindow is how many recent records are averaged for smoothing and risk.
	SmoothingWindow = 3
	// MaxRecommendations caps the recommendation list.
	MaxRecommendations = 5
)

// HistoryProvider returns a user's daily records, most recent first.
// It returns an error wrapping models.ErrNotFound for an unknown user.
type HistoryProvider interface {
	RecentDailyMetrics(userID uuid.UUID, limit int) ([]*models.DailyMetrics, error)
}

// RecordStore persists analysis records.
type RecordStore interface {
	AppendAnalysis(r *models.AnalysisRecord) error
}

// AnalysisResult is the outcome of Analyze.
type AnalysisResult struct {
	UserID          uuid.UUID              `json:"user_id"`
	Score           float64                `json:"score"`
	Category        Category               `json:"category"`
	Source          string                 `json:"source"`
	RiskPrediction  RiskNote               `json:"risk_prediction,omitempty"`
	Explanations    Explanation            `json:"explanations"`
	Recommendations []string               `json:"recommendations"`
	Record          *models.AnalysisRecord `json:"-"`
}

// RecommendationResult is the outcome of Recommend.
type RecommendationResult struct {
	UserID          uuid.UUID   `json:"user_id"`
	Score           float64     `json:"score"`
	Recommendations []string    `json:"recommendations"`
	Explanations    Explanation `json:"explanations"`
}

// Analyzer runs analyses against a history provider and record store.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	history   HistoryProvider
	store     RecordStore
	estimator Estimator
	logger    *log.Logger
	now       func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRegressor sets the trained regressor used for scoring.
func WithRegressor(r Regressor) Option {
	return func(a *Analyzer) {
		a.estimator.Regressor = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
		a.estimator.Logger = l
	}
}

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(history HistoryProvider, store RecordStore, opts ...Option) *Analyzer {
	a := &Analyzer{
		history: history,
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores the user's latest day, persists the analysis and returns it.
func (a *Analyzer) Analyze(userID uuid.UUID) (*AnalysisResult, error) {
	records, err := a.fetch(userID, HistoryWindow)
	if err != nil {
		return nil, err
	}

	latest := records[0]
	recent := window(records, RecentWindow)

	score := a.estimator.Estimate(latest, recent)
	expl := Explain(latest)
	risk := PredictRisk(recent)
	recs := Recommend(score.Score, latest, recent, expl)

	record := models.NewAnalysisRecord(userID, a.now())
	record.Score = score.Score
	record.Category = string(score.Category)
	record.Source = score.Source
	record.Explanations = expl.Strings()
	record.Recommendations = recs
	if risk != RiskNone {
		record.WithRiskPrediction(string(risk))
	}

	if err := a.store.AppendAnalysis(record); err != nil {
		return nil, fmt.Errorf("append analysis: %w", err)
	}

	if a.logger != nil {
		a.logger.Debug("analysis complete",
			"user", userID.String()[:8],
			"days", len(records),
			"score", score.Score,
			"category", score.Category,
			"source", score.Source)
	}

	return &AnalysisResult{
		UserID:          userID,
		Score:           score.Score,
		Category:        score.Category,
		Source:          score.Source,
		RiskPrediction:  risk,
		Explanations:    expl,
		Recommendations: recs,
		Record:          record,
	}, nil
}

// Recommend computes recommendations for the user's latest day without
// persisting anything.
func (a *Analyzer) Recommend(userID uuid.UUID) (*RecommendationResult, error) {
	records, err := a.fetch(userID, RecentWindow)
	if err != nil {
		return nil, err
	}

	latest := records[0]
	score := a.estimator.Estimate(latest, records)
	expl := Explain(latest)

	return &RecommendationResult{
		UserID:          userID,
		Score:           score.Score,
		Recommendations: Recommend(score.Score, latest, records, expl),
		Explanations:    expl,
	}, nil
}

func (a *Analyzer) fetch(userID uuid.UUID, limit int) ([]*models.DailyMetrics, error) {
	records, err := a.history.RecentDailyMetrics(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no daily data for user %s: %w", userID, models.ErrNotFound)
	}
	return records, nil
}

func window(records []*models.DailyMetrics, n int) []*models.DailyMetrics {
	if len(records) > n {
		return records[:n]
	}
	return records
}
