// ABOUTME: Repository interface for wellness data storage.
// ABOUTME: Defines the contract for users, daily records, and analysis history.
package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/wellness/internal/models"
)

// DailyFilter narrows a daily record listing. Zero values mean no bound.
type DailyFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}

// Includes reports whether day falls inside the filter's date range.
func (f DailyFilter) Includes(day time.Time) bool {
	day = models.TruncateDay(day)
	if f.From != nil && day.Before(models.TruncateDay(*f.From)) {
		return false
	}
	if f.To != nil && day.After(models.TruncateDay(*f.To)) {
		return false
	}
	return true
}

// Repository defines the storage interface for wellness data.
// Both the SQLite store and the charm KV store implement it, and it
// satisfies the engine's HistoryProvider and RecordStore.
type Repository interface {
	// User operations
	CreateUser(u *models.User) error
	GetUser(idOrPrefix string) (*models.User, error)
	ListUsers() ([]*models.User, error)
	DeleteUser(idOrPrefix string) error

	// Daily record operations
	UpsertDailyMetrics(d *models.DailyMetrics) error
	GetDailyMetrics(userID uuid.UUID, date time.Time) (*models.DailyMetrics, error)
	ListDailyMetrics(userID uuid.UUID, filter DailyFilter) ([]*models.DailyMetrics, error)
	RecentDailyMetrics(userID uuid.UUID, limit int) ([]*models.DailyMetrics, error)
	DeleteDailyMetrics(userID uuid.UUID, date time.Time) error

	// Analysis history
	AppendAnalysis(r *models.AnalysisRecord) error
	ListAnalyses(userID uuid.UUID, limit int) ([]*models.AnalysisRecord, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
