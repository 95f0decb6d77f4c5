// ABOUTME: Daily record operations for the key-value store.
// ABOUTME: One key per (user, date) makes writes an upsert by construction.
package kvstore

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/storage"
)

// UpsertDailyMetrics stores the record, replacing the metrics of any
// existing record for the same (user, date). The existing record keeps its
// ID and creation time; m is updated to reflect the stored record.
func (s *Store) UpsertDailyMetrics(m *models.DailyMetrics) error {
	if err := s.requireUser(m.UserID.String()); err != nil {
		return err
	}

	m.Date = models.TruncateDay(m.Date)
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.UpdatedAt
	}

	existing, err := s.GetDailyMetrics(m.UserID, m.Date)
	switch {
	case err == nil:
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
	case !errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("upsert daily metrics: %w", err)
	}

	if err := s.put(dailyKey(m.UserID.String(), m.DateString()), m); err != nil {
		return fmt.Errorf("upsert daily metrics: %w", err)
	}
	return nil
}

// GetDailyMetrics returns the record for one user and day.
func (s *Store) GetDailyMetrics(userID uuid.UUID, date time.Time) (*models.DailyMetrics, error) {
	day := date.Format(models.DateFormat)
	data, err := s.getExact(dailyKey(userID.String(), day))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("daily metrics for %s on %s: %w", userID, day, models.ErrNotFound)
		}
		return nil, err
	}
	m, err := unmarshalJSON[models.DailyMetrics](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal daily metrics: %w", err)
	}
	return m, nil
}

// ListDailyMetrics returns a user's records most-recent-first, narrowed by filter.
func (s *Store) ListDailyMetrics(userID uuid.UUID, filter storage.DailyFilter) ([]*models.DailyMetrics, error) {
	if err := s.requireUser(userID.String()); err != nil {
		return nil, err
	}

	allData, err := s.listByPrefix(DailyPrefix + userID.String() + ":")
	if err != nil {
		return nil, fmt.Errorf("list daily metrics: %w", err)
	}

	var out []*models.DailyMetrics
	for _, data := range allData {
		m, err := unmarshalJSON[models.DailyMetrics](data)
		if err != nil {
			continue // Skip invalid entries
		}
		if !filter.Includes(m.Date) {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// RecentDailyMetrics returns up to limit records most-recent-first.
func (s *Store) RecentDailyMetrics(userID uuid.UUID, limit int) ([]*models.DailyMetrics, error) {
	return s.ListDailyMetrics(userID, storage.DailyFilter{Limit: limit})
}

// DeleteDailyMetrics removes the record for one user and day.
func (s *Store) DeleteDailyMetrics(userID uuid.UUID, date time.Time) error {
	if _, err := s.GetDailyMetrics(userID, date); err != nil {
		return err
	}
	key := dailyKey(userID.String(), date.Format(models.DateFormat))
	if err := s.remove([]byte(key)); err != nil {
		return fmt.Errorf("delete daily metrics: %w", err)
	}
	return nil
}
