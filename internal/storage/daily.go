// ABOUTME: Daily record operations for SQLite storage.
// ABOUTME: Upserts one row per (user, date) and lists history most-recent-first.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/wellness/internal/models"
)

const dailyColumns = `id, user_id, date, sleep_hours, steps, exercise_minutes, calories,
	mood, stress, resting_hr, notes, created_at, updated_at`

// UpsertDailyMetrics inserts the record or replaces the metrics of the
// existing record for the same (user, date). The existing row keeps its ID
// and creation time; d is updated to reflect the stored row.
func (d *DB) UpsertDailyMetrics(m *models.DailyMetrics) error {
	if err := d.requireUser(m.UserID); err != nil {
		return err
	}

	m.Date = models.TruncateDay(m.Date)
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.UpdatedAt
	}

	query := `
		INSERT INTO daily_metrics (` + dailyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			sleep_hours = excluded.sleep_hours,
			steps = excluded.steps,
			exercise_minutes = excluded.exercise_minutes,
			calories = excluded.calories,
			mood = excluded.mood,
			stress = excluded.stress,
			resting_hr = excluded.resting_hr,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`
	_, err := d.db.Exec(query,
		m.ID.String(),
		m.UserID.String(),
		m.DateString(),
		m.SleepHours,
		m.Steps,
		m.ExerciseMinutes,
		m.Calories,
		m.Mood,
		m.Stress,
		m.RestingHR,
		m.Notes,
		m.CreatedAt.Format(time.RFC3339),
		m.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert daily metrics: %w", err)
	}

	stored, err := d.GetDailyMetrics(m.UserID, m.Date)
	if err != nil {
		return fmt.Errorf("reload daily metrics: %w", err)
	}
	m.ID = stored.ID
	m.CreatedAt = stored.CreatedAt
	return nil
}

// GetDailyMetrics returns the record for one user and day.
func (d *DB) GetDailyMetrics(userID uuid.UUID, date time.Time) (*models.DailyMetrics, error) {
	query := `SELECT ` + dailyColumns + ` FROM daily_metrics WHERE user_id = ? AND date = ?`
	m, err := scanDaily(d.db.QueryRow(query, userID.String(), date.Format(models.DateFormat)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("daily metrics for %s on %s: %w", userID, date.Format(models.DateFormat), models.ErrNotFound)
	}
	return m, err
}

// ListDailyMetrics returns a user's records most-recent-first, narrowed by filter.
func (d *DB) ListDailyMetrics(userID uuid.UUID, filter DailyFilter) ([]*models.DailyMetrics, error) {
	if err := d.requireUser(userID); err != nil {
		return nil, err
	}

	query := `SELECT ` + dailyColumns + ` FROM daily_metrics WHERE user_id = ?`
	args := []interface{}{userID.String()}

	if filter.From != nil {
		query += " AND date >= ?"
		args = append(args, filter.From.Format(models.DateFormat))
	}
	if filter.To != nil {
		query += " AND date <= ?"
		args = append(args, filter.To.Format(models.DateFormat))
	}
	query += " ORDER BY date DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily metrics: %w", err)
	}
	defer rows.Close()

	var out []*models.DailyMetrics
	for rows.Next() {
		m, err := scanDaily(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// RecentDailyMetrics returns up to limit records most-recent-first.
// An unknown user yields ErrNotFound; a known user without data yields an
// empty slice.
func (d *DB) RecentDailyMetrics(userID uuid.UUID, limit int) ([]*models.DailyMetrics, error) {
	return d.ListDailyMetrics(userID, DailyFilter{Limit: limit})
}

// DeleteDailyMetrics removes the record for one user and day.
func (d *DB) DeleteDailyMetrics(userID uuid.UUID, date time.Time) error {
	result, err := d.db.Exec("DELETE FROM daily_metrics WHERE user_id = ? AND date = ?",
		userID.String(), date.Format(models.DateFormat))
	if err != nil {
		return fmt.Errorf("delete daily metrics: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete daily metrics: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("daily metrics for %s on %s: %w", userID, date.Format(models.DateFormat), models.ErrNotFound)
	}
	return nil
}

func scanDaily(row rowScanner) (*models.DailyMetrics, error) {
	var m models.DailyMetrics
	var idStr, userStr, date, createdAt, updatedAt string
	var sleep, exercise, calories, mood, stress, hr sql.NullFloat64
	var steps sql.NullInt64
	var notes sql.NullString

	err := row.Scan(&idStr, &userStr, &date, &sleep, &steps, &exercise, &calories,
		&mood, &stress, &hr, &notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan daily metrics: %w", err)
	}

	m.ID, _ = uuid.Parse(idStr)
	m.UserID, _ = uuid.Parse(userStr)
	m.Date, _ = time.Parse(models.DateFormat, date)
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	m.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	m.SleepHours = nullFloat(sleep)
	m.ExerciseMinutes = nullFloat(exercise)
	m.Calories = nullFloat(calories)
	m.Mood = nullFloat(mood)
	m.Stress = nullFloat(stress)
	m.RestingHR = nullFloat(hr)
	if steps.Valid {
		v := int(steps.Int64)
		m.Steps = &v
	}
	if notes.Valid {
		m.Notes = &notes.String
	}
	return &m, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
