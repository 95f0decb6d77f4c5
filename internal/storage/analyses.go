// ABOUTME: Analysis history operations for SQLite storage.
// ABOUTME: Appends immutable analysis records and lists them newest first.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/wellness/internal/models"
)

// AppendAnalysis stores a new analysis record.
func (d *DB) AppendAnalysis(r *models.AnalysisRecord) error {
	explanations, err := json.Marshal(r.Explanations)
	if err != nil {
		return fmt.Errorf("encode explanations: %w", err)
	}
	recommendations, err := json.Marshal(r.Recommendations)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}

	query := `
		INSERT INTO analysis_results (id, user_id, score, category, source, risk_prediction,
			explanations, recommendations, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = d.db.Exec(query,
		r.ID.String(),
		r.UserID.String(),
		r.Score,
		r.Category,
		r.Source,
		r.RiskPrediction,
		string(explanations),
		string(recommendations),
		r.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("append analysis: %w", err)
	}
	return nil
}

// ListAnalyses returns a user's analysis records newest first. A limit of
// zero returns all of them.
func (d *DB) ListAnalyses(userID uuid.UUID, limit int) ([]*models.AnalysisRecord, error) {
	if err := d.requireUser(userID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, score, category, source, risk_prediction,
			explanations, recommendations, created_at
		FROM analysis_results
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`
	args := []interface{}{userID.String()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []*models.AnalysisRecord
	for rows.Next() {
		var r models.AnalysisRecord
		var idStr, userStr, explanations, recommendations, createdAt string
		var risk sql.NullString

		if err := rows.Scan(&idStr, &userStr, &r.Score, &r.Category, &r.Source, &risk,
			&explanations, &recommendations, &createdAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}

		r.ID, _ = uuid.Parse(idStr)
		r.UserID, _ = uuid.Parse(userStr)
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if risk.Valid {
			r.RiskPrediction = &risk.String
		}
		if err := json.Unmarshal([]byte(explanations), &r.Explanations); err != nil {
			return nil, fmt.Errorf("decode explanations: %w", err)
		}
		if err := json.Unmarshal([]byte(recommendations), &r.Recommendations); err != nil {
			return nil, fmt.Errorf("decode recommendations: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
