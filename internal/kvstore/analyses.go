// ABOUTME: Analysis history operations for the key-value store.
// ABOUTME: Records are append-only and listed newest first.
package kvstore

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/harperreed/wellness/internal/models"
)

// AppendAnalysis stores a new analysis record.
func (s *Store) AppendAnalysis(r *models.AnalysisRecord) error {
	if err := s.requireUser(r.UserID.String()); err != nil {
		return err
	}
	if err := s.put(analysisKey(r.UserID.String(), r.ID.String()), r); err != nil {
		return fmt.Errorf("append analysis: %w", err)
	}
	return nil
}

// ListAnalyses returns a user's analysis records newest first. A limit of
// zero returns all of them.
func (s *Store) ListAnalyses(userID uuid.UUID, limit int) ([]*models.AnalysisRecord, error) {
	if err := s.requireUser(userID.String()); err != nil {
		return nil, err
	}

	allData, err := s.listByPrefix(AnalysisPrefix + userID.String() + ":")
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	var out []*models.AnalysisRecord
	for _, data := range allData {
		r, err := unmarshalJSON[models.AnalysisRecord](data)
		if err != nil {
			continue // Skip invalid entries
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
