// ABOUTME: Data migration between wellness storage backends.
// ABOUTME: Copies users, daily records, and analysis history from source to destination.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Users        int
	DailyMetrics int
	Analyses     int
}

// MigrateData copies all data from src to dst storage. Users go first so
// the destination can check ownership of every daily record and analysis.
// The destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	data, err := src.GetAllData()
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	imported, err := ImportAll(dst, data)
	if err != nil {
		return nil, err
	}

	return &MigrateSummary{
		Users:        imported.Users,
		DailyMetrics: imported.DailyMetrics,
		Analyses:     imported.Analyses,
	}, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
