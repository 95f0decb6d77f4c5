// ABOUTME: SQLite schema definition and versioned migrations.
// ABOUTME: Defines tables for users, daily_metrics, and analysis_results.
package storage

import "fmt"

// migrations are applied in order; PRAGMA user_version records how many have run.
// Append only, never edit a shipped entry.
var migrations = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		age INTEGER NOT NULL,
		gender TEXT NOT NULL,
		height_cm REAL NOT NULL,
		weight_kg REAL NOT NULL,
		goal TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE daily_metrics (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		sleep_hours REAL,
		steps INTEGER,
		exercise_minutes REAL,
		calories REAL,
		mood REAL,
		stress REAL,
		resting_hr REAL,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (user_id, date),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE analysis_results (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		score REAL NOT NULL,
		category TEXT NOT NULL,
		source TEXT NOT NULL,
		risk_prediction TEXT,
		explanations TEXT NOT NULL,
		recommendations TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);`,

	`CREATE INDEX idx_daily_user_date ON daily_metrics(user_id, date DESC);
	CREATE INDEX idx_analysis_user_created ON analysis_results(user_id, created_at DESC);`,
}

// SchemaVersion is the user_version of a fully migrated database.
var SchemaVersion = len(migrations)

// migrate applies every migration newer than the database's user_version.
func (d *DB) migrate() error {
	version, err := d.schemaVersion()
	if err != nil {
		return err
	}
	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		tx, err := d.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", i+1, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", i+1, err)
		}
	}
	return nil
}

func (d *DB) schemaVersion() (int, error) {
	var v int
	if err := d.db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
