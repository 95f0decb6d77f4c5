// ABOUTME: User CRUD operations for SQLite storage.
// ABOUTME: Implements Repository interface methods for user profiles.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/wellness/internal/models"
)

// CreateUser stores a new user in the database.
func (d *DB) CreateUser(u *models.User) error {
	query := `
		INSERT INTO users (id, age, gender, height_cm, weight_kg, goal, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		u.ID.String(),
		u.Age,
		u.Gender,
		u.HeightCM,
		u.WeightKG,
		u.Goal,
		u.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID or ID prefix.
func (d *DB) GetUser(idOrPrefix string) (*models.User, error) {
	id, err := d.resolveUserID(idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, age, gender, height_cm, weight_kg, goal, created_at
		FROM users
		WHERE id = ?
	`
	u, err := scanUser(d.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", idOrPrefix, models.ErrNotFound)
	}
	return u, err
}

// ListUsers returns all users, oldest first.
func (d *DB) ListUsers() ([]*models.User, error) {
	rows, err := d.db.Query(`
		SELECT id, age, gender, height_cm, weight_kg, goal, created_at
		FROM users
		ORDER BY created_at ASC, rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes a user together with their daily records and analyses.
func (d *DB) DeleteUser(idOrPrefix string) error {
	id, err := d.resolveUserID(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	result, err := d.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", idOrPrefix, models.ErrNotFound)
	}
	return nil
}

// userExists reports whether a user row exists for id.
func (d *DB) userExists(id uuid.UUID) (bool, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM users WHERE id = ?", id.String()).Scan(&n); err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return n > 0, nil
}

// requireUser returns ErrNotFound when no user exists for id.
func (d *DB) requireUser(id uuid.UUID) error {
	ok, err := d.userExists(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// resolveUserID finds the full ID from a prefix.
func (d *DB) resolveUserID(idOrPrefix string) (string, error) {
	// If it looks like a full UUID, use it directly
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}
	if idOrPrefix == "" {
		return "", fmt.Errorf("empty user ID: %w", models.ErrNotFound)
	}

	rows, err := d.db.Query(`SELECT id FROM users WHERE id LIKE ? || '%'`, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve user ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan user ID: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve user ID: %w", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("user %s: %w", idOrPrefix, models.ErrNotFound)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("prefix %s matches multiple users: %w", idOrPrefix, models.ErrAmbiguousID)
	}
	return matches[0], nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var idStr, createdAt string
	var goal sql.NullString

	err := row.Scan(&idStr, &u.Age, &u.Gender, &u.HeightCM, &u.WeightKG, &goal, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	u.ID, _ = uuid.Parse(idStr)
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if goal.Valid {
		u.Goal = &goal.String
	}
	return &u, nil
}
