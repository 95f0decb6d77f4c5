// ABOUTME: User operations for the key-value store.
// ABOUTME: Deleting a user also removes their daily records and analyses.
package kvstore

import (
	"errors"
	"fmt"
	"sort"

	"github.com/harperreed/wellness/internal/models"
)

// CreateUser stores a new user.
func (s *Store) CreateUser(u *models.User) error {
	if _, err := s.getExact(userKey(u.ID.String())); err == nil {
		return fmt.Errorf("create user: %s already exists", u.ID)
	} else if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("create user: %w", err)
	}
	if err := s.put(userKey(u.ID.String()), u); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID or ID prefix.
func (s *Store) GetUser(idOrPrefix string) (*models.User, error) {
	if idOrPrefix == "" {
		return nil, fmt.Errorf("empty user ID: %w", models.ErrNotFound)
	}
	data, err := s.getByIDPrefix(UserPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u, err := unmarshalJSON[models.User](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return u, nil
}

// ListUsers returns all users, oldest first.
func (s *Store) ListUsers() ([]*models.User, error) {
	allData, err := s.listByPrefix(UserPrefix)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var users []*models.User
	for _, data := range allData {
		u, err := unmarshalJSON[models.User](data)
		if err != nil {
			continue // Skip invalid entries
		}
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// DeleteUser removes a user together with their daily records and analyses.
func (s *Store) DeleteUser(idOrPrefix string) error {
	u, err := s.GetUser(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	id := u.ID.String()

	keys := [][]byte{[]byte(userKey(id))}
	for _, prefix := range []string{DailyPrefix + id + ":", AnalysisPrefix + id + ":"} {
		owned, err := s.keysWithPrefix(prefix)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		keys = append(keys, owned...)
	}

	if err := s.remove(keys...); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// requireUser returns ErrNotFound when no user exists for id.
func (s *Store) requireUser(id string) error {
	if _, err := s.getExact(userKey(id)); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
		}
		return err
	}
	return nil
}
