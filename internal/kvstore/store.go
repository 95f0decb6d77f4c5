// ABOUTME: Key-value implementation of the wellness Repository.
// ABOUTME: Stores JSON records under type-prefixed keys with client-side filtering.
package kvstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/storage"
)

// Key prefixes. Daily and analysis keys embed the owning user ID so a
// user's rows can be scanned or removed together.
const (
	UserPrefix     = "user:"
	DailyPrefix    = "daily:"
	AnalysisPrefix = "analysis:"
)

// KV is the minimal byte store a Store needs. Get is only called for keys
// returned by Keys.
type KV interface {
	Set(key, value []byte) error
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	Keys() ([][]byte, error)
}

// Store implements storage.Repository over any KV.
type Store struct {
	kv         KV
	closer     func() error
	afterWrite func()
	mu         sync.RWMutex
}

var _ storage.Repository = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithCloser sets the function Close calls.
func WithCloser(fn func() error) Option {
	return func(s *Store) { s.closer = fn }
}

// WithAfterWrite registers a hook run after every successful write.
func WithAfterWrite(fn func()) Option {
	return func(s *Store) { s.afterWrite = fn }
}

// New wraps kv as a Repository.
func New(kv KV, opts ...Option) *Store {
	s := &Store{kv: kv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the underlying store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

// GetAllData retrieves all data for export.
func (s *Store) GetAllData() (*storage.ExportData, error) {
	return storage.CollectAll(s)
}

// ImportData imports data from an export file.
func (s *Store) ImportData(data *storage.ExportData) error {
	_, err := storage.ImportAll(s, data)
	return err
}

func userKey(id string) string { return UserPrefix + id }

func dailyKey(userID, date string) string { return DailyPrefix + userID + ":" + date }

func analysisKey(userID, id string) string { return AnalysisPrefix + userID + ":" + id }

// put marshals v and stores it under key.
func (s *Store) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set([]byte(key), data); err != nil {
		return err
	}
	s.wrote()
	return nil
}

// remove deletes every key in keys.
func (s *Store) remove(keys ...[]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		if err := s.kv.Delete(k); err != nil {
			return err
		}
	}
	s.wrote()
	return nil
}

func (s *Store) wrote() {
	if s.afterWrite != nil {
		s.afterWrite()
	}
}

// keysWithPrefix returns all keys starting with prefix.
func (s *Store) keysWithPrefix(prefix string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keysWithPrefixLocked(prefix)
}

func (s *Store) keysWithPrefixLocked(prefix string) ([][]byte, error) {
	keys, err := s.kv.Keys()
	if err != nil {
		return nil, err
	}
	p := []byte(prefix)
	var out [][]byte
	for _, k := range keys {
		if bytes.HasPrefix(k, p) {
			out = append(out, k)
		}
	}
	return out, nil
}

// listByPrefix returns all values with keys matching the given prefix.
func (s *Store) listByPrefix(prefix string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys, err := s.keysWithPrefixLocked(prefix)
	if err != nil {
		return nil, err
	}
	results := make([][]byte, 0, len(keys))
	for _, k := range keys {
		val, err := s.kv.Get(k)
		if err != nil {
			return nil, err
		}
		results = append(results, val)
	}
	return results, nil
}

// getExact returns the value at key, or ErrNotFound when absent.
func (s *Store) getExact(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys, err := s.keysWithPrefixLocked(key)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if string(k) == key {
			return s.kv.Get(k)
		}
	}
	return nil, models.ErrNotFound
}

// getByIDPrefix retrieves a single value by ID prefix match.
// Returns an error if there is no match or more than one.
func (s *Store) getByIDPrefix(typePrefix, idPrefix string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys, err := s.keysWithPrefixLocked(typePrefix + idPrefix)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%s%s: %w", typePrefix, idPrefix, models.ErrNotFound)
	}
	if len(keys) > 1 {
		return nil, fmt.Errorf("prefix %s matches multiple records: %w", idPrefix, models.ErrAmbiguousID)
	}
	return s.kv.Get(keys[0])
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
