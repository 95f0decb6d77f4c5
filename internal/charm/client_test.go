// ABOUTME: Unit tests for the Charm-backed client.
// ABOUTME: Checks defaults, env setup, key layout and the read-only guard without a live server.
package charm

import (
	"errors"
	"os"
	"testing"

	"github.com/harperreed/wellness/internal/models"

	"github.com/harperreed/wellness/internal/kvstore"
	"github.com/harperreed/wellness/internal/storage"
)

var _ storage.Repository = (*Client)(nil)

func TestDefaults(t *testing.T) {
	if DBName != "wellness" {
		t.Errorf("DBName = %q, want wellness", DBName)
	}
	if DefaultHost != "charm.2389.dev" {
		t.Errorf("DefaultHost = %q", DefaultHost)
	}
}

func TestKeyPrefixes(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		expected string
	}{
		{"User", kvstore.UserPrefix, "user:"},
		{"Daily", kvstore.DailyPrefix, "daily:"},
		{"Analysis", kvstore.AnalysisPrefix, "analysis:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prefix != tt.expected {
				t.Errorf("Expected %s = %q, got %q", tt.name, tt.expected, tt.prefix)
			}
		})
	}
}

func TestConfigureEnv(t *testing.T) {
	t.Setenv("CHARM_HOST", "")
	t.Setenv("CHARM_DATA_DIR", "/untouched")

	host, err := ConfigureEnv(Options{})
	if err != nil {
		t.Fatalf("ConfigureEnv failed: %v", err)
	}
	if host != DefaultHost || os.Getenv("CHARM_HOST") != DefaultHost {
		t.Errorf("host = %q, CHARM_HOST = %q", host, os.Getenv("CHARM_HOST"))
	}
	if got := os.Getenv("CHARM_DATA_DIR"); got != "/untouched" {
		t.Errorf("empty DataDir should leave CHARM_DATA_DIR alone, got %q", got)
	}

	dir := t.TempDir()
	if _, err := ConfigureEnv(Options{Host: "charm.example.com", DataDir: dir}); err != nil {
		t.Fatal(err)
	}
	if os.Getenv("CHARM_HOST") != "charm.example.com" || os.Getenv("CHARM_DATA_DIR") != dir {
		t.Errorf("env not applied: %q %q", os.Getenv("CHARM_HOST"), os.Getenv("CHARM_DATA_DIR"))
	}
}

// memKV is a map-backed lockableKV.
type memKV struct {
	readOnly bool
	data     map[string][]byte
}

func (m *memKV) IsReadOnly() bool { return m.readOnly }

func (m *memKV) Set(key, value []byte) error {
	m.data[string(key)] = value
	return nil
}

func (m *memKV) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return v, nil
}

func (m *memKV) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}

func (m *memKV) Keys() ([][]byte, error) {
	var keys [][]byte
	for k := range m.data {
		keys = append(keys, []byte(k))
	}
	return keys, nil
}

func TestWriteGuardRefusesWritesWhenReadOnly(t *testing.T) {
	db := &memKV{data: map[string][]byte{}}
	store := kvstore.New(writeGuard{db})

	u := models.NewUser(30, "m", 180, 75)
	if err := store.CreateUser(u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	db.readOnly = true
	if err := store.CreateUser(models.NewUser(40, "f", 165, 60)); !errors.Is(err, ErrReadOnly) {
		t.Errorf("write while locked: got %v, want ErrReadOnly", err)
	}
	if err := store.DeleteUser(u.ID.String()); !errors.Is(err, ErrReadOnly) {
		t.Errorf("delete while locked: got %v, want ErrReadOnly", err)
	}

	got, err := store.GetUser(u.ID.String())
	if err != nil {
		t.Fatalf("reads should still work: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("read back %s, want %s", got.ID, u.ID)
	}
}
