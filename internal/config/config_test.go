// ABOUTME: Tests for wellness configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, and the backend factory.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/wellness/internal/charm"
	"github.com/harperreed/wellness/internal/kvstore"
	"github.com/harperreed/wellness/internal/storage"
)

// useConfigDir points GetConfigPath at a fresh temp dir.
func useConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestGetters(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name string
		cfg  Config
		get  func(*Config) string
		want string
	}{
		{"backend default", Config{}, (*Config).GetBackend, BackendSQLite},
		{"backend explicit", Config{Backend: BackendCharm}, (*Config).GetBackend, BackendCharm},
		{"data dir explicit", Config{DataDir: "/tmp/wellness-test"}, (*Config).GetDataDir, "/tmp/wellness-test"},
		{"data dir tilde", Config{DataDir: "~/wellness-data"}, (*Config).GetDataDir, filepath.Join(home, "wellness-data")},
		{"model path default", Config{DataDir: "/tmp/wd"}, (*Config).GetModelPath, "/tmp/wd/model.json"},
		{"model path tilde", Config{ModelPath: "~/models/rf.yaml"}, (*Config).GetModelPath, filepath.Join(home, "models/rf.yaml")},
		{"http addr default", Config{}, (*Config).GetHTTPAddr, DefaultHTTPAddr},
		{"http addr explicit", Config{HTTPAddr: "127.0.0.1:9000"}, (*Config).GetHTTPAddr, "127.0.0.1:9000"},
		{"charm host default", Config{}, (*Config).GetCharmHost, charm.DefaultHost},
		{"log level default", Config{}, (*Config).GetLogLevel, DefaultLogLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.get(&tt.cfg); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetDataDirDefaultFollowsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	cfg := &Config{}
	if got, want := cfg.GetDataDir(), filepath.Join(dir, "wellness"); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/wellness", filepath.Join(home, "data/wellness")},
		{"data/wellness", "data/wellness"},
		{"~other/x", "~other/x"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCharmOptions(t *testing.T) {
	opts := (&Config{}).CharmOptions()
	if opts.DataDir != "" {
		t.Errorf("charm data dir should be left to charm when DataDir is unset, got %q", opts.DataDir)
	}
	if !opts.AutoSync || opts.Host != charm.DefaultHost {
		t.Errorf("unexpected defaults: %+v", opts)
	}

	opts = (&Config{DataDir: "/srv/wellness", CharmHost: "charm.example.com"}).CharmOptions()
	if opts.DataDir != "/srv/wellness/charm" {
		t.Errorf("DataDir = %q", opts.DataDir)
	}
	if opts.Host != "charm.example.com" {
		t.Errorf("Host = %q", opts.Host)
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	useConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.GetBackend() != BackendSQLite {
		t.Errorf("expected sqlite default, got %q", cfg.GetBackend())
	}
}

func TestSaveAndLoad(t *testing.T) {
	useConfigDir(t)

	cfg := &Config{
		Backend:   BackendBadger,
		DataDir:   "/tmp/wellness-data",
		ModelPath: "/tmp/model.yaml",
		LogLevel:  "debug",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := LoadFile(GetConfigPath())
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", *loaded, *cfg)
	}

	info, err := os.Stat(GetConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "nonexistent"))

	if err := (&Config{Backend: BackendSQLite}).Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nonexistent", "wellness")); err != nil {
		t.Errorf("expected config directory to be created: %v", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := useConfigDir(t)
	if err := os.MkdirAll(filepath.Join(dir, "wellness"), 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(GetConfigPath(), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	dir := useConfigDir(t)
	if got, want := GetConfigPath(), filepath.Join(dir, "wellness", "config.json"); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadAppliesEnvOverFile(t *testing.T) {
	useConfigDir(t)
	if err := (&Config{Backend: BackendSQLite, HTTPAddr: ":8080"}).Save(); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvBackend, BackendBadger)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Backend != BackendBadger {
		t.Errorf("env should win over file, got %q", cfg.Backend)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("file value lost: %q", cfg.HTTPAddr)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvBackend, BackendBadger)
	t.Setenv(EnvHTTPAddr, "127.0.0.1:9999")
	t.Setenv(EnvLogLevel, "")

	cfg := &Config{Backend: BackendSQLite, LogLevel: "warn"}
	cfg.ApplyEnv()

	if cfg.Backend != BackendBadger {
		t.Errorf("Backend = %q, want badger", cfg.Backend)
	}
	if cfg.HTTPAddr != "127.0.0.1:9999" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("empty env value should not override, got %q", cfg.LogLevel)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("WELLNESS_MODEL_PATH=/srv/model.yaml\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvModelPath, "")
	os.Unsetenv(EnvModelPath)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}

	cfg := &Config{}
	cfg.ApplyEnv()
	if cfg.ModelPath != "/srv/model.yaml" {
		t.Errorf("ModelPath = %q, want /srv/model.yaml", cfg.ModelPath)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should not error: %v", err)
	}
}

func TestOpenBackend(t *testing.T) {
	tests := []struct {
		backend string
		created string
	}{
		{BackendSQLite, storage.DBFile},
		{BackendBadger, kvstore.BadgerDir},
		{"", storage.DBFile},
	}
	for _, tt := range tests {
		t.Run("backend="+tt.backend, func(t *testing.T) {
			dir := t.TempDir()
			cfg := &Config{Backend: tt.backend, DataDir: dir}

			repo, err := cfg.OpenStorage()
			if err != nil {
				t.Fatalf("OpenStorage() failed: %v", err)
			}
			defer repo.Close()

			if _, err := os.Stat(filepath.Join(dir, tt.created)); err != nil {
				t.Errorf("expected %s to be created: %v", tt.created, err)
			}
		})
	}
}

func TestOpenBackendUnknown(t *testing.T) {
	cfg := &Config{DataDir: t.TempDir()}
	if _, err := cfg.OpenBackend("postgres"); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("expected empty JSON object, got %s", data)
	}
}
