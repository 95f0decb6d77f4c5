// ABOUTME: Wellness configuration management with backend selection.
// ABOUTME: Handles the config file, environment overrides, and the storage backend factory.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/wellness/internal/charm"
	"github.com/harperreed/wellness/internal/kvstore"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
	BackendBadger = "badger"
)

// Defaults for unset fields.
const (
	DefaultHTTPAddr  = ":8080"
	DefaultLogLevel  = "info"
	DefaultModelFile = "model.json"
)

// Environment variables that override the config file.
const (
	EnvBackend   = "WELLNESS_BACKEND"
	EnvDataDir   = "WELLNESS_DATA_DIR"
	EnvModelPath = "WELLNESS_MODEL_PATH"
	EnvHTTPAddr  = "WELLNESS_HTTP_ADDR"
	EnvCharmHost = "WELLNESS_CHARM_HOST"
	EnvLogLevel  = "WELLNESS_LOG_LEVEL"
)

// Config stores wellness tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "charm" or "badger".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts wellness.db here, Badger uses wellness.badger/.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/wellness.
	DataDir string `json:"data_dir,omitempty"`

	// ModelPath points at a trained score model (.json, .yaml or .yml).
	// A missing file means scores come from the formula.
	ModelPath string `json:"model_path,omitempty"`

	// HTTPAddr is the listen address for `wellness serve`.
	HTTPAddr string `json:"http_addr,omitempty"`

	// CharmHost is the charm server used by the charm backend.
	CharmHost string `json:"charm_host,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetModelPath returns the model artifact path, defaulting to model.json
// inside the data directory.
func (c *Config) GetModelPath() string {
	if c.ModelPath == "" {
		return filepath.Join(c.GetDataDir(), DefaultModelFile)
	}
	return ExpandPath(c.ModelPath)
}

// GetHTTPAddr returns the HTTP listen address.
func (c *Config) GetHTTPAddr() string {
	if c.HTTPAddr == "" {
		return DefaultHTTPAddr
	}
	return c.HTTPAddr
}

// GetCharmHost returns the charm server host.
func (c *Config) GetCharmHost() string {
	if c.CharmHost == "" {
		return charm.DefaultHost
	}
	return c.CharmHost
}

// GetLogLevel returns the configured log level.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return c.OpenBackend(c.GetBackend())
}

// OpenBackend opens the named backend using this config's paths.
func (c *Config) OpenBackend(backend string) (storage.Repository, error) {
	dataDir := c.GetDataDir()

	switch backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, storage.DBFile))
	case BackendBadger:
		return kvstore.OpenBadger(filepath.Join(dataDir, kvstore.BadgerDir))
	case BackendCharm:
		return charm.InitClient(c.CharmOptions())
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// CharmOptions returns the charm client options for this config. The charm
// data lives under DataDir only when DataDir is set explicitly.
func (c *Config) CharmOptions() charm.Options {
	opts := charm.Options{Host: c.GetCharmHost(), AutoSync: true}
	if c.DataDir != "" {
		opts.DataDir = filepath.Join(c.GetDataDir(), "charm")
	}
	return opts
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "wellness", "config.json")
}

// Load reads config from disk, then applies a .env file in the working
// directory (if any) and WELLNESS_* environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile reads a config file, returning an empty config when it does not exist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDotEnv loads variables from path into the environment. A missing
// file is not an error, and variables already set are left alone.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from WELLNESS_* environment variables.
func (c *Config) ApplyEnv() {
	overrides := []struct {
		env   string
		field *string
	}{
		{EnvBackend, &c.Backend},
		{EnvDataDir, &c.DataDir},
		{EnvModelPath, &c.ModelPath},
		{EnvHTTPAddr, &c.HTTPAddr},
		{EnvCharmHost, &c.CharmHost},
		{EnvLogLevel, &c.LogLevel},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && v != "" {
			*o.field = v
		}
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
