// ABOUTME: Root Cobra command for the wellness CLI.
// ABOUTME: Loads config and opens storage, the logger, and the analyzer for every command.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/wellness/internal/config"
	"github.com/harperreed/wellness/internal/engine"
	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/regressor"
	"github.com/harperreed/wellness/internal/storage"
	"github.com/spf13/cobra"
)

// annotationNoStorage marks commands that manage storage themselves.
const annotationNoStorage = "wellness/no-storage"

var (
	cfg      *config.Config
	repo     storage.Repository
	analyzer *engine.Analyzer
	logger   *log.Logger

	flagVerbose bool
	flagBackend string
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "wellness",
	Short: "Daily wellness scoring and recommendations",
	Long: `Wellness records daily lifestyle metrics and turns them into a 0-100
wellness score with explanations and recommendations.

WHAT IT TRACKS:

  Sleep       sleep hours
  Activity    steps, exercise minutes, calories
  Mind        mood (0-5), stress (0-5)
  Heart       resting heart rate

QUICK START:

  $ wellness user add --age 34 --gender f --height 168 --weight 61
  $ wellness add abc123 --sleep 7.5 --steps 9000 --exercise 30 --mood 4 --stress 2
  $ wellness analyze abc123          # Score, explanations, recommendations
  $ wellness history abc123          # Past analyses

SURFACES:

  wellness serve    REST API with Prometheus metrics
  wellness mcp      Model Context Protocol server over stdio

STORAGE:

  Data lives in SQLite at ~/.local/share/wellness/wellness.db by default.
  Set "backend" in ~/.config/wellness/config.json (or WELLNESS_BACKEND)
  to "charm" for encrypted cloud sync or "badger" for a local KV store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		// A failed RunE skips PostRunE, so drop anything left open.
		_ = closeRuntime()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagBackend != "" {
			cfg.Backend = flagBackend
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}

		logger = newLogger(cfg.GetLogLevel(), flagVerbose)

		if cmd.Annotations[annotationNoStorage] == "true" {
			return nil
		}
		return openRuntime()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeRuntime()
	},
}

// openRuntime opens the configured backend and builds the analyzer over it.
func openRuntime() error {
	var err error
	repo, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
	}

	opts := []engine.Option{engine.WithLogger(logger)}
	model, err := regressor.LoadOptional(cfg.GetModelPath())
	if err != nil {
		_ = repo.Close()
		repo = nil
		return fmt.Errorf("failed to load model: %w", err)
	}
	if model != nil {
		logger.Debug("loaded score model", "path", cfg.GetModelPath())
		opts = append(opts, engine.WithRegressor(model))
	}

	analyzer = engine.NewAnalyzer(repo, repo, opts...)
	logger.Debug("storage opened", "backend", cfg.GetBackend(), "data_dir", cfg.GetDataDir())
	return nil
}

func closeRuntime() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	analyzer = nil
	return err
}

// newLogger builds the process logger. Logs go to stderr so command output stays clean.
func newLogger(level string, verbose bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "wellness",
		ReportTimestamp: true,
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	l.SetLevel(lvl)
	return l
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite, charm, or badger")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/wellness)")
}

// lookupUser resolves a user ID or ID prefix. Only a missing user reads as
// "user not found"; ambiguous prefixes and storage failures keep their cause.
func lookupUser(ref string) (*models.User, error) {
	u, err := repo.GetUser(ref)
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("user not found: %s: %w", ref, err)
	default:
		return nil, fmt.Errorf("look up user %s: %w", ref, err)
	}
}
