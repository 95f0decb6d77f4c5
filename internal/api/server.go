// ABOUTME: HTTP server for the wellness REST API.
// ABOUTME: Owns the router, rate limiter, and graceful shutdown.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/wellness/internal/engine"
	"github.com/harperreed/wellness/internal/storage"
	"golang.org/x/time/rate"
)

// Config holds HTTP server settings.
type Config struct {
	Addr string

	// RateLimit is requests per second across all clients; zero disables limiting.
	RateLimit rate.Limit
	Burst     int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults for a local server.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		RateLimit:       50,
		Burst:           100,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server serves the wellness API over HTTP.
type Server struct {
	cfg        Config
	repo       storage.Repository
	analyzer   *engine.Analyzer
	logger     *log.Logger
	limiter    *rate.Limiter
	httpServer *http.Server
}

// NewServer creates an API server. A nil analyzer gets a default one over repo.
func NewServer(repo storage.Repository, analyzer *engine.Analyzer, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if analyzer == nil {
		analyzer = engine.NewAnalyzer(repo, repo, engine.WithLogger(logger))
	}

	s := &Server{
		cfg:      cfg,
		repo:     repo,
		analyzer: analyzer,
		logger:   logger,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown() error {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
