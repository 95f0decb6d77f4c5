// ABOUTME: CLI command for starting the REST API server.
// ABOUTME: Serves until SIGINT/SIGTERM, then shuts down gracefully.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/harperreed/wellness/internal/api"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	serveAddr      string
	serveRateLimit float64
	serveBurst     int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the wellness REST API.

ENDPOINTS:

  POST   /users                    Create a user
  GET    /users                    List users
  GET    /users/{id}               Get a user
  DELETE /users/{id}               Delete a user and their data
  POST   /data                     Record a day ({"user_id": ..., "date": ..., ...})
  GET    /data/{id}?from&to&limit  List daily records
  DELETE /data/{id}/{date}         Delete a daily record
  GET    /analyze/{id}             Score, explain, recommend (saved to history)
  GET    /recommend/{id}           Recommendations only
  GET    /analyses/{id}?limit      Analysis history
  GET    /health                   Liveness
  GET    /metrics                  Prometheus metrics

The address comes from --addr, then http_addr in config, then WELLNESS_HTTP_ADDR.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apiCfg := api.DefaultConfig()
		apiCfg.Addr = cfg.GetHTTPAddr()
		if serveAddr != "" {
			apiCfg.Addr = serveAddr
		}
		apiCfg.RateLimit = rate.Limit(serveRateLimit)
		apiCfg.Burst = serveBurst

		server := api.NewServer(repo, analyzer, logger, apiCfg)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().Float64Var(&serveRateLimit, "rate-limit", 50, "requests per second, 0 to disable")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 100, "rate limit burst size")
	rootCmd.AddCommand(serveCmd)
}
