// ABOUTME: Route table for the wellness REST API.
// ABOUTME: Wires chi middleware, metrics, and the resource handlers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(metricsMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimitMiddleware)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", s.handleCreateUser)
			r.Get("/", s.handleListUsers)
			r.Get("/{userID}", s.handleGetUser)
			r.Delete("/{userID}", s.handleDeleteUser)
		})

		r.Post("/data", s.handleRecordDay)
		r.Get("/data/{userID}", s.handleListDays)
		r.Delete("/data/{userID}/{date}", s.handleDeleteDay)

		r.Get("/analyze/{userID}", s.handleAnalyze)
		r.Get("/recommend/{userID}", s.handleRecommend)
		r.Get("/analyses/{userID}", s.handleListAnalyses)
	})

	return r
}
