// Package api provides the read-only HTTP API over storage and cache.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"nbaroster/backend/internal/api/handler"
	"nbaroster/backend/internal/cache"
	"nbaroster/backend/internal/config"
	"nbaroster/backend/internal/repository"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(db *repository.Database, appCache *cache.Client, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	h := handler.New(db, appCache, cfg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	r.Route("/teams", func(r chi.Router) {
		r.Get("/", h.ListTeams)
		r.Get("/{teamID}", h.GetTeam)
		r.Get("/{teamID}/roster", h.GetTeamRoster)
	})

	r.Get("/players", h.ListPlayers)

	return r
}
