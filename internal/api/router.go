// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvickers/cinematch/internal/config"
)

// Router wires the HTTP surface together.
type Router struct {
	cfg     *config.Config
	handler *Handler
	ui      http.Handler
}

// NewRouter creates a router over the handler. ui serves the embedded
// web frontend at the root path; pass nil to disable it.
func NewRouter(cfg *config.Config, handler *Handler, ui http.Handler) *Router {
	return &Router{cfg: cfg, handler: handler, ui: ui}
}

// Setup builds the chi route tree with the global middleware stack.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		if !router.cfg.Security.RateLimitDisabled {
			r.Use(httprate.LimitByIP(
				router.cfg.Security.RateLimitReqs,
				router.cfg.Security.RateLimitWindow,
			))
		}
		r.Use(RequestMetrics())

		r.Route("/health", func(r chi.Router) {
			r.Get("/", router.handler.Health)
			r.Get("/live", router.handler.HealthLive)
			r.Get("/ready", router.handler.HealthReady)
		})

		r.Get("/movies", router.handler.Movies)
		r.Get("/movies/{id}", router.handler.Movie)

		r.Route("/recommend", func(r chi.Router) {
			r.Get("/content", router.handler.RecommendContent)
			r.Get("/collaborative", router.handler.RecommendCollaborative)
			r.Post("/hybrid", router.handler.RecommendHybrid)
		})

		r.Route("/metadata", func(r chi.Router) {
			r.Get("/poster", router.handler.Poster)
			r.Get("/details", router.handler.MovieDetails)
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if router.ui != nil {
		r.Handle("/*", router.ui)
	}

	return r
}
