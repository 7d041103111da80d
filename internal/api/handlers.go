// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

// Package api provides the HTTP surface over the recommendation core
// using the chi router.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_health.go: liveness/readiness endpoints
//   - handlers_movies.go: movie catalog search and lookup
//   - handlers_recommend.go: the three recommendation modes
//   - handlers_metadata.go: TMDB poster/trailer enrichment
//   - helpers.go: shared response and parsing helpers
package api

import (
	"time"

	"github.com/mvickers/cinematch/internal/config"
	"github.com/mvickers/cinematch/internal/metadata"
	"github.com/mvickers/cinematch/internal/recommend"
	"github.com/mvickers/cinematch/internal/store"
)

// Handler contains the dependencies shared by all endpoint methods.
type Handler struct {
	cfg       *config.Config
	store     *store.Store
	engine    *recommend.Engine
	tmdb      *metadata.Client
	startTime time.Time
}

// NewHandler creates an API handler over the loaded core.
func NewHandler(cfg *config.Config, st *store.Store, engine *recommend.Engine, tmdb *metadata.Client) *Handler {
	return &Handler{
		cfg:       cfg,
		store:     st,
		engine:    engine,
		tmdb:      tmdb,
		startTime: time.Now(),
	}
}
