// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

// Command server runs the CineMatch recommendation service.
//
// Startup order matters: configuration, logging, dataset, model
// artifacts, engines, HTTP. The model artifacts are mandatory; the
// process refuses to start without them rather than serving a core
// that can only ever fall back.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/mvickers/cinematch/internal/api"
	"github.com/mvickers/cinematch/internal/config"
	"github.com/mvickers/cinematch/internal/dataset"
	"github.com/mvickers/cinematch/internal/logging"
	"github.com/mvickers/cinematch/internal/metadata"
	"github.com/mvickers/cinematch/internal/metrics"
	"github.com/mvickers/cinematch/internal/model"
	"github.com/mvickers/cinematch/internal/recommend"
	"github.com/mvickers/cinematch/internal/store"
	"github.com/mvickers/cinematch/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("data_dir", cfg.Data.Dir).
		Str("models_dir", cfg.Models.Dir).
		Bool("tmdb_enabled", cfg.TMDB.APIKey != "").
		Msg("starting cinematch")

	loader := dataset.NewLoader(cfg.Data.Dir, cfg.Data.MoviesFile, cfg.Data.RatingsFile)
	items, err := loader.LoadItems()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load movies")
	}
	interactions, err := loader.LoadInteractions()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load ratings")
	}

	st := store.New(items, interactions)
	metrics.DatasetItems.Set(float64(st.ItemCount()))
	metrics.DatasetInteractions.Set(float64(st.InteractionCount()))
	logging.Info().
		Int("items", st.ItemCount()).
		Int("interactions", st.InteractionCount()).
		Int("users", st.UserCount()).
		Msg("dataset loaded")

	// Both artifacts are required. A server without its models would
	// only ever answer with the popularity fallback.
	vectorizer, estimator, err := model.Load(cfg.Models.Dir, cfg.Models.VectorizerFile, cfg.Models.EstimatorFile)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load model artifacts")
	}

	engine := recommend.NewEngine(
		st,
		recommend.NewSimilarity(st, vectorizer),
		recommend.NewPredictor(estimator),
		recommend.NewPopularity(st, cfg.Recommend.MinRatings),
		recommend.Config{MaxCandidates: cfg.Recommend.MaxCandidates},
	)

	tmdb := metadata.NewClient(cfg.TMDB)
	if !tmdb.Enabled() {
		logging.Info().Msg("TMDB enrichment disabled (no API key configured)")
	}

	handler := api.NewHandler(cfg, st, engine, tmdb)
	router := api.NewRouter(cfg, handler, web.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("http server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutdown signal received, draining connections")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("graceful shutdown failed")
		}
	}

	logging.Info().Msg("cinematch stopped")
}
