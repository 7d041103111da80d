// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/mvickers/cinematch/internal/models"
)

// healthStatus is the payload for the health endpoints.
type healthStatus struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Items         int     `json:"items"`
	Interactions  int     `json:"interactions"`
	Users         int     `json:"users"`
	TMDBEnabled   bool    `json:"tmdb_enabled"`
}

// Health reports overall server state and dataset counts.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, healthStatus{
		Status:        "ok",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
		Items:         h.store.ItemCount(),
		Interactions:  h.store.InteractionCount(),
		Users:         h.store.UserCount(),
		TMDBEnabled:   h.tmdb.Enabled(),
	}, models.Metadata{})
}

// HealthLive is the liveness probe: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondSuccess(w, map[string]string{"status": "alive"}, models.Metadata{})
}

// HealthReady is the readiness probe. The store and models load before
// the listener starts, so readiness only requires a non-empty catalog.
func (h *Handler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	if h.store.ItemCount() == 0 {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "item store is empty", nil)
		return
	}
	respondSuccess(w, map[string]string{"status": "ready"}, models.Metadata{})
}
