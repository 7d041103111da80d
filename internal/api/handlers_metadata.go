// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package api

import (
	"net/http"
	"strings"

	"github.com/mvickers/cinematch/internal/logging"
	"github.com/mvickers/cinematch/internal/metadata"
	"github.com/mvickers/cinematch/internal/models"
)

// posterPayload is the data field for the poster endpoint. Enrichment
// is best-effort: a missing poster is Found=false, never an error.
type posterPayload struct {
	Title     string `json:"title"`
	PosterURL string `json:"poster_url,omitempty"`
	Found     bool   `json:"found"`
}

// detailsPayload wraps the TMDB details for one title.
type detailsPayload struct {
	Title   string            `json:"title"`
	Details *metadata.Details `json:"details,omitempty"`
	Found   bool              `json:"found"`
}

// Poster serves GET /api/v1/metadata/poster?title=.
func (h *Handler) Poster(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "title is required", nil)
		return
	}

	url, err := h.tmdb.PosterURL(r.Context(), title)
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Debug().Err(err).Str("title", title).Msg("poster lookup failed")
		respondSuccess(w, posterPayload{Title: title, Found: false}, models.Metadata{})
		return
	}

	respondSuccess(w, posterPayload{Title: title, PosterURL: url, Found: true}, models.Metadata{})
}

// MovieDetails serves GET /api/v1/metadata/details?title=.
func (h *Handler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "title is required", nil)
		return
	}

	details, err := h.tmdb.Details(r.Context(), title)
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Debug().Err(err).Str("title", title).Msg("details lookup failed")
		respondSuccess(w, detailsPayload{Title: title, Found: false}, models.Metadata{})
		return
	}

	respondSuccess(w, detailsPayload{Title: title, Details: details, Found: true}, models.Metadata{})
}
