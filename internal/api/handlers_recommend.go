// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/mvickers/cinematch/internal/models"
	"github.com/mvickers/cinematch/internal/recommend"
	"github.com/mvickers/cinematch/internal/validation"
)

// recommendPayload is the data field for all three recommendation
// endpoints. Source names the ranking that actually produced the list,
// which is "popularity" whenever a fallback fired.
type recommendPayload struct {
	Mode   string                     `json:"mode"`
	Source recommend.Source           `json:"source"`
	Items  []recommend.Recommendation `json:"items"`
}

type contentQuery struct {
	MovieID int `validate:"required,min=1"`
	K       int `validate:"required,min=1"`
}

// RecommendContent serves GET /api/v1/recommend/content?movie_id=&k=.
func (h *Handler) RecommendContent(w http.ResponseWriter, r *http.Request) {
	movieID, err := queryInt(r, "movie_id", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	k, err := queryInt(r, "k", h.cfg.Recommend.DefaultK)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	q := contentQuery{MovieID: movieID, K: k}
	if ve := validation.ValidateStruct(&q); ve != nil {
		respondValidationError(w, ve)
		return
	}
	if k > h.cfg.Recommend.MaxK {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("k must be at most %d", h.cfg.Recommend.MaxK), nil)
		return
	}

	start := time.Now()
	res, err := h.engine.ContentBased(movieID, k)
	if err != nil {
		respondRecommendError(w, err)
		return
	}
	respondRecommendation(w, "content", res, start)
}

type collaborativeQuery struct {
	UserID int `validate:"required,min=1"`
	K      int `validate:"required,min=1"`
}

// RecommendCollaborative serves GET /api/v1/recommend/collaborative?user_id=&k=.
func (h *Handler) RecommendCollaborative(w http.ResponseWriter, r *http.Request) {
	userID, err := queryInt(r, "user_id", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	k, err := queryInt(r, "k", h.cfg.Recommend.DefaultK)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	q := collaborativeQuery{UserID: userID, K: k}
	if ve := validation.ValidateStruct(&q); ve != nil {
		respondValidationError(w, ve)
		return
	}
	if k > h.cfg.Recommend.MaxK {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("k must be at most %d", h.cfg.Recommend.MaxK), nil)
		return
	}

	start := time.Now()
	res, err := h.engine.Collaborative(userID, k)
	if err != nil {
		respondRecommendError(w, err)
		return
	}
	respondRecommendation(w, "collaborative", res, start)
}

// hybridRequest is the POST body for hybrid recommendations. K and
// Alpha are pointers so an omitted field falls back to the configured
// default instead of colliding with a legitimate zero.
type hybridRequest struct {
	UserID       int      `json:"user_id" validate:"required,min=1"`
	SeedMovieIDs []int    `json:"seed_movie_ids" validate:"omitempty,dive,min=1"`
	K            *int     `json:"k" validate:"omitempty,min=1"`
	Alpha        *float64 `json:"alpha" validate:"omitempty,gte=0,lte=1"`
}

// RecommendHybrid serves POST /api/v1/recommend/hybrid.
func (h *Handler) RecommendHybrid(w http.ResponseWriter, r *http.Request) {
	var req hybridRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "request body must be valid JSON", nil)
		return
	}

	if ve := validation.ValidateStruct(&req); ve != nil {
		respondValidationError(w, ve)
		return
	}

	k := h.cfg.Recommend.DefaultK
	if req.K != nil {
		k = *req.K
	}
	if k > h.cfg.Recommend.MaxK {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("k must be at most %d", h.cfg.Recommend.MaxK), nil)
		return
	}

	alpha := h.cfg.Recommend.DefaultAlpha
	if req.Alpha != nil {
		alpha = *req.Alpha
	}

	start := time.Now()
	res, err := h.engine.Hybrid(req.UserID, req.SeedMovieIDs, k, alpha)
	if err != nil {
		respondRecommendError(w, err)
		return
	}
	respondRecommendation(w, "hybrid", res, start)
}

func respondRecommendation(w http.ResponseWriter, mode string, res recommend.Result, start time.Time) {
	respondSuccess(w, recommendPayload{
		Mode:   mode,
		Source: res.Source,
		Items:  res.Items,
	}, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		Source:      string(res.Source),
	})
}

func respondRecommendError(w http.ResponseWriter, err error) {
	if errors.Is(err, recommend.ErrInvalidInput) {
		respondError(w, http.StatusBadRequest, recommend.ErrorKind(err), err.Error(), nil)
		return
	}
	respondError(w, http.StatusInternalServerError, recommend.ErrorKind(err), "recommendation failed", err)
}
