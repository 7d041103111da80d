// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mvickers/cinematch/internal/models"
	"github.com/mvickers/cinematch/internal/store"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type moviesPage struct {
	Movies   []store.Item `json:"movies"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// Movies lists the catalog with optional case-insensitive title search
// and pagination: GET /api/v1/movies?q=&page=&page_size=.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	pageSize, err := queryInt(r, "page_size", defaultPageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if page < 1 || pageSize < 1 || pageSize > maxPageSize {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "page must be >= 1 and page_size in [1, 100]", nil)
		return
	}

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	matched := h.store.Items()
	if query != "" {
		matched = make([]store.Item, 0, 64)
		for _, item := range h.store.Items() {
			if strings.Contains(strings.ToLower(item.Title), query) {
				matched = append(matched, item)
			}
		}
	}

	total := len(matched)
	offset := (page - 1) * pageSize
	if offset > total {
		offset = total
	}
	end := offset + pageSize
	if end > total {
		end = total
	}

	respondSuccess(w, moviesPage{
		Movies:   matched[offset:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, models.Metadata{})
}

// Movie returns one catalog entry: GET /api/v1/movies/{id}.
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "movie id must be a positive integer", nil)
		return
	}

	item, err := h.store.GetItem(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "movie not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL", "movie lookup failed", err)
		return
	}

	respondSuccess(w, item, models.Metadata{})
}
