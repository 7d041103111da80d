// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

// Package model wraps the pre-trained artifacts the recommender consumes:
// a TF-IDF text vectorizer and a matrix-factorization rating estimator.
//
// Both artifacts are opaque capabilities exported by an offline training
// pipeline and loaded once at startup. The package never trains anything;
// it only evaluates. Deterministic stubs satisfying the same interfaces
// are used throughout the test suites.
package model

import "errors"

var (
	// ErrUnavailable indicates an artifact could not be loaded.
	// Fatal at process start: the server must not run without both models.
	ErrUnavailable = errors.New("model artifact unavailable")

	// ErrInvalidID indicates a malformed (non-positive) user or item ID.
	ErrInvalidID = errors.New("invalid id")
)

// Vectorizer transforms text into a fixed-dimension vector.
type Vectorizer interface {
	// Transform maps text into the artifact's vector space.
	Transform(text string) []float64

	// Dimension returns the vector length.
	Dimension() int
}

// Estimator predicts the rating a user would give an item.
//
// Implementations never fail on unknown users or items (cold start
// returns a model-internal baseline); only malformed input errors.
type Estimator interface {
	Predict(userID, itemID int) (float64, error)
}
