// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package recommend

// Source identifies which ranking actually produced a result, which is
// not always the mode the caller requested: every mode can degrade to
// popularity.
type Source string

const (
	SourceContent       Source = "content"
	SourceCollaborative Source = "collaborative"
	SourceHybrid        Source = "hybrid"
	SourcePopularity    Source = "popularity"
)

// Recommendation is one ranked entry. PredictedScore is always
// populated and is the single sortable field across all modes;
// SimilarityScore is only meaningful for content and hybrid results.
type Recommendation struct {
	ItemID          int      `json:"movie_id"`
	Title           string   `json:"title"`
	Genres          []string `json:"genres"`
	PredictedScore  float64  `json:"predicted_score"`
	SimilarityScore float64  `json:"similarity_score,omitempty"`
}

// Result is a ranked recommendation list tagged with the source that
// produced it.
type Result struct {
	Source Source           `json:"source"`
	Items  []Recommendation `json:"items"`
}

// Config bounds the engine. Zero values are replaced with defaults by
// NewEngine. Request-level defaults (k, alpha) belong to the caller;
// the engine rejects what it is given rather than coercing it.
type Config struct {
	// MaxCandidates caps the collaborative candidate set. A deliberate
	// latency/quality trade-off: candidates are taken as a prefix of
	// the canonical item order, so the cap biases deterministically.
	MaxCandidates int
}

func (c Config) withDefaults() Config {
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = 1000
	}
	return c
}
