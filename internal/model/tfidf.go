// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package model

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// TFIDF is a pre-fitted TF-IDF vectorizer artifact.
//
// The vocabulary and inverse document frequencies come from the offline
// training pipeline; Transform only evaluates the fitted model. Vectors
// are L2-normalized, so a dot product of two transformed texts is their
// cosine similarity in [0, 1].
type TFIDF struct {
	// Vocabulary maps a term to its vector index.
	Vocabulary map[string]int `json:"vocabulary"`

	// IDF holds the inverse document frequency per vector index.
	IDF []float64 `json:"idf"`
}

// Validate checks artifact consistency after load.
func (t *TFIDF) Validate() error {
	if len(t.Vocabulary) == 0 {
		return fmt.Errorf("tfidf artifact has empty vocabulary")
	}
	if len(t.IDF) != len(t.Vocabulary) {
		return fmt.Errorf("tfidf artifact inconsistent: %d idf weights for %d terms", len(t.IDF), len(t.Vocabulary))
	}
	for term, idx := range t.Vocabulary {
		if idx < 0 || idx >= len(t.IDF) {
			return fmt.Errorf("tfidf artifact term %q has out-of-range index %d", term, idx)
		}
	}
	return nil
}

// Dimension returns the vector length.
func (t *TFIDF) Dimension() int {
	return len(t.IDF)
}

// Transform maps text into the fitted TF-IDF space. Out-of-vocabulary
// terms are ignored; a text with no known terms yields the zero vector.
func (t *TFIDF) Transform(text string) []float64 {
	vec := make([]float64, len(t.IDF))

	counts := make(map[int]float64)
	for _, term := range tokenize(text) {
		if idx, ok := t.Vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return vec
	}

	var norm float64
	for idx, tf := range counts {
		w := tf * t.IDF[idx]
		vec[idx] = w
		norm += w * w
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range counts {
			vec[idx] /= norm
		}
	}

	return vec
}

// tokenize lowercases and splits text on any non-letter, non-digit rune,
// matching the training pipeline's token pattern.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
