// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package recommend

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/mvickers/cinematch/internal/store"
)

// stubVectorizer maps a text blob to a fixed vector, defaulting to the
// zero vector for unknown text.
type stubVectorizer struct {
	dim     int
	vectors map[string][]float64
}

func (s stubVectorizer) Transform(text string) []float64 {
	if v, ok := s.vectors[text]; ok {
		return v
	}
	return make([]float64, s.dim)
}

func (s stubVectorizer) Dimension() int { return s.dim }

// stubEstimator serves fixed (user, item) scores with a baseline for
// unlisted pairs, and can fail specific pairs.
type stubEstimator struct {
	scores   map[[2]int]float64
	baseline float64
	fail     map[[2]int]error
}

func (s stubEstimator) Predict(userID, itemID int) (float64, error) {
	key := [2]int{userID, itemID}
	if err, ok := s.fail[key]; ok {
		return 0, err
	}
	if v, ok := s.scores[key]; ok {
		return v, nil
	}
	return s.baseline, nil
}

func testItems(n int) []store.Item {
	items := make([]store.Item, n)
	for i := range items {
		id := i + 1
		items[i] = store.Item{
			ID:       id,
			Title:    fmt.Sprintf("Movie %d", id),
			Genres:   []string{"Drama"},
			TextBlob: fmt.Sprintf("blob%d", id),
		}
	}
	return items
}

// colinearVectorizer gives item i the vector (w_i, 0) so the
// similarity of items i and j is simply w_i * w_j.
func colinearVectorizer(weights ...float64) stubVectorizer {
	vectors := make(map[string][]float64, len(weights))
	for i, w := range weights {
		vectors[fmt.Sprintf("blob%d", i+1)] = []float64{w, 0}
	}
	return stubVectorizer{dim: 2, vectors: vectors}
}

func TestSimilarityRowCanonicalOrder(t *testing.T) {
	st := store.New(testItems(3), nil)
	sim := NewSimilarity(st, stubVectorizer{dim: 2, vectors: map[string][]float64{
		"blob1": {1, 0},
		"blob2": {0.2, 0},
		"blob3": {0.8, 0},
	}})

	row, err := sim.Row(1)
	if err != nil {
		t.Fatalf("Row(1) error = %v", err)
	}
	want := []float64{1.0, 0.2, 0.8}
	if len(row) != len(want) {
		t.Fatalf("row length = %d, want %d", len(row), len(want))
	}
	for i := range want {
		if math.Abs(row[i]-want[i]) > 1e-12 {
			t.Errorf("row[%d] = %f, want %f", i, row[i], want[i])
		}
	}
}

func TestSimilarityRowIncludesSelf(t *testing.T) {
	st := store.New(testItems(2), nil)
	sim := NewSimilarity(st, stubVectorizer{dim: 2, vectors: map[string][]float64{
		"blob1": {0, 1},
		"blob2": {1, 0},
	}})

	row, err := sim.Row(2)
	if err != nil {
		t.Fatalf("Row(2) error = %v", err)
	}
	if row[1] != 1.0 {
		t.Errorf("self-similarity = %f, want 1.0", row[1])
	}
}

func TestSimilarityRowUnknownItem(t *testing.T) {
	st := store.New(testItems(2), nil)
	sim := NewSimilarity(st, stubVectorizer{dim: 2})

	if _, err := sim.Row(99); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("Row(99) error = %v, want ErrUnknownItem", err)
	}
}

func TestSimilarityRowCached(t *testing.T) {
	st := store.New(testItems(3), nil)
	sim := NewSimilarity(st, colinearVectorizer(1, 0.5, 0.25))

	first, err := sim.Row(2)
	if err != nil {
		t.Fatalf("Row(2) error = %v", err)
	}
	second, err := sim.Row(2)
	if err != nil {
		t.Fatalf("Row(2) second call error = %v", err)
	}
	if &first[0] != &second[0] {
		t.Error("second Row call did not return the cached row")
	}
}

func TestSimilarityZeroVectorBlob(t *testing.T) {
	st := store.New(testItems(2), nil)
	// Item 2's blob is unknown to the vectorizer, so its vector is zero
	// and every similarity involving it is 0.
	sim := NewSimilarity(st, stubVectorizer{dim: 2, vectors: map[string][]float64{
		"blob1": {1, 0},
	}})

	row, err := sim.Row(1)
	if err != nil {
		t.Fatalf("Row(1) error = %v", err)
	}
	if row[1] != 0 {
		t.Errorf("similarity to zero-vector item = %f, want 0", row[1])
	}
}
