// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package recommend

import (
	"fmt"
	"sync"

	"github.com/mvickers/cinematch/internal/logging"
	"github.com/mvickers/cinematch/internal/metrics"
	"github.com/mvickers/cinematch/internal/model"
	"github.com/mvickers/cinematch/internal/store"
)

// Similarity serves per-item similarity rows over the whole catalog.
//
// Every item's text blob is vectorized once at construction; a row is
// the linear kernel of one item's vector against all vectors in the
// store's canonical order, self-similarity included. Vectors are
// L2-normalized by the vectorizer, so the kernel is cosine similarity.
//
// Rows are memoized in a write-once map. Recomputation is idempotent,
// so a lost race costs one redundant computation, never a wrong row.
type Similarity struct {
	store   *store.Store
	vectors [][]float64

	mu   sync.RWMutex
	rows map[int][]float64
}

// NewSimilarity vectorizes every item blob and returns a row server.
func NewSimilarity(st *store.Store, vec model.Vectorizer) *Similarity {
	items := st.Items()
	vectors := make([][]float64, len(items))
	for i, item := range items {
		vectors[i] = vec.Transform(item.TextBlob)
	}

	logging.Info().
		Int("items", len(items)).
		Int("dimension", vec.Dimension()).
		Msg("similarity vectors built")

	return &Similarity{
		store:   st,
		vectors: vectors,
		rows:    make(map[int][]float64),
	}
}

// Row returns the similarity of itemID against every item, ordered by
// the store's canonical item order. Unknown items fail with
// ErrUnknownItem, the trigger for caller-level fallback.
func (s *Similarity) Row(itemID int) ([]float64, error) {
	idx, ok := s.store.Index(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: item %d", ErrUnknownItem, itemID)
	}

	s.mu.RLock()
	row, cached := s.rows[itemID]
	s.mu.RUnlock()
	if cached {
		metrics.SimilarityCacheHits.Inc()
		return row, nil
	}
	metrics.SimilarityCacheMisses.Inc()

	row = s.compute(idx)

	s.mu.Lock()
	if prior, ok := s.rows[itemID]; ok {
		row = prior
	} else {
		s.rows[itemID] = row
	}
	s.mu.Unlock()

	return row, nil
}

func (s *Similarity) compute(idx int) []float64 {
	base := s.vectors[idx]
	row := make([]float64, len(s.vectors))
	for j, other := range s.vectors {
		row[j] = dot(base, other)
	}
	return row
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
