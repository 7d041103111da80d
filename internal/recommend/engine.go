// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package recommend

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mvickers/cinematch/internal/logging"
	"github.com/mvickers/cinematch/internal/metrics"
	"github.com/mvickers/cinematch/internal/store"
)

// Display transforms. Raw similarity lives in [0, 1] and raw hybrid
// scores are normalized to [0, 1]; both are mapped onto the rating
// scale for presentation so every mode sorts and renders on the same
// axis as predicted ratings.
const (
	contentDisplayBase  = 3.5
	contentDisplaySpan  = 1.5
	hybridDisplayBase   = 3.0
	hybridDisplaySpan   = 2.0
	hybridOverFetchMult = 2
)

// Engine orchestrates the three recommendation modes over the shared
// store, similarity server, predictor and popularity fallback.
type Engine struct {
	store      *store.Store
	similarity *Similarity
	predictor  *Predictor
	popularity *Popularity
	cfg        Config
}

// NewEngine wires the engine together.
func NewEngine(st *store.Store, sim *Similarity, pred *Predictor, pop *Popularity, cfg Config) *Engine {
	return &Engine{
		store:      st,
		similarity: sim,
		predictor:  pred,
		popularity: pop,
		cfg:        cfg.withDefaults(),
	}
}

// ContentBased ranks the k items most similar to the given item.
// An unknown item falls back to popularity; a malformed request fails
// with ErrInvalidInput.
func (e *Engine) ContentBased(itemID, k int) (Result, error) {
	start := time.Now()
	if itemID < 1 || k < 1 {
		metrics.RecommendErrors.WithLabelValues(string(SourceContent), "invalid_input").Inc()
		return Result{}, fmt.Errorf("%w: item %d, k %d", ErrInvalidInput, itemID, k)
	}

	res := e.contentBased(itemID, k)
	metrics.ObserveRecommendation(string(SourceContent), string(res.Source), time.Since(start))
	return res, nil
}

func (e *Engine) contentBased(itemID, k int) Result {
	entries, err := e.contentScores(itemID, k)
	if err != nil || len(entries) == 0 {
		logging.Debug().
			Int("item_id", itemID).
			Err(err).
			Msg("content ranking unavailable, falling back to popularity")
		return e.fallback(k)
	}

	items := make([]Recommendation, len(entries))
	for i, en := range entries {
		items[i] = Recommendation{
			ItemID:          en.item.ID,
			Title:           en.item.Title,
			Genres:          en.item.Genres,
			PredictedScore:  contentDisplayBase + en.sim*contentDisplaySpan,
			SimilarityScore: en.sim,
		}
	}
	return Result{Source: SourceContent, Items: items}
}

// Collaborative ranks the k items with the highest predicted rating
// for the user, excluding everything the user has already rated.
// Without any interaction data the collaborative signal is meaningless
// and the call falls back to popularity.
func (e *Engine) Collaborative(userID, k int) (Result, error) {
	start := time.Now()
	if userID < 1 || k < 1 {
		metrics.RecommendErrors.WithLabelValues(string(SourceCollaborative), "invalid_input").Inc()
		return Result{}, fmt.Errorf("%w: user %d, k %d", ErrInvalidInput, userID, k)
	}

	res := e.collaborative(userID, k)
	metrics.ObserveRecommendation(string(SourceCollaborative), string(res.Source), time.Since(start))
	return res, nil
}

func (e *Engine) collaborative(userID, k int) Result {
	if e.store.InteractionCount() == 0 {
		return e.fallback(k)
	}

	entries := e.collabScores(userID, e.store.RatedItemIDs(userID), k)
	if len(entries) == 0 {
		logging.Debug().
			Int("user_id", userID).
			Msg("collaborative candidate set empty, falling back to popularity")
		return e.fallback(k)
	}

	items := make([]Recommendation, len(entries))
	for i, en := range entries {
		items[i] = Recommendation{
			ItemID:         en.item.ID,
			Title:          en.item.Title,
			Genres:         en.item.Genres,
			PredictedScore: en.score,
		}
	}
	return Result{Source: SourceCollaborative, Items: items}
}

// Hybrid blends content similarity around the seed items with the
// user's predicted ratings. alpha is the content weight in [0, 1].
// Empty seeds reduce to pure collaborative ranking; an empty merge at
// any stage falls back to popularity.
func (e *Engine) Hybrid(userID int, seedIDs []int, k int, alpha float64) (Result, error) {
	start := time.Now()
	if userID < 1 || k < 1 || math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		metrics.RecommendErrors.WithLabelValues(string(SourceHybrid), "invalid_input").Inc()
		return Result{}, fmt.Errorf("%w: user %d, k %d, alpha %g", ErrInvalidInput, userID, k, alpha)
	}
	for _, seed := range seedIDs {
		if seed < 1 {
			metrics.RecommendErrors.WithLabelValues(string(SourceHybrid), "invalid_input").Inc()
			return Result{}, fmt.Errorf("%w: seed item %d", ErrInvalidInput, seed)
		}
	}

	var res Result
	if len(seedIDs) == 0 {
		res = e.collaborative(userID, k)
	} else {
		res = e.hybrid(userID, seedIDs, k, alpha)
	}
	metrics.ObserveRecommendation(string(SourceHybrid), string(res.Source), time.Since(start))
	return res, nil
}

func (e *Engine) hybrid(userID int, seedIDs []int, k int, alpha float64) Result {
	overFetch := hybridOverFetchMult * k

	// Merge the per-seed content rankings by item, averaging scores
	// for items reached from several seeds. Unknown seeds are skipped;
	// if none survive, the merge is empty and popularity takes over.
	type merged struct {
		item     store.Item
		scoreSum float64
		simSum   float64
		n        int
	}
	byID := make(map[int]*merged)
	order := make([]int, 0, overFetch*len(seedIDs))
	for _, seed := range seedIDs {
		entries, err := e.contentScores(seed, overFetch)
		if err != nil {
			logging.Debug().Int("seed_id", seed).Err(err).Msg("skipping unknown hybrid seed")
			continue
		}
		for _, en := range entries {
			m, ok := byID[en.item.ID]
			if !ok {
				m = &merged{item: en.item}
				byID[en.item.ID] = m
				order = append(order, en.item.ID)
			}
			m.scoreSum += contentDisplayBase + en.sim*contentDisplaySpan
			m.simSum += en.sim
			m.n++
		}
	}
	if len(order) == 0 {
		return e.fallback(k)
	}

	rated := e.store.RatedItemIDs(userID)

	// Both score columns are normalized to [0, 1] independently before
	// blending; the content column is on the display scale (~[3.5, 5])
	// and the collaborative column on the rating scale (~[0.5, 5]), so
	// a raw linear combination would bias toward the larger scale.
	contentRaw := make([]float64, len(order))
	for i, id := range order {
		m := byID[id]
		contentRaw[i] = m.scoreSum / float64(m.n)
	}
	contentNorm := minMaxNormalize(contentRaw)

	collabEntries := e.collabScores(userID, rated, overFetch)
	collabRaw := make([]float64, len(collabEntries))
	for i, en := range collabEntries {
		collabRaw[i] = en.score
	}
	collabNormByID := make(map[int]float64, len(collabEntries))
	for i, norm := range minMaxNormalize(collabRaw) {
		collabNormByID[collabEntries[i].item.ID] = norm
	}

	type hybridEntry struct {
		item  store.Item
		score float64
		sim   float64
	}
	candidates := make([]hybridEntry, 0, len(order))
	for i, id := range order {
		if _, already := rated[id]; already {
			continue
		}
		m := byID[id]
		candidates = append(candidates, hybridEntry{
			item:  m.item,
			score: alpha*contentNorm[i] + (1-alpha)*collabNormByID[id],
			sim:   m.simSum / float64(m.n),
		})
	}
	if len(candidates) == 0 {
		return e.fallback(k)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].item.ID < candidates[j].item.ID
	})
	if k < len(candidates) {
		candidates = candidates[:k]
	}

	items := make([]Recommendation, len(candidates))
	for i, c := range candidates {
		items[i] = Recommendation{
			ItemID:          c.item.ID,
			Title:           c.item.Title,
			Genres:          c.item.Genres,
			PredictedScore:  hybridDisplayBase + c.score*hybridDisplaySpan,
			SimilarityScore: c.sim,
		}
	}
	return Result{Source: SourceHybrid, Items: items}
}

// Fallback returns the popularity ranking directly. Exposed for the
// presentation layer's determinism checks; it never fails.
func (e *Engine) Fallback(k int) Result {
	if k < 1 {
		k = e.popularity.Size()
	}
	return e.fallback(k)
}

func (e *Engine) fallback(k int) Result {
	return Result{Source: SourcePopularity, Items: e.popularity.Top(k)}
}

type contentEntry struct {
	item store.Item
	sim  float64
}

// contentScores returns the top entries by similarity to itemID,
// excluding the item itself. Ties preserve the canonical item order
// (stable sort over a canonically ordered slice).
func (e *Engine) contentScores(itemID, limit int) ([]contentEntry, error) {
	row, err := e.similarity.Row(itemID)
	if err != nil {
		return nil, err
	}
	selfIdx, _ := e.store.Index(itemID)

	items := e.store.Items()
	entries := make([]contentEntry, 0, len(items)-1)
	for i, item := range items {
		if i == selfIdx {
			continue
		}
		entries = append(entries, contentEntry{item: item, sim: row[i]})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].sim > entries[j].sim
	})
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

type collabEntry struct {
	item  store.Item
	score float64
}

// collabScores predicts ratings over the unrated prefix of the catalog
// (bounded by MaxCandidates) and returns the top entries by predicted
// score, ties broken by item ID ascending. Candidates whose prediction
// fails are skipped, never fatal.
func (e *Engine) collabScores(userID int, rated map[int]struct{}, limit int) []collabEntry {
	entries := make([]collabEntry, 0, min(e.cfg.MaxCandidates, e.store.ItemCount()))
	evaluated := 0
	for _, item := range e.store.Items() {
		if _, already := rated[item.ID]; already {
			continue
		}
		if evaluated >= e.cfg.MaxCandidates {
			break
		}
		evaluated++

		est, err := e.predictor.Predict(userID, item.ID)
		if err != nil {
			continue
		}
		entries = append(entries, collabEntry{item: item, score: est})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].item.ID < entries[j].item.ID
	})
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

// minMaxNormalize scales values to [0, 1]. A constant column (min ==
// max) normalizes to 0 for every row: an explicit policy to avoid
// division by zero, not a silent bug.
func minMaxNormalize(vals []float64) []float64 {
	norm := make([]float64, len(vals))
	if len(vals) == 0 {
		return norm
	}

	minVal, maxVal := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		return norm
	}

	span := maxVal - minVal
	for i, v := range vals {
		norm[i] = (v - minVal) / span
	}
	return norm
}

// ErrorKind maps a core error to its taxonomy name for logs and
// HTTP error codes.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrUnknownItem):
		return "UNKNOWN_ITEM"
	case errors.Is(err, ErrUnknownUser):
		return "UNKNOWN_USER"
	case errors.Is(err, ErrModelUnavailable):
		return "MODEL_UNAVAILABLE"
	case errors.Is(err, ErrEmptyCandidateSet):
		return "EMPTY_CANDIDATE_SET"
	default:
		return "INTERNAL"
	}
}
