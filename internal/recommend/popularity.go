// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package recommend

import (
	"sort"

	"github.com/mvickers/cinematch/internal/logging"
	"github.com/mvickers/cinematch/internal/store"
)

// PlaceholderScore is the displayed score when no interaction data
// exists and popularity degrades to the canonical catalog order.
const PlaceholderScore = 4.0

// DefaultMinRatings is the interaction count an item must exceed to
// enter the popularity ranking.
const DefaultMinRatings = 10

// Popularity is the terminal fallback: a precomputed ranking by mean
// rating over items with more than minRatings interactions, ordered by
// mean descending, then interaction count descending, then item ID
// ascending. It has no failure modes; when no item qualifies it
// degrades to the canonical catalog order with PlaceholderScore.
type Popularity struct {
	ranked []Recommendation
}

// NewPopularity builds the ranking once from the store.
func NewPopularity(st *store.Store, minRatings int) *Popularity {
	if minRatings <= 0 {
		minRatings = DefaultMinRatings
	}

	type stats struct {
		sum   float64
		count int
	}
	perItem := make(map[int]*stats)
	st.EachInteraction(func(inter store.Interaction) {
		s, ok := perItem[inter.ItemID]
		if !ok {
			s = &stats{}
			perItem[inter.ItemID] = s
		}
		s.sum += inter.Rating
		s.count++
	})

	type scored struct {
		id    int
		mean  float64
		count int
	}
	qualified := make([]scored, 0, len(perItem))
	for id, s := range perItem {
		if s.count <= minRatings {
			continue
		}
		if _, err := st.GetItem(id); err != nil {
			continue // rating references an item outside the catalog
		}
		qualified = append(qualified, scored{id: id, mean: s.sum / float64(s.count), count: s.count})
	}

	if len(qualified) == 0 {
		// No usable interaction data: stable catalog order with a
		// fixed placeholder score.
		items := st.Items()
		ranked := make([]Recommendation, len(items))
		for i, item := range items {
			ranked[i] = Recommendation{
				ItemID:         item.ID,
				Title:          item.Title,
				Genres:         item.Genres,
				PredictedScore: PlaceholderScore,
			}
		}
		logging.Warn().
			Int("items", len(ranked)).
			Msg("popularity ranking has no qualifying interactions, using placeholder order")
		return &Popularity{ranked: ranked}
	}

	sort.Slice(qualified, func(i, j int) bool {
		if qualified[i].mean != qualified[j].mean {
			return qualified[i].mean > qualified[j].mean
		}
		if qualified[i].count != qualified[j].count {
			return qualified[i].count > qualified[j].count
		}
		return qualified[i].id < qualified[j].id
	})

	ranked := make([]Recommendation, 0, len(qualified))
	for _, s := range qualified {
		item, err := st.GetItem(s.id)
		if err != nil {
			continue
		}
		ranked = append(ranked, Recommendation{
			ItemID:         item.ID,
			Title:          item.Title,
			Genres:         item.Genres,
			PredictedScore: s.mean,
		})
	}

	logging.Info().
		Int("ranked", len(ranked)).
		Int("min_ratings", minRatings).
		Msg("popularity ranking built")

	return &Popularity{ranked: ranked}
}

// Top returns the k most popular items, fewer if the catalog is
// smaller. It never fails.
func (p *Popularity) Top(k int) []Recommendation {
	if k < 0 {
		k = 0
	}
	if k > len(p.ranked) {
		k = len(p.ranked)
	}
	out := make([]Recommendation, k)
	copy(out, p.ranked[:k])
	return out
}

// Size returns the length of the ranking.
func (p *Popularity) Size() int {
	return len(p.ranked)
}
