// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package model

import "fmt"

// MatrixFactorization is a pre-trained biased matrix-factorization
// estimator artifact (SVD-style latent factors plus user/item biases).
//
// The estimate for a (user, item) pair is
//
//	r = mean + b_u + b_i + p_u . q_i
//
// clamped to the rating scale. Unknown users or items simply contribute
// nothing to the missing terms, so cold-start predictions degrade to the
// bias baseline instead of failing.
type MatrixFactorization struct {
	// GlobalMean is the mean rating of the training set.
	GlobalMean float64 `json:"global_mean"`

	// RatingMin and RatingMax bound the rating scale (0.5-5.0 for MovieLens).
	RatingMin float64 `json:"rating_min"`
	RatingMax float64 `json:"rating_max"`

	// UserBias and ItemBias hold the learned bias terms.
	UserBias map[int]float64 `json:"user_bias"`
	ItemBias map[int]float64 `json:"item_bias"`

	// UserFactors and ItemFactors hold the latent factor vectors.
	UserFactors map[int][]float64 `json:"user_factors"`
	ItemFactors map[int][]float64 `json:"item_factors"`
}

// Validate checks artifact consistency after load.
func (m *MatrixFactorization) Validate() error {
	if m.RatingMax <= m.RatingMin {
		return fmt.Errorf("mf artifact rating scale invalid: [%f, %f]", m.RatingMin, m.RatingMax)
	}
	if m.GlobalMean < m.RatingMin || m.GlobalMean > m.RatingMax {
		return fmt.Errorf("mf artifact global mean %f outside rating scale", m.GlobalMean)
	}

	var dim int
	for _, f := range m.UserFactors {
		dim = len(f)
		break
	}
	for id, f := range m.UserFactors {
		if len(f) != dim {
			return fmt.Errorf("mf artifact user %d factor length %d, want %d", id, len(f), dim)
		}
	}
	for id, f := range m.ItemFactors {
		if len(f) != dim {
			return fmt.Errorf("mf artifact item %d factor length %d, want %d", id, len(f), dim)
		}
	}
	return nil
}

// Predict returns the estimated rating for a (user, item) pair.
// Only malformed (non-positive) IDs error; cold-start pairs return the
// bias baseline.
func (m *MatrixFactorization) Predict(userID, itemID int) (float64, error) {
	if userID < 1 || itemID < 1 {
		return 0, fmt.Errorf("%w: user %d item %d", ErrInvalidID, userID, itemID)
	}

	est := m.GlobalMean + m.UserBias[userID] + m.ItemBias[itemID]

	if pu, ok := m.UserFactors[userID]; ok {
		if qi, ok := m.ItemFactors[itemID]; ok {
			for f := range pu {
				est += pu[f] * qi[f]
			}
		}
	}

	if est < m.RatingMin {
		est = m.RatingMin
	}
	if est > m.RatingMax {
		est = m.RatingMax
	}

	return est, nil
}
