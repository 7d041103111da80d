// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package recommend

import (
	"errors"
	"fmt"

	"github.com/mvickers/cinematch/internal/model"
)

// Predictor wraps the rating estimator behind the core's error
// taxonomy. The estimator itself never fails on cold starts; the only
// failure mode left is malformed input, which maps to ErrInvalidInput.
type Predictor struct {
	estimator model.Estimator
}

// NewPredictor wraps a loaded estimator.
func NewPredictor(est model.Estimator) *Predictor {
	return &Predictor{estimator: est}
}

// Predict returns the estimated rating for a (user, item) pair.
func (p *Predictor) Predict(userID, itemID int) (float64, error) {
	if userID < 1 || itemID < 1 {
		return 0, fmt.Errorf("%w: user %d item %d", ErrInvalidInput, userID, itemID)
	}

	est, err := p.estimator.Predict(userID, itemID)
	if err != nil {
		if errors.Is(err, model.ErrInvalidID) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return 0, err
	}
	return est, nil
}
