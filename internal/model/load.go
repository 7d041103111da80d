// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/mvickers/cinematch/internal/logging"
)

// Load reads both model artifacts from the given directory.
// Any failure wraps ErrUnavailable so the caller can treat a missing or
// corrupt artifact as fatal at startup.
func Load(dir, vectorizerFile, estimatorFile string) (*TFIDF, *MatrixFactorization, error) {
	tfidf := &TFIDF{}
	if err := loadArtifact(filepath.Join(dir, vectorizerFile), tfidf); err != nil {
		return nil, nil, fmt.Errorf("%w: vectorizer: %v", ErrUnavailable, err)
	}
	if err := tfidf.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: vectorizer: %v", ErrUnavailable, err)
	}

	mf := &MatrixFactorization{}
	if err := loadArtifact(filepath.Join(dir, estimatorFile), mf); err != nil {
		return nil, nil, fmt.Errorf("%w: estimator: %v", ErrUnavailable, err)
	}
	if err := mf.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: estimator: %v", ErrUnavailable, err)
	}

	logging.Info().
		Int("vocabulary", len(tfidf.Vocabulary)).
		Int("users", len(mf.UserFactors)).
		Int("items", len(mf.ItemFactors)).
		Msg("model artifacts loaded")

	return tfidf, mf, nil
}

// loadArtifact decodes a JSON artifact file into dst.
func loadArtifact(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
