// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package recommend

import "errors"

var (
	// ErrUnknownItem indicates an item ID absent from the store.
	// Never fatal: callers fall back to the next tier.
	ErrUnknownItem = errors.New("unknown item")

	// ErrUnknownUser indicates a user ID with no presence in the store.
	// Never fatal: collaborative paths proceed with an empty rated set.
	ErrUnknownUser = errors.New("unknown user")

	// ErrInvalidInput indicates a malformed request: non-positive IDs,
	// k < 1, or alpha outside [0, 1]. Surfaced to the caller as a
	// request-level validation failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelUnavailable indicates a required model artifact is not
	// loaded. Fatal at startup; requests never see it at runtime.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrEmptyCandidateSet indicates a ranking stage produced no
	// candidates. Internal only: the engine converts it into a
	// popularity fallback before returning.
	ErrEmptyCandidateSet = errors.New("empty candidate set")
)
