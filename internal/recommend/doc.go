// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

// Package recommend implements the recommendation core: content-based,
// collaborative and hybrid ranking over the in-memory store, with a
// popularity fallback as the terminal success path.
//
// The three modes share a small contract:
//
//   - Malformed input (non-positive IDs, k < 1, alpha outside [0, 1])
//     is rejected loudly with ErrInvalidInput; nothing is coerced.
//   - Unknown-but-well-formed input (an item or user absent from the
//     store) is never an error. It triggers the next fallback tier,
//     ending at popularity, which cannot fail.
//   - Per-candidate failures inside a ranking loop are swallowed and
//     the candidate skipped; only whole-request validation surfaces.
//
// Every returned list carries a Source so callers can tell a fallback
// apart from the mode they asked for.
//
// The engines hold no mutable state beyond the similarity row cache,
// so a single instance is safe for concurrent requests.
package recommend
