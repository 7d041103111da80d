// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

// Package models holds the wire types shared by all HTTP endpoints.
package models

import "time"

// APIResponse is the standard wrapper for every endpoint.
//
// Status is "success" or "error". Data carries the payload on success;
// Error is populated only on failure. Metadata is always present.
//
// Example success:
//
//	{
//	  "status": "success",
//	  "data": {"items": [...]},
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z", "source": "hybrid"}
//	}
//
// Example error:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "k must be at most 100"},
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields.
//
// Source names the ranking that actually produced a recommendation
// payload; it differs from the requested mode when a fallback fired.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Source      string    `json:"source,omitempty"`
}

// APIError is the structured error payload.
//
// Codes in use: VALIDATION_ERROR, INVALID_INPUT, NOT_FOUND,
// METADATA_UNAVAILABLE, INTERNAL.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
