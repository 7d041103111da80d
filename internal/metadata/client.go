// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

// Package metadata enriches recommendations with poster art and trailer
// keys from TMDB. Enrichment is decoration only: every failure path
// degrades to an empty result and never blocks or alters the
// recommendation core. Without an API key the client is disabled and
// answers immediately.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/mvickers/cinematch/internal/config"
	"github.com/mvickers/cinematch/internal/logging"
	"github.com/mvickers/cinematch/internal/metrics"
)

// ErrDisabled indicates the client has no API key configured.
var ErrDisabled = errors.New("tmdb client disabled")

// ErrNotFound indicates the search returned no usable match.
var ErrNotFound = errors.New("no tmdb match")

const posterSize = "w342"

const breakerName = "tmdb-api"

// Details is the enrichment payload for one movie.
type Details struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	PosterURL   string   `json:"poster_url,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Runtime     int      `json:"runtime,omitempty"`
	VoteAverage float64  `json:"vote_average,omitempty"`
	VoteCount   int      `json:"vote_count,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	TrailerKey  string   `json:"trailer_key,omitempty"`
	Cast        []string `json:"cast,omitempty"`
}

// Client talks to the TMDB v3 API behind a circuit breaker so a slow
// or failing upstream cannot pile up requests against the 6s timeout.
type Client struct {
	baseURL  string
	imageURL string
	apiKey   string
	client   *http.Client
	cb       *gobreaker.CircuitBreaker[[]byte]
}

// NewClient builds a TMDB client from configuration. An empty API key
// yields a disabled client whose methods fail fast with ErrDisabled.
func NewClient(cfg config.TMDBConfig) *Client {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("tmdb circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Client{
		baseURL:  cfg.BaseURL,
		imageURL: cfg.ImageURL,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
		cb:       cb,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// PosterURL returns the best-match poster URL for a MovieLens title, or
// ErrNotFound when TMDB has no usable match. Callers treat any error as
// "no poster".
func (c *Client) PosterURL(ctx context.Context, title string) (string, error) {
	movie, err := c.search(ctx, title)
	if err != nil {
		return "", err
	}
	if movie.PosterPath == "" {
		return "", fmt.Errorf("%w: %q has no poster", ErrNotFound, title)
	}
	return c.imagePath(movie.PosterPath), nil
}

// Details returns the best-match movie details for a MovieLens title,
// including the key of its first YouTube trailer and the top-billed
// cast.
func (c *Client) Details(ctx context.Context, title string) (*Details, error) {
	movie, err := c.search(ctx, title)
	if err != nil {
		return nil, err
	}

	var resp detailsResponse
	params := url.Values{}
	params.Set("append_to_response", "videos,credits")
	if err := c.getJSON(ctx, fmt.Sprintf("/movie/%d", movie.ID), params, &resp); err != nil {
		return nil, err
	}

	d := &Details{
		ID:          resp.ID,
		Title:       resp.Title,
		Overview:    resp.Overview,
		ReleaseDate: resp.ReleaseDate,
		Runtime:     resp.Runtime,
		VoteAverage: resp.VoteAverage,
		VoteCount:   resp.VoteCount,
	}
	if resp.PosterPath != "" {
		d.PosterURL = c.imagePath(resp.PosterPath)
	}
	for _, g := range resp.Genres {
		d.Genres = append(d.Genres, g.Name)
	}
	for _, v := range resp.Videos.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			d.TrailerKey = v.Key
			break
		}
	}
	for i, member := range resp.Credits.Cast {
		if i == 5 {
			break
		}
		if member.Name != "" {
			d.Cast = append(d.Cast, member.Name)
		}
	}
	return d, nil
}

// search runs a title query and picks the best match by vote count,
// then popularity.
func (c *Client) search(ctx context.Context, title string) (*searchResult, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	clean, year := NormalizeTitle(title)
	params := url.Values{}
	params.Set("query", clean)
	if year > 0 {
		params.Set("year", fmt.Sprintf("%d", year))
	}

	var resp searchResponse
	if err := c.getJSON(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, clean)
	}

	sort.SliceStable(resp.Results, func(i, j int) bool {
		if resp.Results[i].VoteCount != resp.Results[j].VoteCount {
			return resp.Results[i].VoteCount > resp.Results[j].VoteCount
		}
		return resp.Results[i].Popularity > resp.Results[j].Popularity
	})
	return &resp.Results[0], nil
}

// getJSON performs a GET through the circuit breaker and decodes the
// response body into dst.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dst interface{}) error {
	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	operation := "search"
	if path != "/search/movie" {
		operation = "details"
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.get(ctx, reqURL)
	})
	if err != nil {
		outcome := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "rejected"
		}
		metrics.TMDBRequests.WithLabelValues(operation, outcome).Inc()
		logging.Debug().Err(err).Str("operation", operation).Msg("tmdb request failed")
		return err
	}
	metrics.TMDBRequests.WithLabelValues(operation, "success").Inc()

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode tmdb %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build tmdb request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb responded %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}

func (c *Client) imagePath(posterPath string) string {
	return fmt.Sprintf("%s/%s%s", c.imageURL, posterSize, posterPath)
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// TMDB wire types, trimmed to the fields the demo consumes.

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID         int     `json:"id"`
	Title      string  `json:"title"`
	PosterPath string  `json:"poster_path"`
	VoteCount  int     `json:"vote_count"`
	Popularity float64 `json:"popularity"`
}

type detailsResponse struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Videos struct {
		Results []struct {
			Site string `json:"site"`
			Type string `json:"type"`
			Key  string `json:"key"`
		} `json:"results"`
	} `json:"videos"`
	Credits struct {
		Cast []struct {
			Name string `json:"name"`
		} `json:"cast"`
	} `json:"credits"`
}
