// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/mvickers/cinematch/internal/config"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		wantYear int
	}{
		{"Matrix, The (1999)", "The Matrix", 1999},
		{"Heat (1995)", "Heat", 1995},
		{"American President, An (1995)", "An American President", 1995},
		{"Bug's Life, A (1998)", "A Bug's Life", 1998},
		{"Blade Runner", "Blade Runner", 0},
		{"  Toy Story (1995)  ", "Toy Story", 1995},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, year := NormalizeTitle(tt.in)
			if got != tt.want || year != tt.wantYear {
				t.Errorf("NormalizeTitle(%q) = (%q, %d), want (%q, %d)", tt.in, got, year, tt.want, tt.wantYear)
			}
		})
	}
}

func newTestClient(baseURL string) *Client {
	return NewClient(config.TMDBConfig{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		ImageURL: "https://image.tmdb.org/t/p",
		Timeout:  6 * time.Second,
	})
}

func TestPosterURLBestMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "The Matrix" {
			t.Errorf("query = %q, want %q", got, "The Matrix")
		}
		if got := r.URL.Query().Get("year"); got != "1999" {
			t.Errorf("year = %q, want 1999", got)
		}
		// The second result has the higher vote count and must win.
		_, _ = w.Write([]byte(`{"results":[
			{"id":1,"title":"The Matrix Revisited","poster_path":"/minor.jpg","vote_count":10,"popularity":1.0},
			{"id":603,"title":"The Matrix","poster_path":"/matrix.jpg","vote_count":25000,"popularity":80.5}
		]}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).PosterURL(context.Background(), "Matrix, The (1999)")
	if err != nil {
		t.Fatalf("PosterURL() error = %v", err)
	}
	if want := "https://image.tmdb.org/t/p/w342/matrix.jpg"; got != want {
		t.Errorf("PosterURL() = %q, want %q", got, want)
	}
}

func TestPosterURLNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).PosterURL(context.Background(), "Nonexistent (1900)"); !errors.Is(err, ErrNotFound) {
		t.Errorf("PosterURL() error = %v, want ErrNotFound", err)
	}
}

func TestPosterURLMissingPosterPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"id":1,"title":"Obscure","vote_count":3}]}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).PosterURL(context.Background(), "Obscure (2001)"); !errors.Is(err, ErrNotFound) {
		t.Errorf("PosterURL() error = %v, want ErrNotFound", err)
	}
}

func TestPosterURLUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).PosterURL(context.Background(), "Heat (1995)"); err == nil {
		t.Error("PosterURL() expected error for upstream 500")
	}
}

func TestDisabledClient(t *testing.T) {
	c := NewClient(config.TMDBConfig{Timeout: time.Second})

	if c.Enabled() {
		t.Error("client without API key reports enabled")
	}
	if _, err := c.PosterURL(context.Background(), "Heat (1995)"); !errors.Is(err, ErrDisabled) {
		t.Errorf("PosterURL() error = %v, want ErrDisabled", err)
	}
	if _, err := c.Details(context.Background(), "Heat (1995)"); !errors.Is(err, ErrDisabled) {
		t.Errorf("Details() error = %v, want ErrDisabled", err)
	}
}

func TestDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/movie":
			_, _ = w.Write([]byte(`{"results":[{"id":603,"title":"The Matrix","poster_path":"/matrix.jpg","vote_count":25000}]}`))
		case "/movie/603":
			if got := r.URL.Query().Get("append_to_response"); got != "videos,credits" {
				t.Errorf("append_to_response = %q", got)
			}
			_, _ = w.Write([]byte(`{
				"id":603,"title":"The Matrix","overview":"A hacker learns the truth.",
				"poster_path":"/matrix.jpg","release_date":"1999-03-30","runtime":136,
				"vote_average":8.2,"vote_count":25000,
				"genres":[{"name":"Action"},{"name":"Science Fiction"}],
				"videos":{"results":[
					{"site":"Vimeo","type":"Trailer","key":"nope"},
					{"site":"YouTube","type":"Featurette","key":"also-nope"},
					{"site":"YouTube","type":"Trailer","key":"vKQi3bBA1y8"}
				]},
				"credits":{"cast":[
					{"name":"Keanu Reeves"},{"name":"Laurence Fishburne"},{"name":"Carrie-Anne Moss"},
					{"name":"Hugo Weaving"},{"name":"Gloria Foster"},{"name":"Joe Pantoliano"}
				]}
			}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	d, err := newTestClient(srv.URL).Details(context.Background(), "Matrix, The (1999)")
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}

	if d.TrailerKey != "vKQi3bBA1y8" {
		t.Errorf("trailer key = %q, want the first YouTube trailer", d.TrailerKey)
	}
	if want := []string{"Action", "Science Fiction"}; !reflect.DeepEqual(d.Genres, want) {
		t.Errorf("genres = %v, want %v", d.Genres, want)
	}
	if len(d.Cast) != 5 {
		t.Errorf("cast length = %d, want top 5", len(d.Cast))
	}
	if d.PosterURL != "https://image.tmdb.org/t/p/w342/matrix.jpg" {
		t.Errorf("poster url = %q", d.PosterURL)
	}
	if d.Runtime != 136 || d.VoteAverage != 8.2 {
		t.Errorf("details = %+v", d)
	}
}

func TestSearchWithoutYear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("year") {
			t.Error("year parameter sent for title without year")
		}
		_, _ = w.Write([]byte(`{"results":[{"id":1,"title":"Blade Runner","poster_path":"/br.jpg","vote_count":5}]}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).PosterURL(context.Background(), "Blade Runner"); err != nil {
		t.Errorf("PosterURL() error = %v", err)
	}
}
