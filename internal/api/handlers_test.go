// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/mvickers/cinematch/internal/config"
	"github.com/mvickers/cinematch/internal/metadata"
	"github.com/mvickers/cinematch/internal/models"
	"github.com/mvickers/cinematch/internal/recommend"
	"github.com/mvickers/cinematch/internal/store"
)

// testVectorizer gives item blobs colinear vectors so similarity of
// items i and j is weight_i * weight_j.
type testVectorizer struct {
	weights map[string]float64
}

func (v testVectorizer) Transform(text string) []float64 {
	return []float64{v.weights[text], 0}
}

func (v testVectorizer) Dimension() int { return 2 }

type testEstimator struct {
	scores   map[[2]int]float64
	baseline float64
}

func (e testEstimator) Predict(userID, itemID int) (float64, error) {
	if v, ok := e.scores[[2]int{userID, itemID}]; ok {
		return v, nil
	}
	return e.baseline, nil
}

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata models.Metadata `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	items := make([]store.Item, 5)
	weights := map[string]float64{}
	sims := []float64{1, 0.2, 0.8, 0.5, 0.9}
	for i := range items {
		id := i + 1
		blob := fmt.Sprintf("blob%d", id)
		items[i] = store.Item{
			ID:       id,
			Title:    fmt.Sprintf("Movie %d", id),
			Genres:   []string{"Drama"},
			TextBlob: blob,
		}
		weights[blob] = sims[i]
	}
	interactions := []store.Interaction{
		{UserID: 7, ItemID: 1, Rating: 4.0},
		{UserID: 7, ItemID: 2, Rating: 3.0},
	}

	st := store.New(items, interactions)
	est := testEstimator{
		baseline: 3.0,
		scores: map[[2]int]float64{
			{7, 3}: 4.5,
			{7, 4}: 2.0,
			{7, 5}: 4.8,
		},
	}
	engine := recommend.NewEngine(
		st,
		recommend.NewSimilarity(st, testVectorizer{weights: weights}),
		recommend.NewPredictor(est),
		recommend.NewPopularity(st, 10),
		recommend.Config{},
	)

	cfg := &config.Config{
		Recommend: config.RecommendConfig{DefaultK: 10, MaxK: 100, MaxCandidates: 1000, MinRatings: 10, DefaultAlpha: 0.5},
		Security:  config.SecurityConfig{RateLimitDisabled: true, CORSOrigins: []string{"*"}},
		TMDB:      config.TMDBConfig{Timeout: time.Second},
	}

	handler := NewHandler(cfg, st, engine, metadata.NewClient(cfg.TMDB))
	srv := httptest.NewServer(NewRouter(cfg, handler, nil).Setup())
	t.Cleanup(srv.Close)
	return srv
}

func getEnvelope(t *testing.T, srv *httptest.Server, path string) (int, envelope) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return resp.StatusCode, env
}

func postEnvelope(t *testing.T, srv *httptest.Server, path, body string) (int, envelope) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return resp.StatusCode, env
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	status, env := getEnvelope(t, srv, "/api/v1/health")
	if status != http.StatusOK || env.Status != "success" {
		t.Fatalf("status = %d/%s, want 200/success", status, env.Status)
	}

	var data struct {
		Items        int  `json:"items"`
		Interactions int  `json:"interactions"`
		TMDBEnabled  bool `json:"tmdb_enabled"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Items != 5 || data.Interactions != 2 {
		t.Errorf("counts = %+v, want 5 items, 2 interactions", data)
	}
	if data.TMDBEnabled {
		t.Error("tmdb reported enabled without an API key")
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/health/live")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}

func TestMoviesSearchAndPagination(t *testing.T) {
	srv := newTestServer(t)

	status, env := getEnvelope(t, srv, "/api/v1/movies?q=movie&page=1&page_size=2")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	var page struct {
		Movies []store.Item `json:"movies"`
		Total  int          `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 5 || len(page.Movies) != 2 {
		t.Errorf("total = %d, page length = %d, want 5 and 2", page.Total, len(page.Movies))
	}

	status, _ = getEnvelope(t, srv, "/api/v1/movies?page_size=500")
	if status != http.StatusBadRequest {
		t.Errorf("oversized page_size status = %d, want 400", status)
	}
}

func TestMovieByID(t *testing.T) {
	srv := newTestServer(t)

	status, env := getEnvelope(t, srv, "/api/v1/movies/3")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var item store.Item
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatal(err)
	}
	if item.ID != 3 || item.Title != "Movie 3" {
		t.Errorf("item = %+v", item)
	}

	status, env = getEnvelope(t, srv, "/api/v1/movies/999")
	if status != http.StatusNotFound || env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("unknown movie: status = %d, error = %+v", status, env.Error)
	}

	status, _ = getEnvelope(t, srv, "/api/v1/movies/abc")
	if status != http.StatusBadRequest {
		t.Errorf("non-integer id status = %d, want 400", status)
	}
}

func TestRecommendContent(t *testing.T) {
	srv := newTestServer(t)

	status, env := getEnvelope(t, srv, "/api/v1/recommend/content?movie_id=1&k=2")
	if status != http.StatusOK || env.Status != "success" {
		t.Fatalf("status = %d/%s", status, env.Status)
	}

	var payload recommendPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Mode != "content" || payload.Source != recommend.SourceContent {
		t.Errorf("mode/source = %s/%s", payload.Mode, payload.Source)
	}
	if got := []int{payload.Items[0].ItemID, payload.Items[1].ItemID}; got[0] != 5 || got[1] != 3 {
		t.Errorf("ranking = %v, want [5 3]", got)
	}
	if env.Metadata.Source != "content" {
		t.Errorf("metadata source = %q", env.Metadata.Source)
	}
}

func TestRecommendContentValidation(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{
		"/api/v1/recommend/content",                 // missing movie_id
		"/api/v1/recommend/content?movie_id=0",      // non-positive
		"/api/v1/recommend/content?movie_id=abc",    // malformed
		"/api/v1/recommend/content?movie_id=1&k=-2", // bad k
		"/api/v1/recommend/content?movie_id=1&k=999",
	} {
		status, env := getEnvelope(t, srv, path)
		if status != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, status)
		}
		if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
			t.Errorf("%s: error = %+v, want VALIDATION_ERROR", path, env.Error)
		}
	}
}

func TestRecommendContentUnknownMovieFallsBack(t *testing.T) {
	srv := newTestServer(t)

	status, env := getEnvelope(t, srv, "/api/v1/recommend/content?movie_id=777&k=3")
	if status != http.StatusOK {
		t.Fatalf("status = %d, fallback must not be an error", status)
	}
	var payload recommendPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Source != recommend.SourcePopularity {
		t.Errorf("source = %s, want popularity", payload.Source)
	}
}

func TestRecommendCollaborative(t *testing.T) {
	srv := newTestServer(t)

	status, env := getEnvelope(t, srv, "/api/v1/recommend/collaborative?user_id=7&k=2")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	var payload recommendPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if got := []int{payload.Items[0].ItemID, payload.Items[1].ItemID}; got[0] != 5 || got[1] != 3 {
		t.Errorf("ranking = %v, want [5 3]", got)
	}
}

func TestRecommendHybrid(t *testing.T) {
	srv := newTestServer(t)

	status, env := postEnvelope(t, srv, "/api/v1/recommend/hybrid",
		`{"user_id":7,"seed_movie_ids":[1],"k":2,"alpha":1.0}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	var payload recommendPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Source != recommend.SourceHybrid {
		t.Errorf("source = %s, want hybrid", payload.Source)
	}
	if got := []int{payload.Items[0].ItemID, payload.Items[1].ItemID}; got[0] != 5 || got[1] != 3 {
		t.Errorf("ranking = %v, want [5 3]", got)
	}
}

func TestRecommendHybridDefaults(t *testing.T) {
	srv := newTestServer(t)

	// Omitted k and alpha use configured defaults; empty seeds reduce
	// to collaborative.
	status, env := postEnvelope(t, srv, "/api/v1/recommend/hybrid", `{"user_id":7}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var payload recommendPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Source != recommend.SourceCollaborative {
		t.Errorf("source = %s, want collaborative for empty seeds", payload.Source)
	}
}

func TestRecommendHybridValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing user", `{"seed_movie_ids":[1]}`},
		{"alpha above one", `{"user_id":7,"alpha":1.5}`},
		{"negative seed", `{"user_id":7,"seed_movie_ids":[0]}`},
		{"malformed json", `{"user_id":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := postEnvelope(t, srv, "/api/v1/recommend/hybrid", tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
			if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
			}
		})
	}
}

func TestPosterDisabledClient(t *testing.T) {
	srv := newTestServer(t)

	status, env := getEnvelope(t, srv, "/api/v1/metadata/poster?title=Heat+(1995)")
	if status != http.StatusOK || env.Status != "success" {
		t.Fatalf("status = %d/%s, enrichment must degrade, not fail", status, env.Status)
	}

	var payload posterPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Found {
		t.Error("poster reported found with disabled TMDB client")
	}
}

func TestPosterMissingTitle(t *testing.T) {
	srv := newTestServer(t)

	status, _ := getEnvelope(t, srv, "/api/v1/metadata/poster")
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}
}
