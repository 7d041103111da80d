// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

// Package config provides layered configuration for CineMatch:
// struct defaults, an optional YAML file, and environment variables,
// loaded through koanf v2 with ENV > file > defaults precedence.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the CineMatch server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Data      DataConfig      `koanf:"data"`
	Models    ModelsConfig    `koanf:"models"`
	Recommend RecommendConfig `koanf:"recommend"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DataConfig locates the MovieLens-style dataset files.
type DataConfig struct {
	// Dir is the dataset directory containing movies.csv and ratings.csv.
	Dir string `koanf:"dir"`

	MoviesFile  string `koanf:"movies_file"`
	RatingsFile string `koanf:"ratings_file"`
}

// ModelsConfig locates the pre-trained model artifacts.
// Both artifacts are mandatory: the server refuses to start without them.
type ModelsConfig struct {
	// Dir is the model artifact directory.
	Dir string `koanf:"dir"`

	// VectorizerFile is the TF-IDF vectorizer artifact (JSON).
	VectorizerFile string `koanf:"vectorizer_file"`

	// EstimatorFile is the matrix-factorization estimator artifact (JSON).
	EstimatorFile string `koanf:"estimator_file"`
}

// RecommendConfig tunes the recommendation engine.
type RecommendConfig struct {
	// DefaultK is the result count used when a request omits k.
	DefaultK int `koanf:"default_k"`

	// MaxK caps the result count a single request may ask for.
	MaxK int `koanf:"max_k"`

	// MaxCandidates bounds how many unrated items the collaborative path
	// scores per request. A latency/quality trade-off, not a correctness
	// requirement; raise it for small catalogs.
	MaxCandidates int `koanf:"max_candidates"`

	// MinRatings is the interaction count an item needs before the
	// popularity ranking trusts its mean rating.
	MinRatings int `koanf:"min_ratings"`

	// DefaultAlpha is the content weight used when a hybrid request
	// omits alpha.
	DefaultAlpha float64 `koanf:"default_alpha"`
}

// TMDBConfig controls the optional poster/trailer enrichment client.
type TMDBConfig struct {
	// APIKey enables the client; empty disables enrichment entirely.
	APIKey string `koanf:"api_key"`

	BaseURL  string        `koanf:"base_url"`
	ImageURL string        `koanf:"image_url"`
	Timeout  time.Duration `koanf:"timeout"`
}

// SecurityConfig controls rate limiting and CORS.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8602,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Data: DataConfig{
			Dir:         "data/ml-1m",
			MoviesFile:  "movies.csv",
			RatingsFile: "ratings.csv",
		},
		Models: ModelsConfig{
			Dir:            "models",
			VectorizerFile: "tfidf.json",
			EstimatorFile:  "mf.json",
		},
		Recommend: RecommendConfig{
			DefaultK:      10,
			MaxK:          100,
			MaxCandidates: 1000,
			MinRatings:    10,
			DefaultAlpha:  0.5,
		},
		TMDB: TMDBConfig{
			APIKey:   "",
			BaseURL:  "https://api.themoviedb.org/3",
			ImageURL: "https://image.tmdb.org/t/p",
			Timeout:  6 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir must not be empty")
	}
	if c.Models.Dir == "" {
		return fmt.Errorf("models.dir must not be empty")
	}
	if c.Recommend.DefaultK < 1 {
		return fmt.Errorf("recommend.default_k must be >= 1, got %d", c.Recommend.DefaultK)
	}
	if c.Recommend.MaxK < c.Recommend.DefaultK {
		return fmt.Errorf("recommend.max_k %d < recommend.default_k %d", c.Recommend.MaxK, c.Recommend.DefaultK)
	}
	if c.Recommend.MaxCandidates < 1 {
		return fmt.Errorf("recommend.max_candidates must be >= 1, got %d", c.Recommend.MaxCandidates)
	}
	if c.Recommend.MinRatings < 0 {
		return fmt.Errorf("recommend.min_ratings must be >= 0, got %d", c.Recommend.MinRatings)
	}
	if c.Recommend.DefaultAlpha < 0 || c.Recommend.DefaultAlpha > 1 {
		return fmt.Errorf("recommend.default_alpha %f outside [0,1]", c.Recommend.DefaultAlpha)
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive")
	}
	return nil
}
