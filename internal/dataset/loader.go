// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

// Package dataset loads MovieLens-style movie and rating files.
//
// The package is the data provider boundary: it returns clean item and
// interaction tables and owns all delimiter and encoding tolerance, so
// the store and the recommendation core never see raw file contents.
// Both the "::"-delimited ML-1M export and the comma-delimited ML-latest
// export are accepted, with or without a header row.
package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mvickers/cinematch/internal/logging"
	"github.com/mvickers/cinematch/internal/store"
)

// Loader reads the dataset files from a directory.
type Loader struct {
	dir         string
	moviesFile  string
	ratingsFile string
}

// NewLoader creates a loader for the given dataset directory.
func NewLoader(dir, moviesFile, ratingsFile string) *Loader {
	if moviesFile == "" {
		moviesFile = "movies.csv"
	}
	if ratingsFile == "" {
		ratingsFile = "ratings.csv"
	}
	return &Loader{dir: dir, moviesFile: moviesFile, ratingsFile: ratingsFile}
}

// LoadItems reads and cleans the movies table.
// Movies whose derived text blob is blank are dropped: they cannot be
// vectorized and would poison the similarity matrix with zero rows.
func (l *Loader) LoadItems() ([]store.Item, error) {
	rows, err := readRows(filepath.Join(l.dir, l.moviesFile), 3)
	if err != nil {
		return nil, fmt.Errorf("load movies: %w", err)
	}

	items := make([]store.Item, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		id, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			skipped++
			continue
		}

		title := strings.TrimSpace(row[1])
		genres := splitGenres(row[2])

		blob := textBlob(title, genres)
		if blob == "" {
			skipped++
			continue
		}

		items = append(items, store.Item{
			ID:       id,
			Title:    title,
			Genres:   genres,
			TextBlob: blob,
		})
	}

	if skipped > 0 {
		logging.Warn().Int("skipped", skipped).Msg("dropped unparseable or empty movie rows")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("load movies: no usable rows in %s", l.moviesFile)
	}

	return items, nil
}

// LoadInteractions reads and cleans the ratings table.
func (l *Loader) LoadInteractions() ([]store.Interaction, error) {
	rows, err := readRows(filepath.Join(l.dir, l.ratingsFile), 4)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	interactions := make([]store.Interaction, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		userID, errU := strconv.Atoi(strings.TrimSpace(row[0]))
		itemID, errI := strconv.Atoi(strings.TrimSpace(row[1]))
		rating, errR := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		timestamp, errT := strconv.ParseInt(strings.TrimSpace(row[3]), 10, 64)
		if errU != nil || errI != nil || errR != nil || errT != nil {
			skipped++
			continue
		}

		interactions = append(interactions, store.Interaction{
			UserID:    userID,
			ItemID:    itemID,
			Rating:    rating,
			Timestamp: timestamp,
		})
	}

	if skipped > 0 {
		logging.Warn().Int("skipped", skipped).Msg("dropped unparseable rating rows")
	}

	return interactions, nil
}

// readRows reads a delimited file into rows of at least wantFields columns.
// The delimiter is sniffed from the first data line: "::" (ML-1M), tab, or
// comma (ML-latest, parsed with encoding/csv to honor quoted titles).
func readRows(path string, wantFields int) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Legacy exports are latin-1; replace any invalid UTF-8 bytes rather
	// than failing the whole load.
	content := strings.ToValidUTF8(string(data), "?")

	switch sniffDelimiter(content) {
	case "::":
		return readSeparated(content, "::", wantFields), nil
	case "\t":
		return readSeparated(content, "\t", wantFields), nil
	default:
		return readCSV(content, wantFields)
	}
}

// sniffDelimiter inspects the first non-empty line for the field separator.
func sniffDelimiter(content string) string {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.Contains(line, "::"):
			return "::"
		case strings.Contains(line, "\t"):
			return "\t"
		default:
			return ","
		}
	}
	return ","
}

// readSeparated splits lines on a plain separator. Extra fields are folded
// into the last column so "::" titles containing a single ":" survive.
func readSeparated(content, sep string, wantFields int) [][]string {
	var rows [][]string

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.SplitN(line, sep, wantFields)
		if len(fields) < wantFields {
			continue
		}
		if isHeader(fields) {
			continue
		}
		rows = append(rows, fields)
	}

	return rows
}

// readCSV parses comma-delimited content with encoding/csv so quoted
// titles containing commas parse correctly.
func readCSV(content string, wantFields int) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	rows := make([][]string, 0, len(records))
	for _, record := range records {
		if len(record) < wantFields {
			continue
		}
		if isHeader(record) {
			continue
		}
		rows = append(rows, record)
	}

	return rows, nil
}

// isHeader reports whether a row is a column-name header: the first field
// of every MovieLens data row is a numeric ID.
func isHeader(fields []string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	return err != nil
}

// splitGenres splits the pipe-delimited genre column, dropping the
// "(no genres listed)" placeholder.
func splitGenres(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "(no genres listed)" {
		return nil
	}

	parts := strings.Split(raw, "|")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}

// textBlob derives the vectorization text: title plus genre tags joined
// by spaces.
func textBlob(title string, genres []string) string {
	blob := strings.TrimSpace(title + " " + strings.Join(genres, " "))
	return blob
}
