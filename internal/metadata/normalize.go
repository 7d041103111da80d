// CineMatch - Hybrid Movie Recommendation Demo
// Copyright 2026 M. Vickers (mvickers)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvickers/cinematch

package metadata

import (
	"regexp"
	"strconv"
	"strings"
)

var yearPattern = regexp.MustCompile(`\((\d{4})\)`)

// Articles MovieLens rotates to the end of a title ("Matrix, The").
// ", An" must be checked before ", A" since the latter is its prefix.
var trailingArticles = []string{", The", ", An", ", A"}

// NormalizeTitle cleans a MovieLens title for TMDB search: the trailing
// "(1999)" year is stripped and returned separately (0 when absent),
// and a rotated trailing article is moved back to the front, so
// "Matrix, The (1999)" becomes ("The Matrix", 1999).
func NormalizeTitle(title string) (string, int) {
	title = strings.TrimSpace(title)

	year := 0
	if m := yearPattern.FindStringSubmatch(title); m != nil {
		year, _ = strconv.Atoi(m[1])
	}
	title = strings.TrimSpace(yearPattern.ReplaceAllString(title, ""))

	for _, article := range trailingArticles {
		if strings.HasSuffix(title, article) {
			title = strings.TrimPrefix(article, ", ") + " " + strings.TrimSuffix(title, article)
			break
		}
	}

	return strings.TrimSpace(title), year
}
