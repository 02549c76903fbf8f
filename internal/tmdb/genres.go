package tmdb

import (
	"sort"
	"strings"
)

// MergeGenres combines the watchlist's genre list with TMDB's, deduplicated
// and sorted. "Sci-Fi" and "Science Fiction" name the same genre across the
// two sources and are unified.
func MergeGenres(existing string, fetched []Genre) string {
	set := make(map[string]bool)

	for _, g := range strings.Split(existing, ",") {
		addGenre(set, g)
	}
	for _, g := range fetched {
		addGenre(set, g.Name)
	}

	merged := make([]string, 0, len(set))
	for g := range set {
		merged = append(merged, g)
	}
	sort.Strings(merged)
	return strings.Join(merged, ", ")
}

func addGenre(set map[string]bool, genre string) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return
	}
	switch strings.ToLower(genre) {
	case "sci-fi", "science fiction":
		genre = "Science Fiction"
	}
	set[genre] = true
}
