package insights

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Display limits for normalized sections. These were inconsistent across the
// two historical dashboard variants (12 vs 20 people); 12 is canonical now.
const (
	TopGenreLimit      = 10
	PersonDisplayLimit = 12
)

// SentinelUnknown marks credits whose person could not be resolved during
// enrichment. Entries with this name are never rendered.
const SentinelUnknown = "unknown"

// Each normalizer is side-effect free and returns nil when its section is
// absent or structurally empty. nil means "nothing to render", not an error:
// a section that doesn't match any accepted shape is simply omitted.

// NormalizeGenres returns the top genres by count, descending. A pre-limited
// top-N mapping is preferred; otherwise the full distribution is sorted and
// truncated to TopGenreLimit. Ties keep lexical key order.
func NormalizeGenres(g *GenreSection) []GenreCount {
	if g == nil {
		return nil
	}

	source := g.TopGenres
	limit := 0
	if len(source) == 0 {
		source = g.Distribution
		limit = TopGenreLimit
	}
	if len(source) == 0 {
		return nil
	}

	entries := make([]GenreCount, 0, len(source))
	for genre, count := range source {
		if count < 0 {
			continue
		}
		entries = append(entries, GenreCount{Genre: genre, Count: count})
	}
	if len(entries) == 0 {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Genre < entries[j].Genre
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// NormalizeDecades coerces the decade mapping into an ascending series.
// Values arrive either as bare counts or as objects with a count field;
// entries whose label or count is not a finite number are discarded.
func NormalizeDecades(raw map[string]json.RawMessage) []DecadeCount {
	if len(raw) == 0 {
		return nil
	}

	var entries []DecadeCount
	for label, value := range raw {
		decade, err := strconv.Atoi(strings.TrimSpace(label))
		if err != nil {
			continue
		}
		count, ok := coerceCount(value)
		if !ok || count < 0 {
			continue
		}
		entries = append(entries, DecadeCount{Decade: decade, Count: count})
	}
	if len(entries) == 0 {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Decade < entries[j].Decade
	})
	return entries
}

// coerceCount accepts a bare JSON number or an object carrying a count
// field. Anything else, including non-finite numbers, is rejected.
func coerceCount(raw json.RawMessage) (int64, bool) {
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	}

	var obj struct {
		Count      *float64 `json:"count"`
		MovieCount *float64 `json:"movie_count"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, false
	}
	val := obj.Count
	if val == nil {
		val = obj.MovieCount
	}
	if val == nil || math.IsNaN(*val) || math.IsInf(*val, 0) {
		return 0, false
	}
	return int64(*val), true
}

type personRecord struct {
	Name              string   `json:"name"`
	Count             *float64 `json:"count"`
	MovieCount        *float64 `json:"movie_count"`
	TotalRuntimeHours float64  `json:"total_runtime_hours"`
	BirthYear         int      `json:"birth_year"`
}

// NormalizePeople turns a director or actor section into an ordered list.
// The section arrives either as a mapping keyed by name or as a sequence of
// records. Zero-count entries and unresolved-name sentinels are dropped, the
// rest sorted by count descending (ties by name) and truncated to limit.
func NormalizePeople(raw json.RawMessage, limit int) []PersonEntry {
	if len(raw) == 0 {
		return nil
	}

	var entries []PersonEntry

	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asMap); err == nil {
		for name, value := range asMap {
			entry, ok := decodePerson(name, value)
			if !ok {
				continue
			}
			entries = append(entries, entry)
		}
	} else {
		var asList []json.RawMessage
		if err := json.Unmarshal(raw, &asList); err != nil {
			return nil
		}
		for _, value := range asList {
			entry, ok := decodePerson("", value)
			if !ok {
				continue
			}
			entries = append(entries, entry)
		}
	}

	if len(entries) == 0 {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func decodePerson(name string, raw json.RawMessage) (PersonEntry, bool) {
	entry := PersonEntry{Name: name}

	// Map form may carry a bare count as the value.
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		entry.Count = int64(n)
	} else {
		var rec personRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return PersonEntry{}, false
		}
		if rec.Name != "" {
			entry.Name = rec.Name
		}
		count := rec.MovieCount
		if count == nil {
			count = rec.Count
		}
		if count == nil {
			return PersonEntry{}, false
		}
		entry.Count = int64(*count)
		entry.RuntimeHours = rec.TotalRuntimeHours
		entry.BirthYear = rec.BirthYear
	}

	if entry.Count <= 0 || entry.Name == "" {
		return PersonEntry{}, false
	}
	if strings.EqualFold(entry.Name, SentinelUnknown) {
		return PersonEntry{}, false
	}
	return entry, true
}

// NormalizeClusters reads the ML cluster summary, accepting both field names
// that have appeared upstream. Percentages are clamped for display.
func NormalizeClusters(m *MLInsights) []ClusterEntry {
	if m == nil {
		return nil
	}
	source := m.Clusters
	if len(source) == 0 {
		source = m.ClusterSummary
	}
	if len(source) == 0 {
		return nil
	}

	entries := make([]ClusterEntry, 0, len(source))
	for label, stat := range source {
		if stat.Size < 0 {
			continue
		}
		entries = append(entries, ClusterEntry{
			Label:      label,
			Size:       stat.Size,
			Percentage: clampPercent(stat.Percentage),
		})
	}
	if len(entries) == 0 {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// NormalizeHistogram requires bins and counts to be present, non-empty and
// parallel. A length mismatch is a shape mismatch, so the whole section is
// skipped rather than partially rendered.
func NormalizeHistogram(g *GraphData) *RuntimeHistogram {
	if g == nil || g.RuntimeHistogram == nil {
		return nil
	}
	h := g.RuntimeHistogram
	if len(h.Bins) == 0 || len(h.Counts) == 0 {
		return nil
	}
	if len(h.Bins) != len(h.Counts) {
		return nil
	}
	for _, c := range h.Counts {
		if c < 0 {
			return nil
		}
	}
	return h
}
