// Package analysis generates the insights payload from the movie store.
// It is the producer side of the dashboard: its output is the JSON document
// the loader and renderer consume.
package analysis

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/louiseluli/cinema-tools/internal/insights"
	"github.com/louiseluli/cinema-tools/internal/store"
)

const (
	topGenreCount  = 10
	topPeopleCount = 15
	// Clusters are only meaningful once the collection has some depth.
	minMoviesForClusters = 10
	topClusterCount      = 6
)

// HistogramBins are the fixed runtime buckets, in minutes.
var HistogramBins = []string{"<60", "60-89", "90-119", "120-149", "150-179", "180-239", "240+"}

// Generate computes the full insights payload from the store.
func Generate(s *store.Store) (*insights.Payload, error) {
	movies, err := loadMovies(s.DB())
	if err != nil {
		return nil, fmt.Errorf("loading movies: %w", err)
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("no movies in database - run import first")
	}

	payload := &insights.Payload{
		GeneratedAt: time.Now().Format(time.RFC3339),
	}

	payload.BasicStats = basicStats(movies)
	payload.Genres = genreAnalysis(movies)
	payload.Decades = decadeAnalysis(movies)
	payload.Ratings = ratingDistribution(movies)
	payload.Patterns = yearlyPattern(movies)
	payload.GraphData = &insights.GraphData{RuntimeHistogram: runtimeHistogram(movies)}
	payload.MLInsights = clusterSummary(movies)

	directors, err := peopleSummary(s, "director", topPeopleCount)
	if err != nil {
		return nil, fmt.Errorf("summarizing directors: %w", err)
	}
	payload.Directors = directors

	actors, err := peopleSummary(s, "actor", topPeopleCount)
	if err != nil {
		return nil, fmt.Errorf("summarizing actors: %w", err)
	}
	payload.Actors = actors

	return payload, nil
}

type movieRow struct {
	Title       string
	Year        int
	RuntimeMins int
	IMDbRating  float64
	Genres      string
	WatchedDate string
}

func loadMovies(db *sql.DB) ([]movieRow, error) {
	query := `
	SELECT title, COALESCE(year, 0), COALESCE(runtime_mins, 0),
	       COALESCE(imdb_rating, 0), COALESCE(genres, ''), COALESCE(watched_date, '')
	FROM Movie
	`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []movieRow
	for rows.Next() {
		var m movieRow
		if err := rows.Scan(&m.Title, &m.Year, &m.RuntimeMins, &m.IMDbRating, &m.Genres, &m.WatchedDate); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func basicStats(movies []movieRow) *insights.BasicStats {
	stats := &insights.BasicStats{TotalMovies: int64(len(movies))}

	titles := make(map[string]bool)
	var runtimeSum float64
	var ratingSum float64
	rated := 0
	earliest, latest := 0, 0

	for _, m := range movies {
		titles[m.Title] = true
		runtimeSum += float64(m.RuntimeMins)
		if m.IMDbRating > 0 {
			ratingSum += m.IMDbRating
			rated++
		}
		if m.Year > 0 {
			if earliest == 0 || m.Year < earliest {
				earliest = m.Year
			}
			if m.Year > latest {
				latest = m.Year
			}
		}
	}

	stats.UniqueMovies = int64(len(titles))
	stats.TotalRuntimeMins = runtimeSum
	stats.TotalRuntimeHours = round2(runtimeSum / 60)
	if len(movies) > 0 {
		avgRuntime := round2(runtimeSum / float64(len(movies)))
		stats.AvgRuntime = &avgRuntime
	}
	if rated > 0 {
		avg := round2(ratingSum / float64(rated))
		stats.AvgRating = &avg
	}
	if earliest > 0 {
		span := latest - earliest
		stats.YearRange = &insights.YearRange{Earliest: &earliest, Latest: &latest, Span: &span}
	}
	return stats
}

// splitGenres handles both comma and pipe separated genre lists.
func splitGenres(raw string) []string {
	if raw == "" {
		return nil
	}
	sep := ","
	if !strings.Contains(raw, ",") && strings.Contains(raw, "|") {
		sep = "|"
	}
	var genres []string
	for _, g := range strings.Split(raw, sep) {
		g = strings.TrimSpace(g)
		if g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

func genreAnalysis(movies []movieRow) *insights.GenreSection {
	distribution := make(map[string]int64)
	for _, m := range movies {
		for _, g := range splitGenres(m.Genres) {
			distribution[g]++
		}
	}
	if len(distribution) == 0 {
		return nil
	}

	type genreCount struct {
		genre string
		count int64
	}
	ranked := make([]genreCount, 0, len(distribution))
	for g, c := range distribution {
		ranked = append(ranked, genreCount{g, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].genre < ranked[j].genre
	})

	top := make(map[string]int64)
	for i, gc := range ranked {
		if i >= topGenreCount {
			break
		}
		top[gc.genre] = gc.count
	}

	return &insights.GenreSection{
		TotalUniqueGenres: len(distribution),
		TopGenres:         top,
		Distribution:      distribution,
	}
}

type decadeStat struct {
	Count             int64    `json:"count"`
	AvgRating         *float64 `json:"avg_rating"`
	TotalRuntimeHours float64  `json:"total_runtime_hours"`
}

func decadeAnalysis(movies []movieRow) map[string]json.RawMessage {
	type acc struct {
		count       int64
		runtimeMins float64
		ratingSum   float64
		rated       int64
	}
	byDecade := make(map[int]*acc)
	for _, m := range movies {
		if m.Year <= 0 {
			continue
		}
		decade := (m.Year / 10) * 10
		a := byDecade[decade]
		if a == nil {
			a = &acc{}
			byDecade[decade] = a
		}
		a.count++
		a.runtimeMins += float64(m.RuntimeMins)
		if m.IMDbRating > 0 {
			a.ratingSum += m.IMDbRating
			a.rated++
		}
	}
	if len(byDecade) == 0 {
		return nil
	}

	out := make(map[string]json.RawMessage, len(byDecade))
	for decade, a := range byDecade {
		stat := decadeStat{
			Count:             a.count,
			TotalRuntimeHours: round2(a.runtimeMins / 60),
		}
		if a.rated > 0 {
			avg := round2(a.ratingSum / float64(a.rated))
			stat.AvgRating = &avg
		}
		raw, err := json.Marshal(stat)
		if err != nil {
			continue
		}
		out[fmt.Sprintf("%d", decade)] = raw
	}
	return out
}

type personStat struct {
	MovieCount        int64   `json:"movie_count"`
	TotalRuntimeHours float64 `json:"total_runtime_hours"`
	BirthYear         int     `json:"birth_year,omitempty"`
}

// peopleSummary emits the mapping shape the dashboard's person normalizer
// accepts: name keyed, object valued.
func peopleSummary(s *store.Store, role string, limit int) (json.RawMessage, error) {
	people, err := s.GetTopPeople(role, limit)
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return nil, nil
	}

	out := make(map[string]personStat, len(people))
	for _, p := range people {
		out[p.Name] = personStat{
			MovieCount:        p.Count,
			TotalRuntimeHours: round2(p.RuntimeHours),
			BirthYear:         p.BirthYear,
		}
	}
	return json.Marshal(out)
}

var ratingBins = []struct {
	label string
	low   float64
	high  float64
}{
	{"0-5", 0, 5},
	{"5-6", 5, 6},
	{"6-7", 6, 7},
	{"7-8", 7, 8},
	{"8-9", 8, 9},
	{"9-10", 9, 10.01},
}

func ratingDistribution(movies []movieRow) *insights.RatingSection {
	section := &insights.RatingSection{Distribution: make(map[string]int64)}
	var best *movieRow
	rated := 0

	for i := range movies {
		m := &movies[i]
		if m.IMDbRating <= 0 {
			continue
		}
		rated++
		for _, bin := range ratingBins {
			if m.IMDbRating > bin.low && m.IMDbRating <= bin.high {
				section.Distribution[bin.label]++
				break
			}
		}
		if m.IMDbRating >= 8.0 {
			section.MoviesAbove8++
		}
		if best == nil || m.IMDbRating > best.IMDbRating {
			best = m
		}
	}

	if rated == 0 {
		return nil
	}
	if len(movies) > 0 {
		section.PercentageAbove8 = round2(float64(section.MoviesAbove8) / float64(len(movies)) * 100)
	}
	if best != nil {
		rating := best.IMDbRating
		rm := &insights.RatedMovie{Title: best.Title, Rating: &rating}
		if best.Year > 0 {
			year := best.Year
			rm.Year = &year
		}
		section.HighestRated = rm
	}
	return section
}

func yearlyPattern(movies []movieRow) *insights.PatternSection {
	perYear := make(map[string]int64)
	for _, m := range movies {
		if len(m.WatchedDate) < 4 {
			continue
		}
		year := m.WatchedDate[:4]
		perYear[year]++
	}
	if len(perYear) == 0 {
		return nil
	}

	section := &insights.PatternSection{
		MoviesPerYear:     perYear,
		TotalYearsTracked: len(perYear),
	}

	var bestYear string
	var bestCount int64
	for year, count := range perYear {
		if count > bestCount || (count == bestCount && year > bestYear) {
			bestYear, bestCount = year, count
		}
	}
	var yearNum int
	if _, err := fmt.Sscanf(bestYear, "%d", &yearNum); err == nil {
		section.MostActiveYear = &insights.YearCount{Year: &yearNum, Count: bestCount}
	}
	return section
}

func runtimeHistogram(movies []movieRow) *insights.RuntimeHistogram {
	counts := make([]int64, len(HistogramBins))
	seen := false
	for _, m := range movies {
		if m.RuntimeMins <= 0 {
			continue
		}
		seen = true
		counts[histogramIndex(m.RuntimeMins)]++
	}
	if !seen {
		return nil
	}
	return &insights.RuntimeHistogram{
		Bins:   append([]string(nil), HistogramBins...),
		Counts: counts,
	}
}

func histogramIndex(runtimeMins int) int {
	switch {
	case runtimeMins < 60:
		return 0
	case runtimeMins < 90:
		return 1
	case runtimeMins < 120:
		return 2
	case runtimeMins < 150:
		return 3
	case runtimeMins < 180:
		return 4
	case runtimeMins < 240:
		return 5
	default:
		return 6
	}
}

// clusterSummary groups the collection into genre-era clusters: each movie
// is assigned to its primary genre within its decade, and the largest groups
// become the cluster summary.
func clusterSummary(movies []movieRow) *insights.MLInsights {
	if len(movies) < minMoviesForClusters {
		return nil
	}

	sizes := make(map[string]int64)
	total := 0
	for _, m := range movies {
		genres := splitGenres(m.Genres)
		if len(genres) == 0 || m.Year <= 0 {
			continue
		}
		label := fmt.Sprintf("%ds %s", (m.Year/10)*10, genres[0])
		sizes[label]++
		total++
	}
	if total < minMoviesForClusters {
		return nil
	}

	type cluster struct {
		label string
		size  int64
	}
	ranked := make([]cluster, 0, len(sizes))
	for label, size := range sizes {
		ranked = append(ranked, cluster{label, size})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].size != ranked[j].size {
			return ranked[i].size > ranked[j].size
		}
		return ranked[i].label < ranked[j].label
	})

	out := make(map[string]insights.ClusterStat)
	for i, c := range ranked {
		if i >= topClusterCount {
			break
		}
		out[c.label] = insights.ClusterStat{
			Size:       c.size,
			Percentage: round1(float64(c.size) / float64(total) * 100),
		}
	}
	return &insights.MLInsights{Clusters: out}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
