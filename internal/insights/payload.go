// Package insights defines the analytics payload produced by the analyze
// command and consumed by the dashboard, along with the loader and the
// per-section normalizers that make the payload safe to render.
package insights

import "encoding/json"

// Payload is the root analytics document. Every section is optional: the
// payload comes from an independently evolving offline step, so consumers
// must treat each field as possibly missing.
type Payload struct {
	BasicStats *BasicStats                `json:"basic_stats,omitempty"`
	Genres     *GenreSection              `json:"genres,omitempty"`
	Decades    map[string]json.RawMessage `json:"decades,omitempty"`
	Directors  json.RawMessage            `json:"directors,omitempty"`
	Actors     json.RawMessage            `json:"actors,omitempty"`
	MLInsights *MLInsights                `json:"ml_insights,omitempty"`
	GraphData  *GraphData                 `json:"graph_data,omitempty"`

	Ratings     *RatingSection  `json:"ratings,omitempty"`
	Patterns    *PatternSection `json:"patterns,omitempty"`
	GeneratedAt string          `json:"generated_at,omitempty"`
}

type BasicStats struct {
	TotalMovies       int64      `json:"total_movies"`
	UniqueMovies      int64      `json:"unique_movies,omitempty"`
	TotalRuntimeMins  float64    `json:"total_runtime_mins,omitempty"`
	TotalRuntimeHours float64    `json:"total_runtime_hours"`
	AvgRating         *float64   `json:"avg_rating,omitempty"`
	AvgRuntime        *float64   `json:"avg_runtime,omitempty"`
	YearRange         *YearRange `json:"year_range,omitempty"`
}

type YearRange struct {
	Earliest *int `json:"earliest"`
	Latest   *int `json:"latest"`
	Span     *int `json:"span"`
}

// GenreSection carries either a pre-limited top-N mapping, a full
// distribution, or both. NormalizeGenres picks whichever is usable.
type GenreSection struct {
	TotalUniqueGenres int              `json:"total_unique_genres,omitempty"`
	TopGenres         map[string]int64 `json:"top_10_genres,omitempty"`
	Distribution      map[string]int64 `json:"genre_distribution,omitempty"`
}

// MLInsights holds the cluster summary. The upstream generator has used two
// field names for the same mapping over time; both are accepted.
type MLInsights struct {
	Clusters       map[string]ClusterStat `json:"clusters,omitempty"`
	ClusterSummary map[string]ClusterStat `json:"cluster_summary,omitempty"`
}

type ClusterStat struct {
	Size       int64   `json:"size"`
	Percentage float64 `json:"percentage"`
}

type GraphData struct {
	RuntimeHistogram *RuntimeHistogram `json:"runtime_histogram,omitempty"`
}

type RuntimeHistogram struct {
	Bins   []string `json:"bins"`
	Counts []int64  `json:"counts"`
}

type RatingSection struct {
	Distribution     map[string]int64 `json:"distribution,omitempty"`
	HighestRated     *RatedMovie      `json:"highest_rated,omitempty"`
	MoviesAbove8     int64            `json:"movies_above_8"`
	PercentageAbove8 float64          `json:"percentage_above_8"`
}

type RatedMovie struct {
	Title  string   `json:"title"`
	Rating *float64 `json:"rating"`
	Year   *int     `json:"year"`
}

type PatternSection struct {
	MoviesPerYear     map[string]int64 `json:"movies_per_year,omitempty"`
	MostActiveYear    *YearCount       `json:"most_active_year,omitempty"`
	TotalYearsTracked int              `json:"total_years_tracked"`
}

type YearCount struct {
	Year  *int  `json:"year"`
	Count int64 `json:"count"`
}

// Canonical section shapes, produced by the normalizers. Constructed fresh
// per render pass and never mutated afterwards.

type GenreCount struct {
	Genre string
	Count int64
}

type DecadeCount struct {
	Decade int
	Count  int64
}

// PersonEntry is a director or actor row.
type PersonEntry struct {
	Name         string
	Count        int64
	RuntimeHours float64
	BirthYear    int
}

type ClusterEntry struct {
	Label      string
	Size       int64
	Percentage float64
}
