package dashboard

import (
	"fmt"
	"strconv"

	"github.com/louiseluli/cinema-tools/internal/insights"
)

// buildWidget normalizes one section of the payload and builds its widget.
// A nil return means the section has nothing to render.
func buildWidget(name string, payload *insights.Payload) Widget {
	switch name {
	case SectionSummary:
		return buildSummary(payload.BasicStats)
	case SectionGenres:
		return buildGenres(insights.NormalizeGenres(payload.Genres))
	case SectionDecades:
		return buildDecades(insights.NormalizeDecades(payload.Decades))
	case SectionDirectors:
		people := insights.NormalizePeople(payload.Directors, insights.PersonDisplayLimit)
		return buildPeople(SectionDirectors, "Most Watched Directors", people)
	case SectionActors:
		people := insights.NormalizePeople(payload.Actors, insights.PersonDisplayLimit)
		return buildPeople(SectionActors, "Most Watched Actors", people)
	case SectionClusters:
		return buildClusters(insights.NormalizeClusters(payload.MLInsights))
	case SectionHistogram:
		return buildHistogram(insights.NormalizeHistogram(payload.GraphData))
	}
	return nil
}

func buildSummary(stats *insights.BasicStats) Widget {
	if stats == nil {
		return nil
	}

	counters := []Counter{
		{Label: "Movies watched", Target: float64(stats.TotalMovies), Integer: true},
		{Label: "Total runtime (hours)", Target: stats.TotalRuntimeHours},
	}
	if stats.YearRange != nil && stats.YearRange.Span != nil {
		counters = append(counters, Counter{
			Label:   "Years spanned",
			Target:  float64(*stats.YearRange.Span),
			Integer: true,
		})
	}
	if stats.AvgRating != nil {
		counters = append(counters, Counter{Label: "Average rating", Target: *stats.AvgRating})
	}
	return NewCounterWidget(SectionSummary, "Collection", counters)
}

func buildGenres(genres []insights.GenreCount) Widget {
	if genres == nil {
		return nil
	}
	rows := make([][]string, 0, len(genres))
	for _, g := range genres {
		rows = append(rows, []string{g.Genre, strconv.FormatInt(g.Count, 10)})
	}
	return NewTableWidget(SectionGenres, "Top Genres", []string{"Genre", "Movies"}, rows)
}

func buildDecades(decades []insights.DecadeCount) Widget {
	if decades == nil {
		return nil
	}
	bars := make([]Bar, 0, len(decades))
	for _, d := range decades {
		bars = append(bars, Bar{Label: fmt.Sprintf("%ds", d.Decade), Value: d.Count})
	}
	return NewBarWidget(SectionDecades, "Movies by Decade", bars)
}

func buildPeople(section, title string, people []insights.PersonEntry) Widget {
	if people == nil {
		return nil
	}
	rows := make([][]string, 0, len(people))
	for _, p := range people {
		hours := ""
		if p.RuntimeHours > 0 {
			hours = fmt.Sprintf("%.1f", p.RuntimeHours)
		}
		born := ""
		if p.BirthYear > 0 {
			born = strconv.Itoa(p.BirthYear)
		}
		rows = append(rows, []string{p.Name, strconv.FormatInt(p.Count, 10), hours, born})
	}
	return NewTableWidget(section, title, []string{"Name", "Movies", "Hours", "Born"}, rows)
}

func buildClusters(clusters []insights.ClusterEntry) Widget {
	if clusters == nil {
		return NewMessageWidget(SectionClusters, "Taste Clusters", "Not enough data to build clusters yet.")
	}
	rows := make([][]string, 0, len(clusters))
	for _, c := range clusters {
		rows = append(rows, []string{
			c.Label,
			strconv.FormatInt(c.Size, 10),
			fmt.Sprintf("%.1f%%", c.Percentage),
		})
	}
	return NewTableWidget(SectionClusters, "Taste Clusters", []string{"Cluster", "Movies", "Share"}, rows)
}

func buildHistogram(h *insights.RuntimeHistogram) Widget {
	if h == nil {
		return nil
	}
	bars := make([]Bar, 0, len(h.Bins))
	for i, bin := range h.Bins {
		bars = append(bars, Bar{Label: bin, Value: h.Counts[i]})
	}
	return NewBarWidget(SectionHistogram, "Runtime Distribution (minutes)", bars)
}
