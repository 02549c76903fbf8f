package dashboard

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/louiseluli/cinema-tools/internal/insights"
)

func testPayload() *insights.Payload {
	avg := 7.4
	span := 85
	return &insights.Payload{
		BasicStats: &insights.BasicStats{
			TotalMovies:       120,
			TotalRuntimeHours: 215.5,
			AvgRating:         &avg,
			YearRange:         &insights.YearRange{Span: &span},
		},
		Genres: &insights.GenreSection{
			Distribution: map[string]int64{"Drama": 40, "Comedy": 25, "Horror": 10},
		},
		Decades: map[string]json.RawMessage{
			"1990": json.RawMessage(`{"count": 30}`),
			"2000": json.RawMessage(`55`),
		},
		Directors: json.RawMessage(`{"Greta Gerwig": 4, "Bong Joon-ho": 6}`),
		Actors:    json.RawMessage(`{"Tilda Swinton": 9}`),
		MLInsights: &insights.MLInsights{
			Clusters: map[string]insights.ClusterStat{
				"90s Drama": {Size: 22, Percentage: 18.3},
			},
		},
		GraphData: &insights.GraphData{
			RuntimeHistogram: &insights.RuntimeHistogram{
				Bins:   []string{"<60", "90-119", "120-149"},
				Counts: []int64{2, 60, 40},
			},
		},
	}
}

func TestRenderAllSections(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, WithErrorLog(io.Discard))

	if failed := r.Render(testPayload()); failed != 0 {
		t.Fatalf("expected no failed sections, got %d", failed)
	}

	rendered := out.String()
	for _, want := range []string{
		"Movies watched: 120",
		"Total runtime (hours): 215.5",
		"Years spanned: 85",
		"Drama",
		"1990s",
		"Bong Joon-ho",
		"Tilda Swinton",
		"90s Drama",
		"90-119",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("expected output to contain %q\n%s", want, rendered)
		}
	}
}

func TestRenderPeopleShowsBirthYear(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, WithErrorLog(io.Discard), WithSections(SectionDirectors))

	payload := testPayload()
	payload.Directors = json.RawMessage(`{"Frank Darabont": {"movie_count": 2, "total_runtime_hours": 4.0, "birth_year": 1959}}`)

	if failed := r.Render(payload); failed != 0 {
		t.Fatalf("expected no failed sections, got %d", failed)
	}
	for _, want := range []string{"Born", "1959"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected directors table to contain %q:\n%s", want, out.String())
		}
	}
}

func TestRenderTwiceKeepsWidgetCountConstant(t *testing.T) {
	r := NewRenderer(io.Discard, WithErrorLog(io.Discard))
	payload := testPayload()

	r.Render(payload)
	first := r.WidgetCount()
	if first == 0 {
		t.Fatalf("expected widgets after first render")
	}

	r.Render(payload)
	if r.WidgetCount() != first {
		t.Errorf("widget count changed across renders: %d then %d", first, r.WidgetCount())
	}
}

func TestRenderSkipsMissingSections(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, WithErrorLog(io.Discard))

	payload := testPayload()
	payload.GraphData.RuntimeHistogram.Counts = nil

	if failed := r.Render(payload); failed != 0 {
		t.Fatalf("expected skipped histogram, not a failure, got %d failures", failed)
	}
	if strings.Contains(out.String(), "Runtime Distribution") {
		t.Errorf("histogram should have been skipped:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Top Genres") {
		t.Errorf("other sections should be unaffected:\n%s", out.String())
	}
}

func TestRenderEmptyClustersShowsPlaceholder(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, WithErrorLog(io.Discard))

	payload := testPayload()
	payload.MLInsights = &insights.MLInsights{}

	r.Render(payload)
	if !strings.Contains(out.String(), "Not enough data") {
		t.Errorf("expected cluster placeholder:\n%s", out.String())
	}
}

func TestRendererSectionFilter(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, WithErrorLog(io.Discard), WithSections(SectionGenres))

	r.Render(testPayload())
	if !strings.Contains(out.String(), "Top Genres") {
		t.Errorf("expected enabled section to render")
	}
	if strings.Contains(out.String(), "Movies watched") {
		t.Errorf("disabled section should be skipped:\n%s", out.String())
	}
	if r.WidgetCount() != 1 {
		t.Errorf("expected a single widget, got %d", r.WidgetCount())
	}
}

func TestRenderErrorListsCandidates(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out)

	r.RenderError(&insights.DataUnavailable{
		Candidates: []string{"data/cinema_insights.json", "pages/cinema_insights.json"},
	})

	for _, want := range []string{"data/cinema_insights.json", "pages/cinema_insights.json"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected error panel to list %q:\n%s", want, out.String())
		}
	}
}

func TestCloseEmptiesRegistry(t *testing.T) {
	r := NewRenderer(io.Discard, WithErrorLog(io.Discard))
	r.Render(testPayload())
	r.Close()
	if r.WidgetCount() != 0 {
		t.Errorf("expected empty registry after Close, got %d", r.WidgetCount())
	}
}
