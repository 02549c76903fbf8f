package dashboard

import (
	"bytes"
	"strings"
	"testing"
)

func TestCounterFramesEndExactlyOnTarget(t *testing.T) {
	for _, target := range []float64{0, 1, 42, 215.5, 100000} {
		frames := counterFrames(target, 60)
		if len(frames) != 60 {
			t.Fatalf("expected 60 frames, got %d", len(frames))
		}
		if frames[len(frames)-1] != target {
			t.Errorf("final frame should equal target %f, got %f", target, frames[len(frames)-1])
		}
		prev := 0.0
		for i, f := range frames {
			if f < prev {
				t.Errorf("frames should be monotonic, frame %d went %f -> %f", i, prev, f)
			}
			if f > target {
				t.Errorf("frame %d overshot target: %f > %f", i, f, target)
			}
			prev = f
		}
	}
}

func TestCounterFramesDegenerate(t *testing.T) {
	frames := counterFrames(7, 0)
	if len(frames) != 1 || frames[0] != 7 {
		t.Errorf("expected single-frame sequence ending on target, got %v", frames)
	}
}

func TestBarWidgetScaling(t *testing.T) {
	var out bytes.Buffer
	w := NewBarWidget("test", "Test", []Bar{
		{Label: "big", Value: 40},
		{Label: "small", Value: 1},
		{Label: "zero", Value: 0},
	})
	if err := w.Render(&out); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	// title + three bars
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[1], strings.Repeat("█", barWidth)) {
		t.Errorf("largest bar should fill the full width: %q", lines[1])
	}
	if !strings.Contains(lines[2], "█") {
		t.Errorf("non-zero bar should draw at least one cell: %q", lines[2])
	}
	if strings.Contains(lines[3], "█") {
		t.Errorf("zero bar should draw no cells: %q", lines[3])
	}
}

func TestTableWidgetRendersHeaderAndRows(t *testing.T) {
	var out bytes.Buffer
	w := NewTableWidget("test", "Test Table", []string{"Name", "Count"}, [][]string{
		{"Drama", "40"},
		{"Comedy", "25"},
	})
	if err := w.Render(&out); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, want := range []string{"Name", "Drama", "25"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected table to contain %q:\n%s", want, out.String())
		}
	}
}
