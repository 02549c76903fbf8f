// Package dashboard renders the analytics payload as a sequence of widgets.
// Each section renders independently: a failure in one never blocks the
// others, and a section whose data is missing is skipped.
package dashboard

import (
	"fmt"
	"io"
	"os"

	"github.com/louiseluli/cinema-tools/internal/insights"
)

// Section names, in render order.
const (
	SectionSummary   = "summary"
	SectionGenres    = "genres"
	SectionDecades   = "decades"
	SectionDirectors = "directors"
	SectionActors    = "actors"
	SectionClusters  = "clusters"
	SectionHistogram = "runtime_histogram"
)

var sectionOrder = []string{
	SectionSummary,
	SectionGenres,
	SectionDecades,
	SectionDirectors,
	SectionActors,
	SectionClusters,
	SectionHistogram,
}

// Renderer owns the widget registry. Re-rendering a section closes the old
// widget before registering its replacement, so repeated renders never leak
// widget instances.
type Renderer struct {
	out    io.Writer
	errLog io.Writer

	// Sections enabled on this renderer. A section missing from the set is
	// silently skipped, the way a page without the matching mount point
	// simply doesn't get that widget.
	sections map[string]bool

	widgets map[string]Widget
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSections restricts rendering to the named sections.
func WithSections(names ...string) Option {
	return func(r *Renderer) {
		r.sections = make(map[string]bool)
		for _, n := range names {
			r.sections[n] = true
		}
	}
}

// WithErrorLog redirects per-section error reporting.
func WithErrorLog(w io.Writer) Option {
	return func(r *Renderer) {
		r.errLog = w
	}
}

func NewRenderer(out io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		out:     out,
		errLog:  os.Stderr,
		widgets: make(map[string]Widget),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WidgetCount reports how many widgets are registered.
func (r *Renderer) WidgetCount() int {
	return len(r.widgets)
}

// Render draws every enabled section from the payload. The payload is
// treated as read-only. Errors are reported per section and do not stop the
// render; the returned count is how many sections failed.
func (r *Renderer) Render(payload *insights.Payload) int {
	failed := 0
	for _, name := range sectionOrder {
		if r.sections != nil && !r.sections[name] {
			continue
		}
		if err := r.renderSection(name, payload); err != nil {
			fmt.Fprintf(r.errLog, "rendering %s: %v\n", name, err)
			failed++
		}
	}
	return failed
}

// RenderError draws the error panel shown when no candidate location
// produced a payload.
func (r *Renderer) RenderError(unavailable *insights.DataUnavailable) {
	fmt.Fprintln(r.out, "## Dashboard unavailable")
	fmt.Fprintln(r.out, "No insights data could be loaded. Paths tried:")
	for _, c := range unavailable.Candidates {
		fmt.Fprintf(r.out, "  - %s\n", c)
	}
}

func (r *Renderer) renderSection(name string, payload *insights.Payload) (err error) {
	// Boundary: a panic inside one section's builder or widget must not
	// take down the rest of the dashboard.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	widget := buildWidget(name, payload)
	if widget == nil {
		return nil
	}

	r.register(widget)
	return widget.Render(r.out)
}

// register replaces any widget of the same name, closing the old one first.
func (r *Renderer) register(w Widget) {
	if old, ok := r.widgets[w.Name()]; ok {
		old.Close()
		delete(r.widgets, w.Name())
	}
	r.widgets[w.Name()] = w
}

// Close tears down every registered widget.
func (r *Renderer) Close() {
	for name, w := range r.widgets {
		w.Close()
		delete(r.widgets, name)
	}
}
