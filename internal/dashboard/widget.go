package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Widget is one dashboard section's visual. Widgets hold rendering state
// (chart rows, counter targets), so a widget being replaced must be closed
// before its successor is registered.
type Widget interface {
	Name() string
	Render(out io.Writer) error
	Close()
}

// CounterWidget shows headline numbers. The values step up to their targets
// when rendered; the final frame always equals the target exactly.
type CounterWidget struct {
	name     string
	title    string
	counters []Counter
}

type Counter struct {
	Label  string
	Target float64
	// Integer counters render without decimals.
	Integer bool
}

func NewCounterWidget(name, title string, counters []Counter) *CounterWidget {
	return &CounterWidget{name: name, title: title, counters: counters}
}

func (c *CounterWidget) Name() string { return c.name }

// counterSteps is how many interpolation frames a counter steps through.
const counterSteps = 60

func (c *CounterWidget) Render(out io.Writer) error {
	fmt.Fprintf(out, "## %s\n", c.title)
	for _, counter := range c.counters {
		// A terminal render has no animation loop, so only the final
		// frame is drawn. The sequence still ends exactly on target.
		frames := counterFrames(counter.Target, counterSteps)
		value := frames[len(frames)-1]
		if counter.Integer {
			fmt.Fprintf(out, "%s: %d\n", counter.Label, int64(value))
		} else {
			fmt.Fprintf(out, "%s: %.1f\n", counter.Label, value)
		}
	}
	fmt.Fprintln(out)
	return nil
}

func (c *CounterWidget) Close() {}

// counterFrames is the interpolation sequence a counter steps through. It is
// linear, monotonic, never overshoots, and its last element is the target.
func counterFrames(target float64, frames int) []float64 {
	if frames < 1 {
		frames = 1
	}
	seq := make([]float64, frames)
	for i := 0; i < frames-1; i++ {
		seq[i] = target * float64(i+1) / float64(frames)
	}
	seq[frames-1] = target
	return seq
}

// TableWidget renders rows with tablewriter.
type TableWidget struct {
	name   string
	title  string
	header []string
	rows   [][]string
}

func NewTableWidget(name, title string, header []string, rows [][]string) *TableWidget {
	return &TableWidget{name: name, title: title, header: header, rows: rows}
}

func (t *TableWidget) Name() string { return t.name }

func (t *TableWidget) Render(out io.Writer) error {
	fmt.Fprintf(out, "## %s\n", t.title)
	table := tablewriter.NewWriter(out)
	table.Header(t.header)
	for _, row := range t.rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("appending row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	fmt.Fprintln(out)
	return nil
}

func (t *TableWidget) Close() {
	t.rows = nil
}

// BarWidget renders a horizontal bar chart, scaled to barWidth columns.
type BarWidget struct {
	name  string
	title string
	bars  []Bar
}

type Bar struct {
	Label string
	Value int64
}

const barWidth = 40

func NewBarWidget(name, title string, bars []Bar) *BarWidget {
	return &BarWidget{name: name, title: title, bars: bars}
}

func (b *BarWidget) Name() string { return b.name }

func (b *BarWidget) Render(out io.Writer) error {
	fmt.Fprintf(out, "## %s\n", b.title)

	var max int64
	labelWidth := 0
	for _, bar := range b.bars {
		if bar.Value > max {
			max = bar.Value
		}
		if len(bar.Label) > labelWidth {
			labelWidth = len(bar.Label)
		}
	}

	for _, bar := range b.bars {
		length := 0
		if max > 0 {
			length = int(bar.Value * barWidth / max)
		}
		if bar.Value > 0 && length == 0 {
			length = 1
		}
		fmt.Fprintf(out, "%-*s %s %d\n", labelWidth, bar.Label, strings.Repeat("█", length), bar.Value)
	}
	fmt.Fprintln(out)
	return nil
}

func (b *BarWidget) Close() {
	b.bars = nil
}

// MessageWidget is the placeholder used when a section has nothing
// meaningful to chart but should still say so.
type MessageWidget struct {
	name    string
	title   string
	message string
}

func NewMessageWidget(name, title, message string) *MessageWidget {
	return &MessageWidget{name: name, title: title, message: message}
}

func (m *MessageWidget) Name() string { return m.name }

func (m *MessageWidget) Render(out io.Writer) error {
	fmt.Fprintf(out, "## %s\n%s\n\n", m.title, m.message)
	return nil
}

func (m *MessageWidget) Close() {}
