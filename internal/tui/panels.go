package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/lazyreg/internal/format"
	"github.com/agbru/lazyreg/internal/stress"
)

// CountersModel renders the live run counters panel.
type CountersModel struct {
	snap     stress.Snapshot
	expected int64
	rate     float64
	width    int
}

// NewCountersModel creates a counters panel expecting the given number of
// constructions.
func NewCountersModel(expected int64) CountersModel {
	return CountersModel{expected: expected}
}

// SetWidth updates the available width.
func (c *CountersModel) SetWidth(w int) { c.width = w }

// Update replaces the displayed snapshot.
func (c *CountersModel) Update(snap stress.Snapshot, rate float64) {
	c.snap = snap
	c.rate = rate
}

// Reset clears the counters.
func (c *CountersModel) Reset() {
	c.snap = stress.Snapshot{}
	c.rate = 0
}

// View renders the counters panel.
func (c CountersModel) View() string {
	rows := []string{
		metricRow("Get calls", metricValueStyle.Render(format.FormatCount(c.snap.Gets))),
		metricRow("Constructions", c.constructionCell()),
		metricRow("Retried failures", metricWarnStyle.Render(format.FormatCount(c.snap.Failures))),
		metricRow("Throughput", metricValueStyle.Render(format.FormatRate(c.rate))),
	}
	if c.snap.Violations > 0 {
		rows = append(rows, metricRow("Violations",
			metricErrorStyle.Render(format.FormatCount(c.snap.Violations))))
	}

	content := strings.Join(rows, "\n")
	return panelStyle.Width(c.innerWidth()).Render(content)
}

func (c CountersModel) constructionCell() string {
	cell := fmt.Sprintf("%s / %s",
		format.FormatCount(c.snap.Constructions),
		format.FormatCount(c.expected))
	if c.snap.Constructions > c.expected {
		return metricErrorStyle.Render(cell)
	}
	return metricValueStyle.Render(cell)
}

func (c CountersModel) innerWidth() int {
	w := c.width - 2
	if w < 20 {
		w = 20
	}
	return w
}

// metricRow renders a label/value pair as a fixed-width row.
func metricRow(label, value string) string {
	return fmt.Sprintf("%s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-17s", label)),
		value)
}

// SystemModel renders CPU and memory sparklines.
type SystemModel struct {
	cpu   *RingBuffer
	mem   *RingBuffer
	width int
}

// NewSystemModel creates a system panel with the given sample capacity.
func NewSystemModel(capacity int) SystemModel {
	return SystemModel{
		cpu: NewRingBuffer(capacity),
		mem: NewRingBuffer(capacity),
	}
}

// SetWidth updates the available width and resizes the sample buffers so
// the sparklines fill the panel.
func (s *SystemModel) SetWidth(w int) {
	s.width = w
	inner := w - 12
	if inner < 8 {
		inner = 8
	}
	s.cpu.Resize(inner)
	s.mem.Resize(inner)
}

// AddSample appends a CPU and memory reading.
func (s *SystemModel) AddSample(cpuPct, memPct float64) {
	s.cpu.Push(cpuPct)
	s.mem.Push(memPct)
}

// Reset clears the sample history.
func (s *SystemModel) Reset() {
	s.cpu.Reset()
	s.mem.Reset()
}

// View renders the system panel.
func (s SystemModel) View() string {
	cpuRow := fmt.Sprintf("%s %s %s",
		metricLabelStyle.Render("CPU"),
		cpuSparklineStyle.Render(RenderSparkline(s.cpu.Slice())),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", s.cpu.Last())))
	memRow := fmt.Sprintf("%s %s %s",
		metricLabelStyle.Render("MEM"),
		memSparklineStyle.Render(RenderSparkline(s.mem.Slice())),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", s.mem.Last())))

	w := s.width - 2
	if w < 20 {
		w = 20
	}
	return panelStyle.Width(w).Render(cpuRow + "\n" + memRow)
}

// FooterModel renders the bottom bar: status and key hints.
type FooterModel struct {
	width  int
	done   bool
	failed bool
	keymap KeyMap
}

// NewFooterModel creates a footer with the default key bindings.
func NewFooterModel() FooterModel {
	return FooterModel{keymap: DefaultKeyMap()}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) { f.width = w }

// SetDone marks the run as finished.
func (f *FooterModel) SetDone(done bool) { f.done = done }

// SetError marks the run as failed.
func (f *FooterModel) SetError(failed bool) { f.failed = failed }

// View renders the footer.
func (f FooterModel) View() string {
	var status string
	switch {
	case f.failed:
		status = statusErrorStyle.Render("● FAILED")
	case f.done:
		status = statusDoneStyle.Render("● DONE")
	default:
		status = statusRunningStyle.Render("● RUNNING")
	}

	hints := []string{
		footerKeyStyle.Render(f.keymap.Restart.Help().Key) + " " +
			footerDescStyle.Render(f.keymap.Restart.Help().Desc),
		footerKeyStyle.Render(f.keymap.Quit.Help().Key) + " " +
			footerDescStyle.Render(f.keymap.Quit.Help().Desc),
	}

	row := status + "  " + strings.Join(hints, "  ")
	gap := f.width - lipgloss.Width(row)
	if gap < 0 {
		gap = 0
	}
	return row + spaces(gap)
}
