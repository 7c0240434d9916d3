package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/lazyreg/internal/config"
	apperrors "github.com/agbru/lazyreg/internal/errors"
	"github.com/agbru/lazyreg/internal/stress"
	"github.com/agbru/lazyreg/internal/sysmon"
)

// tickInterval is the refresh period for live counters and system stats.
const tickInterval = 500 * time.Millisecond

// TickMsg triggers a periodic refresh.
type TickMsg time.Time

// RunCompleteMsg carries the outcome of a finished stress run.
type RunCompleteMsg struct {
	Result     stress.Result
	Err        error
	Generation uint64
}

// SysStatsMsg carries a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// ContextCancelledMsg signals that the run context was cancelled.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
}

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header   HeaderModel
	counters CountersModel
	system   SystemModel
	footer   FooterModel

	keymap KeyMap

	ExecutionState

	parentCtx context.Context
	cfg       config.AppConfig
	track     *stress.Tracker
	sampler   *sysmon.Sampler

	width  int
	height int

	lastGets int64
	lastTick time.Time
}

// NewModel creates a new TUI model. The sampler feeds the system panel;
// a nil sampler gets a private one with no gauge publication.
func NewModel(parentCtx context.Context, cfg config.AppConfig, version string, sampler *sysmon.Sampler) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	if sampler == nil {
		sampler = sysmon.NewSampler(60, nil)
	}

	return Model{
		header:   NewHeaderModel(version),
		counters: NewCountersModel(int64(cfg.Keys)),
		system:   NewSystemModel(60),
		footer:   NewFooterModel(),
		keymap:   DefaultKeyMap(),
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		cfg:       cfg,
		track:     &stress.Tracker{},
		sampler:   sampler,
		lastTick:  time.Now(),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRunCmd(m.ctx, m.cfg, m.track, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case TickMsg:
		m.refreshCounters()
		if m.done {
			return m, nil
		}
		return m, tea.Batch(sampleSysStatsCmd(m.sampler), tickCmd())

	case SysStatsMsg:
		m.system.AddSample(msg.CPUPercent, msg.MemPercent)
		return m, nil

	case RunCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale message from a previous run
		}
		m.done = true
		m.exitCode = apperrors.ExitCodeFor(msg.Err)
		m.refreshCounters()
		m.header.SetDone()
		m.footer.SetDone(true)
		m.footer.SetError(msg.Err != nil)
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.header.SetDone()
		m.footer.SetDone(true)
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Restart):
		if !m.done {
			return m, nil
		}

		// Release the previous run's context watcher before starting the
		// next generation.
		if m.cancel != nil {
			m.cancel()
		}

		// New context and tracker for the restarted run
		m.generation++
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.ctx = ctx
		m.cancel = cancel
		m.track = &stress.Tracker{}

		m.header.Reset()
		m.counters.Reset()
		m.system.Reset()
		m.footer.SetDone(false)
		m.footer.SetError(false)
		m.done = false
		m.exitCode = apperrors.ExitSuccess
		m.lastGets = 0
		m.lastTick = time.Now()

		return m, tea.Batch(
			tickCmd(),
			startRunCmd(m.ctx, m.cfg, m.track, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)
	}

	return m, nil
}

// refreshCounters updates the counters panel from the live tracker and
// computes the throughput over the last refresh interval.
func (m *Model) refreshCounters() {
	snap := m.track.Snapshot()

	now := time.Now()
	elapsed := now.Sub(m.lastTick).Seconds()
	var rate float64
	if elapsed > 0 {
		rate = float64(snap.Gets-m.lastGets) / elapsed
	}
	m.lastGets = snap.Gets
	m.lastTick = now

	m.counters.Update(snap, rate)
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.counters.View(),
		m.system.View(),
		m.footer.View(),
	)
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.counters.SetWidth(m.width)
	m.system.SetWidth(m.width)
	m.footer.SetWidth(m.width)
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, cfg config.AppConfig, version string, sampler *sysmon.Sampler) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, cfg, version, sampler)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startRunCmd returns a tea.Cmd that launches the stress run.
func startRunCmd(ctx context.Context, cfg config.AppConfig, track *stress.Tracker, gen uint64) tea.Cmd {
	return func() tea.Msg {
		opts := stress.Options{
			Workers:    cfg.Workers,
			Iterations: cfg.Iterations,
			Keys:       cfg.Keys,
			Failures:   cfg.Failures,
		}
		result, err := stress.Run(ctx, opts, track)
		return RunCompleteMsg{Result: result, Err: err, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after the tick interval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleSysStatsCmd reads system-wide CPU and memory stats through the
// shared sampler and returns a SysStatsMsg.
func sampleSysStatsCmd(sampler *sysmon.Sampler) tea.Cmd {
	return func() tea.Msg {
		s := sampler.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
