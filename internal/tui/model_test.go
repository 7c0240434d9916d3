package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/lazyreg/internal/config"
	apperrors "github.com/agbru/lazyreg/internal/errors"
	"github.com/agbru/lazyreg/internal/stress"
	"github.com/agbru/lazyreg/internal/sysmon"
)

func testModel(t *testing.T) Model {
	t.Helper()
	cfg := config.AppConfig{Workers: 4, Iterations: 10, Keys: 2, Timeout: time.Minute}
	m := NewModel(context.Background(), cfg, "test", nil)
	t.Cleanup(m.cancel)
	return m
}

func TestModelWindowSize(t *testing.T) {
	m := testModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	got := updated.(Model)

	if got.width != 80 || got.height != 24 {
		t.Errorf("dimensions = %dx%d, want 80x24", got.width, got.height)
	}
	if !strings.Contains(got.View(), "Lazy Registry Monitor") {
		t.Error("View() missing title after sizing")
	}
}

func TestModelViewBeforeSizing(t *testing.T) {
	m := testModel(t)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q before sizing", got)
	}
}

func TestModelRunComplete(t *testing.T) {
	m := testModel(t)

	t.Run("success", func(t *testing.T) {
		updated, _ := m.Update(RunCompleteMsg{Result: stress.Result{}, Generation: 0})
		got := updated.(Model)
		if !got.done {
			t.Error("model not done after RunCompleteMsg")
		}
		if got.exitCode != apperrors.ExitSuccess {
			t.Errorf("exitCode = %d, want %d", got.exitCode, apperrors.ExitSuccess)
		}
	})

	t.Run("verification failure", func(t *testing.T) {
		err := apperrors.VerificationError{Invariant: "uniqueness", Detail: "dup"}
		updated, _ := m.Update(RunCompleteMsg{Err: err, Generation: 0})
		got := updated.(Model)
		if got.exitCode != apperrors.ExitErrorVerification {
			t.Errorf("exitCode = %d, want %d", got.exitCode, apperrors.ExitErrorVerification)
		}
	})

	t.Run("stale generation ignored", func(t *testing.T) {
		updated, _ := m.Update(RunCompleteMsg{Err: errors.New("old"), Generation: 99})
		got := updated.(Model)
		if got.done {
			t.Error("stale RunCompleteMsg should be ignored")
		}
	})
}

func TestModelQuitKey(t *testing.T) {
	m := testModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit key returned no command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("quit key command = %v, want tea.Quit", msg)
	}

	select {
	case <-m.ctx.Done():
	case <-time.After(time.Second):
		t.Error("quit did not cancel the run context")
	}
}

func TestModelRestartKey(t *testing.T) {
	m := testModel(t)

	t.Run("ignored while running", func(t *testing.T) {
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
		got := updated.(Model)
		if cmd != nil || got.generation != 0 {
			t.Error("restart should be a no-op while the run is active")
		}
	})

	t.Run("restarts after completion", func(t *testing.T) {
		updated, _ := m.Update(RunCompleteMsg{Generation: 0})
		doneModel := updated.(Model)

		restarted, cmd := doneModel.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
		got := restarted.(Model)
		defer got.cancel()

		if got.generation != 1 {
			t.Errorf("generation = %d, want 1", got.generation)
		}
		if got.done {
			t.Error("model still done after restart")
		}
		if cmd == nil {
			t.Error("restart returned no command batch")
		}
	})

	t.Run("cancels the previous run context", func(t *testing.T) {
		m := testModel(t)
		updated, _ := m.Update(RunCompleteMsg{Generation: 0})
		doneModel := updated.(Model)
		prevCtx := doneModel.ctx

		restarted, _ := doneModel.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
		got := restarted.(Model)
		defer got.cancel()

		select {
		case <-prevCtx.Done():
		case <-time.After(time.Second):
			t.Error("previous run context still live after restart")
		}
		select {
		case <-got.ctx.Done():
			t.Error("new run context cancelled at start")
		default:
		}
	})
}

func TestModelTickRefreshesCounters(t *testing.T) {
	m := testModel(t)
	m.track.Gets.Store(123)

	updated, cmd := m.Update(TickMsg(time.Now()))
	got := updated.(Model)

	if got.counters.snap.Gets != 123 {
		t.Errorf("counters Gets = %d, want 123", got.counters.snap.Gets)
	}
	if cmd == nil {
		t.Error("tick should schedule the next refresh while running")
	}
}

// TestModelSharedSamplerFedByTick verifies the system panel samples go
// through the sampler handed to NewModel, so the same readings reach the
// gauge collector.
func TestModelSharedSamplerFedByTick(t *testing.T) {
	sampler := sysmon.NewSampler(10, nil)
	cfg := config.AppConfig{Workers: 1, Iterations: 1, Keys: 1, Timeout: time.Minute}
	m := NewModel(context.Background(), cfg, "test", sampler)
	t.Cleanup(m.cancel)

	cmd := sampleSysStatsCmd(m.sampler)
	msg, ok := cmd().(SysStatsMsg)
	if !ok {
		t.Fatal("sampling command did not produce a SysStatsMsg")
	}

	history := sampler.History()
	if len(history) != 1 {
		t.Fatalf("sampler history length = %d, want 1", len(history))
	}
	if history[0].CPUPercent != msg.CPUPercent || history[0].MemPercent != msg.MemPercent {
		t.Errorf("sampler recorded %+v, message carried %+v", history[0], msg)
	}
}

func TestModelSysStats(t *testing.T) {
	m := testModel(t)
	m.system.SetWidth(40)

	updated, _ := m.Update(SysStatsMsg{CPUPercent: 42.5, MemPercent: 61.0})
	got := updated.(Model)

	if got.system.cpu.Last() != 42.5 {
		t.Errorf("cpu sample = %f, want 42.5", got.system.cpu.Last())
	}
	if got.system.mem.Last() != 61.0 {
		t.Errorf("mem sample = %f, want 61.0", got.system.mem.Last())
	}
}
