package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/lazyreg/internal/format"
	"github.com/agbru/lazyreg/internal/stress"
)

// DisplayProgress renders a spinner with a live progress bar while a stress
// run executes. It samples the tracker at ProgressRefreshRate until the done
// channel is closed, then performs a final update and stops the spinner.
//
// Parameters:
//   - done: Closed by the caller when the run completes.
//   - track: Live counters of the run in progress.
//   - total: The expected total number of Get calls.
//   - out: The writer the spinner renders to.
func DisplayProgress(done <-chan struct{}, track *stress.Tracker, total int64, out io.Writer) {
	sp := newSpinner(spinner.WithWriter(out))
	sp.Start()
	defer sp.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			sp.UpdateSuffix(formatProgressSuffix(track.Snapshot(), total))
			return
		case <-ticker.C:
			sp.UpdateSuffix(formatProgressSuffix(track.Snapshot(), total))
		}
	}
}

// formatProgressSuffix builds the spinner suffix from a tracker snapshot.
func formatProgressSuffix(snap stress.Snapshot, total int64) string {
	var ratio float64
	if total > 0 {
		ratio = float64(snap.Gets) / float64(total)
	}
	suffix := fmt.Sprintf(" [%s] %5.1f%% | %s gets",
		progressBar(ratio, ProgressBarWidth),
		ratio*100,
		format.FormatCount(snap.Gets))
	if snap.Failures > 0 {
		suffix += fmt.Sprintf(" | %s retried failures", format.FormatCount(snap.Failures))
	}
	return suffix
}
