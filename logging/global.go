package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/agbru/lazyreg/lazy"
	"github.com/rs/zerolog"
)

// Config controls how the process-wide logger is constructed on first use.
type Config struct {
	// Writer receives log output. Takes precedence over OutputPath.
	Writer io.Writer
	// OutputPath is a file to append log output to. Opened on first
	// Global() call; open failures surface to that caller and are retried
	// on the next call.
	OutputPath string
	// Component tags every log line. Defaults to "lazyreg".
	Component string
	// Debug lowers the level threshold to debug.
	Debug bool
}

var (
	globalCell lazy.Cell[Logger]

	configMu     sync.RWMutex
	globalConfig Config
)

// Configure sets the configuration used when the process-wide logger is
// first constructed. It has no effect once the logger has been built;
// callers that need deterministic configuration call Configure before the
// first Global().
func Configure(cfg Config) {
	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
}

// Global returns the process-wide logger, constructing it on first call.
//
// All callers, before or after the first, observe the identical instance.
// If construction fails (for example the configured output file cannot be
// opened) the error is returned to the triggering caller, no instance is
// published, and a subsequent call retries.
func Global() (Logger, error) {
	return globalCell.Get(buildGlobal)
}

// MustGlobal is Global for call sites that cannot handle a construction
// failure; it panics instead of returning the error.
func MustGlobal() Logger {
	return globalCell.MustGet(buildGlobal)
}

// buildGlobal constructs the shared logger from the current configuration.
func buildGlobal() (Logger, error) {
	configMu.RLock()
	cfg := globalConfig
	configMu.RUnlock()

	component := cfg.Component
	if component == "" {
		component = "lazyreg"
	}

	w := cfg.Writer
	if w == nil {
		if cfg.OutputPath != "" {
			f, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("logging: open output %q: %w", cfg.OutputPath, err)
			}
			w = f
		} else {
			w = os.Stderr
		}
	}

	adapter := NewLogger(w, component)
	if !cfg.Debug {
		adapter.logger = adapter.logger.Level(zerolog.InfoLevel)
	}
	return adapter, nil
}
