// Package config handles command-line and environment configuration for
// the lazyreg command. Priority: CLI flags > environment variables >
// defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/lazyreg/internal/errors"
)

// EnvPrefix is prepended to every environment variable read by this
// package.
const EnvPrefix = "LAZYREG_"

// Recognized report sink kinds.
const (
	SinkStdout = "stdout"
	SinkStderr = "stderr"
	SinkFile   = "file"
	SinkBuffer = "buffer"
)

// Default values for the stress run.
const (
	DefaultWorkers    = 100
	DefaultIterations = 1000
	DefaultKeys       = 4
	DefaultTimeout    = 30 * time.Second
	DefaultSink       = SinkStdout
)

// AppConfig holds the resolved configuration for a lazyreg run.
type AppConfig struct {
	// Workers is the number of concurrent callers hammering the store.
	Workers int
	// Iterations is the number of Get calls per worker.
	Iterations int
	// Keys is the number of distinct resource keys under test.
	Keys int
	// Failures is the number of injected leading construction failures
	// per key, exercising the retry path.
	Failures int
	// Timeout bounds the whole run.
	Timeout time.Duration
	// Sink selects the report sink kind: stdout, stderr, file or buffer.
	Sink string
	// SinkPath is the output file when Sink is "file".
	SinkPath string
	// Output writes a copy of the run summary to this file when set.
	Output string
	// MetricsAddr serves Prometheus metrics on this address when set
	// (e.g. ":9090").
	MetricsAddr string
	// TUI launches the interactive dashboard.
	TUI bool
	// Verbose enables debug logging.
	Verbose bool
	// Quiet suppresses progress display.
	Quiet bool
}

// ParseConfig parses command-line arguments into an AppConfig, applying
// environment variable overrides for flags not explicitly set.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{
		Workers:    DefaultWorkers,
		Iterations: DefaultIterations,
		Keys:       DefaultKeys,
		Timeout:    DefaultTimeout,
		Sink:       DefaultSink,
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of concurrent callers")
	fs.IntVar(&cfg.Iterations, "iterations", cfg.Iterations, "Get calls per worker")
	fs.IntVar(&cfg.Keys, "keys", cfg.Keys, "distinct resource keys under test")
	fs.IntVar(&cfg.Failures, "failures", cfg.Failures, "injected leading construction failures per key")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "run timeout")
	fs.StringVar(&cfg.Sink, "sink", cfg.Sink, "report sink: stdout, stderr, file or buffer")
	fs.StringVar(&cfg.SinkPath, "sink-path", cfg.SinkPath, "output file for -sink=file")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "write the run summary to this file")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address")
	fs.BoolVar(&cfg.TUI, "tui", cfg.TUI, "launch the interactive dashboard")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "enable debug logging")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable debug logging")
	fs.BoolVar(&cfg.Quiet, "q", cfg.Quiet, "suppress progress display")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "suppress progress display")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)

	if err := validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// validate rejects configurations that cannot produce a meaningful run.
func validate(cfg AppConfig) error {
	if cfg.Workers <= 0 {
		return apperrors.ValidationError{Field: "workers", Message: "must be positive"}
	}
	if cfg.Iterations <= 0 {
		return apperrors.ValidationError{Field: "iterations", Message: "must be positive"}
	}
	if cfg.Keys <= 0 {
		return apperrors.ValidationError{Field: "keys", Message: "must be positive"}
	}
	if cfg.Failures < 0 {
		return apperrors.ValidationError{Field: "failures", Message: "cannot be negative"}
	}
	if cfg.Timeout <= 0 {
		return apperrors.ValidationError{Field: "timeout", Message: "must be positive"}
	}
	switch cfg.Sink {
	case SinkStdout, SinkStderr, SinkBuffer:
	case SinkFile:
		if cfg.SinkPath == "" {
			return apperrors.NewConfigError("-sink=file requires -sink-path")
		}
	default:
		return apperrors.NewConfigError("unknown sink %q (want stdout, stderr, file or buffer)", cfg.Sink)
	}
	if cfg.TUI && cfg.Quiet {
		return apperrors.NewConfigError("-tui and -quiet are mutually exclusive")
	}
	return nil
}

// Summary returns a one-line description of the run parameters.
func (c AppConfig) Summary() string {
	return fmt.Sprintf("workers=%d iterations=%d keys=%d failures=%d timeout=%s sink=%s",
		c.Workers, c.Iterations, c.Keys, c.Failures, c.Timeout, c.Sink)
}
