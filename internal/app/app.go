// Package app wires configuration, logging, metrics and the run modes
// into the lazyreg application.
package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/lazyreg/internal/config"
	"github.com/agbru/lazyreg/internal/sysmon"
	"github.com/agbru/lazyreg/internal/tui"
	"github.com/agbru/lazyreg/internal/ui"
	"github.com/agbru/lazyreg/logging"
	"github.com/agbru/lazyreg/metrics"
)

// Application represents the lazyreg application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	// collector overrides the metrics collector chosen from the config.
	// Used by tests.
	collector metrics.Collector
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithCollector sets a custom metrics collector for the application.
func WithCollector(col metrics.Collector) AppOption {
	return func(a *Application) { a.collector = col }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}

	programName := "lazyreg"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logging.Configure(logging.Config{Component: "lazyreg", Debug: a.Config.Verbose})
	ui.InitTheme(false)

	// Lifecycle: timeout + signals
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	col, shutdown := a.metricsCollector()
	defer shutdown()

	sampler := sysmon.NewSampler(sysmonHistory, col)

	if a.Config.TUI {
		return tui.Run(ctx, a.Config, ResolveVersion(), sampler)
	}

	// Without the TUI tick driving the sampler, feed the gauges from a
	// background loop while the metrics endpoint is up.
	if a.Config.MetricsAddr != "" {
		stop := startSampling(ctx, sampler, samplePeriod)
		defer stop()
	}

	return a.runStress(ctx, out, col)
}

// sysmonHistory is the number of retained system samples, one sparkline
// column per sample.
const sysmonHistory = 60

// samplePeriod is the gauge refresh period outside the TUI.
const samplePeriod = 2 * time.Second

// startSampling publishes system usage gauges until ctx is done or the
// returned stop function is called.
func startSampling(ctx context.Context, s *sysmon.Sampler, period time.Duration) func() {
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-t.C:
				s.Sample()
			}
		}
	}()
	return func() { close(done) }
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
