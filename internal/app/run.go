package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/lazyreg/internal/cli"
	"github.com/agbru/lazyreg/internal/config"
	apperrors "github.com/agbru/lazyreg/internal/errors"
	"github.com/agbru/lazyreg/internal/stress"
	"github.com/agbru/lazyreg/logging"
	"github.com/agbru/lazyreg/metrics"
	"github.com/agbru/lazyreg/registry"
	"github.com/agbru/lazyreg/sink"
)

// runStress orchestrates the execution of the CLI stress command.
func (a *Application) runStress(ctx context.Context, out io.Writer, col metrics.Collector) int {
	log, err := logging.Global()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.Quiet {
		fmt.Fprintf(out, "Stress run: %s\n", a.Config.Summary())
	}

	track := &stress.Tracker{}
	total := int64(a.Config.Workers) * int64(a.Config.Iterations)

	// Progress display runs alongside the stress workers unless quiet.
	done := make(chan struct{})
	var wg sync.WaitGroup
	if !a.Config.Quiet {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cli.DisplayProgress(done, track, total, out)
		}()
	}

	opts := stress.Options{
		Workers:    a.Config.Workers,
		Iterations: a.Config.Iterations,
		Keys:       a.Config.Keys,
		Failures:   a.Config.Failures,
		Collector:  col,
		Logger:     log,
	}
	result, runErr := stress.Run(ctx, opts, track)

	close(done)
	wg.Wait()

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.Output,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	}
	if err := cli.DisplayResultWithConfig(out, result, outputCfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	if runErr != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", runErr)
		return apperrors.ExitCodeFor(runErr)
	}

	if err := a.publishReport(ctx, out, result); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error publishing report: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	return apperrors.ExitSuccess
}

// publishReport writes the run outcome as a JSON record to the configured
// report sink. The sink is resolved through the shared instance store, so
// repeated runs in one process reuse the same sink.
func (a *Application) publishReport(ctx context.Context, out io.Writer, result stress.Result) error {
	key := registry.Key{Kind: "sink", Name: a.Config.Sink}
	spec := sink.Spec{Path: a.Config.SinkPath}
	if a.Config.Sink == config.SinkStdout {
		spec.Writer = out
	}

	snk, err := sink.Instances().Get(ctx, key, spec)
	if err != nil {
		return err
	}

	entry, err := sink.EncodeRecord(sink.Record{
		Time:    time.Now().UTC(),
		Level:   "info",
		Message: "stress run complete",
		Fields: map[string]any{
			"gets":          result.Gets,
			"constructions": result.Constructions,
			"failures":      result.Failures,
			"violations":    result.Violations,
			"elapsed_ms":    result.Elapsed.Milliseconds(),
		},
	})
	if err != nil {
		return err
	}

	if err := snk.Write(ctx, entry); err != nil {
		return err
	}
	return snk.Flush(ctx)
}
