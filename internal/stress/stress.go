// Package stress drives a registry.Instances store with many concurrent
// callers and verifies the singleton contract under load: exactly one
// successful construction per key, identical instances for every caller,
// and retry after injected construction failures.
package stress

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	apperrors "github.com/agbru/lazyreg/internal/errors"
	"github.com/agbru/lazyreg/logging"
	"github.com/agbru/lazyreg/metrics"
	"github.com/agbru/lazyreg/registry"
	"golang.org/x/sync/errgroup"
)

// Resource is the shared object constructed during a stress run. Pointer
// identity is the property under test.
type Resource struct {
	Key registry.Key
}

// Options parameterize a stress run.
type Options struct {
	// Workers is the number of concurrent callers.
	Workers int
	// Iterations is the number of Get calls per worker.
	Iterations int
	// Keys is the number of distinct resource keys.
	Keys int
	// Failures is the number of injected leading construction failures
	// per key.
	Failures int
	// Collector receives instance store metrics. Optional.
	Collector metrics.Collector
	// Logger receives construction events. Optional.
	Logger logging.Logger
}

// Tracker exposes live counters for a run in progress. All fields are
// safe to sample concurrently while the run executes.
type Tracker struct {
	Gets          atomic.Int64
	Constructions atomic.Int64
	Failures      atomic.Int64
	Violations    atomic.Int64
}

// Snapshot is a point-in-time copy of the tracker counters.
type Snapshot struct {
	Gets          int64
	Constructions int64
	Failures      int64
	Violations    int64
}

// Snapshot copies the current counter values.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Gets:          t.Gets.Load(),
		Constructions: t.Constructions.Load(),
		Failures:      t.Failures.Load(),
		Violations:    t.Violations.Load(),
	}
}

// Result summarizes a completed run.
type Result struct {
	Snapshot
	// Expected values derived from the options.
	ExpectedConstructions int64
	ExpectedFailures      int64
	// Elapsed is the wall time of the run.
	Elapsed time.Duration
	// Runtime is a post-run runtime statistics snapshot.
	Runtime metrics.RuntimeSnapshot
}

// Throughput returns Get calls per second.
func (r Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Gets) / r.Elapsed.Seconds()
}

// errInjected marks a deliberately failed construction attempt.
type errInjected struct {
	key     registry.Key
	attempt int64
}

func (e errInjected) Error() string {
	return fmt.Sprintf("injected failure %d for %s", e.attempt, e.key)
}

// Run executes the stress scenario and verifies the singleton contract.
// The tracker may be nil; pass one to observe live progress. Run returns
// a VerificationError when any invariant is violated.
func Run(ctx context.Context, opts Options, track *Tracker) (Result, error) {
	if track == nil {
		track = &Tracker{}
	}
	col := opts.Collector
	if col == nil {
		col = metrics.NewNop()
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}

	keys := make([]registry.Key, opts.Keys)
	attempts := make([]atomic.Int64, opts.Keys)
	successes := make([]atomic.Int64, opts.Keys)
	firstSeen := make([]atomic.Pointer[Resource], opts.Keys)

	reg := registry.New[*Resource, struct{}]()
	for i := range keys {
		i := i
		keys[i] = registry.Key{Kind: "resource", Name: fmt.Sprintf("r%d", i)}
		reg.MustRegister(keys[i], func(_ context.Context, _ struct{}) (*Resource, error) {
			n := attempts[i].Add(1)
			if n <= int64(opts.Failures) {
				return nil, errInjected{key: keys[i], attempt: n}
			}
			successes[i].Add(1)
			track.Constructions.Add(1)
			return &Resource{Key: keys[i]}, nil
		})
	}
	reg.Seal()

	store := registry.NewInstances(reg,
		registry.WithCollector(col),
		registry.WithLogger(log))

	started := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Workers; w++ {
		w := w
		g.Go(func() error {
			for it := 0; it < opts.Iterations; it++ {
				if err := ctx.Err(); err != nil {
					return err
				}

				idx := (w + it) % opts.Keys
				track.Gets.Add(1)

				res, err := store.Get(ctx, keys[idx], struct{}{})
				if err != nil {
					// Injected failures are part of the scenario; anything
					// else aborts the run.
					var inj errInjected
					if errors.As(err, &inj) {
						track.Failures.Add(1)
						continue
					}
					return apperrors.ConstructionError{Key: keys[idx].String(), Cause: err}
				}

				// Identity check: every caller must see the first
				// published instance for this key.
				if !firstSeen[idx].CompareAndSwap(nil, res) {
					if firstSeen[idx].Load() != res {
						track.Violations.Add(1)
					}
				}
			}
			return nil
		})
	}

	err := g.Wait()
	elapsed := time.Since(started)

	result := Result{
		Snapshot:              track.Snapshot(),
		ExpectedConstructions: int64(opts.Keys),
		ExpectedFailures:      int64(opts.Keys) * int64(opts.Failures),
		Elapsed:               elapsed,
		Runtime:               metrics.CaptureRuntime(),
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, apperrors.TimeoutError{Operation: "stress", Limit: elapsed}
		}
		return result, err
	}

	return result, verify(result, successes)
}

// verify checks the singleton invariants against what the run observed.
func verify(result Result, successes []atomic.Int64) error {
	if result.Violations > 0 {
		return apperrors.VerificationError{
			Invariant: "identity",
			Detail:    fmt.Sprintf("%d callers observed a non-canonical instance", result.Violations),
		}
	}
	// A sparse run may never reach some keys. Zero constructions for a
	// key is not a violation; more than one is.
	for i := range successes {
		if got := successes[i].Load(); got > 1 {
			return apperrors.VerificationError{
				Invariant: "uniqueness",
				Detail:    fmt.Sprintf("key r%d constructed %d times, want at most 1", i, got),
			}
		}
	}
	if result.Constructions > result.ExpectedConstructions {
		return apperrors.VerificationError{
			Invariant: "uniqueness",
			Detail: fmt.Sprintf("observed %d constructions, want at most %d",
				result.Constructions, result.ExpectedConstructions),
		}
	}
	return nil
}
