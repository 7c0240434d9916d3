package registry

import (
	"context"
	"sync"
	"time"

	"github.com/agbru/lazyreg/logging"
	"github.com/agbru/lazyreg/metrics"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// InstanceOption configures an Instances store.
type InstanceOption func(*instanceSettings)

type instanceSettings struct {
	log logging.Logger
	col metrics.Collector
}

// WithLogger sets the logger receiving construction events. Defaults to a
// no-op logger.
func WithLogger(log logging.Logger) InstanceOption {
	return func(s *instanceSettings) { s.log = log }
}

// WithCollector sets the metrics collector receiving construction and hit
// counters. Defaults to a no-op collector.
func WithCollector(col metrics.Collector) InstanceOption {
	return func(s *instanceSettings) { s.col = col }
}

// instance pairs a published value with the identity it was assigned at
// construction time.
type instance[T any] struct {
	val T
	id  string
}

// Instances provides at-most-once construction of the value behind each
// registered key.
//
// Concurrency contract, per key:
//   - Get returns the published instance lock-free once it exists.
//   - Concurrent first callers are collapsed onto a single construction;
//     exactly one constructor invocation occurs, and every collapsed
//     caller receives its outcome.
//   - On construction failure nothing is published; the error goes to all
//     collapsed callers and the next Get retries.
//   - Published instances live until process exit; there is no eviction.
type Instances[T any, S any] struct {
	reg *Registry[T, S]
	cfg instanceSettings

	mu     sync.RWMutex
	live   map[Key]instance[T]
	flight singleflight.Group
}

// NewInstances creates an instance store over the given registry.
func NewInstances[T any, S any](reg *Registry[T, S], opts ...InstanceOption) *Instances[T, S] {
	cfg := instanceSettings{
		log: logging.NewNop(),
		col: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Instances[T, S]{
		reg:  reg,
		cfg:  cfg,
		live: make(map[Key]instance[T]),
	}
}

// Get returns the instance for key k, constructing it with the registered
// constructor and spec on first demand. The context of the caller that
// wins the construction race governs the construction; construction is
// synchronous and is not retried on cancellation by other callers.
func (s *Instances[T, S]) Get(ctx context.Context, k Key, spec S) (T, error) {
	k = s.reg.canonical(k)

	if inst, ok := s.lookup(k); ok {
		s.cfg.col.IncrementCounter(metrics.MetricInstanceHits, labelsFor(k))
		return inst.val, nil
	}

	v, err, _ := s.flight.Do(k.flightKey(), func() (any, error) {
		// A previous flight may have published between our miss and now.
		if inst, ok := s.lookup(k); ok {
			return inst.val, nil
		}
		return s.construct(ctx, k, spec)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// construct runs the registered constructor and publishes on success only.
func (s *Instances[T, S]) construct(ctx context.Context, k Key, spec S) (any, error) {
	started := time.Now()

	val, err := s.reg.Build(ctx, k, spec)
	if err != nil {
		s.cfg.col.IncrementCounter(metrics.MetricConstructionFailures, labelsFor(k))
		s.cfg.log.Error("instance construction failed", err,
			logging.String("key", k.String()))
		return nil, err
	}

	inst := instance[T]{val: val, id: uuid.NewString()}
	s.mu.Lock()
	s.live[k] = inst
	s.mu.Unlock()

	elapsed := time.Since(started)
	s.cfg.col.IncrementCounter(metrics.MetricConstructions, labelsFor(k))
	s.cfg.col.RecordDuration(metrics.MetricConstructionSeconds, elapsed, labelsFor(k))
	s.cfg.log.Info("instance constructed",
		logging.String("key", k.String()),
		logging.String("instance_id", inst.id),
		logging.Float64("seconds", elapsed.Seconds()))

	return val, nil
}

func (s *Instances[T, S]) lookup(k Key) (instance[T], bool) {
	s.mu.RLock()
	inst, ok := s.live[k]
	s.mu.RUnlock()
	return inst, ok
}

// Peek returns the published instance for k without constructing.
func (s *Instances[T, S]) Peek(k Key) (T, bool) {
	inst, ok := s.lookup(s.reg.canonical(k))
	return inst.val, ok
}

// ID returns the identity assigned to the published instance for k.
func (s *Instances[T, S]) ID(k Key) (string, bool) {
	inst, ok := s.lookup(s.reg.canonical(k))
	return inst.id, ok
}

// Len returns the number of published instances.
func (s *Instances[T, S]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live)
}

// Keys returns the keys of all published instances in no particular order.
func (s *Instances[T, S]) Keys() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]Key, 0, len(s.live))
	for k := range s.live {
		keys = append(keys, k)
	}
	return keys
}

func labelsFor(k Key) map[string]string {
	return map[string]string{"kind": k.Kind, "name": k.Name}
}
