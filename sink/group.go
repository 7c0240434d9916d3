package sink

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
)

var (
	// ErrGroupClosed indicates an operation on a closed group.
	ErrGroupClosed = errors.New("sink: group closed")
	// ErrNilSink indicates a nil or anonymous sink was offered.
	ErrNilSink = errors.New("sink: nil or unnamed sink")
	// ErrDuplicateSink indicates a member with the same name exists.
	ErrDuplicateSink = errors.New("sink: duplicate sink name")
	// ErrUnknownSink indicates the named member does not exist.
	ErrUnknownSink = errors.New("sink: unknown sink name")
)

// Group fans every entry out to all member sinks concurrently.
//
// Semantics:
//   - Operations run against a snapshot of the membership, so no lock is
//     held during I/O.
//   - Write cancels the remaining members' context on the first observed
//     error (best effort); all member errors are aggregated with
//     errors.Join.
//   - After Close, Add and Write fail with ErrGroupClosed.
type Group struct {
	name string

	mu      sync.RWMutex
	members map[string]Sink
	closed  atomic.Bool
}

// Compile-time check: *Group implements Sink, so groups can nest.
var _ Sink = (*Group)(nil)

// NewGroup creates a fan-out group. Nil, unnamed and duplicate-named
// sinks are dropped silently; use Add for strict error reporting.
func NewGroup(name string, sinks ...Sink) *Group {
	g := &Group{
		name:    name,
		members: make(map[string]Sink, len(sinks)),
	}
	for _, s := range sinks {
		if s == nil || s.Name() == "" {
			continue
		}
		if _, exists := g.members[s.Name()]; exists {
			continue
		}
		g.members[s.Name()] = s
	}
	return g
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Add inserts a member sink.
func (g *Group) Add(s Sink) error {
	if s == nil || s.Name() == "" {
		return ErrNilSink
	}
	if g.closed.Load() {
		return ErrGroupClosed
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.members[s.Name()]; exists {
		return ErrDuplicateSink
	}
	g.members[s.Name()] = s
	return nil
}

// Remove deletes a member by name. The removed sink is not closed.
func (g *Group) Remove(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.members[name]; !ok {
		return ErrUnknownSink
	}
	delete(g.members, name)
	return nil
}

// List returns the member names in sorted order.
func (g *Group) List() []string {
	g.mu.RLock()
	names := make([]string, 0, len(g.members))
	for name := range g.members {
		names = append(names, name)
	}
	g.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Write delivers the entry to every member concurrently.
func (g *Group) Write(ctx context.Context, entry []byte) error {
	if g.closed.Load() {
		return ErrGroupClosed
	}
	return g.fanOut(ctx, true, func(ctx context.Context, s Sink) error {
		return s.Write(ctx, entry)
	})
}

// Flush flushes every member concurrently.
func (g *Group) Flush(ctx context.Context) error {
	return g.fanOut(ctx, false, func(ctx context.Context, s Sink) error {
		return s.Flush(ctx)
	})
}

// Close closes every member concurrently and marks the group closed.
// Idempotent with respect to the group state; members see one Close per
// Group.Close call.
func (g *Group) Close(ctx context.Context) error {
	g.closed.Store(true)
	return g.fanOut(ctx, false, func(ctx context.Context, s Sink) error {
		return s.Close(ctx)
	})
}

// fanOut applies op to a snapshot of the members in parallel and joins
// their errors. When cancelSiblings is set, the first error cancels the
// context passed to the remaining members.
func (g *Group) fanOut(ctx context.Context, cancelSiblings bool, op func(context.Context, Sink) error) error {
	members := g.snapshot()
	if len(members) == 0 {
		return nil
	}

	opCtx := ctx
	cancel := context.CancelFunc(func() {})
	if cancelSiblings {
		opCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	var (
		wg    sync.WaitGroup
		errMu sync.Mutex
		errs  []error
	)
	wg.Add(len(members))
	for _, s := range members {
		go func(s Sink) {
			defer wg.Done()
			if err := op(opCtx, s); err != nil {
				errMu.Lock()
				errs = append(errs, err)
				errMu.Unlock()
				if cancelSiblings {
					cancel()
				}
			}
		}(s)
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (g *Group) snapshot() []Sink {
	g.mu.RLock()
	defer g.mu.RUnlock()
	members := make([]Sink, 0, len(g.members))
	for _, s := range g.members {
		members = append(members, s)
	}
	return members
}
