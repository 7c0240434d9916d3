package lazy

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNilBuild indicates that Get was called with a nil build function
// while the cell was still empty.
var ErrNilBuild = errors.New("lazy: nil build function")

// Build constructs the value held by a Cell. It is invoked at most once
// successfully; on error the cell stays empty and a later Get retries.
type Build[T any] func() (T, error)

// Cell is a process-lifetime container for a value constructed on first
// demand. The zero value is ready to use. A Cell must not be copied after
// first use.
//
// Concurrency contract:
//   - Every caller that receives a value receives the identical value.
//   - Once a value is published, Get never blocks and never invokes build.
//   - Racing first callers serialize; exactly one of them constructs.
//   - A failed construction is returned to the caller that triggered it
//     (and to any caller that raced with it and lost), the lock is
//     released, and the cell remains empty so a later call can retry.
type Cell[T any] struct {
	mu  sync.Mutex
	val atomic.Pointer[T]
}

// Get returns the cell's value, constructing it with build on first use.
//
// The fast path is a single atomic load; it is taken by every call after
// the value has been published, regardless of which goroutine published
// it. The slow path acquires the mutex, re-checks (another goroutine may
// have published between the first check and lock acquisition), and only
// then constructs.
func (c *Cell[T]) Get(build Build[T]) (T, error) {
	if p := c.val.Load(); p != nil {
		return *p, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Second check under the lock: a racing caller may have published.
	if p := c.val.Load(); p != nil {
		return *p, nil
	}

	var zero T
	if build == nil {
		return zero, ErrNilBuild
	}

	v, err := build()
	if err != nil {
		// Leave the cell empty; the next Get retries construction.
		return zero, err
	}

	c.val.Store(&v)
	return v, nil
}

// MustGet is like Get but panics on construction failure. Useful for
// resources whose construction cannot fail or whose failure is fatal.
func (c *Cell[T]) MustGet(build Build[T]) T {
	v, err := c.Get(build)
	if err != nil {
		panic(err)
	}
	return v
}

// Peek returns the value and true if it has been published, without
// triggering construction.
func (c *Cell[T]) Peek() (T, bool) {
	if p := c.val.Load(); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// Initialized reports whether the value has been published.
func (c *Cell[T]) Initialized() bool {
	return c.val.Load() != nil
}
