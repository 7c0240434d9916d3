// Package lazy provides one-time initialization cells for process-wide
// shared resources. A Cell defers construction of its value until first
// demand, guarantees that at most one construction ever succeeds, and
// lets callers retry after a failed construction attempt.
//
// Cells implement double-checked locking: readers of an already-published
// value never take the lock, while racing first callers serialize on a
// mutex and re-check before constructing. sync.Once is deliberately not
// used because it latches the first outcome even when that outcome is a
// construction error, which would wedge the cell permanently.
package lazy
