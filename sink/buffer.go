package sink

import (
	"context"
	"sync"
)

// Buffer is an in-memory sink that captures entries for inspection. It is
// primarily used in tests and by the stress harness.
type Buffer struct {
	name string

	mu      sync.Mutex
	entries [][]byte
	closed  bool
}

// Compile-time check: *Buffer implements Sink.
var _ Sink = (*Buffer)(nil)

// NewBuffer creates an empty capturing sink.
func NewBuffer(name string) *Buffer {
	return &Buffer{name: name}
}

func (b *Buffer) Name() string { return b.name }

func (b *Buffer) Write(ctx context.Context, entry []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	// Entries may be reused by callers; keep a private copy.
	cp := make([]byte, len(entry))
	copy(cp, entry)
	b.entries = append(b.entries, cp)
	return nil
}

func (b *Buffer) Flush(context.Context) error { return nil }

func (b *Buffer) Close(context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}

// Entries returns a snapshot of everything written so far.
func (b *Buffer) Entries() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]byte, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of captured entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
