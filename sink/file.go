package sink

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// fileSink appends entries to a file. The file is protected by an
// exclusive advisory lock so two processes sharing a log path cannot
// interleave entries; a second open of a locked file fails at
// construction time and can be retried once the holder closes.
type fileSink struct {
	name string
	path string

	mu     sync.Mutex
	f      *os.File
	closed atomic.Bool
}

// Compile-time check: *fileSink implements Sink.
var _ Sink = (*fileSink)(nil)

// NewFile opens (creating if needed) the file at path for appending and
// takes an exclusive advisory lock on it.
func NewFile(path string) (Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sink: open %q: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, fmt.Errorf("sink: lock %q: %w", path, err)
	}
	return &fileSink{name: "file:" + path, path: path, f: f}, nil
}

func (s *fileSink) Name() string { return s.name }

func (s *fileSink) Write(ctx context.Context, entry []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.f.Write(entry)
	return err
}

func (s *fileSink) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Sync()
}

// Close releases the advisory lock and closes the file. Idempotent.
func (s *fileSink) Close(context.Context) error {
	if s.closed.Swap(true) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Closing the descriptor drops the flock; unlock first anyway so the
	// file becomes claimable even if Close fails.
	_ = unix.Flock(int(s.f.Fd()), unix.LOCK_UN)
	return s.f.Close()
}
