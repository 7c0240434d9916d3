package sink

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// ErrClosed indicates a write to a closed sink.
var ErrClosed = errors.New("sink: closed")

// writerSink delivers entries to an io.Writer. Writes are serialized so
// interleaved entries stay intact.
type writerSink struct {
	name   string
	mu     sync.Mutex
	w      io.Writer
	closed atomic.Bool
}

// Compile-time check: *writerSink implements Sink.
var _ Sink = (*writerSink)(nil)

// NewWriter creates a sink delivering entries to w under the given name.
func NewWriter(name string, w io.Writer) Sink {
	return &writerSink{name: name, w: w}
}

// NewStdout creates a sink writing to standard output.
func NewStdout() Sink { return NewWriter("stdout", os.Stdout) }

// NewStderr creates a sink writing to standard error.
func NewStderr() Sink { return NewWriter("stderr", os.Stderr) }

func (s *writerSink) Name() string { return s.name }

func (s *writerSink) Write(ctx context.Context, entry []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(entry)
	return err
}

func (s *writerSink) Flush(context.Context) error { return nil }

// Close marks the sink closed. The underlying writer is not closed: the
// standard streams are process-owned.
func (s *writerSink) Close(context.Context) error {
	s.closed.Store(true)
	return nil
}
