//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks

package sink

import (
	"context"
	"io"
)

// Sink receives encoded log entries. Implementations must be safe for
// concurrent use.
type Sink interface {
	// Name identifies the sink within a group.
	Name() string
	// Write delivers a single encoded entry.
	Write(ctx context.Context, entry []byte) error
	// Flush forces buffered entries out.
	Flush(ctx context.Context) error
	// Close releases the sink's resources. The sink must not be written
	// to afterwards.
	Close(ctx context.Context) error
}

// Spec parameterizes sink construction. Which fields apply depends on the
// sink kind: file sinks need Path, writer sinks accept an explicit Writer.
type Spec struct {
	// Path is the output file for file sinks.
	Path string
	// Writer overrides the destination for writer-backed sinks.
	Writer io.Writer
}
