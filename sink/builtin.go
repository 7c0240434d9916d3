package sink

import (
	"context"

	"github.com/agbru/lazyreg/lazy"
	"github.com/agbru/lazyreg/registry"
)

// Built-in sink keys.
var (
	KeyStdout = registry.Key{Kind: "sink", Name: "stdout"}
	KeyStderr = registry.Key{Kind: "sink", Name: "stderr"}
	KeyFile   = registry.Key{Kind: "sink", Name: "file"}
	KeyBuffer = registry.Key{Kind: "sink", Name: "buffer"}
)

var (
	registryCell  lazy.Cell[*registry.Registry[Sink, Spec]]
	instancesCell lazy.Cell[*registry.Instances[Sink, Spec]]
)

// Builders returns the process-wide sink constructor registry, built on
// first use with the built-in sinks bound. Additional kinds can be
// registered until the registry is sealed.
func Builders() *registry.Registry[Sink, Spec] {
	return registryCell.MustGet(func() (*registry.Registry[Sink, Spec], error) {
		r := registry.New[Sink, Spec](registry.WithCaseFold())

		r.MustRegister(KeyStdout, func(_ context.Context, spec Spec) (Sink, error) {
			if spec.Writer != nil {
				return NewWriter("stdout", spec.Writer), nil
			}
			return NewStdout(), nil
		})
		r.MustRegister(KeyStderr, func(_ context.Context, spec Spec) (Sink, error) {
			if spec.Writer != nil {
				return NewWriter("stderr", spec.Writer), nil
			}
			return NewStderr(), nil
		})
		r.MustRegister(KeyFile, func(_ context.Context, spec Spec) (Sink, error) {
			return NewFile(spec.Path)
		})
		r.MustRegister(KeyBuffer, func(_ context.Context, _ Spec) (Sink, error) {
			return NewBuffer("buffer"), nil
		})

		return r, nil
	})
}

// Instances returns the process-wide singleton store over Builders().
// Every key resolves to at most one live sink for the process lifetime.
func Instances() *registry.Instances[Sink, Spec] {
	return instancesCell.MustGet(func() (*registry.Instances[Sink, Spec], error) {
		return registry.NewInstances(Builders()), nil
	})
}

// Default returns the shared stdout sink, constructing it on first call.
// All callers receive the identical instance.
func Default(ctx context.Context) (Sink, error) {
	return Instances().Get(ctx, KeyStdout, Spec{})
}
