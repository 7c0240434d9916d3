package registry

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	// ErrDuplicate indicates an attempt to register an already-bound key.
	ErrDuplicate = errors.New("registry: duplicate registration")
	// ErrUnknown indicates a lookup or build for an unregistered key.
	ErrUnknown = errors.New("registry: unknown key")
	// ErrSealed indicates a registration attempt after Seal.
	ErrSealed = errors.New("registry: sealed")
	// ErrInvalid indicates a zero key or nil constructor.
	ErrInvalid = errors.New("registry: invalid key or constructor")
)

// Constructor builds a concrete value T from a specification S.
// Constructors must be safe to call concurrently.
type Constructor[T any, S any] func(ctx context.Context, spec S) (T, error)

// Option configures a Registry.
type Option func(*settings)

type settings struct {
	normalize func(Key) Key
	replace   bool
}

// WithNormalizer canonicalizes keys on every Register, Lookup and Build.
func WithNormalizer(fn func(Key) Key) Option {
	return func(s *settings) { s.normalize = fn }
}

// WithCaseFold lowercases kind and name so key matching is
// case-insensitive.
func WithCaseFold() Option {
	return WithNormalizer(func(k Key) Key {
		k.Kind = strings.ToLower(k.Kind)
		k.Name = strings.ToLower(k.Name)
		return k
	})
}

// WithReplace permits re-registering an existing key. Disabled by default.
func WithReplace() Option {
	return func(s *settings) { s.replace = true }
}

// Registry is a concurrency-safe constructor table keyed by (Kind, Name).
type Registry[T any, S any] struct {
	mu     sync.RWMutex
	table  map[Key]Constructor[T, S]
	cfg    settings
	sealed atomic.Bool
}

// New creates an empty registry.
func New[T any, S any](opts ...Option) *Registry[T, S] {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry[T, S]{
		table: make(map[Key]Constructor[T, S]),
		cfg:   cfg,
	}
}

func (r *Registry[T, S]) canonical(k Key) Key {
	if r.cfg.normalize != nil {
		return r.cfg.normalize(k)
	}
	return k
}

// Register binds a constructor to the given key. It fails with
// ErrDuplicate when the key is already bound (unless WithReplace was set),
// ErrSealed after Seal, and ErrInvalid for zero keys or nil constructors.
func (r *Registry[T, S]) Register(k Key, ctor Constructor[T, S]) error {
	if r.sealed.Load() {
		return ErrSealed
	}
	if k.IsZero() || ctor == nil {
		return ErrInvalid
	}
	k = r.canonical(k)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.table[k]; exists && !r.cfg.replace {
		return ErrDuplicate
	}
	r.table[k] = ctor
	return nil
}

// MustRegister panics on registration error. Intended for init() wiring of
// built-in constructors.
func (r *Registry[T, S]) MustRegister(k Key, ctor Constructor[T, S]) {
	if err := r.Register(k, ctor); err != nil {
		panic(err)
	}
}

// Seal prevents further registrations. Idempotent; returns true when this
// call transitioned the registry from unsealed to sealed.
func (r *Registry[T, S]) Seal() bool { return !r.sealed.Swap(true) }

// Sealed reports whether registrations are frozen.
func (r *Registry[T, S]) Sealed() bool { return r.sealed.Load() }

// Lookup returns the constructor bound to k, if any.
func (r *Registry[T, S]) Lookup(k Key) (Constructor[T, S], bool) {
	k = r.canonical(k)
	r.mu.RLock()
	ctor, ok := r.table[k]
	r.mu.RUnlock()
	return ctor, ok
}

// Build invokes the constructor bound to k with the given spec. A fresh
// value is constructed on every call; use Instances for singleton
// semantics.
func (r *Registry[T, S]) Build(ctx context.Context, k Key, spec S) (T, error) {
	ctor, ok := r.Lookup(k)
	if !ok {
		var zero T
		return zero, ErrUnknown
	}
	return ctor(ctx, spec)
}

// Keys returns all bound keys in deterministic order.
func (r *Registry[T, S]) Keys() []Key {
	r.mu.RLock()
	keys := make([]Key, 0, len(r.table))
	for k := range r.table {
		keys = append(keys, k)
	}
	r.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

// Entry pairs a key with its bound constructor.
type Entry[T any, S any] struct {
	Key         Key
	Constructor Constructor[T, S]
}

// Entries returns a snapshot of all bindings in the same deterministic
// order as Keys.
func (r *Registry[T, S]) Entries() []Entry[T, S] {
	r.mu.RLock()
	items := make([]Entry[T, S], 0, len(r.table))
	for k, ctor := range r.table {
		items = append(items, Entry[T, S]{Key: k, Constructor: ctor})
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool { return items[i].Key.less(items[j].Key) })
	return items
}

// Len returns the number of bound keys.
func (r *Registry[T, S]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.table)
}
