package registry

// Key identifies a registered constructor within a domain (Kind) under a
// Name, for example {Kind: "sink", Name: "stdout"}.
type Key struct {
	Kind string
	Name string
}

// IsZero reports whether either component of the key is missing.
func (k Key) IsZero() bool { return k.Kind == "" || k.Name == "" }

// String returns the "kind/name" form used in error messages and labels.
func (k Key) String() string {
	kind, name := k.Kind, k.Name
	if kind == "" {
		kind = "?"
	}
	if name == "" {
		name = "?"
	}
	return kind + "/" + name
}

// flightKey returns an unambiguous form for deduplicating in-flight
// constructions. String() is unsuitable: "/" may appear in either
// component, so distinct keys can render identically.
func (k Key) flightKey() string {
	return k.Kind + "\x00" + k.Name
}

// less orders keys by kind, then name.
func (k Key) less(other Key) bool {
	if k.Kind != other.Kind {
		return k.Kind < other.Kind
	}
	return k.Name < other.Name
}
