// Package logging provides a unified logging interface for lazyreg.
// It abstracts the underlying logging implementation, allowing consistent
// logging across components while supporting multiple backends, and hosts
// the process-wide logger shared by all callers through Global().
package logging
