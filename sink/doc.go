// Package sink provides output sinks for log records: terminal and file
// backed implementations, a concurrent fan-out group, and a retry
// decorator. Built-in sink constructors are registered in a package-level
// registry, and the package-level instance store hands out exactly one
// sink per key for the lifetime of the process.
package sink
