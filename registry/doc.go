// Package registry maps discriminator keys to explicitly registered
// constructor functions and, through Instances, guarantees at-most-once
// construction of the value behind each key.
//
// A Registry replaces the string-switch style of object creation with an
// explicit table: each (Kind, Name) key is bound to one constructor, and
// unknown or duplicate keys are reported as errors instead of silently
// falling through a default case.
//
// Instances layers singleton semantics on top: the first Get for a key
// constructs the value (concurrent first callers are collapsed onto a
// single construction), every later Get returns the identical instance,
// and a failed construction leaves the key absent so it can be retried.
package registry
