// Package apperrors defines structured application error types for the
// lazyreg CLI, allowing a clear distinction between error classes
// (configuration, construction, verification) and carrying the underlying
// cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf
// with %w. Error types wrapping a cause implement Unwrap() to support
// errors.Is() and errors.As().
package apperrors
