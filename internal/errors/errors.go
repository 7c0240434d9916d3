package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the
// lazyreg command, signalling the outcome of the run to the OS.
const (
	ExitSuccess             = 0   // Successful execution.
	ExitErrorGeneric        = 1   // Generic error.
	ExitErrorTimeout        = 2   // The run timed out.
	ExitErrorVerification   = 3   // A singleton invariant was violated.
	ExitErrorConfig         = 4   // Configuration error.
	ExitErrorCanceled       = 130 // The run was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid
// flags or values.
type ConfigError struct {
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ConstructionError wraps a failure to construct a shared resource while
// preserving the original cause and the key that failed.
type ConstructionError struct {
	// Key identifies which resource failed to construct ("kind/name").
	Key string
	// Cause is the underlying construction error.
	Cause error
}

// Error returns a message naming the failed key and its cause.
func (e ConstructionError) Error() string {
	return fmt.Sprintf("construct %s: %v", e.Key, e.Cause)
}

// Unwrap returns the original wrapped error for errors.Is/errors.As.
func (e ConstructionError) Unwrap() error { return e.Cause }

// VerificationError reports a violated singleton invariant observed
// during a stress run.
type VerificationError struct {
	// Invariant names the violated property.
	Invariant string
	// Detail explains what was observed.
	Detail string
}

// Error returns a message describing the violation.
func (e VerificationError) Error() string {
	return fmt.Sprintf("invariant %q violated: %s", e.Invariant, e.Detail)
}

// TimeoutError represents a run timeout, capturing the operation name and
// the exceeded limit.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure on a named
// field.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and
// %w, or returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or
// deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the application exit code it warrants.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		verificationErr VerificationError
		timeoutErr      TimeoutError
		configErr       ConfigError
	)
	switch {
	case errors.As(err, &verificationErr):
		return ExitErrorVerification
	case errors.As(err, &timeoutErr):
		return ExitErrorTimeout
	case errors.As(err, &configErr):
		return ExitErrorConfig
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	default:
		return ExitErrorGeneric
	}
}
