package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestConstructionError_Unwrap(t *testing.T) {
	cause := errors.New("flock: resource temporarily unavailable")
	err := ConstructionError{Key: "sink/file", Cause: cause}

	if !errors.Is(err, cause) {
		t.Fatal("errors.Is failed to find the wrapped cause")
	}

	var ce ConstructionError
	wrapped := fmt.Errorf("startup: %w", err)
	if !errors.As(wrapped, &ce) {
		t.Fatal("errors.As failed to recover ConstructionError")
	}
	if ce.Key != "sink/file" {
		t.Fatalf("Key = %q, want %q", ce.Key, "sink/file")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"config",
			NewConfigError("unknown sink %q", "nats"),
			`unknown sink "nats"`,
		},
		{
			"verification",
			VerificationError{Invariant: "uniqueness", Detail: "2 constructions observed"},
			`invariant "uniqueness" violated: 2 constructions observed`,
		},
		{
			"timeout",
			TimeoutError{Operation: "stress", Limit: 5 * time.Second},
			`operation "stress" timed out after 5s`,
		},
		{
			"validation",
			ValidationError{Field: "workers", Message: "must be positive"},
			`validation error for "workers": must be positive`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "context") != nil {
		t.Fatal("WrapError(nil) != nil")
	}

	cause := errors.New("boom")
	err := WrapError(cause, "while doing %s", "things")
	if !errors.Is(err, cause) {
		t.Fatal("wrapped error lost its cause")
	}
}

func TestIsContextError(t *testing.T) {
	if !IsContextError(context.Canceled) {
		t.Error("context.Canceled not recognized")
	}
	if !IsContextError(fmt.Errorf("wrap: %w", context.DeadlineExceeded)) {
		t.Error("wrapped DeadlineExceeded not recognized")
	}
	if IsContextError(errors.New("other")) {
		t.Error("unrelated error recognized as context error")
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"verification", VerificationError{Invariant: "uniqueness"}, ExitErrorVerification},
		{"timeout", TimeoutError{Operation: "stress"}, ExitErrorTimeout},
		{"config", ConfigError{Message: "bad flag"}, ExitErrorConfig},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"deadline", context.DeadlineExceeded, ExitErrorTimeout},
		{"wrapped verification", WrapError(VerificationError{Invariant: "identity"}, "run"), ExitErrorVerification},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
