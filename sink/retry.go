package sink

import (
	"context"
	"time"
)

// RetryPolicy configures the retry decorator. The zero value disables
// retries (a single attempt is still made).
type RetryPolicy struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// BaseDelay is the delay before the first retry; it doubles per
	// attempt. Defaults to 50ms when retries are enabled.
	BaseDelay time.Duration
	// MaxDelay caps the backoff. Defaults to 2s when retries are enabled.
	MaxDelay time.Duration
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxRetries <= 0 {
		return RetryPolicy{}
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 50 * time.Millisecond
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 2 * time.Second
	}
	return p
}

// retrySink decorates a sink with write retries. Flush and Close pass
// through untouched.
type retrySink struct {
	next   Sink
	policy RetryPolicy
}

// Compile-time check: *retrySink implements Sink.
var _ Sink = (*retrySink)(nil)

// WithRetry wraps next so failed writes are retried with exponential
// backoff. Context cancellation aborts the backoff wait immediately.
func WithRetry(next Sink, policy RetryPolicy) Sink {
	return &retrySink{next: next, policy: policy.normalized()}
}

func (s *retrySink) Name() string { return "retry(" + s.next.Name() + ")" }

func (s *retrySink) Write(ctx context.Context, entry []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.next.Write(ctx, entry)
	if err == nil || s.policy.MaxRetries <= 0 {
		return err
	}

	delay := s.policy.BaseDelay
	for attempt := 0; attempt < s.policy.MaxRetries; attempt++ {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err = s.next.Write(ctx, entry); err == nil {
			return nil
		}

		delay *= 2
		if delay > s.policy.MaxDelay {
			delay = s.policy.MaxDelay
		}
	}
	return err
}

func (s *retrySink) Flush(ctx context.Context) error { return s.next.Flush(ctx) }

func (s *retrySink) Close(ctx context.Context) error { return s.next.Close(ctx) }
