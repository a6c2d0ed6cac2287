// Package llm is the pluggable text-completion boundary. The engine hands
// a fully built prompt in and gets letter text out; any provider failure
// is reported as ErrUnavailable so the composer can fall back to the
// deterministic template.
package llm

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps every provider failure surfaced past the retry
// policy: timeout, quota, transport, or a malformed response. Callers
// treat it as "generate via fallback", never as a user-facing error.
var ErrUnavailable = errors.New("completion service unavailable")

// Completer is the text-completion contract: prompt in, text out
type Completer interface {
	// Name returns the provider name
	Name() string

	// Complete sends the prompt and returns the generated text.
	// Any failure is wrapped in ErrUnavailable.
	Complete(ctx context.Context, prompt string) (string, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// RetryPolicy is the explicit retry behavior around a completion call.
// A policy object rather than embedded constants: tests swap Sleep for a
// fake clock.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Timeout     time.Duration // Hard per-call timeout

	// Sleep is injectable for tests; nil means time.Sleep via sleepCtx.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns the standard policy: 3 attempts, exponential
// backoff from 500ms, 30s per call.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		Timeout:     30 * time.Second,
	}
}

// Do runs fn under the policy: per-attempt timeout, exponential backoff
// between attempts, stop early when the parent context is done.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", errors.Join(ErrUnavailable, err)
		}

		attemptCtx := ctx
		var cancel context.CancelFunc
		if p.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		}
		out, err := fn(attemptCtx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt < attempts-1 {
			backoff := p.BaseDelay * (1 << uint(attempt))
			if err := sleep(ctx, backoff); err != nil {
				return "", errors.Join(ErrUnavailable, err)
			}
		}
	}

	return "", errors.Join(ErrUnavailable, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
