// Package retry runs an operation a bounded number of times with a fixed
// delay plus random jitter between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrExhausted is returned (wrapped) when every attempt failed.
var ErrExhausted = errors.New("retry: attempts exhausted")

// Sleeper blocks for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc adapts a function to the Sleeper interface.
type SleeperFunc func(ctx context.Context, d time.Duration) error

// Sleep calls f(ctx, d).
func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// ContextSleeper sleeps on a timer and wakes early on context cancellation.
var ContextSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
})

// Jitter is a closed range of random extra delay.
type Jitter struct {
	Min time.Duration
	Max time.Duration
}

// Pick returns a duration uniformly chosen in [Min, Max]. A nil source or an
// empty range yields Min.
func (j Jitter) Pick(r *rand.Rand) time.Duration {
	if r == nil || j.Max <= j.Min {
		return j.Min
	}
	return j.Min + time.Duration(r.Int63n(int64(j.Max-j.Min)+1))
}

// Policy describes how an operation is retried.
type Policy struct {
	MaxAttempts int
	// Delay is the fixed pause after a failed attempt.
	Delay time.Duration
	// Jitter is added on top of Delay.
	Jitter  Jitter
	Sleeper Sleeper
	Rand    *rand.Rand
	// OnError is called after each failed attempt, before the pause.
	OnError func(attempt, maxAttempts int, err error)
}

type stopError struct {
	err error
}

func (e *stopError) Error() string { return e.err.Error() }
func (e *stopError) Unwrap() error { return e.err }

// Stop marks err as permanent: Do returns it immediately without further attempts.
func Stop(err error) error {
	if err == nil {
		return nil
	}
	return &stopError{err: err}
}

// Do calls fn until it succeeds, returns a Stop error, the context is done, or
// MaxAttempts is reached. It returns the number of attempts made.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) error) (int, error) {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleeper := p.Sleeper
	if sleeper == nil {
		sleeper = ContextSleeper
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		err := fn(ctx, attempt)
		if err == nil {
			return attempt, nil
		}

		var stop *stopError
		if errors.As(err, &stop) {
			return attempt, stop.err
		}

		lastErr = err
		if p.OnError != nil {
			p.OnError(attempt, maxAttempts, err)
		}

		if attempt < maxAttempts {
			if err := sleeper.Sleep(ctx, p.Delay+p.Jitter.Pick(p.Rand)); err != nil {
				return attempt, err
			}
		}
	}

	return maxAttempts, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, maxAttempts, lastErr)
}
