package retry

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy describes how many times an operation may run and how long to wait
// between attempts. The backoff sequence is positional: Backoff[0] is the
// delay after the first failed attempt, Backoff[1] after the second, and so
// on. A sequence shorter than MaxAttempts-1 repeats its last element. There
// is never a delay before the first attempt.
type Policy struct {
	MaxAttempts int
	Backoff     []time.Duration
}

// DefaultPolicy returns the provisioning retry budget: three attempts with
// escalating 2s and 3s waits between them.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{2 * time.Second, 3 * time.Second},
	}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	return p
}

// backoff adapts the fixed sequence to go-retry's Backoff contract.
// Next is called once per failed attempt; it stops the run once the
// attempt budget is spent.
func (p Policy) backoff() retry.Backoff {
	failed := 0
	return retry.BackoffFunc(func() (time.Duration, bool) {
		failed++
		if failed >= p.MaxAttempts {
			return 0, true
		}
		if len(p.Backoff) == 0 {
			return 0, false
		}
		idx := failed - 1
		if idx >= len(p.Backoff) {
			idx = len(p.Backoff) - 1
		}
		return p.Backoff[idx], false
	})
}

type stopError struct {
	err error
}

func (e *stopError) Error() string { return e.err.Error() }
func (e *stopError) Unwrap() error { return e.err }

// Stop marks err as terminal: Do returns it immediately without consuming
// the remaining attempt budget.
func Stop(err error) error {
	if err == nil {
		return nil
	}
	return &stopError{err: err}
}

// Do runs fn under the policy and returns its result together with the
// number of attempts actually made. fn receives the 1-based attempt number.
// The last error is returned once the budget is exhausted; a context
// cancellation during a backoff wait surfaces as ctx.Err().
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, int, error) {
	p = p.normalized()

	var result T
	attempts := 0

	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempts++
		v, err := fn(ctx, attempts)
		if err != nil {
			var stop *stopError
			if errors.As(err, &stop) {
				return stop.err
			}
			return retry.RetryableError(err)
		}
		result = v
		return nil
	})

	return result, attempts, err
}
