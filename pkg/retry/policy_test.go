package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlekit/pkg/retry"
)

var errTransient = errors.New("transient failure")

// fastPolicy keeps test runs quick while preserving a real two-step sequence.
func fastPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{time.Millisecond, 2 * time.Millisecond},
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	got, attempts, err := retry.Do(context.Background(), fastPolicy(), func(ctx context.Context, attempt int) (string, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, attempts)
}

func TestDo_FailsTwiceThenSucceeds(t *testing.T) {
	t.Parallel()

	calls := 0
	got, attempts, err := retry.Do(context.Background(), fastPolicy(), func(ctx context.Context, attempt int) (int, error) {
		calls++
		assert.Equal(t, calls, attempt)
		if calls < 3 {
			return 0, errTransient
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsBudget(t *testing.T) {
	t.Parallel()

	calls := 0
	_, attempts, err := retry.Do(context.Background(), fastPolicy(), func(ctx context.Context, attempt int) (struct{}, error) {
		calls++
		return struct{}{}, errTransient
	})

	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls, "no fourth call after the budget is spent")
}

func TestDo_StopShortCircuits(t *testing.T) {
	t.Parallel()

	terminal := errors.New("bad request")
	calls := 0
	_, attempts, err := retry.Do(context.Background(), fastPolicy(), func(ctx context.Context, attempt int) (struct{}, error) {
		calls++
		return struct{}{}, retry.Stop(terminal)
	})

	require.ErrorIs(t, err, terminal)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	policy := retry.Policy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{time.Minute}, // long enough that cancel wins
	}

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, _, err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) (struct{}, error) {
			calls++
			return struct{}{}, errTransient
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls, "no retry after cancellation")
	case <-time.After(time.Second):
		t.Fatal("retry.Do did not honor context cancellation")
	}
}

func TestDo_ShortBackoffSequenceRepeatsLast(t *testing.T) {
	t.Parallel()

	policy := retry.Policy{
		MaxAttempts: 4,
		Backoff:     []time.Duration{time.Millisecond},
	}

	calls := 0
	_, attempts, err := retry.Do(context.Background(), policy, func(ctx context.Context, attempt int) (struct{}, error) {
		calls++
		return struct{}{}, errTransient
	})

	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 4, attempts)
}

func TestDo_ZeroPolicyRunsOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	_, attempts, err := retry.Do(context.Background(), retry.Policy{}, func(ctx context.Context, attempt int) (struct{}, error) {
		calls++
		return struct{}{}, errTransient
	})

	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	p := retry.DefaultPolicy()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 3 * time.Second}, p.Backoff)
}
