// Package retry runs fallible operations under an explicit retry policy.
//
// A Policy pairs an attempt budget with a fixed backoff sequence, replacing
// ad hoc retry loops scattered through calling code. The waiting itself is
// delegated to github.com/sethvargo/go-retry, so sleeps are context-aware:
// cancelling the context between attempts aborts the run immediately.
//
//	policy := retry.Policy{
//		MaxAttempts: 3,
//		Backoff:     []time.Duration{2 * time.Second, 3 * time.Second},
//	}
//
//	account, attempts, err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) (*Account, error) {
//		return client.CreateAccount(ctx, req)
//	})
//
// Every error is retried until the budget is exhausted. Wrap an error with
// Stop to mark it terminal and fail fast.
package retry
