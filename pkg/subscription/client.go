package subscription

import "context"

// API is the remote subscription endpoint surface the data-access layer
// depends on. Implementations must map their transport failures onto the
// package sentinels (ErrSubscriptionNotFound, ErrUnauthorized,
// ErrSubscriptionDomain, ErrUnreachable) so the service can classify them.
type API interface {
	// GetSubscription returns the account's subscription.
	// Returns ErrSubscriptionNotFound when no active subscription exists.
	GetSubscription(ctx context.Context) (*Subscription, error)

	// GetUsage returns the per-feature usage snapshot.
	GetUsage(ctx context.Context) (Snapshot, error)

	// CancelSubscription cancels the current subscription remotely.
	CancelSubscription(ctx context.Context) error
}
