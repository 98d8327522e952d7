package subscription

import "errors"

var (
	// ErrSubscriptionNotFound means the remote reported no subscription for
	// this account. Callers must treat it as absence, not as a fault.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrUnauthorized means the entitlement read was rejected by auth.
	// Triggers degraded-mode synthesis.
	ErrUnauthorized = errors.New("subscription request unauthorized")

	// ErrSubscriptionDomain marks server responses carrying a
	// subscription-domain error code. Triggers degraded-mode synthesis.
	ErrSubscriptionDomain = errors.New("subscription domain error")

	// ErrUnreachable means the remote could not be reached at the transport
	// level. Triggers degraded-mode synthesis with the offline marker.
	ErrUnreachable = errors.New("subscription service unreachable")

	ErrUsageNotFound = errors.New("usage data not found")
)
