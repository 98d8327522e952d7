package reconcile

import "errors"

var (
	// ErrCheckoutDismissed is returned by a Gateway when the customer
	// closes the checkout widget without paying.
	ErrCheckoutDismissed = errors.New("reconcile: checkout dismissed")

	// ErrEmptyProvisionResponse marks a provisioning response with no data
	// and no explicit error. Treated as retryable, defensively, since a
	// malformed success must not be trusted with session credentials.
	ErrEmptyProvisionResponse = errors.New("reconcile: empty provisioning response")

	// ErrCheckoutUnavailable means StartCheckout was called on a
	// Reconciler constructed without a checkout API or gateway.
	ErrCheckoutUnavailable = errors.New("reconcile: checkout is not configured")

	ErrHandoffStorage = errors.New("reconcile: handoff storage failure")
)
