// Package reconcile matches an external payment confirmation to a local
// account and session outcome, tolerating partial failure of the multi-step
// remote workflow without re-charging or double-registering the customer.
//
// A reconciliation run is a small state machine: it starts in
// StateProcessing and ends in exactly one of StateSuccess or StateError.
// Two independent entry paths feed the same terminal states:
//
//   - New-customer path (Run): the payment was captured before an account
//     existed. The confirmation and customer contact data are read from the
//     consume-once handoff store written by the checkout flow, then account
//     provisioning is attempted under a bounded retry policy. Success
//     persists the new session atomically and busts the subscription
//     caches; exhaustion surfaces an error that explicitly reassures the
//     user the payment itself is safe.
//
//   - Payment-link path (RunLink): a provider-hosted payment-link redirect
//     returned to the app. One verification call, no retries - failure
//     simply hands control back to the user with a retry affordance.
//
// Idempotency rests on one contract: every provisioning retry sends the
// same payment id, and the remote endpoint deduplicates on it. The machine's
// only obligations are to never vary the confirmation between attempts and
// to stop as soon as any attempt returns usable account data.
//
// Runs are independent: two tabs reconciling concurrently are keyed by
// their own payment ids and need no cross-run ordering. Cancelling the
// context (navigation away) abandons pending waits without side effects.
package reconcile
