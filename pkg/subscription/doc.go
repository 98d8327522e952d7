// Package subscription provides the subscription and usage data-access layer
// with time-bounded caching and degraded-mode fallback.
//
// The Service fetches subscription and usage snapshots through a TTL cache
// (default 30s) and classifies remote failures into three distinct outcomes:
//
//   - Absence: the remote reports no subscription. Returned as a nil value
//     with no error; callers treat it as "no entitlements", not as a fault.
//   - Degraded mode: the read failed with an auth error, a server-side
//     subscription-domain error, or a transport failure. The service
//     synthesizes a 30-day demo trial (all known features enabled, patients
//     capped at 10, usage counters zeroed), caches it under the normal TTL
//     and returns it with Result.Degraded set. The synthesized plan label
//     tells the two causes apart: "Trial (Demo)" for auth trouble,
//     "Trial (Offline)" for network trouble.
//   - Hard failure: any other error propagates to the caller untouched.
//
// The rationale: entitlement checks fail open toward a constrained trial
// experience when the entitlement source is unreachable - the UI must never
// hard-fail purely because the auth service is down - but fail closed on
// genuine unexpected errors so bugs stay visible.
//
// # Typed results
//
// Reads return Result[T] plus an error. The error is the Fail branch; the
// Result distinguishes Ok from Degraded:
//
//	res, err := svc.FetchSubscription(ctx)
//	switch {
//	case err != nil:
//		// unexpected failure, surface it
//	case res.Degraded:
//		// synthetic trial data, res.Cause says why
//	case res.Value == nil:
//		// no subscription: no entitlements
//	default:
//		// genuine snapshot
//	}
//
// # Cache discipline
//
// Snapshots live under two fixed cache keys and are replaced wholesale.
// After any subscription-mutating operation (cancel, plan change, successful
// checkout) call InvalidateCache so the next read goes remote.
package subscription
