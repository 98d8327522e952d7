// Package entitlement turns a subscription and usage snapshot into
// per-feature allow/deny decisions. It is pure: no I/O, no hidden state,
// no package-level singletons - construct an Evaluator and pass it around.
//
// Access and quota are two separate questions with a deliberate ordering.
// CanUseService evaluates plan access first and short-circuits with
// ReasonNoAccess before quota is even looked at: a user who lacks plan
// access must never see a "limit exceeded" message implying they could use
// the feature if they bought more capacity.
//
//	eval := entitlement.New()
//
//	decision := eval.CanUseService(sub, usage, subscription.FeaturePatients, &user)
//	switch decision.Reason {
//	case entitlement.ReasonNoAccess:
//		// hide or upsell the feature
//	case entitlement.ReasonLimitExceeded:
//		// block with quota detail: decision.Quota
//	case entitlement.ReasonOK:
//		// allow
//	}
//
// The feature-to-plans table and the set of metered features are defaults
// that can be overridden with options when plans change.
package entitlement
