package entitlement

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrymomot/entitlekit/pkg/session"
	"github.com/dmitrymomot/entitlekit/pkg/subscription"
)

// Reason explains an entitlement decision.
type Reason string

const (
	ReasonOK            Reason = "ok"
	ReasonNoAccess      Reason = "no_access"
	ReasonLimitExceeded Reason = "limit_exceeded"
)

// QuotaCheck is the outcome of a usage-limit evaluation. Current, Limit and
// Remaining are meaningful only when Tracked is true.
type QuotaCheck struct {
	WithinLimit bool
	Tracked     bool
	Current     int64
	Limit       int64
	Remaining   int64
	Message     string
}

// Decision is a combined access + quota verdict. Derived on every call,
// never stored.
type Decision struct {
	CanUse bool
	Reason Reason
	Quota  *QuotaCheck
}

// HasServiceAccess reports whether the subscription's plan grants the
// feature. Operators (superuser or admin role) bypass plan checks entirely,
// as do administrative plans whose name carries an admin marker.
func (e *Evaluator) HasServiceAccess(sub *subscription.Subscription, feature subscription.Feature, user *session.User) bool {
	if sub == nil || sub.PlanName == "" {
		return false
	}

	if user != nil && user.IsOperator() {
		return true
	}

	plan := strings.ToLower(sub.PlanName)
	for _, marker := range e.adminMarkers {
		if strings.Contains(plan, marker) {
			return true
		}
	}

	return slices.ContainsFunc(e.featurePlans[feature], func(p string) bool {
		return strings.EqualFold(p, sub.PlanName)
	})
}

// CheckUsageLimit evaluates the quota for a feature against the usage
// snapshot. A missing snapshot fails closed: quota without data must not be
// assumed unlimited. An unmetered feature is the complementary default and
// is always within limit.
func (e *Evaluator) CheckUsageLimit(snap subscription.Snapshot, feature subscription.Feature) QuotaCheck {
	if snap == nil {
		return QuotaCheck{
			WithinLimit: false,
			Message:     "usage data is unavailable, please try again",
		}
	}

	if !e.metered[feature] {
		return QuotaCheck{
			WithinLimit: true,
			Message:     "no limits tracked for this feature",
		}
	}

	usage, ok := snap[feature]
	if !ok {
		return QuotaCheck{
			WithinLimit: false,
			Message:     fmt.Sprintf("no usage data for %s", feature),
		}
	}

	if usage.Limit == subscription.Unlimited {
		return QuotaCheck{
			WithinLimit: true,
			Tracked:     true,
			Current:     usage.Current,
			Limit:       subscription.Unlimited,
			Remaining:   subscription.Unlimited,
			Message:     "unlimited",
		}
	}

	remaining := max(0, usage.Limit-usage.Current)
	check := QuotaCheck{
		WithinLimit: usage.Current < usage.Limit,
		Tracked:     true,
		Current:     usage.Current,
		Limit:       usage.Limit,
		Remaining:   remaining,
	}
	if check.WithinLimit {
		check.Message = fmt.Sprintf("%d of %d used", usage.Current, usage.Limit)
	} else {
		check.Message = fmt.Sprintf("limit of %d reached", usage.Limit)
	}
	return check
}

// CanUseService composes the access and quota checks. Access denial
// short-circuits before quota is evaluated, so ReasonLimitExceeded is never
// reported to a user who has no plan access in the first place.
func (e *Evaluator) CanUseService(sub *subscription.Subscription, snap subscription.Snapshot, feature subscription.Feature, user *session.User) Decision {
	if !e.HasServiceAccess(sub, feature, user) {
		return Decision{CanUse: false, Reason: ReasonNoAccess}
	}

	quota := e.CheckUsageLimit(snap, feature)
	if !quota.WithinLimit {
		return Decision{CanUse: false, Reason: ReasonLimitExceeded, Quota: &quota}
	}

	return Decision{CanUse: true, Reason: ReasonOK, Quota: &quota}
}
