package subscription

import "time"

// Feature identifies a gated product capability.
type Feature string

const (
	FeaturePatients      Feature = "patients"
	FeatureAppointments  Feature = "appointments"
	FeaturePrescriptions Feature = "prescriptions"
	FeatureReports       Feature = "reports"
	FeatureReminders     Feature = "reminders"
	FeatureAnalytics     Feature = "analytics"
)

// KnownFeatures lists every feature the entitlement layer tracks.
// The degraded-mode fallback enables all of them.
var KnownFeatures = []Feature{
	FeaturePatients,
	FeatureAppointments,
	FeaturePrescriptions,
	FeatureReports,
	FeatureReminders,
	FeatureAnalytics,
}

// Unlimited indicates no limit for a metered feature.
const Unlimited int64 = -1

// Status represents the current state of a subscription.
type Status string

const (
	StatusActive    Status = "active"
	StatusTrial     Status = "trial"
	StatusCancelled Status = "cancelled"
	StatusPastDue   Status = "past_due"
	StatusUnknown   Status = "unknown"

	// StatusNone is reported when no subscription exists at all.
	// It never appears on a Subscription value.
	StatusNone Status = "none"
)

// Usage is the consumption of one metered feature.
type Usage struct {
	Current int64 `json:"current"`
	Limit   int64 `json:"limit"` // -1 means unlimited
}

// Snapshot is an immutable per-feature usage snapshot, timestamped
// implicitly by the age of its cache entry.
type Snapshot map[Feature]Usage

// Money is an amount in the smallest currency unit.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"` // ISO 4217
}

// Subscription is the session's subscription snapshot. It is replaced
// wholesale on refresh, never mutated field by field.
type Subscription struct {
	ID        string           `json:"id"`
	PlanName  string           `json:"plan_name"`
	Status    Status           `json:"status"`
	IsTrial   bool             `json:"is_trial"`
	StartDate time.Time        `json:"start_date"`
	EndDate   time.Time        `json:"end_date"`
	Features  map[Feature]bool `json:"features"`
}

// IsActive reports whether the subscription is in a paid active state.
func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == StatusActive
}

// IsUsable reports whether the subscription currently grants any access.
func (s *Subscription) IsUsable() bool {
	if s == nil {
		return false
	}
	switch s.Status {
	case StatusActive, StatusTrial:
		return true
	case StatusCancelled:
		// Cancelled keeps access until the paid-through date.
		return time.Now().UTC().Before(s.EndDate)
	default:
		return false
	}
}
