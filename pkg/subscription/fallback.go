package subscription

import "time"

// Plan labels used for synthesized fallback subscriptions. The two labels
// let operators tell an auth-triggered fallback from a network-triggered one
// in logs and support tickets.
const (
	DemoPlanName    = "Trial (Demo)"
	OfflinePlanName = "Trial (Offline)"
)

// demoTrialDays is the synthetic trial window granted in degraded mode.
const demoTrialDays = 30

// demoPatientLimit caps the one genuinely scarce resource even in demo mode.
const demoPatientLimit = 10

// demoSubscription synthesizes a trial subscription with every known feature
// enabled. Served when the real entitlement source is unauthorized or
// unreachable so the UI can fail open toward a constrained trial experience.
func demoSubscription(now time.Time, planName string) *Subscription {
	features := make(map[Feature]bool, len(KnownFeatures))
	for _, f := range KnownFeatures {
		features[f] = true
	}

	return &Subscription{
		ID:        "demo",
		PlanName:  planName,
		Status:    StatusTrial,
		IsTrial:   true,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, demoTrialDays),
		Features:  features,
	}
}

// demoUsage synthesizes a zeroed usage snapshot with generous limits.
func demoUsage() Snapshot {
	return Snapshot{
		FeaturePatients:      {Current: 0, Limit: demoPatientLimit},
		FeatureAppointments:  {Current: 0, Limit: 100},
		FeaturePrescriptions: {Current: 0, Limit: Unlimited},
		FeatureReminders:     {Current: 0, Limit: 500},
	}
}
