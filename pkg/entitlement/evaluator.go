package entitlement

import (
	"maps"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/subscription"
)

// Well-known plan names. Plan names are matched case-insensitively.
const (
	PlanBasic        = "Basic"
	PlanProfessional = "Professional"
	PlanEnterprise   = "Enterprise"
)

// defaultFeaturePlans maps each feature to the plans that grant it. The
// degraded-mode plan labels appear in every set so a synthesized trial keeps
// the full trial experience.
func defaultFeaturePlans() map[subscription.Feature][]string {
	trialPlans := []string{subscription.DemoPlanName, subscription.OfflinePlanName}

	all := append([]string{PlanBasic, PlanProfessional, PlanEnterprise}, trialPlans...)
	pro := append([]string{PlanProfessional, PlanEnterprise}, trialPlans...)
	enterprise := append([]string{PlanEnterprise}, trialPlans...)

	return map[subscription.Feature][]string{
		subscription.FeaturePatients:      all,
		subscription.FeatureAppointments:  all,
		subscription.FeaturePrescriptions: pro,
		subscription.FeatureReports:       pro,
		subscription.FeatureReminders:     enterprise,
		subscription.FeatureAnalytics:     enterprise,
	}
}

// defaultMetered is the set of features with tracked usage quotas.
// Features outside this set are always within limit.
func defaultMetered() map[subscription.Feature]bool {
	return map[subscription.Feature]bool{
		subscription.FeaturePatients:      true,
		subscription.FeatureAppointments:  true,
		subscription.FeaturePrescriptions: true,
		subscription.FeatureReminders:     true,
	}
}

// defaultAdminMarkers are substrings of plan names that grant every feature.
func defaultAdminMarkers() []string {
	return []string{"super admin", "superadmin", "full admin"}
}

// Evaluator computes entitlement decisions from static tables. Safe for
// concurrent use after construction.
type Evaluator struct {
	featurePlans map[subscription.Feature][]string
	metered      map[subscription.Feature]bool
	adminMarkers []string
	now          func() time.Time
}

// Option overrides an Evaluator default.
type Option func(*Evaluator)

// WithFeaturePlans replaces the feature-to-plans table.
func WithFeaturePlans(table map[subscription.Feature][]string) Option {
	return func(e *Evaluator) {
		if table != nil {
			e.featurePlans = maps.Clone(table)
		}
	}
}

// WithMeteredFeatures replaces the set of quota-tracked features.
func WithMeteredFeatures(features ...subscription.Feature) Option {
	return func(e *Evaluator) {
		e.metered = make(map[subscription.Feature]bool, len(features))
		for _, f := range features {
			e.metered[f] = true
		}
	}
}

// WithAdminMarkers replaces the plan-name substrings that grant everything.
func WithAdminMarkers(markers ...string) Option {
	return func(e *Evaluator) {
		e.adminMarkers = markers
	}
}

// WithClock overrides the time source used by status computation.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Evaluator with the default tables.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		featurePlans: defaultFeaturePlans(),
		metered:      defaultMetered(),
		adminMarkers: defaultAdminMarkers(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
