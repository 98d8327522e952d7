package entitlement

import (
	"fmt"
	"math"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/subscription"
)

// StatusInfo is a display-ready summary of a subscription's state.
type StatusInfo struct {
	Status        subscription.Status
	Message       string
	DaysRemaining int
}

// SubscriptionStatus summarizes the subscription at the current time.
func (e *Evaluator) SubscriptionStatus(sub *subscription.Subscription) StatusInfo {
	return e.SubscriptionStatusAt(sub, e.now())
}

// SubscriptionStatusAt summarizes the subscription at a given time. Exposed
// for tests that need fixed time values.
func (e *Evaluator) SubscriptionStatusAt(sub *subscription.Subscription, now time.Time) StatusInfo {
	if sub == nil {
		return StatusInfo{
			Status:  subscription.StatusNone,
			Message: "no active subscription",
		}
	}

	days := daysRemaining(sub.EndDate, now)
	endDate := sub.EndDate.Format("Jan 2, 2006")

	switch sub.Status {
	case subscription.StatusActive:
		return StatusInfo{
			Status:        subscription.StatusActive,
			Message:       fmt.Sprintf("subscription active until %s", endDate),
			DaysRemaining: days,
		}
	case subscription.StatusTrial:
		return StatusInfo{
			Status:        subscription.StatusTrial,
			Message:       fmt.Sprintf("trial ends %s", endDate),
			DaysRemaining: days,
		}
	case subscription.StatusCancelled:
		return StatusInfo{
			Status:        subscription.StatusCancelled,
			Message:       fmt.Sprintf("subscription cancelled, access until %s", endDate),
			DaysRemaining: days,
		}
	case subscription.StatusPastDue:
		// Overdue payment suspends access regardless of the stored end date.
		return StatusInfo{
			Status:        subscription.StatusPastDue,
			Message:       "payment overdue, please update your billing details",
			DaysRemaining: 0,
		}
	default:
		return StatusInfo{
			Status:        subscription.StatusUnknown,
			Message:       "subscription status unknown",
			DaysRemaining: days,
		}
	}
}

// daysRemaining rounds partial days up so "ends tomorrow morning" still
// reads as one day left. Never negative.
func daysRemaining(end, now time.Time) int {
	remaining := end.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}
