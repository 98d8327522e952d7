package reconcile

import (
	"context"

	"github.com/dmitrymomot/entitlekit/pkg/subscription"
)

// State is a reconciliation run's position in its lifecycle.
type State string

const (
	StateProcessing State = "processing"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// Terminal reports whether the state ends the run.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateError
}

// Outcome is the result of one reconciliation run. Message is user-facing;
// the affordance flags tell the caller which next step to offer.
type Outcome struct {
	State         State
	Message       string
	Attempts      int
	Subscription  *subscription.Subscription // set by the payment-link path on success
	ManualSignup  bool                       // offer manual account creation
	RetryCheckout bool                       // offer restarting the checkout
}

// PendingProvisioning is the handoff between the checkout flow and the
// reconciliation run: everything needed to provision an account for a
// customer who paid before registering. Either pointer may be nil when the
// checkout flow could not capture that part.
type PendingProvisioning struct {
	PlanID       string                            `json:"plan_id"`
	Confirmation *subscription.PaymentConfirmation `json:"confirmation"`
	Customer     *subscription.CustomerInfo        `json:"customer"`
}

// Complete reports whether auto-provisioning is possible.
func (p *PendingProvisioning) Complete() bool {
	return p != nil && p.Confirmation != nil && p.Customer != nil
}

// ProvisioningAPI is the remote surface the reconciliation machine needs.
type ProvisioningAPI interface {
	// CreateAccountFromPayment provisions an account for a confirmed
	// payment. Must be idempotent on the confirmation's payment id.
	CreateAccountFromPayment(ctx context.Context, conf subscription.PaymentConfirmation, customer subscription.CustomerInfo) (*subscription.ProvisionedAccount, error)

	// VerifyPaymentLink verifies a payment-link payment and returns the
	// resulting subscription.
	VerifyPaymentLink(ctx context.Context, paymentLinkID, paymentID string) (*subscription.Subscription, error)
}

// CheckoutAPI is the remote surface the checkout orchestration needs.
type CheckoutAPI interface {
	CreateOrder(ctx context.Context, planID, email string) (*subscription.Order, error)
	VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (*subscription.PaymentConfirmation, error)
}

// CacheInvalidator busts the entitlement caches after a subscription-mutating
// operation. Satisfied by *subscription.Service.
type CacheInvalidator interface {
	InvalidateCache()
}

// CheckoutParams is the data the hosted checkout widget is opened with.
type CheckoutParams struct {
	Order   subscription.Order
	Prefill subscription.CustomerInfo
}

// CompletedCheckout is the completion callback payload of the widget.
type CompletedCheckout struct {
	PaymentID string
	OrderID   string
	Signature string
}

// Gateway drives the external checkout widget. Open blocks until the
// customer completes or dismisses the checkout; dismissal is reported as
// ErrCheckoutDismissed, never as a hang.
type Gateway interface {
	Open(ctx context.Context, params CheckoutParams) (*CompletedCheckout, error)
}
