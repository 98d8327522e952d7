package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/retry"
	"github.com/dmitrymomot/entitlekit/pkg/session"
	"github.com/dmitrymomot/entitlekit/pkg/subscription"
)

// Config tunes the reconciliation run from the environment.
type Config struct {
	MaxAttempts   int             `env:"PROVISION_MAX_ATTEMPTS" envDefault:"3"`
	Backoff       []time.Duration `env:"PROVISION_BACKOFF" envSeparator:"," envDefault:"2s,3s"`
	RedirectDelay time.Duration   `env:"CHECKOUT_REDIRECT_DELAY" envDefault:"4s"`
}

// User-facing outcome messages.
const (
	// MsgPaymentSafe is surfaced when provisioning could not be completed.
	// It must make clear the payment succeeded even though setup did not.
	MsgPaymentSafe = "We could not finish setting up your account, but your payment is safe. Create your account manually and your subscription will be linked automatically."

	MsgAccountReady     = "Your payment was received. You can create your account now."
	MsgProvisioned      = "Your account is ready. Redirecting you to the app."
	MsgPaymentVerified  = "Payment verified. Finishing your account setup."
	MsgPaymentCancelled = "The payment was cancelled before it completed. You can restart the checkout at any time."
	MsgLinkVerifyFailed = "We could not confirm the payment yet. If you were charged, it will be reflected shortly; otherwise you can restart the checkout."
	MsgLinkVerified     = "Payment confirmed. Your subscription is active."
)

// Deps are the collaborators a Reconciler is wired with. Provisioner,
// Handoff and Sessions are mandatory; Checkout and Gateway are only needed
// when StartCheckout is used, and Caches may be nil in tests.
type Deps struct {
	Provisioner ProvisioningAPI
	Checkout    CheckoutAPI
	Gateway     Gateway
	Handoff     *HandoffStore
	Sessions    *session.Store
	Caches      CacheInvalidator
}

// Reconciler runs the payment reconciliation state machine.
type Reconciler struct {
	api           ProvisioningAPI
	checkout      CheckoutAPI
	gateway       Gateway
	handoff       *HandoffStore
	sessions      *session.Store
	caches        CacheInvalidator
	policy        retry.Policy
	redirectDelay time.Duration
	redirect      func(ctx context.Context)
	log           *slog.Logger
}

// Option configures the Reconciler.
type Option func(*Reconciler)

// WithRetryPolicy replaces the provisioning retry budget.
func WithRetryPolicy(p retry.Policy) Option {
	return func(r *Reconciler) { r.policy = p }
}

// WithConfig applies an environment-loaded Config.
func WithConfig(cfg Config) Option {
	return func(r *Reconciler) {
		if cfg.MaxAttempts > 0 {
			r.policy = retry.Policy{MaxAttempts: cfg.MaxAttempts, Backoff: cfg.Backoff}
		}
		if cfg.RedirectDelay > 0 {
			r.redirectDelay = cfg.RedirectDelay
		}
	}
}

// WithRedirect sets the callback invoked after a successful provisioning
// run, once the redirect delay has elapsed.
func WithRedirect(fn func(ctx context.Context)) Option {
	return func(r *Reconciler) { r.redirect = fn }
}

// WithRedirectDelay overrides the pause before the success redirect.
func WithRedirectDelay(d time.Duration) Option {
	return func(r *Reconciler) { r.redirectDelay = d }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Reconciler) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a Reconciler. Panics when a mandatory dependency is missing
// to fail fast during wiring.
func New(deps Deps, opts ...Option) *Reconciler {
	if deps.Provisioner == nil {
		panic("reconcile: provisioning API is required")
	}
	if deps.Handoff == nil {
		panic("reconcile: handoff store is required")
	}
	if deps.Sessions == nil {
		panic("reconcile: session store is required")
	}

	r := &Reconciler{
		api:           deps.Provisioner,
		checkout:      deps.Checkout,
		gateway:       deps.Gateway,
		handoff:       deps.Handoff,
		sessions:      deps.Sessions,
		caches:        deps.Caches,
		policy:        retry.DefaultPolicy(),
		redirectDelay: 4 * time.Second,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StartCheckout runs the pre-payment half of the flow: create a provider
// order, open the hosted checkout, verify the resulting payment on the
// server, and park the confirmation in the handoff store for Run to claim.
// The returned outcome is StateProcessing on success; dismissal and
// verification failure map to StateError with a retry affordance.
func (r *Reconciler) StartCheckout(ctx context.Context, planID string, customer subscription.CustomerInfo) (Outcome, error) {
	if r.checkout == nil || r.gateway == nil {
		return Outcome{}, ErrCheckoutUnavailable
	}

	order, err := r.checkout.CreateOrder(ctx, planID, customer.Email)
	if err != nil {
		return Outcome{}, fmt.Errorf("create order: %w", err)
	}

	completed, err := r.gateway.Open(ctx, CheckoutParams{Order: *order, Prefill: customer})
	if err != nil {
		if errors.Is(err, ErrCheckoutDismissed) {
			return Outcome{State: StateError, Message: MsgPaymentCancelled, RetryCheckout: true}, nil
		}
		return Outcome{}, fmt.Errorf("open checkout: %w", err)
	}

	conf, err := r.checkout.VerifyPayment(ctx, completed.OrderID, completed.PaymentID, completed.Signature)
	if err != nil {
		r.log.ErrorContext(ctx, "payment verification failed",
			slog.String("order_id", completed.OrderID),
			slog.String("payment_id", completed.PaymentID),
			slog.Any("error", err))
		return Outcome{State: StateError, Message: MsgLinkVerifyFailed, RetryCheckout: true}, nil
	}

	pending := PendingProvisioning{PlanID: planID, Confirmation: conf, Customer: &customer}
	if err := r.handoff.StorePending(ctx, pending); err != nil {
		return Outcome{}, err
	}

	return Outcome{State: StateProcessing, Message: MsgPaymentVerified}, nil
}

// Run executes the new-customer reconciliation path. It claims the pending
// provisioning data (consume-once, so re-entry is a no-op), provisions the
// account under the retry policy, persists the session, busts the
// subscription caches and schedules the redirect. When the checkout flow
// captured only part of the data, the run succeeds with a manual-signup
// affordance instead of attempting provisioning.
func (r *Reconciler) Run(ctx context.Context) (Outcome, error) {
	pending, err := r.handoff.ConsumePending(ctx)
	if err != nil {
		return Outcome{}, err
	}

	if !pending.Complete() {
		// Either nothing was pending (re-entry) or the checkout flow lost
		// part of the data. The payment itself is done, so this is not an
		// error state; the user just finishes registration by hand.
		return Outcome{State: StateSuccess, Message: MsgAccountReady, ManualSignup: true}, nil
	}

	account, attempts, err := retry.Do(ctx, r.policy, func(ctx context.Context, attempt int) (*subscription.ProvisionedAccount, error) {
		acc, err := r.api.CreateAccountFromPayment(ctx, *pending.Confirmation, *pending.Customer)
		if err != nil {
			r.log.WarnContext(ctx, "account provisioning attempt failed",
				slog.Int("attempt", attempt),
				slog.String("payment_id", pending.Confirmation.PaymentID),
				slog.Any("error", err))
			return nil, err
		}
		if acc == nil || acc.Tokens.Access == "" || acc.Tokens.Refresh == "" {
			return nil, ErrEmptyProvisionResponse
		}
		return acc, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		r.log.ErrorContext(ctx, "account provisioning exhausted",
			slog.Int("attempts", attempts),
			slog.String("payment_id", pending.Confirmation.PaymentID),
			slog.Any("error", err))
		return Outcome{
			State:        StateError,
			Message:      MsgPaymentSafe,
			Attempts:     attempts,
			ManualSignup: true,
		}, nil
	}

	sess := session.Session{
		AccessToken:  account.Tokens.Access,
		RefreshToken: account.Tokens.Refresh,
		User:         account.User,
	}
	if err := r.sessions.Save(ctx, sess); err != nil {
		// The account exists remotely; only the local login failed. The
		// manual path signs the user into the already-provisioned account.
		r.log.ErrorContext(ctx, "session persist failed after provisioning", slog.Any("error", err))
		return Outcome{
			State:        StateError,
			Message:      MsgPaymentSafe,
			Attempts:     attempts,
			ManualSignup: true,
		}, nil
	}

	if r.caches != nil {
		r.caches.InvalidateCache()
	}

	r.awaitRedirect(ctx)

	return Outcome{State: StateSuccess, Message: MsgProvisioned, Attempts: attempts}, nil
}

// RunLink executes the payment-link reconciliation path: the provider
// redirected back to the app after a hosted payment-link flow. A cancelled
// status short-circuits without a network call; otherwise the payment is
// verified exactly once, with no retries, since the user is standing by.
func (r *Reconciler) RunLink(ctx context.Context, paymentLinkID, paymentID, status string) (Outcome, error) {
	if strings.EqualFold(status, "cancelled") {
		return Outcome{State: StateError, Message: MsgPaymentCancelled, RetryCheckout: true}, nil
	}

	sub, err := r.api.VerifyPaymentLink(ctx, paymentLinkID, paymentID)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		r.log.ErrorContext(ctx, "payment link verification failed",
			slog.String("payment_link_id", paymentLinkID),
			slog.String("payment_id", paymentID),
			slog.Any("error", err))
		return Outcome{State: StateError, Message: MsgLinkVerifyFailed, Attempts: 1, RetryCheckout: true}, nil
	}

	if r.caches != nil {
		r.caches.InvalidateCache()
	}

	return Outcome{State: StateSuccess, Message: MsgLinkVerified, Attempts: 1, Subscription: sub}, nil
}

// awaitRedirect pauses so the success state stays visible, then invokes the
// redirect callback. A cancelled context skips both.
func (r *Reconciler) awaitRedirect(ctx context.Context) {
	if r.redirect == nil {
		return
	}
	if r.redirectDelay > 0 {
		timer := time.NewTimer(r.redirectDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
	if ctx.Err() == nil {
		r.redirect(ctx)
	}
}
