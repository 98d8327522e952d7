package reconcile_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/entitlekit/pkg/kv"
	"github.com/dmitrymomot/entitlekit/pkg/reconcile"
	"github.com/dmitrymomot/entitlekit/pkg/retry"
	"github.com/dmitrymomot/entitlekit/pkg/session"
	"github.com/dmitrymomot/entitlekit/pkg/subscription"
)

// stubProvisioner scripts per-attempt provisioning results and records the
// confirmations it was called with.
type stubProvisioner struct {
	calls         int
	confirmations []subscription.PaymentConfirmation
	results       []provisionResult

	linkCalls int
	linkSub   *subscription.Subscription
	linkErr   error
}

type provisionResult struct {
	account *subscription.ProvisionedAccount
	err     error
}

func (s *stubProvisioner) CreateAccountFromPayment(_ context.Context, conf subscription.PaymentConfirmation, _ subscription.CustomerInfo) (*subscription.ProvisionedAccount, error) {
	s.confirmations = append(s.confirmations, conf)
	idx := s.calls
	s.calls++
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	res := s.results[idx]
	return res.account, res.err
}

func (s *stubProvisioner) VerifyPaymentLink(context.Context, string, string) (*subscription.Subscription, error) {
	s.linkCalls++
	return s.linkSub, s.linkErr
}

type stubInvalidator struct {
	calls int
}

func (s *stubInvalidator) InvalidateCache() { s.calls++ }

// harness bundles the reconciler with its observable collaborators.
type harness struct {
	r        *reconcile.Reconciler
	handoff  *reconcile.HandoffStore
	sessions *session.Store
	caches   *stubInvalidator
}

// fastPolicy keeps the attempt budget but drops the waits so tests run
// instantly.
func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func provisionedAccount() *subscription.ProvisionedAccount {
	return &subscription.ProvisionedAccount{
		User:   session.User{Name: "Asha", Email: "asha@example.com"},
		Tokens: subscription.Tokens{Access: "at-3", Refresh: "rt-3"},
	}
}

func pendingFixture() reconcile.PendingProvisioning {
	return reconcile.PendingProvisioning{
		PlanID: "plan_pro",
		Confirmation: &subscription.PaymentConfirmation{
			PlanID:    "plan_pro",
			OrderID:   "order_1",
			PaymentID: "pay_1",
			Signature: "sig",
			Verified:  true,
		},
		Customer: &subscription.CustomerInfo{Name: "Asha", Email: "asha@example.com"},
	}
}

func newHarness(t *testing.T, api *stubProvisioner, opts ...reconcile.Option) *harness {
	t.Helper()

	h := &harness{
		handoff:  reconcile.NewHandoffStore(kv.NewMemory()),
		sessions: session.NewStore(kv.NewMemory()),
		caches:   &stubInvalidator{},
	}

	opts = append([]reconcile.Option{
		reconcile.WithRetryPolicy(fastPolicy()),
		reconcile.WithLogger(quietLogger()),
	}, opts...)

	h.r = reconcile.New(reconcile.Deps{
		Provisioner: api,
		Handoff:     h.handoff,
		Sessions:    h.sessions,
		Caches:      h.caches,
	}, opts...)
	return h
}

func TestReconciler_Run_SucceedsOnThirdAttempt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	boom := errors.New("provisioning hiccup")
	api := &stubProvisioner{results: []provisionResult{
		{err: boom},
		{err: boom},
		{account: provisionedAccount()},
	}}
	h := newHarness(t, api)
	require.NoError(t, h.handoff.StorePending(ctx, pendingFixture()))

	outcome, err := h.r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.StateSuccess, outcome.State)
	assert.Equal(t, 3, outcome.Attempts)
	assert.Equal(t, 3, api.calls)

	// Session holds the tokens from the successful attempt.
	sess, err := h.sessions.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "at-3", sess.AccessToken)
	assert.Equal(t, "rt-3", sess.RefreshToken)
	assert.Equal(t, 1, h.caches.calls)
}

func TestReconciler_Run_SamePaymentIDOnEveryAttempt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &stubProvisioner{results: []provisionResult{
		{err: errors.New("down")},
		{err: errors.New("down")},
		{account: provisionedAccount()},
	}}
	h := newHarness(t, api)
	require.NoError(t, h.handoff.StorePending(ctx, pendingFixture()))

	_, err := h.r.Run(ctx)
	require.NoError(t, err)

	require.Len(t, api.confirmations, 3)
	for _, conf := range api.confirmations {
		assert.Equal(t, "pay_1", conf.PaymentID)
	}
}

func TestReconciler_Run_ExhaustionIsErrorWithPaymentSafeMessage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &stubProvisioner{results: []provisionResult{
		{err: errors.New("still down")},
	}}
	h := newHarness(t, api)
	require.NoError(t, h.handoff.StorePending(ctx, pendingFixture()))

	outcome, err := h.r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.StateError, outcome.State)
	assert.Equal(t, 3, outcome.Attempts)
	assert.Equal(t, 3, api.calls, "budget is exactly three attempts")
	assert.True(t, outcome.ManualSignup)
	assert.Contains(t, outcome.Message, "payment is safe")

	// No session may be left behind by a failed run.
	_, err = h.sessions.Get(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Zero(t, h.caches.calls)
}

func TestReconciler_Run_EmptyResponseIsRetryable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// First attempt "succeeds" with no usable tokens, second delivers.
	api := &stubProvisioner{results: []provisionResult{
		{account: &subscription.ProvisionedAccount{}},
		{account: provisionedAccount()},
	}}
	h := newHarness(t, api)
	require.NoError(t, h.handoff.StorePending(ctx, pendingFixture()))

	outcome, err := h.r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.StateSuccess, outcome.State)
	assert.Equal(t, 2, outcome.Attempts)
}

func TestReconciler_Run_MissingDataSucceedsWithManualSignup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &stubProvisioner{results: []provisionResult{{account: provisionedAccount()}}}
	h := newHarness(t, api)
	require.NoError(t, h.handoff.StorePending(ctx, reconcile.PendingProvisioning{
		Confirmation: pendingFixture().Confirmation,
		// customer info was never captured
	}))

	outcome, err := h.r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.StateSuccess, outcome.State)
	assert.True(t, outcome.ManualSignup)
	assert.Zero(t, api.calls, "provisioning is not attempted with partial data")
}

func TestReconciler_Run_ReentryIsNoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	api := &stubProvisioner{results: []provisionResult{{account: provisionedAccount()}}}
	h := newHarness(t, api)
	require.NoError(t, h.handoff.StorePending(ctx, pendingFixture()))

	first, err := h.r.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, reconcile.StateSuccess, first.State)
	require.Equal(t, 1, api.calls)

	// The handoff data was consumed, so a second run provisions nothing.
	second, err := h.r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.StateSuccess, second.State)
	assert.True(t, second.ManualSignup)
	assert.Equal(t, 1, api.calls)
}

func TestReconciler_Run_RedirectAfterSuccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var redirected atomic.Bool
	api := &stubProvisioner{results: []provisionResult{{account: provisionedAccount()}}}
	h := newHarness(t, api,
		reconcile.WithRedirectDelay(0),
		reconcile.WithRedirect(func(context.Context) { redirected.Store(true) }),
	)
	require.NoError(t, h.handoff.StorePending(ctx, pendingFixture()))

	outcome, err := h.r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.StateSuccess, outcome.State)
	assert.True(t, redirected.Load())
}

func TestReconciler_Run_CancelledContextSurfaces(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	api := &stubProvisioner{results: []provisionResult{{err: errors.New("down")}}}
	h := newHarness(t, api, reconcile.WithRetryPolicy(retry.DefaultPolicy()))
	require.NoError(t, h.handoff.StorePending(ctx, pendingFixture()))

	cancel() // torn down before the run starts retrying

	_, err := h.r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReconciler_RunLink(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("verifies and reports the subscription", func(t *testing.T) {
		t.Parallel()
		api := &stubProvisioner{linkSub: &subscription.Subscription{
			ID:       "sub_1",
			PlanName: "Professional",
			Status:   subscription.StatusActive,
		}}
		h := newHarness(t, api)

		outcome, err := h.r.RunLink(ctx, "plink_1", "pay_1", "paid")
		require.NoError(t, err)
		assert.Equal(t, reconcile.StateSuccess, outcome.State)
		assert.Equal(t, 1, outcome.Attempts)
		require.NotNil(t, outcome.Subscription)
		assert.Equal(t, "Professional", outcome.Subscription.PlanName)
		assert.Equal(t, 1, h.caches.calls)
	})

	t.Run("cancelled status skips verification", func(t *testing.T) {
		t.Parallel()
		api := &stubProvisioner{}
		h := newHarness(t, api)

		outcome, err := h.r.RunLink(ctx, "plink_1", "pay_1", "cancelled")
		require.NoError(t, err)
		assert.Equal(t, reconcile.StateError, outcome.State)
		assert.True(t, outcome.RetryCheckout)
		assert.Zero(t, api.linkCalls)
	})

	t.Run("verification failure is a single attempt", func(t *testing.T) {
		t.Parallel()
		api := &stubProvisioner{linkErr: errors.New("not confirmed yet")}
		h := newHarness(t, api)

		outcome, err := h.r.RunLink(ctx, "plink_1", "pay_1", "paid")
		require.NoError(t, err)
		assert.Equal(t, reconcile.StateError, outcome.State)
		assert.True(t, outcome.RetryCheckout)
		assert.Equal(t, 1, api.linkCalls, "payment link path never retries")
		assert.Zero(t, h.caches.calls)
	})
}
