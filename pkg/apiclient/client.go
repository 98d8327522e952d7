package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/subscription"
)

// Config describes the remote API endpoint.
type Config struct {
	BaseURL string        `env:"BILLING_API_URL,required"`
	Timeout time.Duration `env:"BILLING_API_TIMEOUT" envDefault:"15s"`
}

// TokenSource supplies the bearer token for authenticated calls.
// Returning an empty token sends the request unauthenticated.
type TokenSource func(ctx context.Context) (string, error)

// Client talks to the subscription/payment API. It satisfies
// subscription.API and the narrower interfaces declared by pkg/reconcile.
type Client struct {
	http    *http.Client
	baseURL string
	token   TokenSource
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource sets the bearer token supplier.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) { c.token = src }
}

// New creates a Client for the configured base URL.
func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSubscription fetches the account's subscription snapshot.
func (c *Client) GetSubscription(ctx context.Context) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	if err := c.do(ctx, http.MethodGet, "/billing/subscription", nil, &sub); err != nil {
		if errors.Is(err, errStatusNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// GetUsage fetches the per-feature usage snapshot.
func (c *Client) GetUsage(ctx context.Context) (subscription.Snapshot, error) {
	var snap subscription.Snapshot
	if err := c.do(ctx, http.MethodGet, "/billing/usage", nil, &snap); err != nil {
		if errors.Is(err, errStatusNotFound) {
			return nil, subscription.ErrUsageNotFound
		}
		return nil, err
	}
	return snap, nil
}

// CancelSubscription cancels the current subscription.
func (c *Client) CancelSubscription(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/billing/subscription/cancel", nil, nil)
}

// CreateOrder creates a provider order for the hosted checkout.
func (c *Client) CreateOrder(ctx context.Context, planID, email string) (*subscription.Order, error) {
	req := struct {
		PlanID string `json:"plan_id"`
		Email  string `json:"email"`
	}{PlanID: planID, Email: email}

	var order subscription.Order
	if err := c.do(ctx, http.MethodPost, "/billing/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifyPayment asks the server to verify the checkout signature and returns
// the resulting payment confirmation.
func (c *Client) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) (*subscription.PaymentConfirmation, error) {
	req := struct {
		OrderID   string `json:"order_id"`
		PaymentID string `json:"payment_id"`
		Signature string `json:"signature"`
	}{OrderID: orderID, PaymentID: paymentID, Signature: signature}

	var conf subscription.PaymentConfirmation
	if err := c.do(ctx, http.MethodPost, "/billing/payments/verify", req, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// CreateAccountFromPayment provisions an account for a customer whose
// payment was captured before registration. The endpoint deduplicates on
// the payment id, so repeating the call with the same confirmation is safe.
func (c *Client) CreateAccountFromPayment(ctx context.Context, conf subscription.PaymentConfirmation, customer subscription.CustomerInfo) (*subscription.ProvisionedAccount, error) {
	req := struct {
		Confirmation subscription.PaymentConfirmation `json:"confirmation"`
		Customer     subscription.CustomerInfo        `json:"customer"`
	}{Confirmation: conf, Customer: customer}

	var account subscription.ProvisionedAccount
	if err := c.do(ctx, http.MethodPost, "/billing/accounts/from-payment", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// VerifyPaymentLink verifies a provider-hosted payment-link payment and
// returns the resulting subscription.
func (c *Client) VerifyPaymentLink(ctx context.Context, paymentLinkID, paymentID string) (*subscription.Subscription, error) {
	req := struct {
		PaymentLinkID string `json:"payment_link_id"`
		PaymentID     string `json:"payment_id"`
	}{PaymentLinkID: paymentLinkID, PaymentID: paymentID}

	var sub subscription.Subscription
	if err := c.do(ctx, http.MethodPost, "/billing/payment-links/verify", req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// errorEnvelope is the API's error response shape.
type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do issues a request and decodes the response into out (when non-nil).
// Failures are classified onto the subscription package sentinels.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.token != nil {
		token, err := c.token(ctx)
		if err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Anything that never produced a response is a transport failure.
		return errors.Join(subscription.ErrUnreachable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 400 {
		var env errorEnvelope
		_ = json.NewDecoder(resp.Body).Decode(&env)
		return c.classify(resp.StatusCode, env)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errStatusNotFound is internal: method wrappers translate it into the
// domain-appropriate not-found sentinel.
var errStatusNotFound = errors.New("apiclient: resource not found")

func (c *Client) classify(status int, env errorEnvelope) error {
	apiErr := fmt.Errorf("api error %d: %s %s", status, env.Error.Code, env.Error.Message)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.Join(subscription.ErrUnauthorized, apiErr)
	case status == http.StatusNotFound:
		return errors.Join(errStatusNotFound, apiErr)
	case strings.HasPrefix(env.Error.Code, "subscription"):
		return errors.Join(subscription.ErrSubscriptionDomain, apiErr)
	default:
		return apiErr
	}
}
