package subscription

import "github.com/dmitrymomot/entitlekit/pkg/session"

// Order is a provider order created ahead of the hosted checkout.
type Order struct {
	OrderID     string `json:"order_id"`
	Amount      Money  `json:"amount"`
	ProviderKey string `json:"provider_key"` // public key the checkout widget is opened with
	PlanID      string `json:"plan_id"`
}

// PaymentConfirmation is the provider-verified outcome of a checkout.
// It is the single value carried across retries of account provisioning:
// the same PaymentID must be sent on every attempt so the remote endpoint
// can deduplicate.
type PaymentConfirmation struct {
	PlanID    string `json:"plan_id"`
	PlanName  string `json:"plan_name"`
	Amount    Money  `json:"amount"`
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
	// Verified records the server-side verification outcome. The
	// provisioning endpoint re-verifies the signature regardless; this
	// flag is informational and never gates provisioning on its own.
	Verified bool `json:"verified"`
}

// CustomerInfo is the contact data collected before checkout, used to
// provision an account for a customer who paid before registering.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Tokens is the credential pair issued when an account is provisioned.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ProvisionedAccount is the result of creating an account from a confirmed
// payment: the new user record plus the tokens that authenticate it.
type ProvisionedAccount struct {
	User   session.User `json:"user"`
	Tokens Tokens       `json:"tokens"`
}
