package reconcile

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrymomot/entitlekit/pkg/kv"
	"github.com/dmitrymomot/entitlekit/pkg/subscription"
)

// Handoff storage keys. Each part of the pending provisioning data is stored
// under its own key so a partially captured checkout still leaves behind
// whatever it managed to collect.
const (
	handoffKeyPlan         = "selected_plan"
	handoffKeyConfirmation = "payment_verification"
	handoffKeyCustomer     = "customer_info"
)

// HandoffStore carries the pending provisioning data from the checkout flow
// to the reconciliation run. Reads are consume-once: ConsumePending deletes
// what it returns, so a second run after the first has claimed the data sees
// nothing and becomes a no-op.
type HandoffStore struct {
	storage kv.Storage
}

// NewHandoffStore creates a handoff store over the given storage. Panics on
// nil storage to fail fast during wiring.
func NewHandoffStore(storage kv.Storage) *HandoffStore {
	if storage == nil {
		panic("reconcile: handoff storage is required")
	}
	return &HandoffStore{storage: storage}
}

// StorePending records the provisioning inputs for a later run. Nil parts
// are skipped rather than stored as empty values.
func (s *HandoffStore) StorePending(ctx context.Context, pending PendingProvisioning) error {
	if pending.PlanID != "" {
		if err := s.storage.Set(ctx, handoffKeyPlan, []byte(pending.PlanID)); err != nil {
			return errors.Join(ErrHandoffStorage, err)
		}
	}
	if pending.Confirmation != nil {
		raw, err := json.Marshal(pending.Confirmation)
		if err != nil {
			return errors.Join(ErrHandoffStorage, err)
		}
		if err := s.storage.Set(ctx, handoffKeyConfirmation, raw); err != nil {
			return errors.Join(ErrHandoffStorage, err)
		}
	}
	if pending.Customer != nil {
		raw, err := json.Marshal(pending.Customer)
		if err != nil {
			return errors.Join(ErrHandoffStorage, err)
		}
		if err := s.storage.Set(ctx, handoffKeyCustomer, raw); err != nil {
			return errors.Join(ErrHandoffStorage, err)
		}
	}
	return nil
}

// ConsumePending reads and deletes the pending provisioning data. Returns
// nil when nothing is stored. Corrupt parts are dropped silently, which
// degrades the run to the manual-signup path instead of failing it.
func (s *HandoffStore) ConsumePending(ctx context.Context) (*PendingProvisioning, error) {
	var pending PendingProvisioning
	found := false

	if raw, err := s.storage.Get(ctx, handoffKeyPlan); err != nil {
		return nil, errors.Join(ErrHandoffStorage, err)
	} else if raw != nil {
		pending.PlanID = string(raw)
		found = true
	}

	if raw, err := s.storage.Get(ctx, handoffKeyConfirmation); err != nil {
		return nil, errors.Join(ErrHandoffStorage, err)
	} else if raw != nil {
		found = true
		var conf subscription.PaymentConfirmation
		if json.Unmarshal(raw, &conf) == nil {
			pending.Confirmation = &conf
		}
	}

	if raw, err := s.storage.Get(ctx, handoffKeyCustomer); err != nil {
		return nil, errors.Join(ErrHandoffStorage, err)
	} else if raw != nil {
		found = true
		var cust subscription.CustomerInfo
		if json.Unmarshal(raw, &cust) == nil {
			pending.Customer = &cust
		}
	}

	if !found {
		return nil, nil
	}

	for _, key := range []string{handoffKeyPlan, handoffKeyConfirmation, handoffKeyCustomer} {
		if err := s.storage.Delete(ctx, key); err != nil {
			return nil, errors.Join(ErrHandoffStorage, err)
		}
	}
	return &pending, nil
}
