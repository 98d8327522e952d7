package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/ttlcache"
)

// Config holds the data-access knobs. Defaults match the production values.
type Config struct {
	CacheTTL time.Duration `env:"ENTITLEMENT_CACHE_TTL" envDefault:"30s"`
}

// Cache keys. The subscription and usage snapshots are never mixed under one
// key; they are invalidated together only by an explicit InvalidateCache.
const (
	cacheKeySubscription = "subscription"
	cacheKeyUsage        = "usage"
)

// Service is the subscription/usage data-access layer. Reads go through a
// TTL cache; transient auth or network failures are recovered locally by
// synthesizing a demo trial snapshot (degraded mode) instead of surfacing an
// error, while unexpected failures propagate so bugs stay visible.
type Service struct {
	api   API
	log   *slog.Logger
	now   func() time.Time
	subs  *ttlcache.Cache[string, Result[*Subscription]]
	usage *ttlcache.Cache[string, Result[Snapshot]]
}

// NewService creates the data-access service. Panics on nil api to fail fast
// during initialization.
func NewService(api API, opts ...ServiceOption) *Service {
	if api == nil {
		panic("subscription: API is required")
	}

	o := serviceOptions{
		ttl: ttlcache.DefaultTTL,
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Service{
		api:   api,
		log:   o.log,
		now:   o.now,
		subs:  ttlcache.New[string, Result[*Subscription]](o.ttl, ttlcache.WithClock(o.now)),
		usage: ttlcache.New[string, Result[Snapshot]](o.ttl, ttlcache.WithClock(o.now)),
	}
}

// FetchSubscription returns the subscription snapshot, consulting the cache
// first. A nil Value with a nil error means no subscription exists - callers
// must treat that as "no entitlements", not as a fault.
func (s *Service) FetchSubscription(ctx context.Context) (Result[*Subscription], error) {
	if res, ok := s.subs.Get(cacheKeySubscription); ok {
		return res, nil
	}

	sub, err := s.api.GetSubscription(ctx)

	var res Result[*Subscription]
	switch {
	case err == nil:
		res = Ok(sub)

	case errors.Is(err, ErrSubscriptionNotFound):
		// Absence is a valid state, cached like any other answer.
		res = Ok[*Subscription](nil)

	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrSubscriptionDomain):
		s.log.WarnContext(ctx, "serving demo subscription", "cause", err)
		res = DegradedResult(demoSubscription(s.now().UTC(), DemoPlanName), err)

	case errors.Is(err, ErrUnreachable):
		s.log.WarnContext(ctx, "serving offline subscription", "cause", err)
		res = DegradedResult(demoSubscription(s.now().UTC(), OfflinePlanName), err)

	default:
		// Unexpected failure: fail closed, cache nothing.
		return Result[*Subscription]{}, fmt.Errorf("fetch subscription: %w", err)
	}

	s.subs.Set(cacheKeySubscription, res)
	return res, nil
}

// FetchUsage returns the usage snapshot, consulting the cache first.
// Failure handling mirrors FetchSubscription: absence yields an empty
// snapshot, auth/network trouble yields the demo snapshot, anything else
// propagates.
func (s *Service) FetchUsage(ctx context.Context) (Result[Snapshot], error) {
	if res, ok := s.usage.Get(cacheKeyUsage); ok {
		return res, nil
	}

	snap, err := s.api.GetUsage(ctx)

	var res Result[Snapshot]
	switch {
	case err == nil:
		res = Ok(snap)

	case errors.Is(err, ErrUsageNotFound), errors.Is(err, ErrSubscriptionNotFound):
		res = Ok(Snapshot{})

	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrSubscriptionDomain):
		s.log.WarnContext(ctx, "serving demo usage", "cause", err)
		res = DegradedResult(demoUsage(), err)

	case errors.Is(err, ErrUnreachable):
		s.log.WarnContext(ctx, "serving offline usage", "cause", err)
		res = DegradedResult(demoUsage(), err)

	default:
		return Result[Snapshot]{}, fmt.Errorf("fetch usage: %w", err)
	}

	s.usage.Set(cacheKeyUsage, res)
	return res, nil
}

// Cancel cancels the subscription remotely and busts the caches so the next
// read reflects the change.
func (s *Service) Cancel(ctx context.Context) error {
	if err := s.api.CancelSubscription(ctx); err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	s.InvalidateCache()
	return nil
}

// InvalidateCache drops both cached snapshots. Call after any
// subscription-mutating operation (cancel, plan change, successful checkout).
func (s *Service) InvalidateCache() {
	s.subs.Clear()
	s.usage.Clear()
}
