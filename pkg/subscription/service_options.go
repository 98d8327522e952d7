package subscription

import (
	"log/slog"
	"time"
)

type serviceOptions struct {
	ttl time.Duration
	log *slog.Logger
	now func() time.Time
}

// ServiceOption configures optional Service settings.
type ServiceOption func(*serviceOptions)

// WithCacheTTL overrides the snapshot cache TTL (default 30s).
func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(o *serviceOptions) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithConfig applies an env-loaded Config.
func WithConfig(cfg Config) ServiceOption {
	return func(o *serviceOptions) {
		if cfg.CacheTTL > 0 {
			o.ttl = cfg.CacheTTL
		}
	}
}

// WithLogger sets the structured logger. Nil loggers are ignored.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// WithClock overrides the time source for the caches and the synthesized
// fallback window. Intended for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(o *serviceOptions) {
		if now != nil {
			o.now = now
		}
	}
}
