package kv

import "context"

// Storage is the minimal key-value contract required by the session and
// checkout handoff stores. A missing key is not an error: Get returns
// (nil, nil) so callers can treat absence as a valid state.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
