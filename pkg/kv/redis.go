package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config describes the Redis connection used for durable storage.
type Config struct {
	ConnectionURL  string        `env:"STORAGE_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	ConnectTimeout time.Duration `env:"STORAGE_REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
	KeyPrefix      string        `env:"STORAGE_REDIS_KEY_PREFIX" envDefault:"entitlekit:"`
}

// Redis implements Storage on top of a go-redis client. Each Set writes the
// full value in a single command, so replacements are atomic from the reader's
// point of view.
type Redis struct {
	db     redis.UniversalClient
	prefix string
}

// NewRedis wraps an existing go-redis client.
func NewRedis(client redis.UniversalClient, keyPrefix string) *Redis {
	return &Redis{db: client, prefix: keyPrefix}
}

// ConnectRedis dials Redis using the configuration and verifies the
// connection with a ping before returning a Storage.
func ConnectRedis(ctx context.Context, cfg Config) (*Redis, error) {
	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidRedisURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}

	return NewRedis(client, cfg.KeyPrefix), nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.db.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.db.Set(ctx, r.prefix+key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.db.Del(ctx, r.prefix+key).Err()
}

// Close terminates the underlying connection.
func (r *Redis) Close() error {
	return r.db.Close()
}
