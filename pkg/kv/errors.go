package kv

import "errors"

var (
	ErrInvalidRedisURL = errors.New("kv: invalid redis connection URL")
	ErrRedisNotReady   = errors.New("kv: redis is not ready")
)
