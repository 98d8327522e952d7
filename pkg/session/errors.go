package session

import "errors"

var (
	ErrNotFound       = errors.New("session: not found")
	ErrInvalidSession = errors.New("session: invalid session")
	ErrCorruptSession = errors.New("session: stored session is corrupt")
	ErrStorageFailure = errors.New("session: storage failure")
)
