package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrymomot/entitlekit/pkg/kv"
)

// storageKey is the single key a session occupies in the backing storage.
// Keeping the whole session under one key is what makes Save atomic.
const storageKey = "session"

// Store persists the session in a key-value storage. The zero value is not
// usable; construct with NewStore.
type Store struct {
	storage kv.Storage
}

// NewStore creates a session store over the given storage. Panics on nil
// storage to fail fast during wiring.
func NewStore(storage kv.Storage) *Store {
	if storage == nil {
		panic("session: storage is required")
	}
	return &Store{storage: storage}
}

// Get loads the current session. Returns ErrNotFound when no session is
// stored, which callers should treat as "not logged in" rather than a fault.
func (s *Store) Get(ctx context.Context) (Session, error) {
	raw, err := s.storage.Get(ctx, storageKey)
	if err != nil {
		return Session{}, errors.Join(ErrStorageFailure, err)
	}
	if raw == nil {
		return Session{}, ErrNotFound
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, errors.Join(ErrCorruptSession, err)
	}
	return sess, nil
}

// Save replaces the stored session wholesale. Rejects sessions missing
// either token so a partial credential set can never be persisted.
func (s *Store) Save(ctx context.Context, sess Session) error {
	if !sess.Valid() {
		return ErrInvalidSession
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return errors.Join(ErrInvalidSession, err)
	}

	if err := s.storage.Set(ctx, storageKey, raw); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}

// Clear removes the session. Used by logout only.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Delete(ctx, storageKey); err != nil {
		return errors.Join(ErrStorageFailure, err)
	}
	return nil
}
