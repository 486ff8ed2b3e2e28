package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository keeps per-browser session state in memory. Sessions that
// are not touched within the TTL are evicted, and the eviction callback runs
// for every removal, expired or explicit.
type SessionRepository[S any] interface {
	Create(id string, session S) error
	FindByID(id string) (S, error)
	Touch(id string) error
	Delete(id string)
	Count() int
	Close()
}

type sessionRepository[S any] struct {
	store *cache.Cache
}

func NewSessionRepository[S any](ttl, cleanupInterval time.Duration, onEvict func(id string, session S)) SessionRepository[S] {
	store := cache.New(ttl, cleanupInterval)
	if onEvict != nil {
		store.OnEvicted(func(id string, v interface{}) {
			if session, ok := v.(S); ok {
				onEvict(id, session)
			}
		})
	}
	return &sessionRepository[S]{store: store}
}

// Create implements SessionRepository.
func (r *sessionRepository[S]) Create(id string, session S) error {
	if err := r.store.Add(id, session, cache.DefaultExpiration); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID implements SessionRepository.
func (r *sessionRepository[S]) FindByID(id string) (S, error) {
	var zero S
	v, found := r.store.Get(id)
	if !found {
		return zero, ErrSessionNotFound
	}
	session, ok := v.(S)
	if !ok {
		return zero, fmt.Errorf("session %s has unexpected type %T", id, v)
	}
	return session, nil
}

// Touch implements SessionRepository. It restarts the session's TTL.
func (r *sessionRepository[S]) Touch(id string) error {
	v, found := r.store.Get(id)
	if !found {
		return ErrSessionNotFound
	}
	r.store.Set(id, v, cache.DefaultExpiration)
	return nil
}

// Delete implements SessionRepository.
func (r *sessionRepository[S]) Delete(id string) {
	r.store.Delete(id)
}

// Count implements SessionRepository. Expired sessions that have not been
// cleaned up yet are included.
func (r *sessionRepository[S]) Count() int {
	return r.store.ItemCount()
}

// Close implements SessionRepository. Every live session goes through the
// eviction callback.
func (r *sessionRepository[S]) Close() {
	for id := range r.store.Items() {
		r.store.Delete(id)
	}
}
