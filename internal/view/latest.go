package view

import (
	"context"
	"sync"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/logger"
)

type Lookup[T any] func(ctx context.Context, key string) (T, error)

type LatestSnapshot[T any] struct {
	Key      string
	Loading  bool
	Value    T
	HasValue bool
	Err      *apperrors.StandardError
}

// Latest fetches a value per key. Loading a new key cancels the outstanding
// lookup and only the most recent key may apply its response.
type Latest[T any] struct {
	name   string
	lookup Lookup[T]
	log    logger.Logger

	mu         sync.Mutex
	key        string
	loading    bool
	value      T
	hasValue   bool
	err        *apperrors.StandardError
	generation uint64
	cancel     context.CancelFunc
	unmounted  bool
}

func NewLatest[T any](name string, lookup Lookup[T], log logger.Logger) *Latest[T] {
	return &Latest[T]{
		name:   name,
		lookup: lookup,
		log:    log.WithFields(map[string]interface{}{"lookup": name}),
	}
}

// Load blocks until the lookup for key resolves. An empty key clears the
// current value without a request.
func (l *Latest[T]) Load(ctx context.Context, key string) (T, error) {
	var zero T

	l.mu.Lock()
	if l.unmounted {
		l.mu.Unlock()
		return zero, ErrUnmounted
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.generation++
	gen := l.generation
	l.key = key
	l.value = zero
	l.hasValue = false
	l.err = nil
	if key == "" {
		l.loading = false
		l.mu.Unlock()
		return zero, nil
	}
	l.loading = true
	reqCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	value, err := l.lookup(reqCtx, key)
	cancel()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.unmounted {
		return zero, ErrUnmounted
	}
	if gen != l.generation {
		l.log.Debug("discarding superseded response", map[string]interface{}{"key": key})
		return zero, ErrSuperseded
	}
	l.loading = false
	l.cancel = nil

	if err != nil {
		l.err = apperrors.Classify(err)
		l.log.WithFields(map[string]interface{}{"key": key}).Failure("lookup failed", l.err)
		return zero, l.err
	}
	l.value = value
	l.hasValue = true
	return value, nil
}

func (l *Latest[T]) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.unmounted = true
	l.generation++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *Latest[T]) Snapshot() LatestSnapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	return LatestSnapshot[T]{
		Key:      l.key,
		Loading:  l.loading,
		Value:    l.value,
		HasValue: l.hasValue,
		Err:      l.err,
	}
}
