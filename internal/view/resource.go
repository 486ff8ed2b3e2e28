// Package view holds the state machines every screen is built from.
//
// Resource loads a list once per mount. Action runs a user-triggered request
// behind an in-flight guard. Latest runs a keyed lookup where only the most
// recent key may apply its response. All three guard against stale responses
// with a generation counter and cancel outstanding requests on Unmount.
package view

import (
	"context"
	"sync"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/logger"
)

type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StatePopulated State = "populated"
	StateEmpty     State = "empty"
	StateFailed    State = "failed"
)

// Fetcher loads the records shown by a Resource.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Snapshot is an immutable copy of a Resource's state.
type Snapshot[T any] struct {
	State State
	Items []T
	Err   *apperrors.StandardError
}

func (s Snapshot[T]) Loading() bool   { return s.State == StateLoading || s.State == StateIdle }
func (s Snapshot[T]) Empty() bool     { return s.State == StateEmpty }
func (s Snapshot[T]) Populated() bool { return s.State == StatePopulated }
func (s Snapshot[T]) Failed() bool    { return s.State == StateFailed }

// Resource is a remote list fetched exactly once per mount.
// Idle -> Loading -> {Populated | Empty | Failed}; resolution is terminal.
type Resource[T any] struct {
	name  string
	fetch Fetcher[T]
	log   logger.Logger

	mu         sync.Mutex
	state      State
	items      []T
	err        *apperrors.StandardError
	generation uint64
	mounted    bool
	cancel     context.CancelFunc
	done       chan struct{}
	doneClosed bool
}

func NewResource[T any](name string, fetch Fetcher[T], log logger.Logger) *Resource[T] {
	return &Resource[T]{
		name:  name,
		fetch: fetch,
		log:   log.WithFields(map[string]interface{}{"resource": name}),
		state: StateIdle,
		done:  make(chan struct{}),
	}
}

// Mount starts the single fetch. It reports false when the resource has
// already been mounted once.
func (r *Resource[T]) Mount(parent context.Context) bool {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return false
	}
	r.state = StateLoading
	r.mounted = true
	r.generation++
	gen := r.generation
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	r.mu.Unlock()

	go r.load(ctx, gen)
	return true
}

func (r *Resource[T]) load(ctx context.Context, gen uint64) {
	items, err := r.fetch(ctx)
	r.resolve(gen, items, err)
}

func (r *Resource[T]) resolve(gen uint64, items []T, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.mounted || gen != r.generation {
		r.log.Debug("discarding response for unmounted view", map[string]interface{}{"generation": gen})
		return
	}

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	switch {
	case err != nil:
		r.state = StateFailed
		r.err = apperrors.Classify(err)
		r.log.Failure("failed to load resource", r.err)
	case len(items) == 0:
		r.state = StateEmpty
	default:
		r.state = StatePopulated
		r.items = append([]T(nil), items...)
	}
	r.closeDone()
}

// Unmount cancels an outstanding fetch. A response arriving afterwards is
// dropped.
func (r *Resource[T]) Unmount() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mounted = false
	r.generation++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.closeDone()
}

// Done is closed once the resource resolves or is unmounted.
func (r *Resource[T]) Done() <-chan struct{} {
	return r.done
}

func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot[T]{
		State: r.state,
		Items: append([]T(nil), r.items...),
		Err:   r.err,
	}
}

func (r *Resource[T]) closeDone() {
	if !r.doneClosed {
		close(r.done)
		r.doneClosed = true
	}
}
