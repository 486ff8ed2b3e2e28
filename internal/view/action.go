package view

import (
	"context"
	stderrors "errors"
	"sync"

	apperrors "alfredoptarigan/hr-console/internal/errors"
	"alfredoptarigan/hr-console/internal/logger"
)

// ErrUnmounted is returned by operations on a view that has been torn down.
var ErrUnmounted = stderrors.New("view is no longer mounted")

// ErrSuperseded is returned by a lookup whose key was replaced before it
// resolved.
var ErrSuperseded = stderrors.New("superseded by a newer request")

type Validator[In any] func(in In) error

type Performer[In, Out any] func(ctx context.Context, in In) (Out, error)

type ActionSnapshot[Out any] struct {
	InFlight  bool
	Result    Out
	HasResult bool
	Err       *apperrors.StandardError
}

// Action is a submit-and-display flow. Validation runs before any network
// call, at most one submission is in flight, success replaces the previous
// result and failure keeps it.
type Action[In, Out any] struct {
	name     string
	validate Validator[In]
	perform  Performer[In, Out]
	log      logger.Logger

	mu         sync.Mutex
	inFlight   bool
	result     Out
	hasResult  bool
	err        *apperrors.StandardError
	generation uint64
	cancel     context.CancelFunc
	unmounted  bool
}

func NewAction[In, Out any](name string, validate Validator[In], perform Performer[In, Out], log logger.Logger) *Action[In, Out] {
	return &Action[In, Out]{
		name:     name,
		validate: validate,
		perform:  perform,
		log:      log.WithFields(map[string]interface{}{"action": name}),
	}
}

// Submit blocks until the request resolves. It returns errors.ErrInFlight
// without touching the network when another submission is outstanding.
func (a *Action[In, Out]) Submit(ctx context.Context, in In) (Out, error) {
	var zero Out

	a.mu.Lock()
	if a.unmounted {
		a.mu.Unlock()
		return zero, ErrUnmounted
	}
	if a.inFlight {
		a.mu.Unlock()
		a.log.Debug("submission ignored while another is in flight", nil)
		return zero, apperrors.ErrInFlight
	}
	if a.validate != nil {
		if err := a.validate(in); err != nil {
			a.err = apperrors.Classify(err)
			a.mu.Unlock()
			return zero, a.err
		}
	}
	a.inFlight = true
	a.err = nil
	a.generation++
	gen := a.generation
	reqCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	out, err := a.perform(reqCtx, in)
	cancel()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.unmounted || gen != a.generation {
		a.log.Debug("discarding response for unmounted view", map[string]interface{}{"generation": gen})
		return zero, ErrUnmounted
	}
	a.inFlight = false
	a.cancel = nil

	if err != nil {
		a.err = apperrors.Classify(err)
		a.log.Failure("submission failed", a.err)
		return zero, a.err
	}

	a.result = out
	a.hasResult = true
	return out, nil
}

func (a *Action[In, Out]) Unmount() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.unmounted = true
	a.generation++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Action[In, Out]) InFlight() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight
}

func (a *Action[In, Out]) Snapshot() ActionSnapshot[Out] {
	a.mu.Lock()
	defer a.mu.Unlock()

	return ActionSnapshot[Out]{
		InFlight:  a.inFlight,
		Result:    a.result,
		HasResult: a.hasResult,
		Err:       a.err,
	}
}
