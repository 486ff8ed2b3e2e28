package screens

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"alfredoptarigan/hr-console/internal/logger"
	"alfredoptarigan/hr-console/internal/repositories"
)

// Factory builds a fresh, unmounted screen.
type Factory func(Deps) Screen

func DefaultFactories() map[string]Factory {
	return map[string]Factory{
		RouteHome:                func(d Deps) Screen { return NewHome(d) },
		RouteJDUpload:            func(d Deps) Screen { return NewJDUploadScreen(d) },
		RouteResumeUpload:        func(d Deps) Screen { return NewResumeScoringScreen(d) },
		RouteResumeDashboard:     func(d Deps) Screen { return NewResumeDashboard(d) },
		RouteRecommendations:     func(d Deps) Screen { return NewRecommendationsScreen(d) },
		RouteInterviewUpload:     func(d Deps) Screen { return NewInterviewUploadScreen(d) },
		RouteAssessment:          func(d Deps) Screen { return NewAssessmentWizard(d) },
		RouteAssessmentDashboard: func(d Deps) Screen { return NewAssessmentDashboard(d) },
	}
}

// Session owns the single screen a browser session has mounted.
type Session struct {
	id       string
	registry *Registry

	mu     sync.Mutex
	route  string
	screen Screen
}

func (s *Session) ID() string { return s.id }

// Enter returns the screen for route. Staying on the same route keeps the
// mounted instance; moving to another route unmounts the previous screen and
// mounts a new one.
func (s *Session) Enter(route string) (Screen, error) {
	return s.enter(route, false)
}

// Visit is Enter for a page load. A screen whose fetch has already resolved
// is remounted so that reloading the page fetches again. A screen still
// loading is kept, which lets the loading page poll the same fetch.
func (s *Session) Visit(route string) (Screen, error) {
	return s.enter(route, true)
}

func (s *Session) enter(route string, refetch bool) (Screen, error) {
	factory, ok := s.registry.factories[route]
	if !ok {
		return nil, fmt.Errorf("no screen registered for %s", route)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != nil && s.route == route && !(refetch && resolved(s.screen)) {
		return s.screen, nil
	}
	if s.screen != nil {
		s.screen.Unmount()
	}

	screen := factory(s.registry.deps)
	screen.Mount(s.registry.base)
	s.route = route
	s.screen = screen

	s.registry.log.WithSession(s.id).Debug("screen mounted", map[string]interface{}{
		"route":   route,
		"refetch": refetch,
	})
	return screen, nil
}

// resolved reports whether screen fetches on mount and that fetch is done.
func resolved(screen Screen) bool {
	l, ok := screen.(Loader)
	if !ok {
		return false
	}
	select {
	case <-l.Done():
		return true
	default:
		return false
	}
}

// Route is the route of the mounted screen, or "" when none is mounted.
func (s *Session) Route() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != nil {
		s.screen.Unmount()
		s.screen = nil
		s.route = ""
	}
}

// Enter is Session.Enter with the screen's concrete type.
func Enter[T Screen](s *Session, route string) (T, error) {
	return typed[T](s.Enter(route))
}

// Visit is Session.Visit with the screen's concrete type.
func Visit[T Screen](s *Session, route string) (T, error) {
	return typed[T](s.Visit(route))
}

func typed[T Screen](screen Screen, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	t, ok := screen.(T)
	if !ok {
		return zero, fmt.Errorf("screen is %T, not %T", screen, zero)
	}
	return t, nil
}

// Registry maps session ids to sessions. Screens are mounted with the
// registry's base context so their background fetches outlive the HTTP
// request that caused the mount.
type Registry struct {
	base      context.Context
	deps      Deps
	factories map[string]Factory
	sessions  repositories.SessionRepository[*Session]
	log       logger.Logger

	mu sync.Mutex
}

func NewRegistry(
	base context.Context,
	deps Deps,
	factories map[string]Factory,
	ttl time.Duration,
	cleanupInterval time.Duration,
) *Registry {
	r := &Registry{
		base:      base,
		deps:      deps,
		factories: factories,
		log:       deps.Log,
	}
	r.sessions = repositories.NewSessionRepository(ttl, cleanupInterval, func(id string, s *Session) {
		r.log.WithSession(id).Debug("session evicted", nil)
		s.close()
	})
	return r
}

// Session returns the session for id, creating it on first use, and restarts
// its idle timer.
func (r *Registry) Session(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.sessions.FindByID(id)
	if err == nil && r.sessions.Touch(id) == nil {
		return s
	}
	if err != nil && !stderrors.Is(err, repositories.ErrSessionNotFound) {
		r.log.WithSession(id).Warn("dropping unreadable session", map[string]interface{}{"error": err.Error()})
	}
	// An expired entry may still be held until the next cleanup; deleting it
	// runs the eviction callback before it is replaced.
	r.sessions.Delete(id)

	s = &Session{id: id, registry: r}
	if err := r.sessions.Create(id, s); err != nil {
		r.log.WithSession(id).Error("failed to store session", map[string]interface{}{"error": err.Error()})
	}
	return s
}

// End unmounts the session's screen and forgets it.
func (r *Registry) End(id string) {
	r.sessions.Delete(id)
}

func (r *Registry) Count() int {
	return r.sessions.Count()
}

// Close unmounts every session's screen.
func (r *Registry) Close() {
	r.sessions.Close()
}
