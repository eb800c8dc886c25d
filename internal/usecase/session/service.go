package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kailas-cloud/novelsearch/internal/domain"
	"github.com/kailas-cloud/novelsearch/internal/usecase/search"
)

// DefaultIdleTimeout is how long an unused session is kept.
const DefaultIdleTimeout = 30 * time.Minute

type entry struct {
	ctrl     *search.Controller
	lastSeen time.Time
}

// Service is the registry of live search sessions, keyed by session ID.
type Service struct {
	factory     ControllerFactory
	idleTimeout time.Duration
	observer    Observer
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// New creates a registry. observer can be nil.
func New(factory ControllerFactory, idleTimeout time.Duration, observer Observer) *Service {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	return &Service{
		factory:     factory,
		idleTimeout: idleTimeout,
		observer:    observer,
		now:         time.Now,
		sessions:    make(map[string]*entry),
	}
}

// Create starts a new session.
func (s *Service) Create() (string, *search.Controller) {
	id := uuid.NewString()
	ctrl := s.factory()

	s.mu.Lock()
	s.sessions[id] = &entry{ctrl: ctrl, lastSeen: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()

	s.reportActive(n)
	return id, ctrl
}

// Get returns the controller of a live session and marks it as used.
func (s *Service) Get(id string) (*search.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, domain.ErrSessionNotFound)
	}
	e.lastSeen = s.now()
	return e.ctrl, nil
}

// Resolve returns the session for id, creating a new one when id is empty
// or unknown. The returned ID is the one the client must use from now on.
func (s *Service) Resolve(id string) (string, *search.Controller, bool) {
	if id != "" {
		if ctrl, err := s.Get(id); err == nil {
			return id, ctrl, false
		}
	}
	newID, ctrl := s.Create()
	return newID, ctrl, true
}

// Delete ends a session.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %q: %w", id, domain.ErrSessionNotFound)
	}
	s.reportActive(n)
	return nil
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle removes sessions unused for longer than the idle timeout and
// returns how many were removed.
func (s *Service) EvictIdle() int {
	cutoff := s.now().Add(-s.idleTimeout)

	s.mu.Lock()
	evicted := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if s.observer != nil && evicted > 0 {
		s.observer.SessionsEvicted(evicted)
	}
	s.reportActive(n)
	return evicted
}

// StartEviction runs EvictIdle on a cron schedule (e.g. "@every 1m") until
// ctx is done.
func (s *Service) StartEviction(ctx context.Context, spec string, logger *zap.Logger) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := s.EvictIdle(); n > 0 {
			logger.Info("evicted idle sessions", zap.Int("count", n), zap.Int("active", s.Len()))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule session eviction %q: %w", spec, err)
	}

	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return nil
}

func (s *Service) reportActive(n int) {
	if s.observer != nil {
		s.observer.SessionsActive(n)
	}
}
