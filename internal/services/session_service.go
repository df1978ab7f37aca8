package services

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/recallflash/internal/clock"
	"github.com/vytor/recallflash/internal/errors"
	"github.com/vytor/recallflash/internal/logger"
	"github.com/vytor/recallflash/internal/repository"
	"github.com/vytor/recallflash/internal/session"
)

// SessionService keeps the live review sessions, keyed by an opaque id.
type SessionService interface {
	Start(ctx context.Context, materialID int64) (string, session.Snapshot, error)
	Get(ctx context.Context, id string) (session.Snapshot, error)
	Reveal(ctx context.Context, id string) (session.Snapshot, error)
	Answer(ctx context.Context, id string, correct bool) (session.Snapshot, error)
	Reset(ctx context.Context, id string) (session.Snapshot, error)
	Refresh(ctx context.Context, id string) (session.Snapshot, error)
	End(ctx context.Context, id string) error
	// Sweep drops sessions idle since before now minus the idle timeout.
	Sweep(now time.Time) int
	Count() int
}

type sessionService struct {
	deck        session.DeckLoader
	store       session.CardStore
	clock       clock.Clock
	idleTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*session.Controller
}

// NewSessionService creates a new SessionService
func NewSessionService(deck session.DeckLoader, store session.CardStore, clk clock.Clock, idleTimeout time.Duration) SessionService {
	return &sessionService{
		deck:        deck,
		store:       store,
		clock:       clk,
		idleTimeout: idleTimeout,
		sessions:    make(map[string]*session.Controller),
	}
}

func (s *sessionService) Start(ctx context.Context, materialID int64) (string, session.Snapshot, error) {
	id := uuid.NewString()
	log := logger.FromContext(ctx).WithFields(map[string]any{"session_id": id, "material_id": materialID})
	log.Info("starting review session")

	c := session.NewController(s.deck, s.store, s.clock)
	if err := c.Start(logger.NewContext(ctx, log), materialID); err != nil {
		return "", session.Snapshot{}, sessionError(err)
	}

	s.mu.Lock()
	s.sessions[id] = c
	s.mu.Unlock()

	return id, c.Snapshot(), nil
}

func (s *sessionService) Get(ctx context.Context, id string) (session.Snapshot, error) {
	c, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

func (s *sessionService) Reveal(ctx context.Context, id string) (session.Snapshot, error) {
	c, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := c.Reveal(); err != nil {
		return session.Snapshot{}, sessionError(err)
	}
	return c.Snapshot(), nil
}

func (s *sessionService) Answer(ctx context.Context, id string, correct bool) (session.Snapshot, error) {
	c, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	log := logger.FromContext(ctx).WithField("session_id", id)
	if err := c.Answer(logger.NewContext(ctx, log), correct); err != nil {
		return session.Snapshot{}, sessionError(err)
	}
	return c.Snapshot(), nil
}

func (s *sessionService) Reset(ctx context.Context, id string) (session.Snapshot, error) {
	c, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	c.Reset()
	logger.FromContext(ctx).Debug("session %s reset", id)
	return c.Snapshot(), nil
}

func (s *sessionService) Refresh(ctx context.Context, id string) (session.Snapshot, error) {
	c, err := s.lookup(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := c.Refresh(ctx); err != nil {
		return session.Snapshot{}, sessionError(err)
	}
	return c.Snapshot(), nil
}

func (s *sessionService) End(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return errors.NewNotFoundError("session", id)
	}
	delete(s.sessions, id)
	logger.FromContext(ctx).Info("session %s ended", id)
	return nil
}

func (s *sessionService) Sweep(now time.Time) int {
	if s.idleTimeout <= 0 {
		return 0
	}
	cutoff := now.Add(-s.idleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, c := range s.sessions {
		if c.LastActive().Before(cutoff) && c.State() != session.StateAnswering {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (s *sessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *sessionService) lookup(id string) (*session.Controller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.sessions[id]
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	return c, nil
}

// sessionError maps controller and store failures to application errors.
func sessionError(err error) error {
	if _, ok := errors.AsAppError(err); ok {
		return err
	}
	switch {
	case stderrors.Is(err, session.ErrAnswerInFlight):
		return errors.NewConflictError("an answer is already being saved", err)
	case stderrors.Is(err, session.ErrBusy):
		return errors.NewConflictError("session is busy", err)
	case stderrors.Is(err, session.ErrInvalidState):
		return errors.NewConflictError("action not allowed in the current session state", err)
	case stderrors.Is(err, repository.ErrConflict):
		return errors.NewConflictError("card was modified concurrently, refresh the session", err)
	case stderrors.Is(err, repository.ErrNotFound):
		return errors.NewNotFoundError("card", "current")
	default:
		return errors.NewInternalError(err)
	}
}
