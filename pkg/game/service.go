// Package game owns player sessions: every rule that mutates a save goes
// through a Session, which then runs the progression triggers and persists
// the slots that changed.
package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/guining-hotel/internal/logger"
	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/progression"
	"github.com/jwebster45206/guining-hotel/pkg/state"
	"github.com/jwebster45206/guining-hotel/pkg/storage"
)

// Service creates and restores sessions against one catalog and store.
type Service struct {
	catalog *catalog.Catalog
	engine  *progression.Engine
	store   storage.Store
	logger  *slog.Logger
}

// NewService builds the trigger table for cat. It fails if the catalog is
// missing a script the triggers need.
func NewService(cat *catalog.Catalog, store storage.Store, log *slog.Logger) (*Service, error) {
	engine, err := progression.DefaultEngine(cat)
	if err != nil {
		return nil, fmt.Errorf("failed to build progression triggers: %w", err)
	}
	return &Service{
		catalog: cat,
		engine:  engine,
		store:   store,
		logger:  log,
	}, nil
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Create starts a new session and writes its default save.
func (s *Service) Create(ctx context.Context) (*Session, error) {
	id := uuid.New()
	sess := s.newSession(id, state.NewGameState(id, s.catalog))
	if err := sess.Save(ctx); err != nil {
		return nil, err
	}
	sess.logger.Info("Session created")
	return sess, nil
}

// Load restores a session slot by slot. Absent or unreadable slots fall
// back to their defaults. A session with no stored slots at all is
// ErrSessionNotFound. Trigger flags lost with the flags slot are recovered
// from the chat log so that no script is appended twice.
func (s *Service) Load(ctx context.Context, id uuid.UUID) (*Session, error) {
	gs := state.NewGameState(id, s.catalog)
	sess := s.newSession(id, gs)

	found := 0
	for _, sl := range slots {
		raw, ok, err := s.store.Get(ctx, id, sl.name)
		if err != nil {
			sess.logger.Error("Failed to read save slot", "slot", sl.name, "error", err)
			return nil, fmt.Errorf("failed to read slot %s: %w", sl.name, err)
		}
		if !ok {
			continue
		}
		found++
		if err := sl.decode(gs, raw); err != nil {
			sess.logger.Warn("Unreadable save slot, using default", "slot", sl.name, "error", err)
			continue
		}
		sess.persisted[sl.name] = raw
	}
	if found == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	gs.ID = id
	gs.Normalize()
	if restored := s.engine.Restore(gs); len(restored) > 0 {
		sess.logger.Error("Recovered lost trigger flags from chat", "triggers", restored)
	}
	if gs.Status == state.StatusInRoom {
		if _, ok := s.catalog.Room(gs.Room); !ok {
			gs.Status = state.StatusHub
			gs.Room = ""
		}
	}
	return sess, nil
}

func (s *Service) newSession(id uuid.UUID, gs *state.GameState) *Session {
	return &Session{
		svc:       s,
		id:        id,
		gs:        gs,
		persisted: make(map[string]string, len(slots)),
		logger:    logger.WithSession(s.logger, id.String()),
	}
}
