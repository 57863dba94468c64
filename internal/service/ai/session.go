package ai

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/attention-ai/doubtbuddy/backend/internal/logger"
)

// Session is an open conversational context with the remote assistant.
// Implementations keep their own multi-turn memory and must tolerate
// overlapping Send calls.
type Session interface {
	Send(ctx context.Context, message string) (string, error)
}

// SessionFactory constructs a Session. It must not perform network I/O.
type SessionFactory func(ctx context.Context) (Session, error)

// Manager owns the single lazily created Session of the process.
type Manager struct {
	factory SessionFactory
	logger  *zap.Logger

	mu      sync.Mutex
	session Session
}

// NewManager returns a Manager that defers calling factory until the first
// GetOrCreateSession.
func NewManager(factory SessionFactory, log *zap.Logger) *Manager {
	return &Manager{
		factory: factory,
		logger:  logger.OrNop(log),
	}
}

// GetOrCreateSession returns the process-wide session, constructing it on the
// first successful call. Failed constructions are not memoized.
func (m *Manager) GetOrCreateSession(ctx context.Context) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		return m.session, nil
	}

	session, err := m.factory(ctx)
	if err != nil {
		m.logger.Error("assistant session construction failed", zap.Error(err))
		return nil, err
	}

	m.logger.Info("assistant session created")
	m.session = session
	return session, nil
}

// Created reports whether the session has been constructed yet.
func (m *Manager) Created() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}
