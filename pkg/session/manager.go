// Package session binds a single machine definition to a state store,
// multiplexing many persisted sessions over it.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alvion/transitions/internal/logging"
	"github.com/alvion/transitions/pkg/domain"
	"github.com/alvion/transitions/pkg/ports"
)

// Machine is the slice of the orchestrator the manager needs: restore the
// active pointer, fire a trigger, read the result.
type Machine interface {
	Fire(trigger string, args ...any) (bool, error)
	SetState(qualifiedName string) error
	Current() *domain.State
}

// Manager serializes session operations over one shared machine. The machine
// itself is single-caller; the manager's mutex is what makes concurrent HTTP
// requests safe.
type Manager struct {
	machine Machine
	store   ports.StateStore
	initial string

	mu     sync.Mutex
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets a logger for internal events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a session manager. The machine's current state at
// construction time becomes the starting point of new sessions.
func NewManager(machine Machine, store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		machine: machine,
		store:   store,
		logger:  logging.NewNop(),
	}
	if cur := machine.Current(); cur != nil {
		m.initial = cur.Name()
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start creates and persists a new session at the initial state. The payload
// is carried on the snapshot and travels through the store unchanged.
func (m *Manager) Start(ctx context.Context, sessionID string, payload map[string]any) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := domain.NewSnapshot(m.initial, payload)
	if err := m.store.Save(ctx, sessionID, snap); err != nil {
		return nil, fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	m.logger.Info("session started", "session_id", sessionID, "state", snap.Current)
	return snap, nil
}

// Fire restores a session's active state, fires the trigger, and persists the
// outcome. A guard failure leaves the session untouched and returns
// (false, snapshot, nil).
func (m *Manager) Fire(ctx context.Context, sessionID, trigger string, args ...any) (bool, *domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return false, nil, err
	}
	if err := m.machine.SetState(snap.Current); err != nil {
		return false, nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	fired, err := m.machine.Fire(trigger, args...)
	if err != nil {
		return false, snap, err
	}
	if !fired {
		return false, snap, nil
	}

	snap.Advance(m.machine.Current().Name())
	if err := m.store.Save(ctx, sessionID, snap); err != nil {
		return true, snap, fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	m.logger.Debug("session advanced",
		"session_id", sessionID, "trigger", trigger, "state", snap.Current)
	return true, snap, nil
}

// Get loads a session's snapshot.
func (m *Manager) Get(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Load(ctx, sessionID)
}

// End deletes a session.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Delete(ctx, sessionID)
}
