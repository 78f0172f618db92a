package ports

import (
	"context"

	"github.com/alvion/transitions/pkg/domain"
)

// StateStore persists the active state of machine sessions, enabling
// stop-and-resume across processes. Only the execution snapshot is stored,
// never the machine definition.
type StateStore interface {
	// Save persists the snapshot for a session ID.
	Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot for a session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Snapshot, error)

	// Delete removes the snapshot for a session ID.
	Delete(ctx context.Context, sessionID string) error
}
