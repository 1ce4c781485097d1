package storage

import (
	"context"

	"github.com/google/uuid"
)

// Store is the save adapter: an opaque string key-value store partitioned
// by session. Each session's save is a handful of named slots.
type Store interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Get returns the slot value and whether it exists.
	Get(ctx context.Context, session uuid.UUID, slot string) (string, bool, error)
	Set(ctx context.Context, session uuid.UUID, slot, value string) error
	// Clear removes every slot of the session.
	Clear(ctx context.Context, session uuid.UUID) error
}
