package ports

import (
	"context"
	"time"

	"cutoffrank/domain/core"
	"cutoffrank/domain/selection"
)

// SessionStore owns live selection sessions
type SessionStore interface {
	// Create registers a new idle session
	Create(ctx context.Context) (*selection.Session, error)

	// With runs fn with exclusive access to the session
	With(ctx context.Context, id core.SessionID, fn func(*selection.Session) error) error

	// Delete discards a session; deleting an unknown session is not an error
	Delete(ctx context.Context, id core.SessionID) error

	// CleanupExpired removes sessions idle for longer than olderThan
	CleanupExpired(ctx context.Context, olderThan time.Duration) (int, error)
}
