package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cutoffrank/domain/core"
	"cutoffrank/domain/selection"
	"cutoffrank/internal"
	"cutoffrank/ports"
)

type entry struct {
	mu       sync.Mutex
	session  *selection.Session
	lastSeen time.Time
}

// MemoryStore keeps sessions in process memory. Sessions do not survive a
// restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*entry
	now      func() time.Time
}

var _ ports.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[core.SessionID]*entry),
		now:      time.Now,
	}
}

// Create registers a new idle session
func (ms *MemoryStore) Create(ctx context.Context) (*selection.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := selection.NewSession(core.NewSessionID())

	ms.mu.Lock()
	ms.sessions[s.ID] = &entry{session: s, lastSeen: ms.now()}
	ms.mu.Unlock()

	internal.DefaultLogger.Debug("[SessionStore] Created session %s", s.ID)
	return s, nil
}

// With runs fn while holding the session's lock, so actions on one session
// run one at a time
func (ms *MemoryStore) With(ctx context.Context, id core.SessionID, fn func(*selection.Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ms.mu.RLock()
	e, ok := ms.sessions[id]
	ms.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w %s", core.ErrSessionMissing, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = ms.now()
	return fn(e.session)
}

// Delete discards a session
func (ms *MemoryStore) Delete(ctx context.Context, id core.SessionID) error {
	ms.mu.Lock()
	delete(ms.sessions, id)
	ms.mu.Unlock()
	return nil
}

// Len returns the number of live sessions
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.sessions)
}

// CleanupExpired removes sessions idle for longer than olderThan
func (ms *MemoryStore) CleanupExpired(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := ms.now().Add(-olderThan)

	ms.mu.Lock()
	defer ms.mu.Unlock()

	removed := 0
	for id, e := range ms.sessions {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !e.mu.TryLock() {
			continue // in use right now, so not idle
		}
		expired := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if expired {
			delete(ms.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// RunJanitor sweeps expired sessions every interval until ctx is done
func (ms *MemoryStore) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := ms.CleanupExpired(ctx, ttl)
			if err != nil {
				return
			}
			if removed > 0 {
				internal.DefaultLogger.Info("[SessionStore] Expired %d idle sessions", removed)
			}
		}
	}
}
