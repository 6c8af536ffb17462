package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"cutoffrank/domain/core"
	"cutoffrank/domain/selection"
	"cutoffrank/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestStore() (*MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = clock.Now
	return store, clock
}

func TestCreateAndWith(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	s, err := store.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, selection.StateIdle, s.State())
	assert.Equal(t, 1, store.Len())

	err = store.With(ctx, s.ID, func(sess *selection.Session) error {
		sess.Start(time.Now())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, selection.StateSelecting, s.State())
}

func TestWithUnknownSession(t *testing.T) {
	store, _ := newTestStore()

	err := store.With(context.Background(), core.NewSessionID(), func(*selection.Session) error {
		t.Fatal("callback must not run")
		return nil
	})
	assert.ErrorIs(t, err, core.ErrSessionMissing)
	assert.True(t, core.IsNotFoundError(err))
}

func TestWithPropagatesCallbackError(t *testing.T) {
	store, _ := newTestStore()
	s, err := store.Create(context.Background())
	require.NoError(t, err)

	err = store.With(context.Background(), s.ID, func(sess *selection.Session) error {
		_, err := sess.Show()
		return err
	})
	assert.ErrorIs(t, err, core.ErrNotSelecting)
}

func TestWithSerialisesActions(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()
	ds := testkit.Dataset(t)
	s, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.With(ctx, s.ID, func(sess *selection.Session) error {
		sess.Start(time.Now())
		return nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.With(ctx, s.ID, func(sess *selection.Session) error {
				_, err := sess.Add(ds, selection.Picks{Category: "GM", College: testkit.RVCE, Branch: testkit.CSE})
				return err
			})
		}()
	}
	wg.Wait()

	require.NoError(t, store.With(ctx, s.ID, func(sess *selection.Session) error {
		assert.Equal(t, 50, sess.Len())
		return nil
	}))
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()
	s, err := store.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, s.ID))
	require.NoError(t, store.Delete(ctx, s.ID))
	assert.Equal(t, 0, store.Len())
}

func TestCleanupExpired(t *testing.T) {
	store, clock := newTestStore()
	ctx := context.Background()

	stale, err := store.Create(ctx)
	require.NoError(t, err)
	clock.Advance(90 * time.Minute)
	fresh, err := store.Create(ctx)
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)

	removed, err := store.CleanupExpired(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.ErrorIs(t, store.With(ctx, stale.ID, func(*selection.Session) error { return nil }), core.ErrSessionMissing)
	assert.NoError(t, store.With(ctx, fresh.ID, func(*selection.Session) error { return nil }))
}

func TestRunJanitorStopsOnCancel(t *testing.T) {
	store, clock := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())

	_, err := store.Create(ctx)
	require.NoError(t, err)
	clock.Advance(3 * time.Hour)

	done := make(chan struct{})
	go func() {
		store.RunJanitor(ctx, 5*time.Millisecond, time.Hour)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
