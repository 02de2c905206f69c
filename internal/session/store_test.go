package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"agroprod/domain/core"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestStore() (*Store[string], *clock) {
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore[string]()
	s.now = c.now
	return s, c
}

func TestStore_ReplaceAndClear(t *testing.T) {
	s, _ := newTestStore()
	id := core.NewSessionID()

	_, ok := s.Get(id)
	assert.False(t, ok)

	s.Replace(id, "first.csv")
	v, ok := s.Get(id)
	assert.True(t, ok)
	assert.Equal(t, "first.csv", v)

	s.Replace(id, "second.xlsx")
	v, _ = s.Get(id)
	assert.Equal(t, "second.xlsx", v)

	s.Clear(id)
	_, ok = s.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len(), "cleared session stays alive")
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s, _ := newTestStore()
	a, b := core.NewSessionID(), core.NewSessionID()

	s.Replace(a, "a.csv")
	s.Touch(b)

	_, ok := s.Get(b)
	assert.False(t, ok)

	s.Clear(b)
	v, ok := s.Get(a)
	assert.True(t, ok)
	assert.Equal(t, "a.csv", v)
}

func TestStore_Sweep(t *testing.T) {
	s, c := newTestStore()
	idle, active := core.NewSessionID(), core.NewSessionID()

	s.Replace(idle, "idle")
	s.Replace(active, "active")

	c.t = c.t.Add(90 * time.Minute)
	s.Touch(active)
	c.t = c.t.Add(45 * time.Minute)

	assert.Equal(t, 1, s.Sweep(2*time.Hour))
	_, ok := s.Get(idle)
	assert.False(t, ok)
	_, ok = s.Get(active)
	assert.True(t, ok)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore[int]()
	ids := make([]core.SessionID, 8)
	for i := range ids {
		ids[i] = core.NewSessionID()
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id core.SessionID) {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				s.Replace(id, i)
				if v, ok := s.Get(id); ok {
					assert.Equal(t, i, v)
				}
			}
		}(i, id)
	}
	wg.Wait()
	assert.Equal(t, len(ids), s.Len())
}

func TestStore_RunSweeperStops(t *testing.T) {
	s := NewStore[int]()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunSweeper(ctx, time.Millisecond, time.Hour, zap.NewNop())
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
