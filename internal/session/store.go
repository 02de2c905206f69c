// Package session keeps per-browser state in memory. Nothing outlives the
// process.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"agroprod/domain/core"
)

type entry[T any] struct {
	value    T
	loaded   bool
	lastSeen time.Time
}

// Store maps session IDs to at most one value each. A session exists from
// its first Touch until it is swept; its value may be replaced or cleared
// any number of times in between.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[core.SessionID]*entry[T]
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		entries: make(map[core.SessionID]*entry[T]),
		now:     time.Now,
	}
}

// Touch registers activity for id, creating the session if needed.
func (s *Store[T]) Touch(id core.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked(id)
}

func (s *Store[T]) touchLocked(id core.SessionID) *entry[T] {
	e, ok := s.entries[id]
	if !ok {
		e = &entry[T]{}
		s.entries[id] = e
	}
	e.lastSeen = s.now()
	return e
}

// Get returns the value loaded for id. ok is false for unknown sessions and
// for sessions in the awaiting-upload state.
func (s *Store[T]) Get(id core.SessionID) (value T, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, exists := s.entries[id]
	if !exists || !e.loaded {
		return value, false
	}
	return e.value, true
}

// Replace swaps in a new value for id wholesale.
func (s *Store[T]) Replace(id core.SessionID, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touchLocked(id)
	e.value = value
	e.loaded = true
}

// Clear drops the value of id, returning the session to awaiting upload.
func (s *Store[T]) Clear(id core.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touchLocked(id)
	var zero T
	e.value = zero
	e.loaded = false
}

// Len returns the number of live sessions.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes sessions idle for longer than ttl and returns how many
// were removed.
func (s *Store[T]) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-ttl)
	removed := 0
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Store[T]) RunSweeper(ctx context.Context, interval, ttl time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(ttl); n > 0 && logger != nil {
				logger.Info("expired idle sessions", zap.Int("removed", n), zap.Int("live", s.Len()))
			}
		}
	}
}
