package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/supplyops/planner/internal/config"
	"github.com/supplyops/planner/internal/domain"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

const defaultSessionTTL = time.Hour

// Store keeps per-session planning state between edit cycles. The demand
// table and initial stocks inside a session are the only shared mutable
// state of the system; every implementation returns deep copies so a caller
// can never mutate stored state without going through Save.
type Store interface {
	Get(ctx context.Context, id string) (*domain.SessionState, error)
	Save(ctx context.Context, state *domain.SessionState) error
	Delete(ctx context.Context, id string) error
}

// NewStore builds the configured session store: a Redis-backed store when
// the backend is "redis", an in-process store otherwise.
func NewStore(cfg config.SessionConfig) (Store, error) {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(ttl), nil
	case "redis":
		return newRedisStore(cfg, ttl)
	default:
		return nil, fmt.Errorf("unknown session backend: %s", cfg.Backend)
	}
}

type memoryEntry struct {
	state     *domain.SessionState
	expiresAt time.Time
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore returns an in-process session store with the given TTL.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *memoryStore) Get(ctx context.Context, id string) (*domain.SessionState, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}
	return entry.state.Clone(), nil
}

func (s *memoryStore) Save(ctx context.Context, state *domain.SessionState) error {
	if state == nil || state.ID == "" {
		return fmt.Errorf("session state must carry an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[state.ID] = memoryEntry{
		state:     state.Clone(),
		expiresAt: s.now().Add(s.ttl),
	}
	s.sweepLocked()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// sweepLocked drops expired entries. Called with the write lock held.
func (s *memoryStore) sweepLocked() {
	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}
