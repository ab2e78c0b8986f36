package cache

import (
	"context"
	"sync"
	"time"

	"git.home.luguber.info/inful/megamenu/internal/menu"
)

// Memory is an in-process single-slot cache. It backs embedded library use
// and serves as the test double for the provider chain.
type Memory struct {
	mu    sync.RWMutex
	entry *Entry
	ttl   time.Duration
	now   clock
}

// NewMemory creates an in-memory cache with the given TTL. A non-positive
// ttl falls back to DefaultTTL. now may be nil.
func NewMemory(ttl time.Duration, now clock) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{ttl: ttl, now: orSystemClock(now)}
}

// Read returns the cached menu if present and unexpired, evicting stale
// entries on the way out.
func (m *Memory) Read(_ context.Context) (menu.MenuData, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entry == nil {
		return menu.MenuData{}, false, nil
	}
	if m.entry.Expired(m.now()) {
		m.entry = nil
		return menu.MenuData{}, false, nil
	}
	return m.entry.Data, true, nil
}

// Write stores the menu with a fresh expiry of now+TTL.
func (m *Memory) Write(_ context.Context, data menu.MenuData) error {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = &Entry{Data: data, Timestamp: now, Expiry: now.Add(m.ttl)}
	return nil
}

// Evict drops the cached entry.
func (m *Memory) Evict(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entry = nil
	return nil
}
