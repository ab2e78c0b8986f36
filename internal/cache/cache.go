// Package cache provides the TTL-bounded single-slot cache the menu provider
// reads before touching the document store.
package cache

import (
	"context"
	"time"

	"git.home.luguber.info/inful/megamenu/internal/menu"
)

// DefaultTTL matches the fallback configuration of the original deployment.
const DefaultTTL = 30 * time.Minute

// Entry wraps a cached menu with its write and expiry timestamps.
type Entry struct {
	Data      menu.MenuData `json:"data"`
	Timestamp time.Time     `json:"timestamp"`
	Expiry    time.Time     `json:"expiry"`
}

// Expired reports whether the entry is stale at the given instant.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.Expiry)
}

// Cache is the injected key-value capability holding the single menu slot.
//
// Read returns (data, true, nil) on a fresh hit. Expired or corrupt entries
// are evicted and reported as a miss; corruption never propagates as an
// error. The error return is reserved for backend failures (e.g. the
// database file is unreachable), which callers also treat as a miss.
type Cache interface {
	Read(ctx context.Context) (menu.MenuData, bool, error)
	Write(ctx context.Context, data menu.MenuData) error
	Evict(ctx context.Context) error
}

// clock lets tests control time; production code passes nil to constructors
// and gets time.Now.
type clock func() time.Time

func orSystemClock(c clock) clock {
	if c == nil {
		return time.Now
	}
	return c
}
