package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/megamenu/internal/menu"
)

// fakeClock is a controllable clock for TTL tests.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := NewMemory(30*time.Minute, clk.Now)

	_, ok, err := c.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache must miss")

	want := menu.Fallback()
	require.NoError(t, c.Write(ctx, want))

	got, ok, err := c.Read(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(&want))
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := NewMemory(30*time.Minute, clk.Now)

	require.NoError(t, c.Write(ctx, menu.Fallback()))

	clk.Advance(29 * time.Minute)
	_, ok, err := c.Read(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "entry must be fresh before TTL")

	clk.Advance(2 * time.Minute)
	_, ok, err = c.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "entry must miss after TTL")

	// Expired entry was evicted, not just skipped.
	clk.Advance(-10 * time.Minute)
	_, ok, err = c.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_Evict(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Hour, nil)
	require.NoError(t, c.Write(ctx, menu.Fallback()))
	require.NoError(t, c.Evict(ctx))
	_, ok, err := c.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEntryExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	e := Entry{Timestamp: now, Expiry: now.Add(time.Minute)}
	assert.False(t, e.Expired(now))
	assert.False(t, e.Expired(now.Add(time.Minute)))
	assert.True(t, e.Expired(now.Add(time.Minute+time.Second)))
}
