package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
)

// fakeClock is a manually advanced clock.
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
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache() (*DiscoveryCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	cache := NewDiscoveryCache()
	cache.now = clock.Now
	return cache, clock
}

func testShape() domain.QueryShape {
	return domain.QueryShape{
		ChannelID:         "12345",
		Start:             time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		End:               time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		AccountMode:       domain.AccountFilterBlacklist,
		AccountNames:      []string{"bot", "spammer"},
		MaxGap:            2,
		CoverageThreshold: 0.9,
	}
}

func TestNewDiscoveryCache(t *testing.T) {
	cache := NewDiscoveryCache()
	require.NotNil(t, cache)
	assert.Equal(t, driven.DiscoveryCacheTTL, cache.ttl)
	assert.Nil(t, cache.entry)
}

func TestDiscoveryCache_Lookup_Empty(t *testing.T) {
	cache, _ := newTestCache()

	entry, ok := cache.Lookup(testShape())

	assert.False(t, ok)
	assert.Nil(t, entry)
}

func TestDiscoveryCache_StoreAndLookup(t *testing.T) {
	cache, clock := newTestCache()
	clips := []domain.Clip{{ID: "a"}, {ID: "b"}}

	cache.Store(testShape(), clips, 5)
	clock.Advance(time.Minute)

	entry, ok := cache.Lookup(testShape())
	require.True(t, ok)
	assert.Equal(t, clips, entry.Clips)
	assert.Equal(t, 5, entry.OriginalCount)
	assert.Equal(t, clock.now.Add(-time.Minute), entry.CreatedAt)
}

func TestDiscoveryCache_Lookup_AccountNamesUnordered(t *testing.T) {
	cache, _ := newTestCache()
	cache.Store(testShape(), []domain.Clip{{ID: "a"}}, 1)

	shape := testShape()
	shape.AccountNames = []string{"spammer", "bot"}

	_, ok := cache.Lookup(shape)
	assert.True(t, ok)
}

func TestDiscoveryCache_Lookup_ShapeMismatch(t *testing.T) {
	cache, _ := newTestCache()
	cache.Store(testShape(), []domain.Clip{{ID: "a"}}, 1)

	shape := testShape()
	shape.End = shape.End.Add(time.Second)

	_, ok := cache.Lookup(shape)
	assert.False(t, ok)

	// A mismatch leaves the slot in place.
	_, ok = cache.Lookup(testShape())
	assert.True(t, ok)
}

func TestDiscoveryCache_Lookup_ExpiredClearsSlot(t *testing.T) {
	cache, clock := newTestCache()
	cache.Store(testShape(), []domain.Clip{{ID: "a"}}, 7)

	clock.Advance(driven.DiscoveryCacheTTL + time.Nanosecond)

	_, ok := cache.Lookup(testShape())
	assert.False(t, ok)
	assert.Nil(t, cache.entry)

	// Winding the clock back does not bring the entry back.
	clock.Advance(-driven.DiscoveryCacheTTL - time.Nanosecond)
	entry, ok := cache.Lookup(testShape())
	assert.False(t, ok)
	assert.Nil(t, entry)
}

func TestDiscoveryCache_Lookup_JustBeforeExpiry(t *testing.T) {
	cache, clock := newTestCache()
	cache.Store(testShape(), []domain.Clip{{ID: "a"}}, 1)

	clock.Advance(driven.DiscoveryCacheTTL - time.Millisecond)

	_, ok := cache.Lookup(testShape())
	assert.True(t, ok)
}

func TestDiscoveryCache_Lookup_ExactlyAtTTL(t *testing.T) {
	cache, clock := newTestCache()
	cache.Store(testShape(), []domain.Clip{{ID: "a"}}, 1)

	clock.Advance(driven.DiscoveryCacheTTL)

	entry, ok := cache.Lookup(testShape())
	require.True(t, ok)
	assert.Equal(t, "a", entry.Clips[0].ID)
	assert.NotNil(t, cache.entry)
}

func TestDiscoveryCache_Store_ReplacesSlot(t *testing.T) {
	cache, _ := newTestCache()
	first := testShape()
	second := testShape()
	second.ChannelID = "67890"

	cache.Store(first, []domain.Clip{{ID: "a"}}, 1)
	cache.Store(second, []domain.Clip{{ID: "b"}}, 2)

	_, ok := cache.Lookup(first)
	assert.False(t, ok)

	entry, ok := cache.Lookup(second)
	require.True(t, ok)
	assert.Equal(t, "b", entry.Clips[0].ID)
	assert.Equal(t, 2, entry.OriginalCount)
}

func TestDiscoveryCache_Lookup_ReturnsCopy(t *testing.T) {
	cache, _ := newTestCache()
	cache.Store(testShape(), []domain.Clip{{ID: "a"}}, 1)

	entry, ok := cache.Lookup(testShape())
	require.True(t, ok)
	entry.Clips[0].ID = "mutated"

	again, ok := cache.Lookup(testShape())
	require.True(t, ok)
	assert.Equal(t, "a", again.Clips[0].ID)
}

func TestDiscoveryCache_ConcurrentAccess(t *testing.T) {
	cache, _ := newTestCache()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cache.Store(testShape(), []domain.Clip{{ID: "a"}}, 1)
		}()
		go func() {
			defer wg.Done()
			cache.Lookup(testShape())
		}()
	}
	wg.Wait()

	_, ok := cache.Lookup(testShape())
	assert.True(t, ok)
}
