package sqlite

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

func newTestCache(t *testing.T, store *Store) (*DiscoveryCache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	cache := store.DiscoveryCache()
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

func testClips() []domain.Clip {
	off := 42.5
	return []domain.Clip{
		{
			ID:        "AwkwardHelplessSalamander",
			Creator:   "alice",
			Title:     "nice shot",
			Duration:  29.9,
			CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			Offset:    &off,
			GameID:    "509658",
			VideoID:   "2140716861",
			URL:       "https://clips.twitch.tv/AwkwardHelplessSalamander",
			ViewCount: 12,
		},
		{
			ID:        "NoOffsetClip",
			Creator:   "bob",
			Duration:  15,
			CreatedAt: time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC),
		},
	}
}

func slotRows(t *testing.T, store *Store) int {
	t.Helper()
	var n int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM discovery_cache").Scan(&n))
	return n
}

func TestStore_DiscoveryCacheTTL(t *testing.T) {
	store, _ := setupTestStore(t)

	assert.Equal(t, driven.DiscoveryCacheTTL, store.DiscoveryCache().ttl)
}

func TestDiscoveryCache_Lookup_Empty(t *testing.T) {
	store, _ := setupTestStore(t)
	cache, _ := newTestCache(t, store)

	entry, ok := cache.Lookup(testShape())

	assert.False(t, ok)
	assert.Nil(t, entry)
}

func TestDiscoveryCache_StoreAndLookup(t *testing.T) {
	store, _ := setupTestStore(t)
	cache, clock := newTestCache(t, store)

	cache.Store(testShape(), testClips(), 5)
	clock.Advance(time.Minute)

	entry, ok := cache.Lookup(testShape())
	require.True(t, ok)
	assert.Equal(t, testClips(), entry.Clips)
	assert.Equal(t, 5, entry.OriginalCount)
	assert.True(t, entry.Shape.Equal(testShape()))
	assert.True(t, entry.CreatedAt.Equal(clock.Now().Add(-time.Minute)))
}

func TestDiscoveryCache_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{now: time.Now()}

	first, err := NewStore(dir)
	require.NoError(t, err)
	writer := first.DiscoveryCache()
	writer.now = clock.Now
	writer.Store(testShape(), testClips(), 3)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()
	reader := second.DiscoveryCache()
	reader.now = clock.Now

	entry, ok := reader.Lookup(testShape())
	require.True(t, ok)
	assert.Len(t, entry.Clips, 2)
	assert.Equal(t, 3, entry.OriginalCount)
}

func TestDiscoveryCache_Lookup_AccountNamesUnordered(t *testing.T) {
	store, _ := setupTestStore(t)
	cache, _ := newTestCache(t, store)
	cache.Store(testShape(), testClips(), 2)

	shape := testShape()
	shape.AccountNames = []string{"spammer", "bot"}

	_, ok := cache.Lookup(shape)
	assert.True(t, ok)
}

func TestDiscoveryCache_Lookup_ShapeMismatch(t *testing.T) {
	store, _ := setupTestStore(t)
	cache, _ := newTestCache(t, store)
	cache.Store(testShape(), testClips(), 2)

	shape := testShape()
	shape.CoverageThreshold = 0.8

	_, ok := cache.Lookup(shape)
	assert.False(t, ok)

	// A mismatch leaves the slot in place.
	assert.Equal(t, 1, slotRows(t, store))
	_, ok = cache.Lookup(testShape())
	assert.True(t, ok)
}

func TestDiscoveryCache_Lookup_ExactlyAtTTL(t *testing.T) {
	store, _ := setupTestStore(t)
	cache, clock := newTestCache(t, store)
	cache.Store(testShape(), testClips(), 2)

	clock.Advance(driven.DiscoveryCacheTTL)

	_, ok := cache.Lookup(testShape())
	assert.True(t, ok)
}

func TestDiscoveryCache_Lookup_ExpiredDeletesRow(t *testing.T) {
	store, _ := setupTestStore(t)
	cache, clock := newTestCache(t, store)
	cache.Store(testShape(), testClips(), 2)

	clock.Advance(driven.DiscoveryCacheTTL + time.Nanosecond)

	_, ok := cache.Lookup(testShape())
	assert.False(t, ok)
	assert.Zero(t, slotRows(t, store))

	// Winding the clock back does not bring the entry back.
	clock.Advance(-driven.DiscoveryCacheTTL)
	_, ok = cache.Lookup(testShape())
	assert.False(t, ok)
}

func TestDiscoveryCache_Store_ReplacesSlot(t *testing.T) {
	store, _ := setupTestStore(t)
	cache, _ := newTestCache(t, store)
	first := testShape()
	second := testShape()
	second.ChannelID = "67890"

	cache.Store(first, testClips(), 2)
	cache.Store(second, []domain.Clip{{ID: "b"}}, 9)

	assert.Equal(t, 1, slotRows(t, store))
	_, ok := cache.Lookup(first)
	assert.False(t, ok)

	entry, ok := cache.Lookup(second)
	require.True(t, ok)
	require.Len(t, entry.Clips, 1)
	assert.Equal(t, "b", entry.Clips[0].ID)
	assert.Equal(t, 9, entry.OriginalCount)
}

func TestDiscoveryCache_Store_NilClips(t *testing.T) {
	store, _ := setupTestStore(t)
	cache, _ := newTestCache(t, store)

	cache.Store(testShape(), nil, 4)

	entry, ok := cache.Lookup(testShape())
	require.True(t, ok)
	assert.Empty(t, entry.Clips)
	assert.Equal(t, 4, entry.OriginalCount)
}

func TestDiscoveryCache_Lookup_CorruptRowIsMiss(t *testing.T) {
	store, _ := setupTestStore(t)
	cache, _ := newTestCache(t, store)
	cache.Store(testShape(), testClips(), 2)

	_, err := store.db.Exec("UPDATE discovery_cache SET clips = 'not json' WHERE slot = 1")
	require.NoError(t, err)

	entry, ok := cache.Lookup(testShape())
	assert.False(t, ok)
	assert.Nil(t, entry)

	// The next store overwrites the damaged row.
	cache.Store(testShape(), testClips(), 2)
	_, ok = cache.Lookup(testShape())
	assert.True(t, ok)
}
