package memory

import (
	"sync"
	"time"

	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
)

// Ensure DiscoveryCache implements the interface.
var _ driven.DiscoveryCache = (*DiscoveryCache)(nil)

// DiscoveryCache is a single-slot in-memory implementation of driven.DiscoveryCache.
type DiscoveryCache struct {
	mu    sync.Mutex
	entry *driven.DiscoveryCacheEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewDiscoveryCache creates an empty cache using driven.DiscoveryCacheTTL.
func NewDiscoveryCache() *DiscoveryCache {
	return &DiscoveryCache{
		ttl: driven.DiscoveryCacheTTL,
		now: time.Now,
	}
}

// Lookup returns the stored entry if it matches shape and has not expired.
// An entry older than the TTL is dropped.
func (c *DiscoveryCache) Lookup(shape domain.QueryShape) (*driven.DiscoveryCacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry == nil {
		return nil, false
	}
	if c.now().Sub(c.entry.CreatedAt) > c.ttl {
		c.entry = nil
		return nil, false
	}
	if !c.entry.Shape.Equal(shape) {
		return nil, false
	}

	entry := *c.entry
	entry.Clips = append([]domain.Clip(nil), c.entry.Clips...)
	return &entry, true
}

// Store replaces the slot.
func (c *DiscoveryCache) Store(shape domain.QueryShape, clips []domain.Clip, originalCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entry = &driven.DiscoveryCacheEntry{
		Shape:         shape,
		Clips:         append([]domain.Clip(nil), clips...),
		OriginalCount: originalCount,
		CreatedAt:     c.now(),
	}
}
