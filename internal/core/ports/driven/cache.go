package driven

import (
	"time"

	"github.com/custodia-labs/clipper/internal/core/domain"
)

// DiscoveryCacheTTL is how long a discovery result stays valid.
const DiscoveryCacheTTL = 5 * time.Minute

// DiscoveryCacheEntry is a memoised discovery result.
type DiscoveryCacheEntry struct {
	// Shape is the query the clips were discovered for.
	Shape domain.QueryShape

	// Clips is the discovered set after account filtering.
	Clips []domain.Clip

	// OriginalCount is the number of clips discovered before account filtering.
	OriginalCount int

	// CreatedAt is when the entry was stored.
	CreatedAt time.Time
}

// DiscoveryCache holds at most one discovery result.
type DiscoveryCache interface {
	// Lookup returns the entry stored for shape.
	// Returns false if the slot is empty, the entry is older than the TTL
	// (in which case the slot is cleared), or the shape differs.
	Lookup(shape domain.QueryShape) (*DiscoveryCacheEntry, bool)

	// Store replaces the slot unconditionally.
	Store(shape domain.QueryShape, clips []domain.Clip, originalCount int)
}
