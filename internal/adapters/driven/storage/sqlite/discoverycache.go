package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
	"github.com/custodia-labs/clipper/internal/logger"
)

// Ensure DiscoveryCache implements the interface.
var _ driven.DiscoveryCache = (*DiscoveryCache)(nil)

// DiscoveryCache is a single-slot driven.DiscoveryCache kept in the
// discovery_cache table, so the slot survives across processes.
//
// Storage errors are logged and treated as a miss; the caller then simply
// runs discovery again.
type DiscoveryCache struct {
	store *Store
	ttl   time.Duration
	now   func() time.Time
}

func newDiscoveryCache(store *Store, ttl time.Duration) *DiscoveryCache {
	return &DiscoveryCache{store: store, ttl: ttl, now: time.Now}
}

// Lookup returns the stored entry if it matches shape and has not expired.
// An entry older than the TTL is deleted.
func (c *DiscoveryCache) Lookup(shape domain.QueryShape) (*driven.DiscoveryCacheEntry, bool) {
	entry, err := c.load(context.Background())
	if err != nil {
		logger.Warn("discovery cache: %v", err)
		return nil, false
	}
	if entry == nil {
		return nil, false
	}
	if c.now().Sub(entry.CreatedAt) > c.ttl {
		if err := c.clear(context.Background()); err != nil {
			logger.Warn("discovery cache: %v", err)
		}
		return nil, false
	}
	if !entry.Shape.Equal(shape) {
		return nil, false
	}
	return entry, true
}

// Store replaces the slot.
func (c *DiscoveryCache) Store(shape domain.QueryShape, clips []domain.Clip, originalCount int) {
	if err := c.save(context.Background(), shape, clips, originalCount); err != nil {
		logger.Warn("discovery cache: %v", err)
	}
}

func (c *DiscoveryCache) load(ctx context.Context) (*driven.DiscoveryCacheEntry, error) {
	row := c.store.db.QueryRowContext(ctx, `
		SELECT shape, clips, original_count, created_at
		FROM discovery_cache WHERE slot = 1
	`)

	var shapeJSON, clipsJSON string
	var entry driven.DiscoveryCacheEntry
	var createdAt int64
	if err := row.Scan(&shapeJSON, &clipsJSON, &entry.OriginalCount, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning entry: %w", err)
	}

	if err := json.Unmarshal([]byte(shapeJSON), &entry.Shape); err != nil {
		return nil, fmt.Errorf("unmarshaling shape: %w", err)
	}
	if err := json.Unmarshal([]byte(clipsJSON), &entry.Clips); err != nil {
		return nil, fmt.Errorf("unmarshaling clips: %w", err)
	}
	entry.CreatedAt = time.Unix(0, createdAt).UTC()
	return &entry, nil
}

func (c *DiscoveryCache) save(ctx context.Context, shape domain.QueryShape, clips []domain.Clip, originalCount int) error {
	shapeJSON, err := json.Marshal(shape)
	if err != nil {
		return fmt.Errorf("marshalling shape: %w", err)
	}
	if clips == nil {
		clips = []domain.Clip{}
	}
	clipsJSON, err := json.Marshal(clips)
	if err != nil {
		return fmt.Errorf("marshalling clips: %w", err)
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO discovery_cache (slot, shape, clips, original_count, created_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			shape = excluded.shape,
			clips = excluded.clips,
			original_count = excluded.original_count,
			created_at = excluded.created_at
	`, string(shapeJSON), string(clipsJSON), originalCount, c.now().UnixNano())
	if err != nil {
		return fmt.Errorf("saving entry: %w", err)
	}
	return nil
}

func (c *DiscoveryCache) clear(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM discovery_cache WHERE slot = 1"); err != nil {
		return fmt.Errorf("deleting expired entry: %w", err)
	}
	return nil
}
