package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
	"github.com/couchcryptid/eruption-atlas/internal/observability"
)

// ErrSnapshotNotFound is returned by a SnapshotStore that has no table for a
// fingerprint.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore is an optional second-tier store for enriched tables that
// outlives the process, such as Redis.
type SnapshotStore interface {
	Get(ctx context.Context, fingerprint string) (*domain.EnrichedTable, error)
	Put(ctx context.Context, table *domain.EnrichedTable) error
}

// BuildFunc produces the table for a fingerprint.
type BuildFunc func(ctx context.Context) (*domain.EnrichedTable, error)

// TableCache holds enriched tables by input fingerprint. Each fingerprint is
// built at most once, even under concurrent first access; afterwards all
// callers share the same read-only table. Failed builds are not cached.
type TableCache struct {
	tables  *xsync.Map[string, *domain.EnrichedTable]
	group   singleflight.Group
	store   SnapshotStore
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTableCache creates an empty cache. store may be nil.
func NewTableCache(store SnapshotStore, logger *slog.Logger, metrics *observability.Metrics) *TableCache {
	return &TableCache{
		tables:  xsync.NewMap[string, *domain.EnrichedTable](),
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// GetOrBuild returns the cached table for key, building it with build on first
// access. Concurrent callers for the same key share one build.
func (c *TableCache) GetOrBuild(ctx context.Context, key string, build BuildFunc) (*domain.EnrichedTable, error) {
	// Fast path.
	if t, ok := c.tables.Load(key); ok {
		c.metrics.TableCache.WithLabelValues("hit").Inc()
		return t, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another goroutine may have finished a build while we waited.
		if t, ok := c.tables.Load(key); ok {
			c.metrics.TableCache.WithLabelValues("hit").Inc()
			return t, nil
		}

		if t := c.loadSnapshot(ctx, key); t != nil {
			c.metrics.TableCache.WithLabelValues("snapshot").Inc()
			c.tables.Store(key, t)
			return t, nil
		}

		c.metrics.TableCache.WithLabelValues("miss").Inc()
		t, err := build(ctx)
		if err != nil {
			return nil, err
		}
		c.tables.Store(key, t)
		c.logger.Debug("enriched table cached", "fingerprint", key, "cached_tables", c.Len())
		c.saveSnapshot(ctx, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.EnrichedTable), nil
}

// Len returns the number of cached tables.
func (c *TableCache) Len() int {
	return c.tables.Size()
}

func (c *TableCache) loadSnapshot(ctx context.Context, key string) *domain.EnrichedTable {
	if c.store == nil {
		return nil
	}
	t, err := c.store.Get(ctx, key)
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
		return nil
	case err != nil:
		c.logger.Warn("snapshot load failed, rebuilding", "fingerprint", key, "error", err)
		return nil
	case t.Fingerprint != key || len(t.Rows) != t.Stats.Rows:
		c.logger.Warn("snapshot does not match fingerprint, rebuilding", "fingerprint", key)
		return nil
	}
	c.logger.Info("enriched table restored from snapshot", "fingerprint", key, "rows", len(t.Rows))
	return t
}

func (c *TableCache) saveSnapshot(ctx context.Context, t *domain.EnrichedTable) {
	if c.store == nil {
		return
	}
	if err := c.store.Put(ctx, t); err != nil {
		c.logger.Warn("snapshot save failed", "fingerprint", t.Fingerprint, "error", err)
	}
}
