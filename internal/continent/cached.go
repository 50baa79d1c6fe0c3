package continent

import (
	"slices"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
	"github.com/couchcryptid/eruption-atlas/internal/observability"
)

// CachedResolver memoizes another Resolver per unique country name. Resolution
// is deterministic, so entries never expire.
type CachedResolver struct {
	inner   Resolver
	memo    *xsync.Map[string, Resolution]
	metrics *observability.Metrics
}

// NewCachedResolver creates a memoizing decorator around a resolver.
func NewCachedResolver(inner Resolver, metrics *observability.Metrics) *CachedResolver {
	return &CachedResolver{
		inner:   inner,
		memo:    xsync.NewMap[string, Resolution](),
		metrics: metrics,
	}
}

func (c *CachedResolver) Resolve(country *string) Resolution {
	res := c.resolve(country)
	c.metrics.ContinentResolutions.WithLabelValues(string(res.Outcome)).Inc()
	return res
}

func (c *CachedResolver) resolve(country *string) Resolution {
	if country == nil {
		return c.inner.Resolve(nil)
	}
	key := *country
	if res, ok := c.memo.Load(key); ok {
		c.metrics.ContinentCache.WithLabelValues("hit").Inc()
		return res
	}

	hit := true
	res, _ := c.memo.Compute(key, func(old Resolution, loaded bool) (Resolution, xsync.ComputeOp) {
		if loaded {
			return old, xsync.CancelOp
		}
		hit = false
		return c.inner.Resolve(&key), xsync.UpdateOp
	})
	if hit {
		c.metrics.ContinentCache.WithLabelValues("hit").Inc()
	} else {
		c.metrics.ContinentCache.WithLabelValues("miss").Inc()
	}
	return res
}

// CacheKey delegates to the wrapped resolver. It is empty when the inner
// resolver cannot describe itself.
func (c *CachedResolver) CacheKey() string {
	if k, ok := c.inner.(KeyedResolver); ok {
		return k.CacheKey()
	}
	return ""
}

// Len returns the number of memoized country names.
func (c *CachedResolver) Len() int {
	return c.memo.Size()
}

// Audit groups memoized country names by outcome, each group sorted.
func (c *CachedResolver) Audit() map[domain.Outcome][]string {
	out := make(map[domain.Outcome][]string)
	c.memo.Range(func(k string, v Resolution) bool {
		out[v.Outcome] = append(out[v.Outcome], k)
		return true
	})
	for _, names := range out {
		slices.Sort(names)
	}
	return out
}
