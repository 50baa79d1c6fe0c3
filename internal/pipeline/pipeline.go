package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/eruption-atlas/internal/domain"
	"github.com/couchcryptid/eruption-atlas/internal/observability"
)

// TableEnricher builds an enriched table from an input pair. CacheKey names
// everything besides the inputs that shapes the table.
type TableEnricher interface {
	Enrich(ctx context.Context, eruptions []domain.EruptionRecord, boundaries domain.BoundarySet) (*domain.EnrichedTable, error)
	CacheKey() string
}

// BatchLoader writes enriched rows to a destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, rows []domain.EnrichedEruption) error
}

// Pipeline serves enriched tables, running the enrichment at most once per
// distinct input pair.
type Pipeline struct {
	enricher TableEnricher
	cache    *TableCache
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Pipeline. The cache is injected so tests and callers control
// its lifetime.
func New(enricher TableEnricher, cache *TableCache, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		enricher: enricher,
		cache:    cache,
		logger:   logger,
		metrics:  metrics,
	}
}

// Table returns the enriched table for the input pair, building it on first
// access. The returned table is shared and must not be modified.
func (p *Pipeline) Table(ctx context.Context, eruptions []domain.EruptionRecord, boundaries domain.BoundarySet) (*domain.EnrichedTable, error) {
	return p.table(ctx, p.Key(eruptions, boundaries), eruptions, boundaries)
}

// Key is the cache key and table fingerprint for an input pair under this
// pipeline's enricher configuration.
func (p *Pipeline) Key(eruptions []domain.EruptionRecord, boundaries domain.BoundarySet) string {
	return TableKey(eruptions, boundaries, p.enricher.CacheKey())
}

func (p *Pipeline) table(ctx context.Context, key string, eruptions []domain.EruptionRecord, boundaries domain.BoundarySet) (*domain.EnrichedTable, error) {
	return p.cache.GetOrBuild(ctx, key, func(ctx context.Context) (*domain.EnrichedTable, error) {
		t, err := p.enricher.Enrich(ctx, eruptions, boundaries)
		if err != nil {
			return nil, err
		}
		t.Fingerprint = key
		return t, nil
	})
}

// Bind fixes the input pair, returning a Source that serves its table. The
// key is computed here once; the inputs must not change after binding.
func (p *Pipeline) Bind(eruptions []domain.EruptionRecord, boundaries domain.BoundarySet) *Source {
	return &Source{p: p, key: p.Key(eruptions, boundaries), eruptions: eruptions, boundaries: boundaries}
}

// Publish writes every row of the table to loader in batches of batchSize,
// preserving row order.
func (p *Pipeline) Publish(ctx context.Context, table *domain.EnrichedTable, loader BatchLoader, batchSize int) error {
	if batchSize < 1 {
		batchSize = 1
	}
	for start := 0; start < len(table.Rows); start += batchSize {
		end := min(start+batchSize, len(table.Rows))
		if err := loader.LoadBatch(ctx, table.Rows[start:end]); err != nil {
			p.logger.Error("publish batch failed", "error", err, "offset", start, "batch_size", end-start)
			return err
		}
		p.metrics.RecordsPublished.Add(float64(end - start))
	}
	p.logger.Info("enriched table published", "rows", len(table.Rows), "fingerprint", table.Fingerprint)
	return nil
}

// Source is a pipeline bound to one input pair. It satisfies the readiness
// checker used by the HTTP health endpoints.
type Source struct {
	p          *Pipeline
	key        string
	eruptions  []domain.EruptionRecord
	boundaries domain.BoundarySet
	ready      atomic.Bool
}

// Table returns the bound input pair's enriched table.
func (s *Source) Table(ctx context.Context) (*domain.EnrichedTable, error) {
	t, err := s.p.table(ctx, s.key, s.eruptions, s.boundaries)
	if err != nil {
		return nil, err
	}
	if !s.ready.Swap(true) {
		s.p.metrics.TableReady.Set(1)
	}
	return t, nil
}

// Key is the bound pair's table fingerprint.
func (s *Source) Key() string {
	return s.key
}

// CheckReadiness returns nil once the table has been built.
func (s *Source) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("enriched table has not been built yet")
	}
	return nil
}
