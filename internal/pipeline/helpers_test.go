package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/eruption-atlas/internal/continent"
	"github.com/couchcryptid/eruption-atlas/internal/domain"
	"github.com/couchcryptid/eruption-atlas/internal/geo"
	"github.com/couchcryptid/eruption-atlas/internal/observability"
	"github.com/couchcryptid/eruption-atlas/internal/pipeline"
)

func ptr[T any](v T) *T { return &v }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func box(minLon, minLat, maxLon, maxLat float64) orb.Ring {
	return orb.Ring{
		{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
	}
}

func testBoundaries() domain.BoundarySet {
	return domain.BoundarySet{
		CRS: "EPSG:4326",
		Polygons: []domain.CountryPolygon{
			{Name: "Spain", ISO3: ptr("ESP"), ISO2: ptr("ES"), Geometry: orb.MultiPolygon{{box(-9.5, 36, 3.3, 43.8)}}},
			{Name: "Iceland", ISO3: ptr("ISL"), ISO2: ptr("IS"), Geometry: orb.MultiPolygon{{box(-24.5, 63.3, -13.5, 66.6)}}},
			{Name: "Somaliland", Geometry: orb.MultiPolygon{{box(43, 8, 48.9, 11.5)}}},
		},
	}
}

func testEruptions() []domain.EruptionRecord {
	return []domain.EruptionRecord{
		{VolcanoName: "Campo de Calatrava", StartYear: -3600, VEI: ptr(2.0), Category: domain.CategoryConfirmed, Latitude: ptr(40.0), Longitude: ptr(-3.0)},
		{VolcanoName: "Mid-Atlantic", StartYear: 1900, Category: domain.CategoryUncertain, Latitude: ptr(0.0), Longitude: ptr(0.0)},
		{VolcanoName: "Hekla", StartYear: 1947, VEI: ptr(4.0), Category: domain.CategoryConfirmed, Latitude: ptr(63.98), Longitude: ptr(-19.7)},
		{VolcanoName: "Unlocated", StartYear: 1850, Category: domain.CategoryDiscredited},
		{VolcanoName: "Broken", StartYear: 1700, Category: domain.CategoryConfirmed, Latitude: ptr(123.0), Longitude: ptr(10.0)},
		{VolcanoName: "Somaliland field", StartYear: 1820, Category: domain.CategoryConfirmed, Latitude: ptr(10.0), Longitude: ptr(45.0)},
	}
}

func newEnricher(metrics *observability.Metrics) *pipeline.Enricher {
	logger := discardLogger()
	resolver := continent.NewCachedResolver(continent.NewResolver(continent.DefaultOverrides(), logger), metrics)
	return pipeline.NewEnricher(geo.NewJoiner(1, logger), resolver, logger, metrics)
}

// countingEnricher records how many times the join actually ran.
type countingEnricher struct {
	inner pipeline.TableEnricher
	calls atomic.Int64
	gate  chan struct{}
	err   error
}

func (c *countingEnricher) Enrich(ctx context.Context, e []domain.EruptionRecord, b domain.BoundarySet) (*domain.EnrichedTable, error) {
	c.calls.Add(1)
	if c.gate != nil {
		<-c.gate
	}
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.Enrich(ctx, e, b)
}

func (c *countingEnricher) CacheKey() string { return c.inner.CacheKey() }

type memoryStore struct {
	mu     sync.Mutex
	tables map[string]*domain.EnrichedTable
	puts   int
	getErr error
	putErr error
}

func (m *memoryStore) Get(_ context.Context, fingerprint string) (*domain.EnrichedTable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	t, ok := m.tables[fingerprint]
	if !ok {
		return nil, pipeline.ErrSnapshotNotFound
	}
	return t, nil
}

func (m *memoryStore) Put(_ context.Context, t *domain.EnrichedTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	if m.tables == nil {
		m.tables = make(map[string]*domain.EnrichedTable)
	}
	m.tables[t.Fingerprint] = t
	return nil
}

type recordingLoader struct {
	batches [][]domain.EnrichedEruption
	failAt  int
	err     error
}

func (r *recordingLoader) LoadBatch(_ context.Context, rows []domain.EnrichedEruption) error {
	if r.err != nil && len(r.batches) == r.failAt {
		return r.err
	}
	r.batches = append(r.batches, append([]domain.EnrichedEruption(nil), rows...))
	return nil
}
