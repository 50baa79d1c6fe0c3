package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/eruption-atlas/internal/continent"
	"github.com/couchcryptid/eruption-atlas/internal/domain"
	"github.com/couchcryptid/eruption-atlas/internal/geo"
	"github.com/couchcryptid/eruption-atlas/internal/observability"
)

// Enricher runs the geometry table, spatial join, and continent resolution
// stages over one input pair.
type Enricher struct {
	joiner   *geo.Joiner
	resolver continent.Resolver
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewEnricher creates an Enricher with the given stages and observability.
func NewEnricher(joiner *geo.Joiner, resolver continent.Resolver, logger *slog.Logger, metrics *observability.Metrics) *Enricher {
	return &Enricher{
		joiner:   joiner,
		resolver: resolver,
		logger:   logger,
		metrics:  metrics,
	}
}

// CacheKey identifies the resolver configuration, so tables built under
// different continent overrides never share a cache entry.
func (e *Enricher) CacheKey() string {
	if k, ok := e.resolver.(continent.KeyedResolver); ok {
		return k.CacheKey()
	}
	return ""
}

// Enrich left-joins eruptions against boundaries and annotates each row with a
// continent. Output rows are in input order and len(Rows) == len(eruptions).
// CRS and reprojection failures are returned; malformed rows and polygons are
// logged and excluded from matching.
func (e *Enricher) Enrich(ctx context.Context, eruptions []domain.EruptionRecord, boundaries domain.BoundarySet) (*domain.EnrichedTable, error) {
	start := time.Now()

	table, err := geo.NewTable(eruptions, boundaries)
	if err != nil {
		return nil, fmt.Errorf("build geometry table: %w", err)
	}
	for _, issue := range table.Issues() {
		e.logger.Debug("eruption excluded from spatial join", "error", issue)
	}

	joined, err := e.joiner.Join(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("spatial join: %w", err)
	}

	stats := domain.Stats{
		Rows:             len(eruptions),
		Polygons:         len(joined.Polygons),
		DroppedPolygons:  len(joined.Dropped),
		GeoStatus:        make(map[domain.GeoStatus]int),
		ContinentOutcome: make(map[domain.Outcome]int),
	}

	rows := make([]domain.EnrichedEruption, len(eruptions))
	for i, rec := range eruptions {
		if rec.ID == "" {
			rec.ID = domain.GenerateID(rec.VolcanoName, rec.StartYear, rec.Latitude, rec.Longitude, rec.Category)
		}
		row := domain.EnrichedEruption{EruptionRecord: rec, GeoStatus: joined.Matches[i].Status}

		if m := joined.Matches[i]; m.Polygon >= 0 {
			p := joined.Polygons[m.Polygon]
			name := p.Name
			row.Country = &name
			row.ISO3 = p.ISO3
			row.ISO2 = p.ISO2
		}

		res := e.resolver.Resolve(row.Country)
		row.Continent = res.Continent
		row.ContinentOutcome = res.Outcome

		stats.GeoStatus[row.GeoStatus]++
		stats.ContinentOutcome[row.ContinentOutcome]++
		rows[i] = row
	}

	for status, n := range stats.GeoStatus {
		e.metrics.JoinResults.WithLabelValues(string(status)).Add(float64(n))
	}
	e.metrics.TableBuilds.Inc()
	e.metrics.TableBuildDuration.Observe(time.Since(start).Seconds())

	if n := stats.GeoStatus[domain.GeoMalformed]; n > 0 {
		e.logger.Warn("eruptions with malformed coordinates", "count", n)
	}
	e.logger.Info("enriched table built",
		"rows", stats.Rows,
		"polygons", stats.Polygons,
		"dropped_polygons", stats.DroppedPolygons,
		"matched", stats.GeoStatus[domain.GeoMatched],
		"unmatched", stats.GeoStatus[domain.GeoUnmatched],
		"fallback_rate", stats.FallbackRate(),
		"duration", time.Since(start),
	)

	return &domain.EnrichedTable{
		BuiltAt: domain.Now(),
		Rows:    rows,
		Stats:   stats,
	}, nil
}
