// Package app wires configuration, file inputs, and the enrichment pipeline
// for the service and CLI entry points.
package app

import (
	"fmt"
	"log/slog"

	"github.com/couchcryptid/eruption-atlas/internal/adapter/file"
	"github.com/couchcryptid/eruption-atlas/internal/config"
	"github.com/couchcryptid/eruption-atlas/internal/continent"
	"github.com/couchcryptid/eruption-atlas/internal/domain"
	"github.com/couchcryptid/eruption-atlas/internal/geo"
	"github.com/couchcryptid/eruption-atlas/internal/observability"
	"github.com/couchcryptid/eruption-atlas/internal/pipeline"
)

// Inputs are the loaded source datasets.
type Inputs struct {
	Eruptions  []domain.EruptionRecord
	Boundaries domain.BoundarySet
	Overrides  continent.Overrides
}

// LoadInputs reads the eruptions CSV, the boundaries GeoJSON, and the optional
// continent overrides file named by cfg.
func LoadInputs(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Inputs, error) {
	eruptions, err := file.LoadEruptions(cfg.EruptionsPath, cfg.EruptionsSkipRows, logger)
	if err != nil {
		return nil, fmt.Errorf("load eruptions: %w", err)
	}
	metrics.EruptionsLoaded.Add(float64(len(eruptions)))

	boundaries, err := file.LoadBoundaries(cfg.BoundariesPath, cfg.BoundariesDefaultCRS, logger)
	if err != nil {
		return nil, fmt.Errorf("load boundaries: %w", err)
	}
	metrics.BoundariesLoaded.Add(float64(len(boundaries.Polygons)))

	overrides := continent.DefaultOverrides()
	if cfg.ContinentOverridesPath != "" {
		if overrides, err = continent.LoadOverrides(cfg.ContinentOverridesPath); err != nil {
			return nil, fmt.Errorf("load continent overrides: %w", err)
		}
	}

	logger.Info("inputs loaded",
		"eruptions", len(eruptions),
		"polygons", len(boundaries.Polygons),
		"crs", boundaries.CRS,
		"overrides", len(overrides),
	)
	return &Inputs{Eruptions: eruptions, Boundaries: boundaries, Overrides: overrides}, nil
}

// Components are the long-lived pieces of one enrichment setup.
type Components struct {
	Resolver *continent.CachedResolver
	Pipeline *pipeline.Pipeline
}

// NewComponents builds the resolver, joiner, enricher, and cached pipeline.
// store may be nil.
func NewComponents(cfg *config.Config, overrides continent.Overrides, store pipeline.SnapshotStore, logger *slog.Logger, metrics *observability.Metrics) *Components {
	resolver := continent.NewCachedResolver(continent.NewResolver(overrides, logger), metrics)
	joiner := geo.NewJoiner(cfg.JoinWorkers, logger)
	enricher := pipeline.NewEnricher(joiner, resolver, logger, metrics)
	cache := pipeline.NewTableCache(store, logger, metrics)
	return &Components{
		Resolver: resolver,
		Pipeline: pipeline.New(enricher, cache, logger, metrics),
	}
}
