package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/couchcryptid/eruption-atlas/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/eruption-atlas/internal/adapter/kafka"
	redisadapter "github.com/couchcryptid/eruption-atlas/internal/adapter/redis"
	"github.com/couchcryptid/eruption-atlas/internal/app"
	"github.com/couchcryptid/eruption-atlas/internal/config"
	"github.com/couchcryptid/eruption-atlas/internal/observability"
	"github.com/couchcryptid/eruption-atlas/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	in, err := app.LoadInputs(cfg, logger, metrics)
	if err != nil {
		logger.Error("failed to load inputs", "error", err)
		os.Exit(1)
	}

	// Snapshot store (optional, enabled via REDIS_ADDR).
	var store pipeline.SnapshotStore
	var snapshots *redisadapter.SnapshotStore
	if cfg.RedisEnabled() {
		snapshots, err = redisadapter.NewSnapshotStore(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to connect snapshot store", "error", err)
			os.Exit(1)
		}
		store = snapshots
	} else {
		logger.Info("redis snapshot store disabled")
	}

	components := app.NewComponents(cfg, in.Overrides, store, logger, metrics)
	source := components.Pipeline.Bind(in.Eruptions, in.Boundaries)

	var deps []sharedobs.ReadinessChecker
	if snapshots != nil {
		deps = append(deps, snapshots)
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, source, cfg.MinEruptionsPerCountry, logger, metrics, deps...)

	// Start HTTP server. /readyz stays 503 until the table is built.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Build the table eagerly; a CRS or input error is fatal.
	table, err := source.Table(ctx)
	if err != nil {
		logger.Error("enrichment failed", "error", err)
		os.Exit(1)
	}
	logger.Info("enriched table ready",
		"rows", table.Stats.Rows,
		"fingerprint", table.Fingerprint,
		"fallback_rate", table.Stats.FallbackRate(),
		"distinct_countries", components.Resolver.Len(),
	)

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		go func() {
			if err := components.Pipeline.Publish(ctx, table, writer, cfg.BatchSize); err != nil {
				logger.Error("publish failed", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if snapshots != nil {
		if err := snapshots.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
