// Package redis persists enriched tables in Redis so a restarted process can
// skip the spatial join for inputs it has already seen.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/eruption-atlas/internal/config"
	"github.com/couchcryptid/eruption-atlas/internal/domain"
	"github.com/couchcryptid/eruption-atlas/internal/pipeline"
)

const keyPrefix = "eruption-atlas:table:"

// SnapshotStore stores enriched tables as JSON keyed by input fingerprint.
// It implements pipeline.SnapshotStore.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ pipeline.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore connects to the configured Redis and verifies it answers a
// PING before returning.
func NewSnapshotStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*SnapshotStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close() //nolint:errcheck // connection never established
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	logger.Info("connected to redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB, "ttl", cfg.RedisSnapshotTTL)
	return NewSnapshotStoreFromClient(rdb, cfg.RedisSnapshotTTL, logger), nil
}

// NewSnapshotStoreFromClient wraps an existing client. A zero ttl keeps
// snapshots until evicted.
func NewSnapshotStoreFromClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl, logger: logger}
}

// Get loads the table for fingerprint. Returns pipeline.ErrSnapshotNotFound
// when no snapshot exists.
func (s *SnapshotStore) Get(ctx context.Context, fingerprint string) (*domain.EnrichedTable, error) {
	data, err := s.client.Get(ctx, Key(fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, pipeline.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", fingerprint, err)
	}

	var t domain.EnrichedTable
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", fingerprint, err)
	}
	return &t, nil
}

// Put writes table under its fingerprint.
func (s *SnapshotStore) Put(ctx context.Context, table *domain.EnrichedTable) error {
	if table.Fingerprint == "" {
		return errors.New("snapshot has no fingerprint")
	}
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", table.Fingerprint, err)
	}
	if err := s.client.Set(ctx, Key(table.Fingerprint), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot %s: %w", table.Fingerprint, err)
	}
	s.logger.Debug("snapshot stored", "fingerprint", table.Fingerprint, "bytes", len(data))
	return nil
}

// CheckReadiness pings Redis.
func (s *SnapshotStore) CheckReadiness(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SnapshotStore) Close() error {
	return s.client.Close()
}

// Key is the Redis key holding the snapshot for fingerprint.
func Key(fingerprint string) string {
	return keyPrefix + fingerprint
}
