package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Input datasets.
	EruptionsPath          string
	EruptionsSkipRows      int
	BoundariesPath         string
	BoundariesDefaultCRS   string
	ContinentOverridesPath string

	JoinWorkers            int
	MinEruptionsPerCountry int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional Kafka sink for the enriched table.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
	BatchSize      int

	// Optional Redis snapshot store.
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisSnapshotTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is read first if present; real
// environment variables take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	skipRows, err := parseInt("ERUPTIONS_SKIP_ROWS", 1, 0)
	if err != nil {
		return nil, err
	}
	workers, err := parseInt("JOIN_WORKERS", 4, 1)
	if err != nil {
		return nil, err
	}
	minPerCountry, err := parseInt("MIN_ERUPTIONS_PER_COUNTRY", 20, 0)
	if err != nil {
		return nil, err
	}
	redisDB, err := parseInt("REDIS_DB", 0, 0)
	if err != nil {
		return nil, err
	}

	snapshotTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("REDIS_SNAPSHOT_TTL", "24h"))
	if err != nil || snapshotTTL < 0 {
		return nil, errors.New("invalid REDIS_SNAPSHOT_TTL")
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		EruptionsPath:          sharedcfg.EnvOrDefault("ERUPTIONS_PATH", "data/eruptions.csv"),
		EruptionsSkipRows:      skipRows,
		BoundariesPath:         sharedcfg.EnvOrDefault("BOUNDARIES_PATH", "data/countries.geojson"),
		BoundariesDefaultCRS:   os.Getenv("BOUNDARIES_DEFAULT_CRS"),
		ContinentOverridesPath: os.Getenv("CONTINENT_OVERRIDES_PATH"),
		JoinWorkers:            workers,
		MinEruptionsPerCountry: minPerCountry,
		HTTPAddr:               sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:               sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:        shutdownTimeout,
		KafkaEnabled:           kafkaEnabled,
		KafkaBrokers:           brokers,
		KafkaSinkTopic:         sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "enriched-eruptions"),
		BatchSize:              batchSize,
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                redisDB,
		RedisSnapshotTTL:       snapshotTTL,
	}

	if cfg.EruptionsPath == "" {
		return nil, errors.New("ERUPTIONS_PATH is required")
	}
	if cfg.BoundariesPath == "" {
		return nil, errors.New("BOUNDARIES_PATH is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}

	return cfg, nil
}

// RedisEnabled reports whether a snapshot store is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func parseInt(key string, def, minimum int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minimum {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}
