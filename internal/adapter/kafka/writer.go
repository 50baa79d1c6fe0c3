package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/eruption-atlas/internal/config"
	"github.com/couchcryptid/eruption-atlas/internal/domain"
)

// Writer produces enriched eruption rows to a Kafka topic.
// It implements pipeline.BatchLoader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// LoadBatch serializes and publishes rows in a single WriteMessages call.
// Rows are keyed by eruption ID so replays land on the same partition.
func (w *Writer) LoadBatch(ctx context.Context, rows []domain.EnrichedEruption) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := serializeToMessage(rows[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages: %w", len(msgs), err)
	}
	w.logger.Debug("batch written", "topic", w.writer.Topic, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an enriched row into a Kafka message.
func serializeToMessage(row domain.EnrichedEruption) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize eruption %s: %w", row.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(row.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "continent", Value: []byte(row.Continent)},
			{Key: "continent_outcome", Value: []byte(row.ContinentOutcome)},
			{Key: "geo_status", Value: []byte(row.GeoStatus)},
		},
	}, nil
}
