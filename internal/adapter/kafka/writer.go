// Package kafka publishes normalized events to the sink topic consumed by
// the reporting services.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/patrolwatch/incident-etl/internal/config"
	"github.com/patrolwatch/incident-etl/internal/domain"
)

// Writer produces normalized events to the Kafka sink topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishEvents serializes and publishes one snapshot's events in a single
// WriteMessages call. The run ID header lets consumers group messages
// belonging to the same refresh pass.
func (w *Writer) PublishEvents(ctx context.Context, runID string, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(runID, events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Event into a Kafka message keyed by the
// event ID, so duplicate publishes of the same row compact away.
func serializeToMessage(runID string, event domain.Event) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize event %s: %w", event.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "category", Value: []byte(event.Category)},
			{Key: "source_format", Value: []byte(event.SourceFormat)},
			{Key: "run_id", Value: []byte(runID)},
		},
	}, nil
}
