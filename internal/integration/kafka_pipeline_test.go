//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/patrolwatch/incident-etl/internal/adapter/kafka"
	"github.com/patrolwatch/incident-etl/internal/config"
	"github.com/patrolwatch/incident-etl/internal/domain"
)

const testSinkTopic = "test-normalized-incidents"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("patrol-etl-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// publishedMessage holds a deserialized message read from the sink topic.
type publishedMessage struct {
	Event   domain.Event
	Key     string
	Headers map[string]string
}

func readPublished(ctx context.Context, t *testing.T, consumer *kafkago.Reader) publishedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var event domain.Event
	require.NoError(t, json.Unmarshal(msg.Value, &event), "unmarshal sink message")

	return publishedMessage{Event: event, Key: string(msg.Key), Headers: headers}
}

// TestWriterPublishesSnapshot verifies the sink adapter round-trips a full
// refresh pass through real Kafka with Thai field values intact.
func TestWriterPublishesSnapshot(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testSinkTopic,
	}

	rows := []domain.RawRow{
		{
			{Label: "วันที่", Value: "10/05/2569"},
			{Label: "เวลา", Value: "08.30"},
			{Label: "กก.", Value: "กก.8"},
			{Label: "ส.ทล.", Value: "ส.ทล.3"},
			{Label: "จุดเกิดเหตุ", Value: "กม.45+200 ขาออก"},
			{Label: "เหตุการณ์สำคัญ", Value: "รถบรรทุกเสียหลัก"},
		},
		{
			{Label: "วันที่", Value: "10/05/2569"},
			{Label: "เวลา", Value: "09.00"},
			{Label: "กก.", Value: "กก.1"},
			{Label: "สถานที่", Value: "ทล.35 มุ่งหน้า สมุทรสาคร"},
		},
	}
	events := domain.AssembleEvents(rows, domain.SourceSafety)
	require.Len(t, events, 2)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	runID := fmt.Sprintf("run-%d", time.Now().UnixNano())
	require.NoError(t, writer.PublishEvents(ctx, runID, events))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make([]publishedMessage, 0, len(events))
	for len(received) < len(events) {
		received = append(received, readPublished(ctx, t, consumer))
	}

	byKey := make(map[string]publishedMessage, len(received))
	for _, pm := range received {
		byKey[pm.Key] = pm
		assert.Equal(t, runID, pm.Headers["run_id"])
		assert.Equal(t, domain.CategoryAccident, pm.Headers["category"])
		assert.Equal(t, "safety", pm.Headers["source_format"])
	}

	first, ok := byKey["safety-0"]
	require.True(t, ok, "expected safety-0 on sink topic")
	assert.Equal(t, "2026-05-10", first.Event.Date)
	assert.Equal(t, "08:30", first.Event.Time)
	// Division 8 station 3 pins the road to motorway M6.
	assert.Equal(t, "M6", first.Event.Road)
	assert.Equal(t, "45+200", first.Event.Km)
	assert.Equal(t, domain.DirectionOutbound, first.Event.Direction)

	second, ok := byKey["safety-1"]
	require.True(t, ok, "expected safety-1 on sink topic")
	assert.Equal(t, "35", second.Event.Road)
	assert.Equal(t, "สมุทรสาคร", second.Event.Direction)
	assert.Equal(t, domain.Unspecified, second.Event.Km)
}
