package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"freshharvest/config"
	"freshharvest/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

const defaultKafkaWriteTimeout = 10 * time.Second

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaPublisher implements EventPublisher on a Kafka topic. Messages are keyed
// by farmer so one farmer's listing events land on one partition.
type kafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher creates a synchronous Kafka publisher.
func NewKafkaPublisher(cfg *config.KafkaConfig, logger *slog.Logger) service.EventPublisher {
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultKafkaWriteTimeout
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  1,
		WriteTimeout: timeout,
	}

	return newKafkaPublisher(writer, cfg.Topic, logger)
}

func newKafkaPublisher(writer messageWriter, topic string, logger *slog.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

// Publish writes the event as one JSON message.
func (p *kafkaPublisher) Publish(ctx context.Context, event *service.CatalogEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.WithStack(err)
	}

	attributes := eventAttributes(event)
	headers := make([]kafka.Header, 0, len(attributes))
	for key, value := range attributes {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(value)})
	}

	msg := kafka.Message{
		Key:     []byte(event.Key()),
		Value:   data,
		Headers: headers,
		Time:    event.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, "failed to write event to topic %s", p.topic)
	}

	p.logger.DebugContext(ctx, "[Kafka] Event published",
		slog.String("topic", p.topic),
		slog.String("event_id", event.ID),
		slog.String("type", string(event.Type)),
	)

	return nil
}

// Close flushes pending writes and closes broker connections.
func (p *kafkaPublisher) Close() error {
	return errors.WithStack(p.writer.Close())
}
