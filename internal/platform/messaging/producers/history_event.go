package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bank-account-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// HistoryEventProducer relays committed history events to the history topic.
// Writes are synchronous so the outbox only marks a row processed once the
// broker has acknowledged it.
type HistoryEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewHistoryEventProducer ensures the history topic exists and opens a writer on it
func NewHistoryEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*HistoryEventProducer, error) {
	if cfg.HistoryTopic == "" {
		return nil, fmt.Errorf("kafka history topic is not configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for history event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.HistoryTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure history topic %s exists: %w", cfg.HistoryTopic, err)
	}

	// Keyed by history id; the hash balancer keeps redeliveries of one event on one partition
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.HistoryTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &HistoryEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.HistoryTopic,
	}, nil
}

// Publish marshals value to JSON. A json.RawMessage is written as is.
func (p *HistoryEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal history event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish history event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish history event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published history event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *HistoryEventProducer) Close() error {
	p.logger.Info("Closing history event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
