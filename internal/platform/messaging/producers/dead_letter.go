// Package producers contains Kafka producers. The settlement service only
// writes to Kafka: exhausted transfer intents go to an operational
// dead-letter topic so operators can alert on them and decide whether to
// reset them to PENDING.
package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ewallet-settlement/internal/config"
	"github.com/ewallet-settlement/internal/domain/queue"
)

// KafkaWriter wraps kafka.Writer methods for testing
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DeadLetterProducer publishes intents that exhausted their retry budget
type DeadLetterProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewDeadLetterProducer creates a producer for the dead-letter topic.
// Returns nil producer if cfg.DeadLetterTopic is empty (publishing disabled).
func NewDeadLetterProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*DeadLetterProducer, error) {
	if cfg.DeadLetterTopic == "" {
		logger.Info("Dead-letter topic is not configured, producer disabled.")
		return nil, nil
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for dead-letter producer: %w", err)
	}
	defer conn.Close()

	if err := createKafkaTopicIfNotExists(conn, cfg.DeadLetterTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger); err != nil {
		return nil, fmt.Errorf("failed to ensure dead-letter topic %s exists: %w", cfg.DeadLetterTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.DeadLetterTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &DeadLetterProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.DeadLetterTopic,
	}, nil
}

// PublishExhausted publishes a FAILED intent with the error that exhausted
// its last attempt. The message key is the transfer ID, so replays of the
// topic stay ordered per transfer.
func (p *DeadLetterProducer) PublishExhausted(ctx context.Context, intent *queue.Intent, reason string) error {
	if p == nil || p.writer == nil {
		return fmt.Errorf("dead-letter producer not initialized")
	}

	payload := struct {
		TransferID  string `json:"transfer_id"`
		FromAccount string `json:"from_account"`
		ToAccount   string `json:"to_account"`
		Amount      int64  `json:"amount"`
		RetryCount  int    `json:"retry_count"`
		Reason      string `json:"reason"`
		Timestamp   string `json:"timestamp"`
	}{
		TransferID:  intent.TransferID.String(),
		FromAccount: intent.FromAccount.String(),
		ToAccount:   intent.ToAccount.String(),
		Amount:      intent.Amount,
		RetryCount:  intent.RetryCount,
		Reason:      reason,
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal dead-letter message: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(intent.TransferID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "reason", Value: []byte(reason)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish exhausted intent",
			"topic", p.topic,
			"transfer_id", intent.TransferID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to publish exhausted intent to %s: %w", p.topic, err)
	}

	p.logger.Info("Published exhausted intent to dead-letter topic",
		"topic", p.topic,
		"transfer_id", intent.TransferID.String(),
		"reason", reason,
	)
	return nil
}

// Close flushes and closes the underlying writer
func (p *DeadLetterProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	p.logger.Info("Closing dead-letter Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close dead-letter kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
