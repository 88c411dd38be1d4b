// Package kafka provides the document-ingest consumer and producer backed
// by segmentio/kafka-go. Messages are JSON documents; decoding is left to
// the handler so the transport stays schema-agnostic.
package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/nvelichkov/fieldsearch/pkg/config"
)

// MessageHandler is invoked once per fetched message.
type MessageHandler func(ctx context.Context, key, value []byte) error

// Consumer reads messages from the document topic and dispatches them to a
// MessageHandler, committing offsets only after the handler succeeds.
type Consumer struct {
	reader  *kafka.Reader
	handler MessageHandler
	logger  *slog.Logger
}

// NewConsumer creates a Consumer for the configured document topic.
func NewConsumer(cfg config.KafkaConfig, handler MessageHandler) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.DocumentTopic,
		GroupID:     cfg.ConsumerGroup,
		MinBytes:    1e3,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
	return &Consumer{
		reader:  r,
		handler: handler,
		logger:  slog.Default().With("component", "kafka-consumer", "topic", cfg.DocumentTopic),
	}
}

// Start runs the consume loop until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", "reason", ctx.Err())
				return c.reader.Close()
			}
			c.logger.Error("fetch failed", "error", err)
			continue
		}
		if err := c.handler(ctx, msg.Key, msg.Value); err != nil {
			c.logger.Error("message handling failed",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
			// Fall through and commit; malformed documents are dropped
			// rather than replayed forever.
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return c.reader.Close()
			}
			return fmt.Errorf("committing offset %d: %w", msg.Offset, err)
		}
	}
}
