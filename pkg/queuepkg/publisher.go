// Package queuepkg wraps the Kafka client with the app's logging and timeouts.
package queuepkg

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Publisher writes messages to a single topic.
type Publisher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewPublisher returns a Publisher for the given broker and topic.
func NewPublisher(brokerAddress, topic string, logger zerolog.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerAddress),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug().Msgf(msg, args...)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Msgf(msg, args...)
		}),
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// Publish writes one keyed message. The write is bounded by the writer's
// timeout; the caller decides whether and how to retry.
func (p *Publisher) Publish(ctx context.Context, key string, value []byte) error {
	publishCtx, cancel := context.WithTimeout(ctx, p.writer.WriteTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}

	if err := p.writer.WriteMessages(publishCtx, msg); err != nil {
		return fmt.Errorf("failed to publish message to %s: %w", p.writer.Topic, err)
	}

	p.logger.Debug().
		Str("topic", p.writer.Topic).
		Str("key", key).
		Msg("message published")

	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
