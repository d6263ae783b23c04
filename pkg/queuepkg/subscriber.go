package queuepkg

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Subscriber reads messages from a topic as part of a consumer group.
type Subscriber struct {
	reader *kafka.Reader
	logger zerolog.Logger
}

// NewSubscriber returns a Subscriber for the given broker, group and topic.
func NewSubscriber(brokerAddress, groupID, topic string, logger zerolog.Logger) *Subscriber {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{brokerAddress},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Debug().Msgf(msg, args...)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Msgf(msg, args...)
		}),
	})

	return &Subscriber{
		reader: reader,
		logger: logger,
	}
}

// Receive blocks until the next message is available and returns its value.
// The message offset is committed before returning.
func (s *Subscriber) Receive(ctx context.Context) ([]byte, error) {
	msg, err := s.reader.ReadMessage(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("topic", msg.Topic).
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Msg("message received")

	return msg.Value, nil
}

// Close closes the underlying reader.
func (s *Subscriber) Close() error {
	return s.reader.Close()
}
